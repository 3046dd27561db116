package engine

import (
	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/aleister1102/linkcleaner/internal/config"
	"github.com/aleister1102/linkcleaner/internal/generic"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/aleister1102/linkcleaner/internal/processor"
	"github.com/aleister1102/linkcleaner/internal/resolver"
	"github.com/aleister1102/linkcleaner/internal/strategies"
	"github.com/rs/zerolog"
)

// EngineBuilder assembles an Engine and its strategy catalog
type EngineBuilder struct {
	cfg        config.EngineConfig
	resolver   resolver.Resolver
	strategies []*models.Strategy
	logger     zerolog.Logger
}

// NewEngineBuilder creates a builder with the default engine configuration
func NewEngineBuilder(logger zerolog.Logger) *EngineBuilder {
	return &EngineBuilder{
		cfg:    config.NewDefaultEngineConfig(),
		logger: logger,
	}
}

// WithConfig sets the engine configuration
func (b *EngineBuilder) WithConfig(cfg config.EngineConfig) *EngineBuilder {
	b.cfg = cfg
	return b
}

// WithResolver sets the redirect resolver shared by strategies and the generic cleaner
func (b *EngineBuilder) WithResolver(r resolver.Resolver) *EngineBuilder {
	b.resolver = r
	return b
}

// WithStrategies adds strategies on top of the configured catalog
func (b *EngineBuilder) WithStrategies(list ...*models.Strategy) *EngineBuilder {
	b.strategies = append(b.strategies, list...)
	return b
}

// Build loads the built-in catalog unless disabled, then the catalog file,
// then strategies given to WithStrategies. Later ids replace earlier ones.
func (b *EngineBuilder) Build() (*Engine, error) {
	if b.resolver == nil {
		return nil, errorwrapper.NewValidationError("resolver", nil, "resolver is required")
	}

	engineLogger := b.logger.With().Str("component", "StrategyEngine").Logger()
	e := &Engine{
		strategies: make(map[string]*models.Strategy),
		resolver:   b.resolver,
		processor:  processor.NewURLProcessor(b.logger),
		generic:    generic.NewCleaner(b.resolver, b.cfg, b.logger),
		config:     b.cfg,
		logger:     engineLogger,
	}

	var all []*models.Strategy
	if !b.cfg.DisableBuiltin {
		builtin, err := strategies.Builtin()
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to load built-in strategies")
		}
		all = append(all, builtin...)
	}
	if b.cfg.CatalogFile != "" {
		loaded, err := strategies.LoadFile(b.cfg.CatalogFile)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to load strategy catalog file")
		}
		all = append(all, loaded...)
	}
	all = append(all, b.strategies...)

	for _, s := range all {
		if err := e.AddStrategy(s); err != nil {
			return nil, err
		}
	}

	engineLogger.Info().Int("strategies", len(e.strategies)).Msg("Strategy engine ready")
	return e, nil
}
