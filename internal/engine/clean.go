package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/aleister1102/linkcleaner/internal/generic"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/aleister1102/linkcleaner/internal/resolver"
	"github.com/aleister1102/linkcleaner/internal/urlhandler"
)

// Strategy ids reported in CleanResult.Meta when no catalog strategy produced
// the result.
const (
	GenericID                = "generic"
	GenericPartialID         = "generic-partial"
	GenericFallbackID        = "generic-fallback"
	GenericFallbackPartialID = "generic-fallback-partial"
	fallbackVersion          = "1.0.0"
)

var aggressiveParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term"}

// strategyOutcome is what processing a URL with one strategy yields before
// meta data and post-processing are attached.
type strategyOutcome struct {
	primary      models.CleanedURL
	alternatives []models.CleanedURL
	redirectMs   int64
}

// CleanURL cleans rawURL with the strategy named by strategyID, or with the
// strategy matching its hostname when strategyID is empty. The only error is
// an unparsable input URL; every other failure degrades to a generic result.
func (e *Engine) CleanURL(ctx context.Context, rawURL, strategyID string) (*models.CleanResult, error) {
	start := time.Now()
	input, err := urlhandler.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	domain := urlhandler.Hostname(input)

	var strategy *models.Strategy
	if strategyID != "" {
		strategy = e.lookup(strategyID)
		e.logger.Debug().Str("strategy_id", strategyID).Bool("found", strategy != nil).Msg("Strategy requested")
	} else {
		strategy = e.findMatching(domain)
		e.logger.Debug().Str("domain", domain).Str("strategy_id", idOf(strategy)).Msg("Strategy matched by domain")
	}

	var result *models.CleanResult
	if strategy == nil || !strategy.Enabled {
		result = e.fallback(ctx, input, start, GenericID, GenericPartialID)
	} else {
		outcome, err := e.processWithStrategy(ctx, input, strategy)
		if err != nil {
			e.logger.Error().Err(err).Str("strategy_id", strategy.ID).Str("url", input).Msg("Error processing with strategy")
			result = e.fallback(ctx, input, start, GenericFallbackID, GenericFallbackPartialID)
		} else {
			result = e.assemble(outcome, domain, strategy.ID, strategy.Version, start, 0)
		}
	}

	final := e.postProcess(result, input)
	e.logger.Debug().
		Str("url", input).
		Str("strategy_id", final.Meta.StrategyID).
		Str("primary", final.Primary.URL).
		Float64("confidence", final.Primary.Confidence).
		Float64("max_alternative", final.MaxAlternativeConfidence()).
		Msg("URL cleaned")
	return final, nil
}

// Preview returns what CleanURL would produce. The engine has no side
// effects, so both share one code path.
func (e *Engine) Preview(ctx context.Context, rawURL, strategyID string) (*models.CleanResult, error) {
	return e.CleanURL(ctx, rawURL, strategyID)
}

// fallback resolves the input, re-evaluates every hop against the catalog
// and otherwise cleans the final hop generically. A panic on this path ends
// in a generic clean of the input without redirects.
func (e *Engine) fallback(ctx context.Context, input string, start time.Time, id, partialID string) (result *models.CleanResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().Str("url", input).Interface("panic", r).Msg("Falling back to generic without redirects")
			result = e.genericResult(e.generic.Clean(ctx, input), urlhandler.Hostname(input), id, start, 0)
		}
	}()

	opts := resolver.Options{
		MaxDepth: e.config.FallbackMaxDepth,
		Timeout:  time.Duration(e.config.FallbackTimeoutMs) * time.Millisecond,
	}
	redirectStart := time.Now()
	redirect := e.resolver.Resolve(ctx, input, opts)
	redirectMs := time.Since(redirectStart).Milliseconds()
	e.logger.Debug().
		Str("url", input).
		Bool("success", redirect.Success).
		Str("final_url", redirect.FinalURL).
		Int("hops", redirect.Hops()).
		Str("error", redirect.Error).
		Msg("Fallback redirect resolve")

	chain := redirect.Chain
	if len(chain) == 0 {
		chain = []string{input}
	}

	for _, candidate := range chain {
		domain := urlhandler.Hostname(candidate)
		if domain == "" {
			continue
		}
		matched := e.findMatching(domain)
		e.logger.Debug().Str("candidate", candidate).Str("strategy_id", idOf(matched)).Msg("Fallback chain candidate")
		if matched == nil || !matched.Enabled {
			continue
		}
		outcome, err := e.processWithStrategy(ctx, candidate, matched)
		if err != nil {
			e.logger.Debug().Err(err).Str("candidate", candidate).Msg("Ignoring chain candidate")
			continue
		}
		return e.assemble(outcome, domain, matched.ID, matched.Version, start, redirectMs)
	}

	target := redirect.FinalURL
	if target == "" {
		target = input
	}
	cleaned := e.generic.Clean(ctx, target)

	if !redirect.Success {
		e.logger.Warn().Str("error", redirect.Error).Str("target_url", target).Msg("Redirect tracing error")
		cleaned.Primary.RedirectionChain = chain
		hops := "No redirects"
		if len(chain) > 1 {
			hops = fmt.Sprintf("Followed %d redirects (partial)", len(chain)-1)
		}
		cleaned.Primary.Actions = append(cleaned.Primary.Actions, hops, "Redirect tracing error: "+orUnknown(redirect.Error))
		return e.genericResult(cleaned, urlhandler.Hostname(target), partialID, start, redirectMs)
	}

	e.logger.Debug().Str("target_url", target).Msg("Fallback generic applied")
	return e.genericResult(cleaned, urlhandler.Hostname(target), id, start, redirectMs)
}

// processWithStrategy follows redirects when the strategy asks for it, then
// applies the strategy rules. Panics are returned as errors.
func (e *Engine) processWithStrategy(ctx context.Context, rawURL string, s *models.Strategy) (outcome *strategyOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("strategy %s panicked: %v", s.ID, r)
		}
	}()

	var actions []string
	var chain []string
	var redirectMs int64
	current := rawURL

	if s.RedirectPolicy.Follow {
		opts := resolver.Options{
			MaxDepth:       s.RedirectPolicy.MaxDepth,
			Timeout:        time.Duration(s.RedirectPolicy.TimeoutMs) * time.Millisecond,
			AllowedSchemes: s.RedirectPolicy.AllowedSchemes,
		}
		redirectStart := time.Now()
		redirect := e.resolver.Resolve(ctx, current, opts)
		redirectMs = time.Since(redirectStart).Milliseconds()
		e.logger.Debug().
			Str("strategy_id", s.ID).
			Bool("success", redirect.Success).
			Int("hops", redirect.Hops()).
			Str("error", redirect.Error).
			Msg("Redirect resolve")

		if len(redirect.Chain) > 0 {
			current = redirect.Chain[len(redirect.Chain)-1]
			chain = redirect.Chain
			if hops := redirect.Hops(); hops > 0 {
				actions = append(actions, fmt.Sprintf("Followed %d redirects", hops))
			} else {
				actions = append(actions, "No redirects")
			}
		} else {
			actions = append(actions, "No redirects observed")
		}
	}

	processed, err := e.processor.Process(current, s)
	if err != nil {
		return nil, err
	}
	actions = append(actions, "Applied strategy rules")

	return &strategyOutcome{
		primary: models.CleanedURL{
			URL:              processed,
			Confidence:       e.strategyConfidence(processed, s),
			Actions:          actions,
			RedirectionChain: chain,
		},
		alternatives: e.strategyAlternatives(rawURL, processed),
		redirectMs:   redirectMs,
	}, nil
}

// strategyAlternatives offers a variant without common UTM parameters and the
// URL the strategy started from.
func (e *Engine) strategyAlternatives(original, processed string) []models.CleanedURL {
	var alternatives []models.CleanedURL

	if u, err := urlhandler.ParseHTTPURL(processed); err == nil {
		params := urlhandler.QueryParams(u)
		kept := params[:0:0]
		for _, p := range params {
			if !containsString(aggressiveParams, p.Name) {
				kept = append(kept, p)
			}
		}
		if len(kept) != len(params) {
			urlhandler.SetQueryParams(u, kept)
			alternatives = append(alternatives, models.CleanedURL{
				URL:        u.Href(false),
				Confidence: e.config.Confidence.AggressiveVariant,
				Actions:    []string{"Removed additional UTM parameters"},
				Reason:     "More aggressive parameter removal",
			})
		}
	}

	if original != processed {
		alternatives = append(alternatives, models.CleanedURL{
			URL:        original,
			Confidence: e.config.Confidence.OriginalReference,
			Actions:    []string{"Kept original input for reference"},
			Reason:     "Original input URL",
		})
	}
	return alternatives
}

func (e *Engine) strategyConfidence(processed string, s *models.Strategy) float64 {
	c := e.config.Confidence
	confidence := c.StrategyBase
	if s.HasExactMatcher() {
		confidence += c.ExactMatchBonus
	}

	count := 0
	if u, err := urlhandler.ParseHTTPURL(processed); err == nil {
		count = len(urlhandler.QueryParams(u))
	}
	switch {
	case count == 0:
		confidence += c.NoParamsBonus
	case count > c.ManyParamsThreshold:
		confidence -= c.ManyParamsPenalty
	}
	return max(0, min(1, confidence))
}

func (e *Engine) assemble(o *strategyOutcome, domain, id, version string, start time.Time, extraRedirectMs int64) *models.CleanResult {
	return &models.CleanResult{
		Primary:      o.primary,
		Alternatives: o.alternatives,
		Meta: models.CleanMeta{
			Domain:          domain,
			StrategyID:      id,
			StrategyVersion: version,
			Timing:          timing(start, o.redirectMs+extraRedirectMs),
			AppliedAt:       time.Now().UTC(),
		},
	}
}

// genericResult re-labels a generic clean with the fallback id. A generic
// failure keeps its own error id.
func (e *Engine) genericResult(cleaned *models.CleanResult, domain, id string, start time.Time, redirectMs int64) *models.CleanResult {
	meta := models.CleanMeta{
		Domain:          domain,
		StrategyID:      id,
		StrategyVersion: fallbackVersion,
		Timing:          timing(start, redirectMs+cleaned.Meta.Timing.RedirectMs),
		AppliedAt:       time.Now().UTC(),
	}
	if cleaned.Meta.StrategyID == generic.ErrorStrategyID {
		meta.StrategyID = cleaned.Meta.StrategyID
		meta.StrategyVersion = cleaned.Meta.StrategyVersion
	}
	return &models.CleanResult{
		Primary:      cleaned.Primary,
		Alternatives: cleaned.Alternatives,
		Meta:         meta,
	}
}

func timing(start time.Time, redirectMs int64) models.TimingMetrics {
	total := time.Since(start).Milliseconds()
	return models.TimingMetrics{
		TotalMs:      total,
		RedirectMs:   redirectMs,
		ProcessingMs: max(0, total-redirectMs),
	}
}

func idOf(s *models.Strategy) string {
	if s == nil {
		return "none"
	}
	return s.ID
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
