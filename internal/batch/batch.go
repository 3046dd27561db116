package batch

import (
	"context"
	"time"

	"github.com/aleister1102/linkcleaner/internal/config"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// URLCleaner is the part of the engine a batch needs
type URLCleaner interface {
	CleanURL(ctx context.Context, rawURL, strategyID string) (*models.CleanResult, error)
}

// Item is the outcome for one input line, in input order
type Item struct {
	Index  int                 `json:"index"`
	Input  string              `json:"input"`
	Result *models.CleanResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// Summary counts the outcomes of a run
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Processor cleans URL lists with bounded concurrency
type Processor struct {
	cleaner URLCleaner
	config  config.BatchConfig
	logger  zerolog.Logger
}

// NewProcessor creates a batch processor
func NewProcessor(cleaner URLCleaner, cfg config.BatchConfig, logger zerolog.Logger) *Processor {
	return &Processor{
		cleaner: cleaner,
		config:  cfg,
		logger:  logger.With().Str("component", "BatchProcessor").Logger(),
	}
}

// Process cleans every URL and returns one Item per input, in input order.
// Individual failures are recorded on their Item; the returned error is only
// set when ctx ends before all URLs were handled.
func (p *Processor) Process(ctx context.Context, urls []string, strategyID string) ([]Item, Summary, error) {
	start := time.Now()
	items := make([]Item, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.GetEffectiveConcurrency())

	p.logger.Info().
		Int("total_urls", len(urls)).
		Int("concurrency", p.config.GetEffectiveConcurrency()).
		Msg("Starting batch clean")

	for i, rawURL := range urls {
		items[i] = Item{Index: i, Input: rawURL}
		if gCtx.Err() != nil {
			items[i].Error = gCtx.Err().Error()
			continue
		}

		g.Go(func() error {
			items[i] = p.cleanOne(gCtx, i, rawURL, strategyID)
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Total: len(items), Duration: time.Since(start)}
	for _, item := range items {
		if item.Error == "" {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	p.logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("Batch clean completed")

	return items, summary, ctx.Err()
}

func (p *Processor) cleanOne(ctx context.Context, index int, rawURL, strategyID string) Item {
	item := Item{Index: index, Input: rawURL}
	if err := ctx.Err(); err != nil {
		item.Error = err.Error()
		return item
	}

	if timeout := p.config.URLTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := p.cleaner.CleanURL(ctx, rawURL, strategyID)
	if err != nil {
		p.logger.Debug().Err(err).Str("url", rawURL).Msg("URL rejected")
		item.Error = err.Error()
		return item
	}
	item.Result = result
	return item
}
