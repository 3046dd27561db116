package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/aleister1102/linkcleaner/internal/config"
	"github.com/aleister1102/linkcleaner/internal/generic"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/aleister1102/linkcleaner/internal/processor"
	"github.com/aleister1102/linkcleaner/internal/resolver"
	"github.com/aleister1102/linkcleaner/internal/strategies"
	"github.com/rs/zerolog"
)

// Engine picks a strategy for a URL, applies it and ranks the candidates.
// The strategy map is shared by concurrent CleanURL calls; every other piece
// of state is per call.
type Engine struct {
	mu         sync.RWMutex
	strategies map[string]*models.Strategy

	resolver  resolver.Resolver
	processor *processor.URLProcessor
	generic   *generic.Cleaner
	config    config.EngineConfig
	logger    zerolog.Logger
}

// AddStrategy validates s and stores a copy under its id, replacing any
// strategy with the same id.
func (e *Engine) AddStrategy(s *models.Strategy) error {
	if err := strategies.Validate(s); err != nil {
		return err
	}
	stored := s.Clone()
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}

	e.mu.Lock()
	e.strategies[stored.ID] = stored
	e.mu.Unlock()

	e.logger.Debug().Str("strategy_id", stored.ID).Int("priority", stored.Priority).Msg("Strategy added")
	return nil
}

// RemoveStrategy deletes the strategy and reports whether it existed.
func (e *Engine) RemoveStrategy(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.strategies[id]
	delete(e.strategies, id)
	return ok
}

// GetStrategy returns a copy of the strategy with the given id.
func (e *Engine) GetStrategy(id string) (*models.Strategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.strategies[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// UpdateStrategy applies mutate to a copy of the stored strategy, validates
// the result and stores it with a fresh UpdatedAt. The id cannot change.
func (e *Engine) UpdateStrategy(id string, mutate func(*models.Strategy)) (*models.Strategy, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.strategies[id]
	if !ok {
		return nil, errorwrapper.WrapError(errorwrapper.ErrStrategyNotFound, id)
	}

	updated := current.Clone()
	mutate(updated)
	updated.ID = id
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := strategies.Validate(updated); err != nil {
		return nil, err
	}

	e.strategies[id] = updated
	return updated.Clone(), nil
}

// GetAllStrategies returns copies of every strategy by descending priority,
// ties broken by id.
func (e *Engine) GetAllStrategies() []*models.Strategy {
	sorted := e.sortedStrategies()
	out := make([]*models.Strategy, len(sorted))
	for i, s := range sorted {
		out[i] = s.Clone()
	}
	return out
}

// ListStrategies pages through GetAllStrategies, optionally filtered on the
// enabled flag. Pages start at 1; a non-positive limit returns everything.
func (e *Engine) ListStrategies(enabled *bool, page, limit int) ([]*models.Strategy, int) {
	var filtered []*models.Strategy
	for _, s := range e.GetAllStrategies() {
		if enabled != nil && s.Enabled != *enabled {
			continue
		}
		filtered = append(filtered, s)
	}

	total := len(filtered)
	if limit <= 0 {
		return filtered, total
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return []*models.Strategy{}, total
	}
	end := min(start+limit, total)
	return filtered[start:end], total
}

// FindMatchingStrategy returns the highest-priority strategy, enabled or not,
// with a matcher accepting domain.
func (e *Engine) FindMatchingStrategy(domain string) (*models.Strategy, bool) {
	s := e.findMatching(domain)
	if s == nil {
		return nil, false
	}
	return s.Clone(), true
}

func (e *Engine) findMatching(domain string) *models.Strategy {
	for _, s := range e.sortedStrategies() {
		if strategies.MatchesDomain(s, domain) {
			return s
		}
	}
	return nil
}

func (e *Engine) lookup(id string) *models.Strategy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.strategies[id]
}

// sortedStrategies returns the stored pointers. Stored strategies are never
// mutated in place, so callers may read them without holding the lock.
func (e *Engine) sortedStrategies() []*models.Strategy {
	e.mu.RLock()
	list := make([]*models.Strategy, 0, len(e.strategies))
	for _, s := range e.strategies {
		list = append(list, s)
	}
	e.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority > list[j].Priority
		}
		return list[i].ID < list[j].ID
	})
	return list
}
