package generic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/linkcleaner/internal/config"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/aleister1102/linkcleaner/internal/resolver"
	"github.com/aleister1102/linkcleaner/internal/urlhandler"
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
	"github.com/rs/zerolog"
)

const (
	StrategyID      = "generic"
	ErrorStrategyID = "generic-error"
	Version         = "1.1.0"
)

// Cleaner is the fallback used when no platform strategy applies. It unwraps
// redirector links, follows redirects, strips trackers and ranks candidates.
type Cleaner struct {
	resolver   resolver.Resolver
	opts       resolver.Options
	confidence config.ConfidenceConfig
	logger     zerolog.Logger
}

// NewCleaner creates a generic cleaner
func NewCleaner(res resolver.Resolver, cfg config.EngineConfig, logger zerolog.Logger) *Cleaner {
	return &Cleaner{
		resolver: res,
		opts: resolver.Options{
			MaxDepth: cfg.GenericMaxDepth,
			Timeout:  time.Duration(cfg.GenericTimeoutMs) * time.Millisecond,
		},
		confidence: cfg.Confidence,
		logger:     logger.With().Str("component", "GenericCleaner").Logger(),
	}
}

// Clean never fails: any error or panic yields the input URL at failure
// confidence under the generic-error strategy id.
func (c *Cleaner) Clean(ctx context.Context, rawURL string) (result *models.CleanResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = c.failure(rawURL, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := c.clean(ctx, rawURL, start)
	if err != nil {
		return c.failure(rawURL, err)
	}
	return res
}

func (c *Cleaner) clean(ctx context.Context, rawURL string, start time.Time) (*models.CleanResult, error) {
	input, err := urlhandler.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("url", input).Msg("Generic clean started")

	var actions []string
	working := input
	if extracted := ExtractEmbeddedURL(input); extracted != "" && extracted != input {
		working = extracted
		actions = append(actions, "Extracted destination URL from wrapper link")
		c.logger.Debug().Str("url", input).Str("extracted", extracted).Msg("Unwrapped embedded destination")
	}

	redirectStart := time.Now()
	redirect := c.resolver.Resolve(ctx, working, c.opts)
	redirectMs := time.Since(redirectStart).Milliseconds()
	if redirect.Success && len(redirect.Chain) > 0 {
		working = redirect.FinalURL
		actions = append(actions, hopsAction(redirect.Hops()))
	} else {
		actions = append(actions, "Redirect resolution failed or incomplete")
		c.logger.Debug().Str("url", working).Str("error", redirect.Error).Msg("Redirect resolution failed")
	}

	u, err := urlhandler.ParseHTTPURL(working)
	if err != nil {
		return nil, err
	}
	original := urlhandler.QueryParams(u)

	var kept []urlhandler.QueryParam
	var removed []string
	for _, p := range original {
		if IsTrackingParam(p.Name) {
			removed = append(removed, p.Name)
			continue
		}
		kept = append(kept, p)
	}
	if len(removed) > 0 {
		actions = append(actions,
			fmt.Sprintf("Removed %d tracking parameters", len(removed)),
			"Removed tracking parameters: "+strings.Join(removed, ", "))
	}

	urlhandler.SetQueryParams(u, normalizeParams(kept))
	if path := u.Pathname(); len(path) > 1 && strings.HasSuffix(path, "/") {
		u.SetPathname(strings.TrimSuffix(path, "/"))
	}
	actions = append(actions, "Normalized URL structure")

	cleaned := u.Href(false)
	originalCount := distinctNames(original)
	cleanedConfidence := c.score(u, originalCount)
	paramFree := urlhandler.OriginAndPath(u)

	alternatives := c.buildAlternatives(u, original, cleanedConfidence)
	if paramFree != cleaned {
		alternatives = appendIfAbsent(alternatives, models.CleanedURL{
			URL:        paramFree,
			Confidence: cleanedConfidence,
			Actions:    []string{"Removed all parameters and fragments"},
			Reason:     "Parameter-free canonical",
		})
	}
	if input != cleaned {
		alternatives = appendIfAbsent(alternatives, models.CleanedURL{
			URL:        input,
			Confidence: c.confidence.OriginalReference,
			Actions:    []string{"Kept original input for reference"},
			Reason:     "Original input URL",
		})
	}
	for _, hop := range redirect.Chain {
		alternatives = appendIfAbsent(alternatives, models.CleanedURL{
			URL:        hop,
			Confidence: c.confidence.RedirectHop,
			Actions:    []string{"Observed during redirect resolution"},
			Reason:     "Redirect hop considered",
		})
	}

	primaryURL := cleaned
	primaryParsed := u
	if remaining := urlhandler.QueryParams(u); len(remaining) > 0 && allNonEssential(remaining) {
		primaryURL = paramFree
		primaryParsed, err = urlhandler.ParseHTTPURL(paramFree)
		if err != nil {
			return nil, err
		}
		actions = append(actions, "Promoted parameter-free canonical to primary (non-essential params only)")
		alternatives = appendIfAbsent(alternatives, models.CleanedURL{
			URL:        cleaned,
			Confidence: cleanedConfidence * c.confidence.DemotionFactor,
			Actions:    []string{"Kept cleaned URL with non-essential params as fallback"},
			Reason:     "With non-essential parameters",
		})
	}

	primaryConfidence := c.score(primaryParsed, originalCount)
	alternatives = capAndDedupe(alternatives, primaryURL, primaryConfidence)

	primary := models.CleanedURL{
		URL:        primaryURL,
		Confidence: primaryConfidence,
		Actions:    actions,
	}
	if len(redirect.Chain) > 0 {
		primary.RedirectionChain = redirect.Chain
	}

	total := time.Since(start).Milliseconds()
	c.logger.Debug().Str("url", input).Str("primary", primaryURL).Float64("confidence", primaryConfidence).Int("alternatives", len(alternatives)).Msg("Generic clean finished")

	return &models.CleanResult{
		Primary:      primary,
		Alternatives: alternatives,
		Meta: models.CleanMeta{
			Domain:          u.Hostname(),
			StrategyID:      StrategyID,
			StrategyVersion: Version,
			Timing: models.TimingMetrics{
				TotalMs:      total,
				RedirectMs:   redirectMs,
				ProcessingMs: total - redirectMs,
			},
			AppliedAt: time.Now().UTC(),
		},
	}, nil
}

// buildAlternatives returns the essential-parameter variant: originally
// present content-essential parameters that stripping removed are re-added.
func (c *Cleaner) buildAlternatives(cleaned *whatwgUrl.Url, original []urlhandler.QueryParam, cleanedConfidence float64) []models.CleanedURL {
	variant := urlhandler.CloneURL(cleaned)
	current := urlhandler.QueryParams(variant)
	present := make(map[string]struct{}, len(current))
	for _, p := range current {
		present[p.Name] = struct{}{}
	}

	readded := 0
	for _, p := range original {
		if _, ok := present[p.Name]; ok || !IsContentEssential(p.Name) {
			continue
		}
		current = append(current, p)
		present[p.Name] = struct{}{}
		readded++
	}
	if readded == 0 {
		return nil
	}
	urlhandler.SetQueryParams(variant, current)

	return []models.CleanedURL{{
		URL:        variant.Href(false),
		Confidence: min(c.confidence.EssentialCap, cleanedConfidence),
		Actions:    []string{"Preserved essential parameters"},
		Reason:     fmt.Sprintf("Kept %d content-essential parameters", readded),
	}}
}

// score implements the generic confidence formula. originalCount is the
// parameter count before tracker stripping.
func (c *Cleaner) score(u *whatwgUrl.Url, originalCount int) float64 {
	remaining := len(urlhandler.QueryParams(u))
	if u.Pathname() == "/" && remaining == 0 {
		return 1.0
	}
	if originalCount == 0 {
		return 1.0
	}
	if remaining == 0 {
		return c.confidence.AllRemoved
	}
	ratio := float64(originalCount-remaining) / float64(originalCount)
	confidence := 0.5 + 0.4*ratio
	if ratio > 0.7 {
		confidence += 0.1
	}
	return clamp(confidence)
}

func (c *Cleaner) failure(rawURL string, err error) *models.CleanResult {
	c.logger.Warn().Str("url", rawURL).Err(err).Msg("Generic clean failed, returning original URL")
	return &models.CleanResult{
		Primary: models.CleanedURL{
			URL:        rawURL,
			Confidence: c.confidence.Failure,
			Actions:    []string{"Processing failed, returned original URL"},
			Reason:     err.Error(),
		},
		Alternatives: []models.CleanedURL{},
		Meta: models.CleanMeta{
			Domain:          urlhandler.Hostname(rawURL),
			StrategyID:      ErrorStrategyID,
			StrategyVersion: Version,
			AppliedAt:       time.Now().UTC(),
		},
	}
}

// normalizeParams drops empty values, keeps the first value per name and
// sorts by name.
func normalizeParams(params []urlhandler.QueryParam) []urlhandler.QueryParam {
	seen := make(map[string]struct{}, len(params))
	out := make([]urlhandler.QueryParam, 0, len(params))
	for _, p := range params {
		if strings.TrimSpace(p.Value) == "" {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return urlhandler.SortQueryParams(out)
}

func distinctNames(params []urlhandler.QueryParam) int {
	names := make(map[string]struct{}, len(params))
	for _, p := range params {
		names[p.Name] = struct{}{}
	}
	return len(names)
}

func allNonEssential(params []urlhandler.QueryParam) bool {
	for _, p := range params {
		if IsContentEssential(p.Name) {
			return false
		}
	}
	return true
}

func hopsAction(hops int) string {
	if hops > 0 {
		return fmt.Sprintf("Followed %d redirects", hops)
	}
	return "No redirects"
}

func appendIfAbsent(list []models.CleanedURL, candidate models.CleanedURL) []models.CleanedURL {
	for _, existing := range list {
		if existing.URL == candidate.URL {
			return list
		}
	}
	return append(list, candidate)
}

// capAndDedupe removes entries equal to the primary URL and caps the rest at
// the primary confidence.
func capAndDedupe(list []models.CleanedURL, primaryURL string, primaryConfidence float64) []models.CleanedURL {
	out := make([]models.CleanedURL, 0, len(list))
	for _, alt := range list {
		if alt.URL == primaryURL {
			continue
		}
		alt.Confidence = min(alt.Confidence, primaryConfidence)
		out = append(out, alt)
	}
	return out
}

func clamp(v float64) float64 {
	return max(0, min(1, v))
}
