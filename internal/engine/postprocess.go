package engine

import (
	"sort"

	"github.com/aleister1102/linkcleaner/internal/models"
)

// postProcess runs on every result: the input URL is kept as an alternative,
// the most confident candidate becomes primary, duplicates are dropped and
// no alternative outranks the primary.
func (e *Engine) postProcess(result *models.CleanResult, input string) *models.CleanResult {
	e.ensureOriginalAlternative(result, input)
	return promoteHighestConfidence(result)
}

func (e *Engine) ensureOriginalAlternative(result *models.CleanResult, input string) {
	if result.HasURL(input) {
		return
	}
	result.Alternatives = append(result.Alternatives, models.CleanedURL{
		URL:        input,
		Confidence: e.config.Confidence.OriginalInput,
		Actions:    []string{"Kept original input"},
		Reason:     "Original input URL",
	})
}

// promoteHighestConfidence orders primary and alternatives by confidence.
// The sort is stable so the current primary wins ties.
func promoteHighestConfidence(result *models.CleanResult) *models.CleanResult {
	candidates := make([]models.CleanedURL, 0, len(result.Alternatives)+1)
	candidates = append(candidates, result.Primary)
	candidates = append(candidates, result.Alternatives...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	primary := candidates[0]
	seen := map[string]struct{}{primary.URL: {}}
	alternatives := make([]models.CleanedURL, 0, len(candidates)-1)
	for _, alt := range candidates[1:] {
		if _, dup := seen[alt.URL]; dup {
			continue
		}
		seen[alt.URL] = struct{}{}
		alt.Confidence = min(alt.Confidence, primary.Confidence)
		alternatives = append(alternatives, alt)
	}

	return &models.CleanResult{
		Primary:      primary,
		Alternatives: alternatives,
		Meta:         result.Meta,
	}
}
