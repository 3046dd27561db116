package models

import "time"

// RedirectResult is produced fresh by every resolve call.
type RedirectResult struct {
	Chain    []string `json:"chain"` // every hop including the start
	FinalURL string   `json:"finalUrl"`
	Success  bool     `json:"success"`
	Error    string   `json:"error,omitempty"`
}

// Hops returns the number of redirects followed.
func (r RedirectResult) Hops() int {
	if len(r.Chain) == 0 {
		return 0
	}
	return len(r.Chain) - 1
}

// CleanedURL is one candidate clean URL.
type CleanedURL struct {
	URL              string   `json:"url"`
	Confidence       float64  `json:"confidence"`
	Actions          []string `json:"actions"`
	RedirectionChain []string `json:"redirectionChain,omitempty"`
	Reason           string   `json:"reason,omitempty"`
}

// TimingMetrics holds durations in milliseconds.
type TimingMetrics struct {
	TotalMs      int64 `json:"totalMs"`
	RedirectMs   int64 `json:"redirectMs"`
	ProcessingMs int64 `json:"processingMs"`
}

// CleanMeta describes how a CleanResult was produced.
type CleanMeta struct {
	Domain          string        `json:"domain"`
	StrategyID      string        `json:"strategyId"`
	StrategyVersion string        `json:"strategyVersion"`
	Timing          TimingMetrics `json:"timing"`
	AppliedAt       time.Time     `json:"appliedAt"`
}

// CleanResult is the ranked output of a clean call. No alternative is more
// confident than Primary.
type CleanResult struct {
	Primary      CleanedURL   `json:"primary"`
	Alternatives []CleanedURL `json:"alternatives"`
	Meta         CleanMeta    `json:"meta"`
}

// HasURL reports whether u is the primary URL or one of the alternatives.
func (r *CleanResult) HasURL(u string) bool {
	if r.Primary.URL == u {
		return true
	}
	for _, alt := range r.Alternatives {
		if alt.URL == u {
			return true
		}
	}
	return false
}

// MaxAlternativeConfidence returns the highest alternative confidence, or 0.
func (r *CleanResult) MaxAlternativeConfidence() float64 {
	highest := 0.0
	for _, alt := range r.Alternatives {
		if alt.Confidence > highest {
			highest = alt.Confidence
		}
	}
	return highest
}
