package config

import "time"

// BatchConfig defines configuration for cleaning URL lists
type BatchConfig struct {
	Concurrency    int `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"omitempty,min=1,max=64"`
	URLTimeoutSecs int `json:"url_timeout_secs,omitempty" yaml:"url_timeout_secs,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultBatchConfig creates default batch configuration
func NewDefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Concurrency:    DefaultBatchConcurrency,
		URLTimeoutSecs: DefaultBatchURLTimeoutSecs,
	}
}

// GetEffectiveConcurrency returns the concurrency, never below 1
func (bc BatchConfig) GetEffectiveConcurrency() int {
	if bc.Concurrency <= 0 {
		return DefaultBatchConcurrency
	}
	return bc.Concurrency
}

// URLTimeout returns the outer deadline applied to each URL, or 0 for none
func (bc BatchConfig) URLTimeout() time.Duration {
	if bc.URLTimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(bc.URLTimeoutSecs) * time.Second
}
