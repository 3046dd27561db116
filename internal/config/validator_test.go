package config

import (
	"testing"

	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *GlobalConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(cfg *GlobalConfig) {}},
		{
			name:    "bad log level",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" },
			wantErr: "loglevel",
		},
		{
			name:    "bad log format",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" },
			wantErr: "logformat",
		},
		{
			name:    "user agent with newline",
			mutate:  func(cfg *GlobalConfig) { cfg.ResolverConfig.UserAgent = "curl\r\nX-Evil: 1" },
			wantErr: "uaoption",
		},
		{
			name:    "depth out of range",
			mutate:  func(cfg *GlobalConfig) { cfg.ResolverConfig.MaxDepth = 0 },
			wantErr: "ResolverConfig.MaxDepth",
		},
		{
			name:    "confidence above one",
			mutate:  func(cfg *GlobalConfig) { cfg.EngineConfig.Confidence.StrategyBase = 1.5 },
			wantErr: "lte",
		},
		{
			name:    "missing catalog file",
			mutate:  func(cfg *GlobalConfig) { cfg.EngineConfig.CatalogFile = "/does/not/exist.yaml" },
			wantErr: "fileexists",
		},
		{
			name:    "bad interstitial host",
			mutate:  func(cfg *GlobalConfig) { cfg.ResolverConfig.InterstitialHosts = []string{"not a host"} },
			wantErr: "hostname",
		},
		{
			name:    "batch concurrency too high",
			mutate:  func(cfg *GlobalConfig) { cfg.BatchConfig.Concurrency = 1000 },
			wantErr: "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.ErrorIs(t, err, errorwrapper.ErrInvalidConfiguration)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}

	assert.Error(t, ValidateConfig(nil))
}

func TestBatchConfig_Effective(t *testing.T) {
	assert.Equal(t, DefaultBatchConcurrency, BatchConfig{}.GetEffectiveConcurrency())
	assert.Equal(t, 7, BatchConfig{Concurrency: 7}.GetEffectiveConcurrency())
	assert.Zero(t, BatchConfig{}.URLTimeout())
	assert.Equal(t, "2s", BatchConfig{URLTimeoutSecs: 2}.URLTimeout().String())
}
