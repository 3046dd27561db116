package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, 10, cfg.ResolverConfig.MaxDepth)
	assert.Equal(t, 8000, cfg.ResolverConfig.TimeoutMs)
	assert.Equal(t, int64(512*1024), cfg.ResolverConfig.MaxBodyBytes)
	assert.Equal(t, "curl/8.4.0", cfg.ResolverConfig.UserAgent)
	assert.Equal(t, "Mozilla/5.0", cfg.ResolverConfig.BrowserUserAgent)
	assert.Equal(t, []string{"lnkd.in"}, cfg.ResolverConfig.InterstitialHosts)
	assert.Equal(t, 5, cfg.EngineConfig.FallbackMaxDepth)
	assert.Equal(t, 4, cfg.BatchConfig.Concurrency)
	assert.InDelta(t, 0.55, cfg.EngineConfig.Confidence.OriginalReference, 1e-9)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	configData := `{
		"log_config": {"log_level": "debug"},
		"resolver_config": {"max_depth": 3, "user_agent": "test-agent"},
		"batch_config": {"concurrency": 8}
	}`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, 3, cfg.ResolverConfig.MaxDepth)
	assert.Equal(t, "test-agent", cfg.ResolverConfig.UserAgent)
	assert.Equal(t, 8000, cfg.ResolverConfig.TimeoutMs, "unset values keep defaults")
	assert.Equal(t, 8, cfg.BatchConfig.Concurrency)
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	configData := `
log_config:
  log_format: json
resolver_config:
  timeout_ms: 2500
  interstitial_hosts:
    - lnkd.in
    - t.co
engine_config:
  fallback_max_depth: 3
  confidence:
    original_input: 0.65
`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogConfig.LogFormat)
	assert.Equal(t, 2500, cfg.ResolverConfig.TimeoutMs)
	assert.Equal(t, []string{"lnkd.in", "t.co"}, cfg.ResolverConfig.InterstitialHosts)
	assert.Equal(t, 3, cfg.EngineConfig.FallbackMaxDepth)
	assert.InDelta(t, 0.65, cfg.EngineConfig.Confidence.OriginalInput, 1e-9)
	assert.InDelta(t, 0.8, cfg.EngineConfig.Confidence.StrategyBase, 1e-9)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_InvalidContent(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("resolver_config: [not, a, map"), 0644))

	_, err := LoadGlobalConfig(configFile, zerolog.Nop())
	assert.Error(t, err)
}

func TestGetConfigPath_EnvVar(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("{}"), 0644))
	t.Setenv(ConfigPathEnvVar, configFile)

	assert.Equal(t, configFile, GetConfigPath(""))

	flagFile := filepath.Join(t.TempDir(), "flag.json")
	require.NoError(t, os.WriteFile(flagFile, []byte("{}"), 0644))
	assert.Equal(t, flagFile, GetConfigPath(flagFile))
}
