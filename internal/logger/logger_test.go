package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/linkcleaner/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	_, err := New(config.NewDefaultLogConfig())
	require.NoError(t, err)
}

func TestLoggerBuilder_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "debug"

	l, err := NewLoggerBuilder().WithOutput(&buf).WithConfig(cfg).Build()
	require.NoError(t, err)

	l.GetZerolog().Debug().Str("component", "Test").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "Test", entry["component"])
	assert.Equal(t, "debug", entry["level"])
}

func TestLoggerBuilder_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	l, err := NewLoggerBuilder().WithConfig(cfg).WithOutput(&buf).Build()
	require.NoError(t, err)

	l.GetZerolog().Info().Msg("dropped")
	assert.Zero(t, buf.Len())
	assert.Equal(t, zerolog.WarnLevel, l.Config().Level)
}

func TestLoggerBuilder_InvalidLevel(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "loud"

	_, err := NewLoggerBuilder().WithConfig(cfg).Build()
	assert.Error(t, err)
}

func TestLoggerBuilder_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "linkcleaner.log")
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = logFile
	cfg.LogFormat = "json"

	l, err := NewLoggerBuilder().WithConfig(cfg).WithOutput(&bytes.Buffer{}).Build()
	require.NoError(t, err)

	l.GetZerolog().Info().Msg("to file")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParsers(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLevel zerolog.Level
		wantErr   bool
	}{
		{name: "empty", input: "", wantLevel: zerolog.InfoLevel},
		{name: "upper", input: "DEBUG", wantLevel: zerolog.DebugLevel},
		{name: "trace", input: "trace", wantLevel: zerolog.TraceLevel},
		{name: "unknown", input: "chatty", wantLevel: zerolog.InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := NewLogLevelParser().ParseLevel(tt.input)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}

	assert.Equal(t, FormatJSON, NewLogFormatParser().ParseFormat("JSON"))
	assert.Equal(t, FormatText, NewLogFormatParser().ParseFormat("text"))
	assert.Equal(t, FormatConsole, NewLogFormatParser().ParseFormat("whatever"))
	assert.Equal(t, "console", FormatConsole.String())
}
