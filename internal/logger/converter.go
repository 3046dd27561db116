package logger

import (
	"github.com/aleister1102/linkcleaner/internal/config"
)

// ConfigConverter converts config.LogConfig to LoggerConfig
type ConfigConverter struct {
	levelParser  *LogLevelParser
	formatParser *LogFormatParser
}

// NewConfigConverter creates a new config converter
func NewConfigConverter() *ConfigConverter {
	return &ConfigConverter{
		levelParser:  NewLogLevelParser(),
		formatParser: NewLogFormatParser(),
	}
}

// ConvertConfig converts application config to logger config. An unknown
// level still yields a usable config at info level along with the error.
func (cc *ConfigConverter) ConvertConfig(cfg config.LogConfig) (LoggerConfig, error) {
	level, err := cc.levelParser.ParseLevel(cfg.LogLevel)

	return LoggerConfig{
		Level:         level,
		Format:        cc.formatParser.ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     orDefault(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
		MaxBackups:    orDefault(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
	}, err
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
