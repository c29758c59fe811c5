// Package logging builds the structured zap logger shared by every
// component that can observe a recoverable error during a sync pass.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the logger's verbosity and encoding. Tagged for
// internal/config's reflection-driven default binding, same as every
// other leaf config struct.
type Config struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level" default:"info"`
	// Format is "console" (human-friendly, for the CLI) or "json".
	Format string `mapstructure:"format" default:"console"`
}

// New builds a zap.Logger from cfg. A "debug" level gets
// NewDevelopmentConfig (ISO8601 timestamps); anything else gets
// NewProductionConfig.
func New(cfg Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Level == "debug" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		if cfg.Level != "" {
			if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
				zcfg.Level = zap.NewAtomicLevelAt(lvl)
			}
		}
	}

	if cfg.Format == "console" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.DisableStacktrace = true
	} else {
		zcfg.Encoding = "json"
	}

	zcfg.EncoderConfig.LevelKey = "level"
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.MessageKey = "message"

	return zcfg.Build()
}

// NewNop returns a logger that discards everything, for tests and for
// library callers that do not want any output.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
