// Package logger builds the zap logger shared by the server components.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewNoopLogger provides a logger that discards everything.
func NewNoopLogger() *zap.Logger {
	return zap.NewNop()
}

// NewLogger builds a production zap logger. format is "json" or "text",
// level is one of none, debug, info, warn, error.
func NewLogger(format, level string) (*zap.Logger, error) {
	if level == "none" {
		return NewNoopLogger(), nil
	}

	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zap.DebugLevel
	case "info":
		lvl = zap.InfoLevel
	case "warn":
		lvl = zap.WarnLevel
	case "error":
		lvl = zap.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level: %s", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.CallerKey = ""
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format {
	case "json":
	case "text":
		cfg.Encoding = "console"
		cfg.DisableCaller = true
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", "coolbooks")), nil
}

// MustNewLogger is NewLogger that panics on a bad configuration.
func MustNewLogger(format, level string) *zap.Logger {
	log, err := NewLogger(format, level)
	if err != nil {
		panic(err)
	}
	return log
}
