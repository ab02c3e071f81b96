package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvironmentVariable overrides the default info level, e.g. TREESNAP_LOG_LEVEL=debug.
const LogLevelEnvironmentVariable = "TREESNAP_LOG_LEVEL"

// NewApplicationLogger constructs a zap logger that prints bare messages and fields to stderr.
func NewApplicationLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if configuredLevel := os.Getenv(LogLevelEnvironmentVariable); configuredLevel != "" {
		if err := level.UnmarshalText([]byte(configuredLevel)); err != nil {
			return nil, fmt.Errorf("%s=%q: %w", LogLevelEnvironmentVariable, configuredLevel, err)
		}
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.Sampling = nil
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig = zapcore.EncoderConfig{
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return config.Build()
}
