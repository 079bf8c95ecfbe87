// Package logging builds the application's zap logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for mode ("production"/"release" or anything else for
// development) at the given level. An empty level means info.
func New(mode, level string) (*zap.Logger, error) {
	var config zap.Config

	switch strings.ToLower(mode) {
	case "production", "release":
		config = zap.NewProductionConfig()
	default:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// Sync flushes l, ignoring the errors stderr returns on some platforms.
func Sync(l *zap.Logger) {
	if l != nil {
		_ = l.Sync()
	}
}
