package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Debug bool
}

// NewLogger builds a JSON production logger; Debug lowers the level and
// turns on development-mode stack traces for warnings.
func NewLogger(cfg *LoggerConfig, options ...zap.Option) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &LoggerConfig{}
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Sampling = nil

	if cfg.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zapConfig.Development = true
	} else {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return zapConfig.Build(options...)
}
