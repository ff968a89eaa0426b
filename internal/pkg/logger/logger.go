package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "trip-linker"

// New создает zap логгер: JSON в production, цветной console при level=debug.
// По умолчанию пишет в stdout; outputPaths заменяет его (например, "stderr",
// когда stdout занят результатом команды).
func New(level string, outputPaths ...string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    map[string]interface{}{"service": serviceName},
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(outputPaths) > 0 {
		config.OutputPaths = outputPaths
	}

	if zapLevel == zapcore.DebugLevel {
		config.Development = true
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build()
}
