package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New construye el logger de la aplicación.
// En "prod" se usa salida JSON; en cualquier otro entorno, el formato de desarrollo.
func New(level, env string) (*zap.Logger, error) {
	var zapConfig zap.Config

	if env == "prod" || env == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if level == "" {
		level = "info"
	}

	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zapConfig.Level = zap.NewAtomicLevelAt(parsedLevel)

	return zapConfig.Build()
}
