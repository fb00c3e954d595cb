package utils

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger     *zap.Logger
	loggerOnce sync.Once
)

// InitLogger builds the process logger. APP_ENV=development selects the
// console encoder and LOG_LEVEL (debug, info, warn, error) sets the level.
func InitLogger() {
	cfg := zap.NewProductionConfig()
	if os.Getenv("APP_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	Logger = logger
}

func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		if Logger == nil {
			InitLogger()
		}
	})
	return Logger
}
