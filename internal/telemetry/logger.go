// Package telemetry owns the process-wide zap logger.
package telemetry

import (
	"os"

	"go.uber.org/zap"
)

var globalLogger *zap.Logger

// Init builds a zap logger. Development config (human-readable console
// encoding) is used unless CTX3D_ENV=production, matching the split most
// services in this codebase make between local and deployed logging.
func Init() (*zap.Logger, error) {
	var cfg zap.Config
	if os.Getenv("CTX3D_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	globalLogger = logger
	return logger, nil
}

// L returns the global logger, lazily building a development logger if Init
// was never called (safe default for library callers and tests).
func L() *zap.Logger {
	if globalLogger == nil {
		globalLogger, _ = zap.NewDevelopment()
	}
	return globalLogger
}

// Sync flushes any buffered log entries. Call on process exit.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
