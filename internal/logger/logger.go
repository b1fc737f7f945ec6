// Package logger provides structured logging setup for the application.
package logger

import (
	"go.uber.org/zap"
)

// Logger wraps a zap.Logger configured for the application.
type Logger struct {
	// Log is the underlying structured logger.
	Log *zap.Logger
}

// New returns a Logger with a no-op core; call Init to activate it.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production logger at the given level ("Debug", "Info",
// "Warn", "Error") and replaces the current core.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = log
	return nil
}
