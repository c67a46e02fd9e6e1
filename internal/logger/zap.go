package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.SugaredLogger
)

type Logger struct {
	*zap.SugaredLogger
}

func GetLogger() Logger {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		zaplog, _ := zap.NewDevelopment()
		logger = zaplog.Sugar()
	}

	return Logger{SugaredLogger: logger}
}

// Configure replaces the process logger with one writing at the given level
// ("debug", "info", "warn" or "error").
func Configure(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	zaplog, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	logger = zaplog.Sugar()
	mu.Unlock()

	return nil
}
