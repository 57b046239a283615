// Package logging holds the process-wide logger shared by the sophttp
// packages. The default logger writes console-encoded lines to stderr at
// info level; binaries reconfigure it once at startup, tests swap in an
// observed logger via Set.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = build(zapcore.InfoLevel)
)

// L returns the current process logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Set replaces the process logger and returns the previous one so callers
// can restore it. A nil argument is ignored.
func Set(l *zap.SugaredLogger) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	prev := sugar
	if l != nil {
		sugar = l
	}
	return prev
}

// Configure rebuilds the process logger at the named level. Unknown level
// names fall back to info.
func Configure(level string) {
	Set(build(parseLevel(level)))
}

// Nop silences all logging until the next Set or Configure.
func Nop() {
	Set(zap.NewNop().Sugar())
}

// Sync flushes buffered log entries.
func Sync() error {
	return L().Sync()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func build(level zapcore.Level) *zap.SugaredLogger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core).Sugar()
}
