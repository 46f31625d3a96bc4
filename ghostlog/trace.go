// Package ghostlog provides the structured logging conventions shared by
// the forest, mesh, and exchange packages.
package ghostlog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
)

// SetHandler replaces the package-wide slog handler. Useful for tests that
// want to capture log output, or a driver that wants JSON logs instead.
func SetHandler(h slog.Handler) {
	mu.Lock()
	defer mu.Unlock()
	handler = h
}

func logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slog.New(handler)
}

// Trace logs a debug-level structured message. The boundary-exchange
// pipeline reports the start and end of each send pass, nonzero packs,
// sparse allocation and sparse deallocation through Trace; the receive
// poll and the unpack step do not log.
func Trace(msg string, args ...any) {
	logger().Debug(msg, args...)
}

// Warn logs a recoverable anomaly: something surprising but not fatal
// (e.g. a receive poll still waiting past its first timeout tick).
func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

// Fatal logs, at error level, the message about to tear the rank down.
// It returns nothing and does not panic itself.
func Fatal(msg string, args ...any) {
	logger().Error(msg, args...)
}
