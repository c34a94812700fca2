// Package console provides the process logger. In WASM builds records go to
// the browser's developer console; native builds write to stderr.
package console

import (
	"log/slog"
	"strings"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *slog.Logger
	levelVar   = &slog.LevelVar{}
)

// Logger returns the shared logger.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		handler := slog.NewTextHandler(newWriter(), &slog.HandlerOptions{
			Level: levelVar,
		})
		logger = slog.New(handler)
	})
	return logger
}

// SetLevel sets the minimum level of the shared logger.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

// SetRawLevel parses rawLevel ("debug", "info", "warn", "error") and applies
// it. Unknown values select info.
func SetRawLevel(rawLevel string) {
	SetLevel(ParseLevel(rawLevel))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(rawLevel string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(rawLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Log writes an info record.
func Log(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn writes a warning record.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error writes an error record.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}
