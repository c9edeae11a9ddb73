// Package logger holds the process-wide slog logger.
//
// Components derive their own logger once, tagged with their name:
//
//	log := logger.With("component", "collapse")
//
// The level can be changed at any time with SetLevel; loggers derived
// earlier follow the change.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var (
	level = new(slog.LevelVar)
	root  atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(slog.LevelWarn)
	root.Store(New(os.Stderr, "text"))
}

// New creates a logger writing to w in the given format ("json" or "text")
// at the shared level. It does not replace the default logger.
func New(w io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	return root.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *slog.Logger) {
	root.Store(l)
}

// With returns the process-wide logger with the given attributes.
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

// SetLevel changes the level of every logger created by this package.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel converts "debug", "info", "warn" or "error" to a level.
// The empty string means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
}
