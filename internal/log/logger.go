// Package log wraps log/slog with the component convention used across
// the finance core: every record carries a "component" attribute so audit
// and ledger lines can be separated when tailing one stream.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures the default slog logger with a text handler at the
// given level ("debug", "info", "warn", "error"; anything else is info)
// and returns a logger scoped to component.
func Setup(level, component string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger.With(FieldComponent, component)
}

// ForComponent returns the default logger scoped to component.
func ForComponent(component string) *slog.Logger {
	return slog.Default().With(FieldComponent, component)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
