// Package logging provides structured logging configuration using log/slog.
//
// Log entries go to stderr so that commands which write records to stdout
// (e.g. stream) stay pipeable.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format where logs are machine-parsed; "text" for humans.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// WithFields returns a logger carrying additional structured fields.
//
// Useful for operation-specific loggers that keep consistent context
// through a multi-step run:
//
//	seedLog := logging.WithFields("file", path)
//	seedLog.Info("seeding started")
func WithFields(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}
