// Package log configures the process-wide slog logger.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps a level name to a slog.Level, defaulting to info.
func Level(logLevel string) slog.Level {
	switch logLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Setup(logLevel string) {
	SetupWriter(os.Stderr, logLevel)
}

// SetupWriter is Setup writing to w.
func SetupWriter(w io.Writer, logLevel string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(logLevel),
	})))
}

func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
