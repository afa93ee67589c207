package logger

import (
	"log/slog"
	"os"
)

type Options struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
}

// New builds the application-wide slog.Logger.
func New(opts Options) *slog.Logger {
	var lvl slog.Level
	switch opts.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var handler slog.Handler
	if opts.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}

	return slog.New(handler)
}
