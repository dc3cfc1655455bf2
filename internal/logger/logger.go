package logger

import (
	"io"
	"log/slog"

	"github.com/alipala/ai-fantasy-rpg/internal/config"
)

// Setup configures the global slog logger. The terminal belongs to the
// UI, so callers pass the destination (a log file, or io.Discard).
func Setup(cfg *config.Config, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithError adds error context to a logger.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
