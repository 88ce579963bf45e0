package logging

import (
	"context"
	"log/slog"
	"os"

	"city-announcements/internal/handler/http/requestid"
)

// NewLogger creates the JSON logger the server runs with. The level
// comes from LOG_LEVEL (debug, info, warn, error); unknown values and
// unset default to info. Source locations are attached at warn level
// and below so error logs point at the failing call site.
func NewLogger() *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelWarn,
	})
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch s {
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

// WithRequestID returns a logger carrying the request ID from ctx, so
// every line a handler writes can be correlated with the access log.
// Without an ID (webhook delivery, cron refresh) the logger is
// returned unchanged.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}
