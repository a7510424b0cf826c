// Package logging builds the process logger and the gin middleware that tags
// every request with an ID and logs its outcome.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Level  string
	Format string
	Writer io.Writer
}

// New creates a structured slog.Logger. Format "text" selects the text
// handler, anything else JSON.
func New(cfg Config) *slog.Logger {
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}
	options := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "text") {
		return slog.New(slog.NewTextHandler(writer, options))
	}
	return slog.New(slog.NewJSONHandler(writer, options))
}

// ParseLevel maps a level name such as "debug" or "WARN" to a slog level.
// "warning" is accepted as warn. Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Component tags logger with the subsystem that emits through it. A nil
// logger means the process default.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", name))
}

type requestIDKey struct{}

// WithRequestID stores id on ctx. Blank ids leave ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id = strings.TrimSpace(id); id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored on ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Request returns logger with the request_id of ctx attached, if there is one.
func Request(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RequestIDFrom(ctx); id != "" {
		return logger.With(slog.String("request_id", id))
	}
	return logger
}
