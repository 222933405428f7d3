// Package logging builds the service's structured slog loggers and carries
// them through request contexts.
//
// Construction, with attributes stamped on every record:
//
//	logger := logging.New("info", "json", os.Stderr,
//	    slog.String("service", "pallet-inventory"),
//	    slog.String("store", "redis"),
//	)
//
// Middleware stores a request-scoped logger with logging.WithLogger. Handlers
// recover it with logging.FromContext; services use logging.FromContextOr so
// calls made outside a request fall back to their own logger.
//
// Service errors are logged with the operation, the pallet or box ids
// involved and the full chain via slog.Any("error", err):
//
//	logger.ErrorContext(ctx, "failed to add box",
//	    slog.String("operation", "AddBoxToPallet"),
//	    slog.Int64("pallet_id", palletID),
//	    slog.Any("error", err),
//	)
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// contextKey is the unexported key type for storing loggers in context.
type contextKey struct{}

// New creates a configured *slog.Logger.
//
// The level parameter sets the minimum log level: "debug", "info", "warn"
// (or "warning") or "error". Unrecognized values default to info.
//
// The format parameter selects the output handler. "text" uses
// slog.NewTextHandler; all other values (including "json") use
// slog.NewJSONHandler.
//
// When level is "debug", source code location is included in log output.
// Any base attributes are attached to every record the logger emits.
func New(level, format string, w io.Writer, base ...slog.Attr) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	if len(base) > 0 {
		handler = handler.WithAttrs(base)
	}
	return slog.New(handler)
}

// WithLogger returns a new context with the given logger stored in it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a *slog.Logger from the context.
// If no logger is stored, it returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// FromContextOr returns the logger stored in ctx, or fallback when the
// context carries none.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// parseLevel converts a level string to slog.Level.
// Unrecognized values default to slog.LevelInfo.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
