package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen11/pallet-inventory/internal/platform/logging"
)

// healthPathPrefix marks liveness/readiness traffic, logged at debug only.
const healthPathPrefix = "/health/"

// Logging returns middleware that stores a request-scoped logger (tagged with
// request_id and correlation_id) in the context and logs one completion
// record per request with the matched route, status, response size and
// duration.
//
// Completion level follows the status: info below 400, warn for 4xx, error
// for 5xx. Health checks always complete at debug; the readiness handler
// logs its own failures.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.With(
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("correlation_id", CorrelationIDFromContext(ctx)),
			)
			ctx = logging.WithLogger(ctx, child)

			if child.Enabled(ctx, slog.LevelDebug) {
				attrs := append([]slog.Attr{
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}, RedactHeaders(r.Header)...)
				child.LogAttrs(ctx, slog.LevelDebug, "request started", attrs...)
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			child.LogAttrs(ctx, completionLevel(r.URL.Path, rw.statusCode), "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routePattern(r)),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func completionLevel(path string, status int) slog.Level {
	switch {
	case strings.HasPrefix(path, healthPathPrefix):
		return slog.LevelDebug
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
