package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/dto"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/config"
)

// RateLimit returns middleware that admits requests through a single
// token-bucket limiter shared by all clients. Requests over the limit get an
// RFC 9457 429 response with Retry-After set. A zero RequestsPerSecond
// returns a pass-through middleware.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				dto.WriteProblem(w, r, http.StatusTooManyRequests, "request rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
