package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"

	// maxRequestIDLen bounds client-supplied IDs before they reach logs.
	maxRequestIDLen = 128
)

// requestIDKey is the context key for storing request IDs.
type requestIDKey struct{}

// WithRequestID returns a new context with the given request ID stored in it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request ID from the context.
// Returns an empty string if no request ID is stored.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID returns middleware that generates or extracts an X-Request-ID for
// each request. A well-formed incoming X-Request-ID header is reused;
// otherwise a new UUID v4 is generated. The ID is stored in the request
// context and set as a response header.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if !validRequestID(id) {
				id = uuid.NewString()
			}
			ctx := WithRequestID(r.Context(), id)
			w.Header().Set(headerRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validRequestID accepts non-empty printable ASCII up to maxRequestIDLen.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
