// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// The server registers the middleware with the router in this order:
//
//	Recovery → RateLimit → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → Handler
//
// Each middleware is a func(http.Handler) http.Handler. Rejections written
// by RateLimit and Timeout use the same RFC 9457 body as the handlers.
package middleware

import "net/http"

// responseWriter wraps http.ResponseWriter to record the status code and
// the number of body bytes sent, which the logging and otel middleware
// report and recovery consults before writing a 500.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code and delegates to the underlying writer.
// Only the first call takes effect; subsequent calls are ignored.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write delegates to the underlying writer, triggering an implicit 200 OK if
// WriteHeader has not been called.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.headerWritten = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Flush sends buffered data to the client when the underlying writer
// supports it. A flush commits the headers.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		rw.headerWritten = true
		f.Flush()
	}
}

// Unwrap returns the underlying http.ResponseWriter so that
// http.ResponseController and type assertions (http.Flusher, http.Hijacker)
// work through the wrapper.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
