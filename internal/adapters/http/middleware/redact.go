package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/pallet-inventory/internal/platform/logging"
)

// RedactHeaders converts an http.Header map into a slice of slog.Attr values
// suitable for structured logging, sorted by header name. Credential headers
// (see logging.IsSensitiveHeader) are replaced with "[REDACTED]"; all others
// are included as-is. Multi-value headers are joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, key := range keys {
		if logging.IsSensitiveHeader(key) {
			attrs = append(attrs, slog.String(key, "[REDACTED]"))
		} else {
			attrs = append(attrs, slog.String(key, strings.Join(headers[key], ",")))
		}
	}
	return attrs
}
