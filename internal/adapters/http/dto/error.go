package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/logging"
)

// ErrorResponse represents an RFC 9457 Problem Details response.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// PathParamError reports a URL path parameter that could not be parsed. It
// matches domain.ErrValidation and renders with a "path." location.
type PathParamError struct {
	Param   string
	Message string
	Value   string
}

func (e *PathParamError) Error() string {
	return domain.ErrValidation.Error() + ": " + e.Param + ": " + e.Message
}

func (e *PathParamError) Unwrap() error {
	return domain.ErrValidation
}

// ErrorDetail represents a single field-level validation error within
// an ErrorResponse.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// NewErrorResponse creates an RFC 9457 ErrorResponse from a domain error.
// The request is used to populate the instance field with the request URI.
// Unclassified errors keep their detail out of the body.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := domainErrorToStatus(err)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}
	if status == http.StatusInternalServerError {
		resp.Detail = ""
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationFieldsToDetails(locationFor(r), verr.Fields)
	}

	var perr *PathParamError
	if errors.As(err, &perr) {
		resp.Errors = []ErrorDetail{{
			Location: "path." + perr.Param,
			Message:  perr.Message,
			Value:    perr.Value,
		}}
	}

	var rerr *domain.RangeError
	if errors.As(err, &rerr) {
		resp.Errors = []ErrorDetail{{
			Location: "query." + rerr.Param,
			Message:  rerr.Want,
			Value:    rerr.Value,
		}}
	}

	return resp
}

// WriteErrorResponse writes an RFC 9457 error response for the given domain
// error. It sets the Content-Type to application/problem+json, writes the
// appropriate HTTP status code, and marshals the error body as JSON.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)
	logger := logging.FromContext(r.Context())
	if resp.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.Int("status", resp.Status),
			slog.Any("error", err),
		)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logger.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// WriteProblem writes an RFC 9457 response for a status that does not come
// from a domain error, such as a gateway timeout.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.RequestURI,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", err),
		)
	}
}

// domainErrorToStatus maps domain sentinel errors to HTTP status codes.
// Not-found and conflict are checked before the generic rule violation they
// specialize.
func domainErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRuleViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// locationFor picks the RFC 9457 location prefix for field errors: the query
// string on reads, the body on writes. Path parameters arrive as
// PathParamError and carry their own prefix.
func locationFor(r *http.Request) string {
	if r.Method == http.MethodGet {
		return "query."
	}
	return "body."
}

// validationFieldsToDetails converts domain validation fields to sorted
// ErrorDetail entries.
func validationFieldsToDetails(prefix string, fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		details = append(details, ErrorDetail{
			Location: prefix + field,
			Message:  msg,
		})
	}
	slices.SortFunc(details, func(a, b ErrorDetail) int {
		return strings.Compare(a.Location, b.Location)
	})
	return details
}
