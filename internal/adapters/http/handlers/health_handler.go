package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// HealthHandler handles liveness and readiness HTTP endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
	logger   *slog.Logger
}

// NewHealthHandler creates a new HealthHandler with the given health
// registry. A nil logger discards output.
func NewHealthHandler(registry ports.HealthRegistry, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HealthHandler{registry: registry, logger: logger}
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready. Returns 200 if all checks pass,
// 503 if any check fails. Failing checks are logged by name.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	var failing []string
	for name, err := range results {
		if err != nil {
			checks[name] = err.Error()
			failing = append(failing, name)
		} else {
			checks[name] = statusOK
		}
	}

	status := statusReady
	code := http.StatusOK
	if len(failing) > 0 {
		slices.Sort(failing)
		h.logger.WarnContext(r.Context(), "readiness check failed",
			slog.Any("failing", failing),
		)
		status = statusNotReady
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, r, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
