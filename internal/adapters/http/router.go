// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	palletHandler *handlers.PalletHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		// Pallets and box placement.
		r.Get("/pallets", palletHandler.ListPallets)
		r.Post("/pallets", palletHandler.CreatePallet)
		r.Get("/pallets/{id}", palletHandler.GetPallet)
		r.Post("/pallets/{id}/boxes", palletHandler.AddBox)
		r.Post("/pallets/{id}/boxes/bulk", palletHandler.AddBoxes)

		// Reports.
		r.Get("/reports/expiration-groups", reportHandler.ExpirationGroups)
		r.Get("/reports/top-by-box-expiration", reportHandler.TopByBoxExpiration)
	})

	return r
}
