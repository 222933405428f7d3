package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/dto"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

// ReportHandler serves the read-only inventory reports.
type ReportHandler struct {
	svc          ports.InventoryService
	defaultCount int
}

// NewReportHandler creates a ReportHandler. defaultCount is used by the top
// report when the request does not name a count.
func NewReportHandler(svc ports.InventoryService, defaultCount int) *ReportHandler {
	return &ReportHandler{svc: svc, defaultCount: defaultCount}
}

// ExpirationGroups handles GET /api/v1/reports/expiration-groups.
func (h *ReportHandler) ExpirationGroups(w http.ResponseWriter, r *http.Request) {
	pallets, err := h.svc.GroupedByExpiration(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToExpirationGroupsResponse(pallets))
}

// TopByBoxExpiration handles GET /api/v1/reports/top-by-box-expiration?count=N.
func (h *ReportHandler) TopByBoxExpiration(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", h.defaultCount)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	pallets, err := h.svc.TopByBoxExpiration(r.Context(), count)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToTopPalletsResponse(count, pallets))
}
