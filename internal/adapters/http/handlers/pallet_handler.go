// Package handlers provides HTTP request handlers for the service's API endpoints.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/dto"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

// PalletHandler handles HTTP requests for pallet registration and box
// placement.
type PalletHandler struct {
	svc ports.InventoryService
}

// NewPalletHandler creates a new PalletHandler with the given service port.
func NewPalletHandler(svc ports.InventoryService) *PalletHandler {
	return &PalletHandler{svc: svc}
}

// ListPallets handles GET /api/v1/pallets.
func (h *PalletHandler) ListPallets(w http.ResponseWriter, r *http.Request) {
	pallets, err := h.svc.ListPallets(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToPalletListResponse(pallets))
}

// CreatePallet handles POST /api/v1/pallets.
func (h *PalletHandler) CreatePallet(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePalletRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := req.ToPallet()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.AddPallet(r.Context(), p); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToPalletResponse(p))
}

// GetPallet handles GET /api/v1/pallets/{id}.
func (h *PalletHandler) GetPallet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	p, err := h.svc.GetPallet(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToPalletResponse(p))
}

// AddBox handles POST /api/v1/pallets/{id}/boxes.
func (h *PalletHandler) AddBox(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.AddBoxRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := req.ToBox()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	updated, err := h.svc.AddBoxToPallet(r.Context(), id, b)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToPalletResponse(updated))
}

// AddBoxes handles POST /api/v1/pallets/{id}/boxes/bulk. Entries that fail
// request validation are reported alongside the service's per-box errors;
// the rest are placed concurrently.
func (h *PalletHandler) AddBoxes(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.BulkAddBoxesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	boxes := make([]*box.Box, 0, len(req.Boxes))
	var rejected []dto.BulkAddErrorItem
	for i := range req.Boxes {
		b, err := req.Boxes[i].ToBox()
		if err != nil {
			rejected = append(rejected, dto.BulkAddErrorItem{
				BoxID:   req.Boxes[i].ID,
				Message: err.Error(),
			})
			continue
		}
		boxes = append(boxes, b)
	}

	if len(boxes) == 0 {
		p, err := h.svc.GetPallet(r.Context(), id)
		if err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, dto.ToBulkAddResponse(&ports.BulkAddResult{Pallet: p}, rejected))
		return
	}

	result, err := h.svc.AddBoxes(r.Context(), id, boxes)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToBulkAddResponse(result, rejected))
}
