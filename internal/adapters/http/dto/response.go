// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"cmp"
	"slices"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

// BoxResponse represents a single box in HTTP responses. Dates use the
// YYYY-MM-DD format; ProductionDate is omitted for boxes created with an
// expiration date.
type BoxResponse struct {
	ID             int64   `json:"id"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Depth          float64 `json:"depth"`
	Weight         float64 `json:"weight"`
	Volume         float64 `json:"volume"`
	ProductionDate string  `json:"production_date,omitempty"`
	ExpirationDate string  `json:"expiration_date"`
}

// ToBoxResponse converts a domain Box to an HTTP response DTO.
func ToBoxResponse(b *box.Box) BoxResponse {
	dims := b.Dimensions()
	resp := BoxResponse{
		ID:             b.ID(),
		Width:          dims.Width(),
		Height:         dims.Height(),
		Depth:          dims.Depth(),
		Weight:         b.Weight(),
		Volume:         b.Volume(),
		ExpirationDate: b.ExpirationDate().String(),
	}
	if produced, ok := b.ProductionDate(); ok {
		resp.ProductionDate = produced.String()
	}
	return resp
}

// PalletResponse represents a single pallet in HTTP responses. Weight is the
// pallet's own weight; TotalWeight and Volume include its boxes.
// ExpirationDate is omitted for an empty pallet.
type PalletResponse struct {
	ID             int64         `json:"id"`
	Width          float64       `json:"width"`
	Height         float64       `json:"height"`
	Depth          float64       `json:"depth"`
	Weight         float64       `json:"weight"`
	TotalWeight    float64       `json:"total_weight"`
	Volume         float64       `json:"volume"`
	ExpirationDate string        `json:"expiration_date,omitempty"`
	BoxCount       int           `json:"box_count"`
	Boxes          []BoxResponse `json:"boxes"`
}

// ToPalletResponse converts a domain Pallet to an HTTP response DTO. Boxes
// are listed in placement order.
func ToPalletResponse(p *pallet.Pallet) PalletResponse {
	dims := p.Dimensions()
	boxes := p.Boxes()

	resp := PalletResponse{
		ID:          p.ID(),
		Width:       dims.Width(),
		Height:      dims.Height(),
		Depth:       dims.Depth(),
		Weight:      p.Weight(),
		TotalWeight: p.TotalWeight(),
		Volume:      p.Volume(),
		BoxCount:    len(boxes),
		Boxes:       make([]BoxResponse, len(boxes)),
	}
	if expires, ok := p.ExpirationDate(); ok {
		resp.ExpirationDate = expires.String()
	}
	for i, b := range boxes {
		resp.Boxes[i] = ToBoxResponse(b)
	}
	return resp
}

// PalletListResponse represents a list of pallets in HTTP responses.
type PalletListResponse struct {
	Pallets []PalletResponse `json:"pallets"`
	Count   int              `json:"count"`
}

// ToPalletListResponse converts a slice of domain pallets to an HTTP list
// response DTO, preserving order.
func ToPalletListResponse(pallets []*pallet.Pallet) PalletListResponse {
	items := make([]PalletResponse, len(pallets))
	for i, p := range pallets {
		items[i] = ToPalletResponse(p)
	}
	return PalletListResponse{
		Pallets: items,
		Count:   len(items),
	}
}

// ExpirationGroupResponse is one expiration date and the pallets sharing it.
type ExpirationGroupResponse struct {
	ExpirationDate string           `json:"expiration_date"`
	Pallets        []PalletResponse `json:"pallets"`
}

// ExpirationGroupsResponse is the grouped-by-expiration report.
type ExpirationGroupsResponse struct {
	Groups []ExpirationGroupResponse `json:"groups"`
	Count  int                       `json:"count"`
}

// ToExpirationGroupsResponse groups already ordered pallets by expiration
// date. The input order is kept inside and across groups.
func ToExpirationGroupsResponse(pallets []*pallet.Pallet) ExpirationGroupsResponse {
	groups := pallet.GroupByExpiration(pallets)

	items := make([]ExpirationGroupResponse, len(groups))
	for i, g := range groups {
		items[i] = ExpirationGroupResponse{
			ExpirationDate: g.ExpirationDate.String(),
			Pallets:        ToPalletListResponse(g.Pallets).Pallets,
		}
	}
	return ExpirationGroupsResponse{
		Groups: items,
		Count:  len(pallets),
	}
}

// TopPalletsResponse is the top-by-box-expiration report. Requested is the
// count asked for; len(Pallets) may be smaller.
type TopPalletsResponse struct {
	Requested int              `json:"requested"`
	Pallets   []PalletResponse `json:"pallets"`
	Count     int              `json:"count"`
}

// ToTopPalletsResponse converts the report result. Within each pallet the
// boxes are listed latest expiration first, lower ID first on ties.
func ToTopPalletsResponse(requested int, pallets []*pallet.Pallet) TopPalletsResponse {
	items := make([]PalletResponse, len(pallets))
	for i, p := range pallets {
		items[i] = ToPalletResponse(p)
		slices.SortStableFunc(items[i].Boxes, func(a, b BoxResponse) int {
			return cmp.Or(
				cmp.Compare(b.ExpirationDate, a.ExpirationDate),
				cmp.Compare(a.ID, b.ID),
			)
		})
	}
	return TopPalletsResponse{
		Requested: requested,
		Pallets:   items,
		Count:     len(items),
	}
}

// BulkAddBoxesResponse represents the result of a bulk add operation.
// It includes both the placed box IDs and per-item errors.
type BulkAddBoxesResponse struct {
	Pallet    PalletResponse     `json:"pallet"`
	Added     []int64            `json:"added"`
	Errors    []BulkAddErrorItem `json:"errors"`
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

// BulkAddErrorItem represents a single rejected box within a bulk operation.
type BulkAddErrorItem struct {
	BoxID   int64  `json:"box_id"`
	Message string `json:"message"`
}

// ToBulkAddResponse converts a ports.BulkAddResult to an HTTP response DTO.
// rejected holds entries that failed request validation before reaching the
// service; they are merged with the service's per-box errors.
func ToBulkAddResponse(result *ports.BulkAddResult, rejected []BulkAddErrorItem) BulkAddBoxesResponse {
	added := result.Added
	if added == nil {
		added = []int64{}
	}

	errs := make([]BulkAddErrorItem, 0, len(rejected)+len(result.Errors))
	errs = append(errs, rejected...)
	for _, e := range result.Errors {
		errs = append(errs, BulkAddErrorItem{
			BoxID:   e.BoxID,
			Message: e.Err.Error(),
		})
	}

	return BulkAddBoxesResponse{
		Pallet:    ToPalletResponse(result.Pallet),
		Added:     added,
		Errors:    errs,
		Total:     len(added) + len(errs),
		Succeeded: len(added),
		Failed:    len(errs),
	}
}
