package dto

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
)

// MaxBulkBoxes caps the number of boxes accepted by one bulk request.
const MaxBulkBoxes = 100

const (
	msgRequired     = "is required"
	msgDateFormat   = "must be a date in YYYY-MM-DD format"
	msgExactlyOne   = "exactly one of production_date or expiration_date is required"
	fieldProduction = "production_date"
	fieldExpiration = "expiration_date"
)

// CreatePalletRequest represents the JSON body for creating a new pallet.
type CreatePalletRequest struct {
	ID     int64   `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Validate checks that the ID and every dimension are positive.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreatePalletRequest) Validate() error {
	fields := make(map[string]string)

	positive(fields, "id", float64(r.ID))
	positive(fields, "width", r.Width)
	positive(fields, "height", r.Height)
	positive(fields, "depth", r.Depth)

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToPallet builds the domain pallet described by the request.
func (r *CreatePalletRequest) ToPallet() (*pallet.Pallet, error) {
	dims, err := domain.NewDimensions(r.Width, r.Height, r.Depth)
	if err != nil {
		return nil, err
	}
	return pallet.New(r.ID, dims)
}

// AddBoxRequest represents the JSON body for placing a box on a pallet.
// Exactly one of ProductionDate and ExpirationDate must be set.
type AddBoxRequest struct {
	ID             int64   `json:"id"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Depth          float64 `json:"depth"`
	Weight         float64 `json:"weight"`
	ProductionDate string  `json:"production_date,omitempty"`
	ExpirationDate string  `json:"expiration_date,omitempty"`
}

// Validate checks the numeric fields and the date pair.
// Returns a *domain.ValidationError if any checks fail.
func (r *AddBoxRequest) Validate() error {
	fields := make(map[string]string)

	positive(fields, "id", float64(r.ID))
	positive(fields, "width", r.Width)
	positive(fields, "height", r.Height)
	positive(fields, "depth", r.Depth)
	positive(fields, "weight", r.Weight)

	switch {
	case r.ProductionDate == "" && r.ExpirationDate == "":
		fields[fieldExpiration] = msgExactlyOne
	case r.ProductionDate != "" && r.ExpirationDate != "":
		fields[fieldProduction] = msgExactlyOne
	case r.ProductionDate != "":
		if _, err := civil.ParseDate(r.ProductionDate); err != nil {
			fields[fieldProduction] = msgDateFormat
		}
	default:
		if _, err := civil.ParseDate(r.ExpirationDate); err != nil {
			fields[fieldExpiration] = msgDateFormat
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToBox validates the request and builds the domain box it describes. Date
// rules relative to today are enforced by the box constructors.
func (r *AddBoxRequest) ToBox() (*box.Box, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	dims, err := domain.NewDimensions(r.Width, r.Height, r.Depth)
	if err != nil {
		return nil, err
	}
	if r.ProductionDate != "" {
		produced, _ := civil.ParseDate(r.ProductionDate)
		return box.NewWithProductionDate(r.ID, dims, r.Weight, produced)
	}
	expires, _ := civil.ParseDate(r.ExpirationDate)
	return box.NewWithExpirationDate(r.ID, dims, r.Weight, expires)
}

// BulkAddBoxesRequest represents the JSON body for placing several boxes on
// one pallet. Individual boxes are validated one by one so a bad entry does
// not reject the whole request.
type BulkAddBoxesRequest struct {
	Boxes []AddBoxRequest `json:"boxes"`
}

// Validate checks the batch size only.
// Returns a *domain.ValidationError if any checks fail.
func (r *BulkAddBoxesRequest) Validate() error {
	switch {
	case len(r.Boxes) == 0:
		return &domain.ValidationError{Fields: map[string]string{"boxes": msgRequired}}
	case len(r.Boxes) > MaxBulkBoxes:
		return &domain.ValidationError{Fields: map[string]string{
			"boxes": fmt.Sprintf("must contain at most %d entries, got %d", MaxBulkBoxes, len(r.Boxes)),
		}}
	}
	return nil
}

func positive(fields map[string]string, name string, v float64) {
	if v <= 0 {
		fields[name] = fmt.Sprintf("must be positive, got %g", v)
	}
}
