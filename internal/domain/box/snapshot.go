package box

import (
	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
)

// Snapshot is the serializable form of a Box used by storage adapters.
// ExpirationDate is always written; ProductionDate only for boxes created
// with a production date.
type Snapshot struct {
	ID             int64       `json:"id"`
	Width          float64     `json:"width"`
	Height         float64     `json:"height"`
	Depth          float64     `json:"depth"`
	Weight         float64     `json:"weight"`
	ProductionDate *civil.Date `json:"production_date,omitempty"`
	ExpirationDate *civil.Date `json:"expiration_date,omitempty"`
}

// Snapshot returns the serializable form of b.
func (b *Box) Snapshot() Snapshot {
	s := Snapshot{
		ID:     b.id,
		Width:  b.dims.Width(),
		Height: b.dims.Height(),
		Depth:  b.dims.Depth(),
		Weight: b.weight,
	}
	if produced, ok := b.ProductionDate(); ok {
		s.ProductionDate = &produced
	}
	expires := b.ExpirationDate()
	s.ExpirationDate = &expires
	return s
}

// FromSnapshot rebuilds a Box from storage. Shape rules (id, weight,
// dimensions, a date present) are re-checked; the rules relative to today are
// not, since a stored box legitimately ages.
func FromSnapshot(s Snapshot) (*Box, error) {
	dims, err := domain.NewDimensions(s.Width, s.Height, s.Depth)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateItem(s.ID, dims, s.Weight); err != nil {
		return nil, err
	}

	b := &Box{id: s.ID, dims: dims, weight: s.Weight}
	switch {
	case s.ProductionDate != nil:
		b.dating = Dating{Kind: ProducedOn, Date: *s.ProductionDate}
	case s.ExpirationDate != nil:
		b.dating = Dating{Kind: ExpiresOn, Date: *s.ExpirationDate}
	default:
		return nil, &domain.ValidationError{Fields: map[string]string{
			"expiration_date": domain.MsgRequired,
		}}
	}
	return b, nil
}
