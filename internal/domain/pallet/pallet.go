// Package pallet models the pallet aggregate root: a physical base platform
// that owns an ordered collection of boxes. A Pallet is mutated only through
// AddBox; every derived attribute is recomputed on access.
package pallet

import (
	"fmt"
	"slices"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
)

// BaseWeight is the own weight of an empty pallet.
const BaseWeight = 30.0

// Compile-time check that Pallet implements domain.Item.
var _ domain.Item = (*Pallet)(nil)

// Pallet is the aggregate root. It is not safe for concurrent mutation;
// stores serialize access.
type Pallet struct {
	id    int64
	dims  domain.Dimensions
	boxes []*box.Box
}

// New creates an empty pallet.
// Returns a *domain.ValidationError for a non-positive id or unset dimensions.
func New(id int64, dims domain.Dimensions) (*Pallet, error) {
	if err := domain.ValidateItem(id, dims, BaseWeight); err != nil {
		return nil, err
	}
	return &Pallet{id: id, dims: dims}, nil
}

func (p *Pallet) ID() int64                     { return p.id }
func (p *Pallet) Dimensions() domain.Dimensions { return p.dims }

// Weight returns the pallet's own weight, excluding boxes.
func (p *Pallet) Weight() float64 { return BaseWeight }

// AddBox places b on the pallet. Fails with a *domain.RuleError when b is nil
// or when its width or depth exceeds the pallet's. Height is not checked.
// On error the pallet is unchanged.
func (p *Pallet) AddBox(b *box.Box) error {
	if b == nil {
		return domain.NewRuleError("pallet %d: box is required", p.id)
	}

	bd := b.Dimensions()
	if bd.Width() > p.dims.Width() || bd.Depth() > p.dims.Depth() {
		return domain.NewRuleError("pallet %d: box %d dimensions %s exceed pallet dimensions %s",
			p.id, b.ID(), bd, p.dims)
	}

	p.boxes = append(p.boxes, b)
	return nil
}

// Boxes returns the boxes in insertion order. The slice is a copy; boxes
// themselves are immutable.
func (p *Pallet) Boxes() []*box.Box {
	return slices.Clone(p.boxes)
}

// BoxCount returns the number of boxes on the pallet.
func (p *Pallet) BoxCount() int {
	return len(p.boxes)
}

// TotalWeight returns BaseWeight plus the weight of every box.
func (p *Pallet) TotalWeight() float64 {
	total := BaseWeight
	for _, b := range p.boxes {
		total += b.Weight()
	}
	return total
}

// Volume returns the pallet's own volume plus the volume of every box.
func (p *Pallet) Volume() float64 {
	total := p.dims.Volume()
	for _, b := range p.boxes {
		total += b.Volume()
	}
	return total
}

// ExpirationDate returns the earliest box expiration, or false for an empty
// pallet.
func (p *Pallet) ExpirationDate() (civil.Date, bool) {
	if len(p.boxes) == 0 {
		return civil.Date{}, false
	}
	earliest := p.boxes[0].ExpirationDate()
	for _, b := range p.boxes[1:] {
		if d := b.ExpirationDate(); d.Before(earliest) {
			earliest = d
		}
	}
	return earliest, true
}

// LatestBoxExpiration returns the latest box expiration, or false for an
// empty pallet.
func (p *Pallet) LatestBoxExpiration() (civil.Date, bool) {
	if len(p.boxes) == 0 {
		return civil.Date{}, false
	}
	latest := p.boxes[0].ExpirationDate()
	for _, b := range p.boxes[1:] {
		if d := b.ExpirationDate(); d.After(latest) {
			latest = d
		}
	}
	return latest, true
}

// Clone returns an independent copy. Boxes are shared since they are
// immutable; the box list is not.
func (p *Pallet) Clone() *Pallet {
	return &Pallet{id: p.id, dims: p.dims, boxes: slices.Clone(p.boxes)}
}

// String implements fmt.Stringer.
func (p *Pallet) String() string {
	exp := "n/a"
	if d, ok := p.ExpirationDate(); ok {
		exp = d.String()
	}
	return fmt.Sprintf("pallet %d (%s, weight %g, volume %g, expires %s, %d boxes)",
		p.id, p.dims, p.TotalWeight(), p.Volume(), exp, len(p.boxes))
}
