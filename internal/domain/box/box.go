// Package box models a single box of goods stored on a pallet. A box tracks
// either the day it was produced or the day it expires; the expiration date
// is always derivable from whichever of the two was recorded.
package box

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
)

// ShelfLifeDays is the number of days between production and expiration.
const ShelfLifeDays = 100

// Compile-time check that Box implements domain.Item.
var _ domain.Item = (*Box)(nil)

// DateKind tags which date a box was created with.
type DateKind int

const (
	ProducedOn DateKind = iota + 1
	ExpiresOn
)

// String implements fmt.Stringer.
func (k DateKind) String() string {
	switch k {
	case ProducedOn:
		return "produced_on"
	case ExpiresOn:
		return "expires_on"
	default:
		return "unknown"
	}
}

// Dating is the tagged date a box carries: either the production date or the
// expiration date, never both.
type Dating struct {
	Kind DateKind
	Date civil.Date
}

// Expiration returns the expiration date implied by the dating.
func (d Dating) Expiration() civil.Date {
	if d.Kind == ProducedOn {
		return d.Date.AddDays(ShelfLifeDays)
	}
	return d.Date
}

// Box is an immutable item of goods. Construct with NewWithProductionDate or
// NewWithExpirationDate.
type Box struct {
	id     int64
	dims   domain.Dimensions
	weight float64
	dating Dating
}

// NewWithProductionDate creates a box produced on the given day. The
// expiration date is derived as produced + ShelfLifeDays.
// Returns a *domain.ValidationError for a bad id, weight or dimensions and a
// *domain.RuleError if produced lies after today.
func NewWithProductionDate(id int64, dims domain.Dimensions, weight float64, produced civil.Date) (*Box, error) {
	if err := domain.ValidateItem(id, dims, weight); err != nil {
		return nil, err
	}
	if produced.After(Today()) {
		return nil, domain.NewRuleError("box %d: production date %s cannot be in the future", id, produced)
	}

	return &Box{
		id:     id,
		dims:   dims,
		weight: weight,
		dating: Dating{Kind: ProducedOn, Date: produced},
	}, nil
}

// NewWithExpirationDate creates a box that expires on the given day. The
// production date is left unset.
// Returns a *domain.ValidationError for a bad id, weight or dimensions and a
// *domain.RuleError if expires lies before today.
func NewWithExpirationDate(id int64, dims domain.Dimensions, weight float64, expires civil.Date) (*Box, error) {
	if err := domain.ValidateItem(id, dims, weight); err != nil {
		return nil, err
	}
	if expires.Before(Today()) {
		return nil, domain.NewRuleError("box %d: expiration date %s cannot be in the past", id, expires)
	}

	return &Box{
		id:     id,
		dims:   dims,
		weight: weight,
		dating: Dating{Kind: ExpiresOn, Date: expires},
	}, nil
}

// Today returns the current local calendar date.
func Today() civil.Date {
	return civil.DateOf(time.Now())
}

func (b *Box) ID() int64                     { return b.id }
func (b *Box) Dimensions() domain.Dimensions { return b.dims }
func (b *Box) Weight() float64               { return b.weight }
func (b *Box) Dating() Dating                { return b.dating }

// Volume returns width × height × depth.
func (b *Box) Volume() float64 {
	return b.dims.Volume()
}

// ProductionDate returns the production date and true, or the zero date and
// false when the box was created with an expiration date.
func (b *Box) ProductionDate() (civil.Date, bool) {
	if b.dating.Kind != ProducedOn {
		return civil.Date{}, false
	}
	return b.dating.Date, true
}

// ExpirationDate is always defined: either recorded directly or derived from
// the production date.
func (b *Box) ExpirationDate() civil.Date {
	return b.dating.Expiration()
}
