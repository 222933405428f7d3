package pallet

import (
	"fmt"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
)

// Snapshot is the serializable form of a Pallet used by storage adapters.
type Snapshot struct {
	ID     int64          `json:"id"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Depth  float64        `json:"depth"`
	Boxes  []box.Snapshot `json:"boxes"`
}

// Snapshot returns the serializable form of p.
func (p *Pallet) Snapshot() Snapshot {
	s := Snapshot{
		ID:     p.id,
		Width:  p.dims.Width(),
		Height: p.dims.Height(),
		Depth:  p.dims.Depth(),
		Boxes:  make([]box.Snapshot, 0, len(p.boxes)),
	}
	for _, b := range p.boxes {
		s.Boxes = append(s.Boxes, b.Snapshot())
	}
	return s
}

// FromSnapshot rebuilds a Pallet, replaying every box through AddBox so the
// aggregate rules hold for stored data too.
func FromSnapshot(s Snapshot) (*Pallet, error) {
	dims, err := domain.NewDimensions(s.Width, s.Height, s.Depth)
	if err != nil {
		return nil, err
	}
	p, err := New(s.ID, dims)
	if err != nil {
		return nil, err
	}
	for _, bs := range s.Boxes {
		b, err := box.FromSnapshot(bs)
		if err != nil {
			return nil, fmt.Errorf("pallet %d box %d: %w", s.ID, bs.ID, err)
		}
		if err := p.AddBox(b); err != nil {
			return nil, err
		}
	}
	return p, nil
}
