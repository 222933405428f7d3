// Package memory provides an in-process implementation of
// [ports.InventoryStore]. All state lives behind a single RWMutex; readers get
// deep copies so iteration never observes later writes.
package memory

import (
	"context"
	"sync"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

// Compile-time interface check.
var _ ports.InventoryStore = (*Store)(nil)

// Store keeps pallets in insertion order. Lookup is a linear scan; inventories
// are small enough that an index is not worth maintaining.
type Store struct {
	mu      sync.RWMutex
	pallets []*pallet.Pallet
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// ListAll returns deep copies of every stored pallet in insertion order.
func (s *Store) ListAll(_ context.Context) ([]*pallet.Pallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*pallet.Pallet, len(s.pallets))
	for i, p := range s.pallets {
		out[i] = p.Clone()
	}
	return out, nil
}

// Add stores a copy of p. The caller keeps ownership of p.
func (s *Store) Add(_ context.Context, p *pallet.Pallet) error {
	if p == nil {
		return &domain.ValidationError{Fields: map[string]string{"pallet": domain.MsgRequired}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID()) >= 0 {
		return domain.NewConflictError("pallet %d already exists", p.ID())
	}
	s.pallets = append(s.pallets, p.Clone())
	return nil
}

// Update runs fn against a working copy of the pallet while holding the write
// lock, and commits the copy only when fn succeeds.
func (s *Store) Update(_ context.Context, id int64, fn func(*pallet.Pallet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.NewNotFoundError("pallet %d not found", id)
	}

	working := s.pallets[i].Clone()
	if err := fn(working); err != nil {
		return err
	}
	s.pallets[i] = working
	return nil
}

// Len returns the number of stored pallets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pallets)
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int64) int {
	for i, p := range s.pallets {
		if p.ID() == id {
			return i
		}
	}
	return -1
}
