package ports

import (
	"context"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
)

// InventoryStore defines the storage port for pallets.
// Implemented by the memory and Redis store adapters; called by the
// application layer. Pallets are never deleted or replaced wholesale.
type InventoryStore interface {
	// ListAll returns every pallet in insertion order. The result is an
	// independent snapshot: later store mutations do not affect it and
	// mutating it does not affect the store.
	ListAll(ctx context.Context) ([]*pallet.Pallet, error)

	// Add inserts a new pallet.
	// Returns a domain.RuleError matching domain.ErrConflict if a pallet with
	// the same ID already exists.
	// Returns domain.ErrValidation if p is nil.
	Add(ctx context.Context, p *pallet.Pallet) error

	// Update looks up the pallet with the given ID and applies fn to it
	// atomically with respect to every other store operation. If fn returns an
	// error the stored pallet is left unchanged and the error is returned.
	// Returns a domain.RuleError matching domain.ErrNotFound if no pallet has
	// the given ID.
	Update(ctx context.Context, id int64, fn func(p *pallet.Pallet) error) error
}
