package ports

import (
	"context"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
)

// InventoryService defines the service port for inventory queries and
// mutations. Implemented by the application layer; called by inbound adapters
// (handlers) and the seeder.
type InventoryService interface {
	// GroupedByExpiration returns pallets that have an expiration date,
	// ordered by expiration date, then total weight, then ID, all ascending.
	GroupedByExpiration(ctx context.Context) ([]*pallet.Pallet, error)

	// TopByBoxExpiration returns up to topCount pallets holding at least one
	// box, chosen by latest box expiration (latest first, lower ID first on
	// ties) and returned in ascending volume order.
	// Returns domain.ErrOutOfRange if topCount is not positive.
	TopByBoxExpiration(ctx context.Context, topCount int) ([]*pallet.Pallet, error)

	// AddPallet stores a new pallet.
	// Returns domain.ErrConflict if the ID is already taken.
	AddPallet(ctx context.Context, p *pallet.Pallet) error

	// AddBoxToPallet places b on the pallet with the given ID and returns the
	// updated pallet.
	// Returns domain.ErrNotFound if the pallet does not exist.
	// Returns domain.ErrRuleViolation if the box does not fit.
	AddBoxToPallet(ctx context.Context, palletID int64, b *box.Box) (*pallet.Pallet, error)

	// AddBoxes places multiple boxes on one pallet concurrently. Uses partial
	// success semantics: each box is added or rejected independently. Returns
	// a hard error only for request-level failures (pallet not found).
	// Individual failures are collected in BulkAddResult.Errors.
	AddBoxes(ctx context.Context, palletID int64, boxes []*box.Box) (*BulkAddResult, error)

	// ListPallets returns every pallet in insertion order.
	ListPallets(ctx context.Context) ([]*pallet.Pallet, error)

	// GetPallet returns a single pallet by ID.
	// Returns domain.ErrNotFound if the pallet does not exist.
	GetPallet(ctx context.Context, id int64) (*pallet.Pallet, error)
}

// BulkAddError records a single rejected box within a bulk operation.
type BulkAddError struct {
	BoxID int64
	Err   error
}

// BulkAddResult holds the outcomes of a bulk add operation.
// Added contains the IDs of boxes placed on the pallet; Errors contains
// per-box failures. Pallet is the pallet state after all adds.
type BulkAddResult struct {
	Pallet *pallet.Pallet
	Added  []int64
	Errors []BulkAddError
}
