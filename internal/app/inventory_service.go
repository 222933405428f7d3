// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/pallet-inventory/internal/app/fanout"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/logging"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

// Compile-time check that InventoryService implements ports.InventoryService.
var _ ports.InventoryService = (*InventoryService)(nil)

// InventoryService implements ports.InventoryService on top of an
// InventoryStore. Queries read the full pallet set and filter, sort and group
// it in memory; mutations go through the store's atomic Update.
type InventoryService struct {
	store       ports.InventoryStore
	bulkWorkers int
	logger      *slog.Logger
}

// NewInventoryService creates an InventoryService. bulkWorkers bounds the
// concurrency of AddBoxes and is raised to 1 if smaller. A nil logger
// discards output.
func NewInventoryService(store ports.InventoryStore, bulkWorkers int, logger *slog.Logger) *InventoryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &InventoryService{
		store:       store,
		bulkWorkers: max(bulkWorkers, 1),
		logger:      logger,
	}
}

// GroupedByExpiration returns pallets with an expiration date, sorted by
// expiration date, then total weight, then ID.
func (s *InventoryService) GroupedByExpiration(ctx context.Context) ([]*pallet.Pallet, error) {
	s.log(ctx).InfoContext(ctx, "grouping pallets by expiration")

	pallets, err := s.store.ListAll(ctx)
	if err != nil {
		s.logFailure(ctx, "GroupedByExpiration", "failed to list pallets", err)
		return nil, err
	}

	type keyed struct {
		p       *pallet.Pallet
		expires civil.Date
		weight  float64
	}
	rows := make([]keyed, 0, len(pallets))
	for _, p := range pallets {
		if exp, ok := p.ExpirationDate(); ok {
			rows = append(rows, keyed{p: p, expires: exp, weight: p.TotalWeight()})
		}
	}

	slices.SortFunc(rows, func(a, b keyed) int {
		return cmp.Or(
			compareDates(a.expires, b.expires),
			cmp.Compare(a.weight, b.weight),
			cmp.Compare(a.p.ID(), b.p.ID()),
		)
	})

	out := make([]*pallet.Pallet, len(rows))
	for i, r := range rows {
		out[i] = r.p
	}
	return out, nil
}

// TopByBoxExpiration picks the topCount pallets whose latest-expiring box
// expires last (lower ID first on ties) and returns them sorted by volume,
// then ID. Pallets without boxes never qualify. Fewer than topCount pallets
// are returned when fewer qualify.
func (s *InventoryService) TopByBoxExpiration(ctx context.Context, topCount int) ([]*pallet.Pallet, error) {
	if topCount <= 0 {
		return nil, &domain.RangeError{Param: "count", Value: topCount, Want: "must be at least 1"}
	}

	s.log(ctx).InfoContext(ctx, "selecting pallets by box expiration", slog.Int("top_count", topCount))

	pallets, err := s.store.ListAll(ctx)
	if err != nil {
		s.logFailure(ctx, "TopByBoxExpiration", "failed to list pallets", err)
		return nil, err
	}

	type keyed struct {
		p      *pallet.Pallet
		latest civil.Date
		volume float64
	}
	rows := make([]keyed, 0, len(pallets))
	for _, p := range pallets {
		if latest, ok := p.LatestBoxExpiration(); ok {
			rows = append(rows, keyed{p: p, latest: latest, volume: p.Volume()})
		}
	}

	slices.SortFunc(rows, func(a, b keyed) int {
		return cmp.Or(
			compareDates(b.latest, a.latest),
			cmp.Compare(a.p.ID(), b.p.ID()),
		)
	})
	rows = rows[:min(topCount, len(rows))]

	slices.SortFunc(rows, func(a, b keyed) int {
		return cmp.Or(
			cmp.Compare(a.volume, b.volume),
			cmp.Compare(a.p.ID(), b.p.ID()),
		)
	})

	out := make([]*pallet.Pallet, len(rows))
	for i, r := range rows {
		out[i] = r.p
	}
	return out, nil
}

// AddPallet stores a new pallet.
func (s *InventoryService) AddPallet(ctx context.Context, p *pallet.Pallet) error {
	if p == nil {
		return &domain.ValidationError{Fields: map[string]string{"pallet": domain.MsgRequired}}
	}

	s.log(ctx).InfoContext(ctx, "adding pallet", slog.Int64("pallet_id", p.ID()))

	if err := s.store.Add(ctx, p); err != nil {
		s.logFailure(ctx, "AddPallet", "failed to add pallet", err, slog.Int64("pallet_id", p.ID()))
		return err
	}
	return nil
}

// AddBoxToPallet places b on the pallet with the given ID. The lookup and the
// bounds check run inside one store update, so concurrent adds to the same
// pallet cannot both pass the check against stale state.
func (s *InventoryService) AddBoxToPallet(ctx context.Context, palletID int64, b *box.Box) (*pallet.Pallet, error) {
	s.log(ctx).InfoContext(ctx, "adding box to pallet", slog.Int64("pallet_id", palletID))

	updated, err := s.addBox(ctx, palletID, b)
	if err != nil {
		s.logFailure(ctx, "AddBoxToPallet", "failed to add box", err, slog.Int64("pallet_id", palletID))
		return nil, err
	}
	return updated, nil
}

// AddBoxes adds each box independently with at most bulkWorkers concurrent
// store updates. A missing pallet fails the whole request; anything else is
// reported per box.
func (s *InventoryService) AddBoxes(ctx context.Context, palletID int64, boxes []*box.Box) (*ports.BulkAddResult, error) {
	s.log(ctx).InfoContext(ctx, "bulk adding boxes",
		slog.Int64("pallet_id", palletID),
		slog.Int("count", len(boxes)),
	)

	if _, err := s.GetPallet(ctx, palletID); err != nil {
		return nil, err
	}

	results := fanout.Run(ctx, s.bulkWorkers, boxes, func(ctx context.Context, b *box.Box) (int64, error) {
		if _, err := s.addBox(ctx, palletID, b); err != nil {
			return 0, err
		}
		return b.ID(), nil
	})

	result := &ports.BulkAddResult{}
	for i, r := range results {
		if r.Err != nil {
			var boxID int64
			if boxes[i] != nil {
				boxID = boxes[i].ID()
			}
			result.Errors = append(result.Errors, ports.BulkAddError{BoxID: boxID, Err: r.Err})
			continue
		}
		result.Added = append(result.Added, r.Value)
	}

	final, err := s.GetPallet(ctx, palletID)
	if err != nil {
		return nil, err
	}
	result.Pallet = final

	if len(result.Errors) > 0 {
		s.log(ctx).WarnContext(ctx, "bulk add partially failed",
			slog.String("operation", "AddBoxes"),
			slog.Int64("pallet_id", palletID),
			slog.Int("added", len(result.Added)),
			slog.Int("failed", len(result.Errors)),
		)
	}
	return result, nil
}

// ListPallets returns every pallet in insertion order.
func (s *InventoryService) ListPallets(ctx context.Context) ([]*pallet.Pallet, error) {
	s.log(ctx).InfoContext(ctx, "listing pallets")

	pallets, err := s.store.ListAll(ctx)
	if err != nil {
		s.logFailure(ctx, "ListPallets", "failed to list pallets", err)
		return nil, err
	}
	return pallets, nil
}

// GetPallet finds a pallet by scanning the full list.
func (s *InventoryService) GetPallet(ctx context.Context, id int64) (*pallet.Pallet, error) {
	s.log(ctx).InfoContext(ctx, "fetching pallet", slog.Int64("pallet_id", id))

	pallets, err := s.store.ListAll(ctx)
	if err != nil {
		s.logFailure(ctx, "GetPallet", "failed to list pallets", err, slog.Int64("pallet_id", id))
		return nil, err
	}

	for _, p := range pallets {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("pallet %d not found", id)
}

func (s *InventoryService) addBox(ctx context.Context, palletID int64, b *box.Box) (*pallet.Pallet, error) {
	var updated *pallet.Pallet
	err := s.store.Update(ctx, palletID, func(p *pallet.Pallet) error {
		if err := p.AddBox(b); err != nil {
			return err
		}
		updated = p.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adding box to pallet %d: %w", palletID, err)
	}
	return updated, nil
}

// log returns the request-scoped logger when ctx carries one, so records
// keep the request id; otherwise the service's own logger.
func (s *InventoryService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// logFailure logs business-rule outcomes at warn and everything else at
// error, following the operation/ids/error convention.
func (s *InventoryService) logFailure(ctx context.Context, operation, msg string, err error, attrs ...slog.Attr) {
	level := slog.LevelError
	if errors.Is(err, domain.ErrRuleViolation) || errors.Is(err, domain.ErrValidation) {
		level = slog.LevelWarn
	}

	args := make([]slog.Attr, 0, len(attrs)+2)
	args = append(args, slog.String("operation", operation))
	args = append(args, attrs...)
	args = append(args, slog.Any("error", err))
	s.log(ctx).LogAttrs(ctx, level, msg, args...)
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
