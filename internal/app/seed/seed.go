// Package seed generates demonstration inventory: random pallets carrying a
// few random boxes each. Boxes that violate a domain rule are skipped with a
// warning instead of aborting the batch.
package seed

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/box"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

// Generation ranges. Upper bounds are exclusive unless noted.
const (
	MinPalletDimension = 100
	MaxPalletDimension = 200
	MinBoxDimension    = 20
	MinBoxWeight       = 1
	MaxBoxWeight       = 20 // inclusive
	MinBoxesPerPallet  = 1
	MaxBoxesPerPallet  = 5 // inclusive
	MinExpirationDays  = 1
	MaxExpirationDays  = 200
	MaxProductionAge   = 50
)

// boxIDStride spaces box IDs per pallet: pallet 3 gets boxes 301, 302, ...
const boxIDStride = 100

// Generator builds random pallets. It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// New creates a Generator. A zero seed draws a random one; any other seed
// makes the output reproducible.
func New(seed uint64, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger,
	}
}

// Pallets returns n pallets with IDs 1..n.
func (g *Generator) Pallets(n int) []*pallet.Pallet {
	out := make([]*pallet.Pallet, 0, n)
	for i := 1; i <= n; i++ {
		if p := g.pallet(int64(i)); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Seed generates n pallets and stores them through svc. Pallets whose ID is
// already taken are skipped, so reseeding a persistent store is harmless.
// Any other storage failure aborts seeding. Returns the number stored.
func (g *Generator) Seed(ctx context.Context, svc ports.InventoryService, n int) (int, error) {
	added := 0
	for _, p := range g.Pallets(n) {
		err := svc.AddPallet(ctx, p)
		switch {
		case err == nil:
			added++
		case errors.Is(err, domain.ErrConflict):
			g.logger.WarnContext(ctx, "skipping existing pallet", slog.Int64("pallet_id", p.ID()))
		default:
			return added, err
		}
	}

	g.logger.InfoContext(ctx, "seeded inventory", slog.Int("pallets", added))
	return added, nil
}

func (g *Generator) pallet(id int64) *pallet.Pallet {
	dims, err := domain.NewDimensions(
		g.between(MinPalletDimension, MaxPalletDimension),
		g.between(MinPalletDimension, MaxPalletDimension),
		g.between(MinPalletDimension, MaxPalletDimension),
	)
	if err != nil {
		g.logger.Warn("skipping invalid pallet", slog.Int64("pallet_id", id), slog.Any("error", err))
		return nil
	}
	p, err := pallet.New(id, dims)
	if err != nil {
		g.logger.Warn("skipping invalid pallet", slog.Int64("pallet_id", id), slog.Any("error", err))
		return nil
	}

	count := MinBoxesPerPallet + g.rng.IntN(MaxBoxesPerPallet-MinBoxesPerPallet+1)
	for j := 1; j <= count; j++ {
		boxID := id*boxIDStride + int64(j)
		b, err := g.box(boxID, dims)
		if err == nil {
			err = p.AddBox(b)
		}
		if err != nil {
			g.logger.Warn("skipping invalid box",
				slog.Int64("pallet_id", id),
				slog.Int64("box_id", boxID),
				slog.Any("error", err),
			)
		}
	}
	return p
}

func (g *Generator) box(id int64, within domain.Dimensions) (*box.Box, error) {
	dims, err := domain.NewDimensions(
		g.between(MinBoxDimension, int(within.Width())),
		g.between(MinBoxDimension, int(within.Height())),
		g.between(MinBoxDimension, int(within.Depth())),
	)
	if err != nil {
		return nil, err
	}
	weight := float64(MinBoxWeight + g.rng.IntN(MaxBoxWeight-MinBoxWeight+1))

	today := box.Today()
	if g.rng.IntN(2) == 0 {
		produced := today.AddDays(-g.rng.IntN(MaxProductionAge))
		return box.NewWithProductionDate(id, dims, weight, produced)
	}
	expires := today.AddDays(int(g.between(MinExpirationDays, MaxExpirationDays)))
	return box.NewWithExpirationDate(id, dims, weight, expires)
}

// between returns a whole number in [lo, hi), or lo when the range is empty.
func (g *Generator) between(lo, hi int) float64 {
	if hi <= lo {
		return float64(lo)
	}
	return float64(lo + g.rng.IntN(hi-lo))
}
