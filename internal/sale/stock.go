package sale

import (
	"maps"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

// workspaceStock reads products from the shop workspace.
type workspaceStock struct {
	ws *shop.Workspace
}

func (s workspaceStock) Product(ref string) (shop.Product, error) {
	var out shop.Product

	err := s.ws.View(func(db *shop.DB) error {
		p, err := db.FindProduct(ref)
		if err != nil {
			return err
		}

		out = p.Clone()

		return nil
	})

	return out, err
}

// Available is the product's stock plus what a closed record with the same id
// already took from it, since re-completing that record only deducts the difference.
func (s workspaceStock) Available(saleID string, p shop.Product) int {
	available := p.Stock

	_ = s.ws.View(func(db *shop.DB) error {
		available += committedQuantities(db, saleID)[p.ID]
		return nil
	})

	return available
}

// committedQuantities returns the per-product quantities a persisted sale has
// deducted from stock: its items when closed, nothing otherwise.
func committedQuantities(db *shop.DB, saleID string) map[string]int {
	i := db.SaleIndex(saleID)
	if i < 0 || db.Sales[i].Status != shop.StatusClosed {
		return nil
	}

	return db.Sales[i].Quantities()
}

// applyStockDelta moves stock from the before to the after quantities.
// Stock never drops below zero; products deleted in the meantime are skipped.
func applyStockDelta(db *shop.DB, before, after map[string]int, now time.Time) {
	ids := make(map[string]struct{}, len(before)+len(after))
	for id := range before {
		ids[id] = struct{}{}
	}

	for id := range after {
		ids[id] = struct{}{}
	}

	for _, id := range slices.Sorted(maps.Keys(ids)) {
		delta := after[id] - before[id]
		if delta == 0 {
			continue
		}

		p, err := db.Product(id)
		if err != nil {
			continue
		}

		p.Stock = max(0, p.Stock-delta)
		p.UpdatedAt = new(now)
	}
}
