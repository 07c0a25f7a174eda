package sale

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

// Stock resolves products for the cart and tells how many units of a product a
// draft may hold.
type Stock interface {
	Product(ref string) (shop.Product, error)
	Available(saleID string, product shop.Product) int
}

//go:generate mockgen -source=engine.go -destination=drafts_mock.go -package=sale
type DraftStore interface {
	LoadDraft(ctx context.Context) (*shop.Sale, error)
	SaveDraft(ctx context.Context, sale *shop.Sale) error
	ClearDraft(ctx context.Context) error
}

// Engine holds the draft sale and keeps its derived fields consistent.
// It is not safe for concurrent use; Controller serializes access.
type Engine struct {
	sale   shop.Sale
	stock  Stock
	drafts DraftStore
	now    func() time.Time
	log    *slog.Logger
}

func NewEngine(stock Stock, drafts DraftStore, now func() time.Time, log *slog.Logger) *Engine {
	if now == nil {
		now = time.Now
	}

	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		sale:   NewSale("", now()),
		stock:  stock,
		drafts: drafts,
		now:    now,
		log:    log,
	}
}

// Sale returns a copy of the draft.
func (e *Engine) Sale() shop.Sale {
	return e.sale.Clone()
}

// Load replaces the draft without auto-saving it.
func (e *Engine) Load(s shop.Sale) {
	e.sale = s.Clone()
	if e.sale.Items == nil {
		e.sale.Items = []shop.Item{}
	}

	Totals(&e.sale)
}

// AddItem adds qty units of the product identified by ref, merging into an
// existing line for the same product.
func (e *Engine) AddItem(ctx context.Context, ref string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	p, err := e.stock.Product(ref)
	if err != nil {
		return err
	}

	idx := e.sale.ItemIndex(p.ID)

	existing := 0
	if idx >= 0 {
		existing = e.sale.Items[idx].Qty
	}

	// Compared without adding so huge quantities cannot wrap around.
	if available := e.stock.Available(e.sale.ID, p); qty > available-existing {
		return &StockExceededError{ProductID: p.ID, Available: available}
	}

	if idx >= 0 {
		e.sale.Items[idx].Qty = existing + qty
	} else {
		e.sale.Items = append(e.sale.Items, shop.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       qty,
			UnitPrice: p.SellPrice,
			UnitCost:  p.BuyPrice,
		})
	}

	e.Recompute(ctx)

	return nil
}

// ChangeQuantity adds delta to a line. A result of zero or less removes the line.
// Only increases are checked against stock.
func (e *Engine) ChangeQuantity(ctx context.Context, index, delta int) error {
	if index < 0 || index >= len(e.sale.Items) {
		return ErrLineNotFound
	}

	line := e.sale.Items[index]

	if delta <= -line.Qty {
		e.sale.Items = slices.Delete(e.sale.Items, index, index+1)
		e.Recompute(ctx)

		return nil
	}

	if delta > 0 {
		p, err := e.stock.Product(line.ProductID)
		if err != nil {
			return err
		}

		if available := e.stock.Available(e.sale.ID, p); delta > available-line.Qty {
			return &StockExceededError{ProductID: p.ID, Available: available}
		}
	}

	e.sale.Items[index].Qty = line.Qty + delta
	e.Recompute(ctx)

	return nil
}

func (e *Engine) RemoveItem(ctx context.Context, index int) error {
	if index < 0 || index >= len(e.sale.Items) {
		return ErrLineNotFound
	}

	e.sale.Items = slices.Delete(e.sale.Items, index, index+1)
	e.Recompute(ctx)

	return nil
}

// ClearItems empties the cart but keeps the sale's identity, customer and status.
func (e *Engine) ClearItems(ctx context.Context) {
	e.sale.Items = []shop.Item{}
	e.Recompute(ctx)
}

func (e *Engine) SetDiscount(ctx context.Context, amount decimal.Decimal) {
	e.sale.Discount = amount
	e.Recompute(ctx)
}

func (e *Engine) SetPayment(ctx context.Context, amount decimal.Decimal) {
	e.sale.Payment = amount
	e.Recompute(ctx)
}

// SetCustomer attaches a customer snapshot; nil means walk-in.
func (e *Engine) SetCustomer(ctx context.Context, c *shop.CustomerRef) {
	if c != nil {
		c = new(*c)
		c.Phone = shop.NormalizePhone(c.Phone)
	}

	e.sale.Customer = c
	e.Recompute(ctx)
}

func (e *Engine) SetPaymentMethod(ctx context.Context, method, details string) {
	e.sale.PaymentMethod = method
	e.sale.PaymentDetails = details
	e.Recompute(ctx)
}

func (e *Engine) SetNote(ctx context.Context, note string) {
	e.sale.Note = note
	e.Recompute(ctx)
}

// Recompute refreshes the derived totals, stamps UpdatedAt and auto-saves the
// draft. Auto-save failures are logged, never returned.
func (e *Engine) Recompute(ctx context.Context) {
	Totals(&e.sale)
	e.sale.UpdatedAt = e.now()
	e.autosave(ctx)
}

func (e *Engine) autosave(ctx context.Context) {
	if e.drafts == nil {
		return
	}

	draft := e.sale.Clone()
	if err := e.drafts.SaveDraft(ctx, &draft); err != nil {
		e.log.Warn("failed to auto-save draft", "sale_id", draft.ID, "error", err)
	}
}
