package sale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

type Options struct {
	// Salesperson is stamped on new drafts until SetSalesperson changes it.
	Salesperson string
	Clock       func() time.Time
	Logger      *slog.Logger
}

// Controller owns the register's single draft sale and moves it through
// new → open → closed, writing committed records into the shop workspace.
type Controller struct {
	mu     sync.Mutex
	ws     *shop.Workspace
	drafts DraftStore
	engine *Engine
	now    func() time.Time
	log    *slog.Logger

	salesperson  string
	lastClosedID string

	subs    map[int]func(shop.Sale)
	nextSub int
}

// NewController restores an auto-saved draft if one with items exists.
func NewController(ctx context.Context, ws *shop.Workspace, drafts DraftStore, opts Options) (*Controller, error) {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	c := &Controller{
		ws:          ws,
		drafts:      drafts,
		engine:      NewEngine(workspaceStock{ws: ws}, drafts, now, log),
		now:         now,
		log:         log,
		salesperson: opts.Salesperson,
		subs:        make(map[int]func(shop.Sale)),
	}

	if err := c.restore(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Controller) restore(ctx context.Context) error {
	draft, err := c.drafts.LoadDraft(ctx)
	if err != nil {
		return fmt.Errorf("restoring draft: %w", err)
	}

	if draft == nil || len(draft.Items) == 0 {
		c.engine.Load(NewSale(c.salesperson, c.now()))
		return nil
	}

	c.log.Info("restored auto-saved draft", "sale_id", draft.ID, "items", len(draft.Items))
	c.engine.Load(*draft)

	return nil
}

// Current returns a copy of the draft.
func (c *Controller) Current() shop.Sale {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.engine.Sale()
}

// Subscribe registers fn to be called with the draft after every change.
// The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(shop.Sale)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.subs, id)
	}
}

// SetSalesperson changes the user stamped on new drafts. An untouched draft is
// re-stamped right away.
func (c *Controller) SetSalesperson(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.salesperson = userID

	s := c.engine.Sale()
	if s.Status == shop.StatusNew && s.ID == "" && len(s.Items) == 0 {
		s.SalespersonID = userID
		c.engine.Load(s)
	}
}

// Cart operations.

func (c *Controller) AddItem(ctx context.Context, ref string, qty int) error {
	return c.mutate(func() error { return c.engine.AddItem(ctx, ref, qty) })
}

func (c *Controller) ChangeQuantity(ctx context.Context, index, delta int) error {
	return c.mutate(func() error { return c.engine.ChangeQuantity(ctx, index, delta) })
}

func (c *Controller) RemoveItem(ctx context.Context, index int) error {
	return c.mutate(func() error { return c.engine.RemoveItem(ctx, index) })
}

func (c *Controller) ClearItems(ctx context.Context) error {
	return c.mutate(func() error {
		c.engine.ClearItems(ctx)
		return nil
	})
}

func (c *Controller) SetDiscount(ctx context.Context, amount decimal.Decimal) error {
	return c.mutate(func() error {
		c.engine.SetDiscount(ctx, amount)
		return nil
	})
}

func (c *Controller) SetPayment(ctx context.Context, amount decimal.Decimal) error {
	return c.mutate(func() error {
		c.engine.SetPayment(ctx, amount)
		return nil
	})
}

// SetCustomer attaches a known customer by id, or a new one by name and phone.
func (c *Controller) SetCustomer(ctx context.Context, ref *shop.CustomerRef) error {
	if ref != nil && ref.ID != "" {
		err := c.ws.View(func(db *shop.DB) error {
			cust, err := db.Customer(ref.ID)
			if err != nil {
				return err
			}

			ref = &shop.CustomerRef{ID: cust.ID, Name: cust.Name, Phone: cust.Phone}

			return nil
		})
		if err != nil {
			return err
		}
	}

	return c.mutate(func() error {
		c.engine.SetCustomer(ctx, ref)
		return nil
	})
}

func (c *Controller) SetPaymentMethod(ctx context.Context, method, details string) error {
	return c.mutate(func() error {
		c.engine.SetPaymentMethod(ctx, method, details)
		return nil
	})
}

func (c *Controller) SetNote(ctx context.Context, note string) error {
	return c.mutate(func() error {
		c.engine.SetNote(ctx, note)
		return nil
	})
}

// Lifecycle transitions.

// Hold persists the draft as an open sale and starts a fresh draft.
func (c *Controller) Hold(ctx context.Context) (shop.Sale, error) {
	var held shop.Sale

	err := c.mutate(func() error {
		s := c.engine.Sale()
		if len(s.Items) == 0 {
			return ErrEmptyCart
		}

		now := c.now()

		err := c.ws.Update(ctx, func(db *shop.DB) error {
			before := committedQuantities(db, s.ID)

			if s.ID == "" {
				s.ID = db.NextSaleID()
			}

			if db.SaleIndex(s.ID) < 0 || s.CreatedAt.IsZero() {
				s.CreatedAt = now
			}

			s.Status = shop.StatusOpen
			s.UpdatedAt = now
			Totals(&s)

			applyStockDelta(db, before, nil, now)
			db.PutSale(s)

			return nil
		})
		if err != nil {
			return err
		}

		held = s
		c.reset(ctx)

		return nil
	})
	if err != nil {
		return shop.Sale{}, err
	}

	c.log.Info("sale held", "sale_id", held.ID, "total", held.Total.String())

	return held, nil
}

// Complete closes the draft: stock is deducted, the customer's stats are
// updated and the record is written. Re-completing a closed sale only moves
// stock by the difference to the previously closed quantities.
func (c *Controller) Complete(ctx context.Context) (shop.Sale, error) {
	var closed shop.Sale

	err := c.mutate(func() error {
		s := c.engine.Sale()
		if len(s.Items) == 0 {
			return ErrEmptyCart
		}

		Totals(&s)
		now := c.now()

		err := c.ws.Update(ctx, func(db *shop.DB) error {
			if s.Customer == nil {
				if w := db.WalkInCustomer(); w != nil {
					s.Customer = &shop.CustomerRef{ID: w.ID, Name: w.Name, Phone: w.Phone}
				}
			}

			if !s.Total.IsPositive() {
				return ErrZeroTotal
			}

			if s.Payment.LessThan(s.Total) {
				return &InsufficientPaymentError{Total: s.Total, Payment: s.Payment}
			}

			before := committedQuantities(db, s.ID)

			if s.ID == "" {
				s.ID = db.NextSaleID()
			}

			if db.SaleIndex(s.ID) < 0 || s.CreatedAt.IsZero() {
				s.CreatedAt = now
			}

			s.Status = shop.StatusClosed
			s.UpdatedAt = now

			applyStockDelta(db, before, s.Quantities(), now)

			if s.Customer != nil {
				ref := db.RecordCustomerSale(*s.Customer, s.Total, now)
				s.Customer = &ref
			}

			db.PutSale(s)

			return nil
		})
		if err != nil {
			return err
		}

		closed = s
		c.lastClosedID = s.ID
		c.reset(ctx)

		return nil
	})
	if err != nil {
		return shop.Sale{}, err
	}

	c.log.Info("sale completed", "sale_id", closed.ID, "total", closed.Total.String(), "change", closed.Change.String())

	return closed, nil
}

// Cancel discards the draft. A held (open) record with the draft's id is
// deleted; a closed record being re-edited is kept as it was.
func (c *Controller) Cancel(ctx context.Context) error {
	return c.mutate(func() error {
		s := c.engine.Sale()

		if s.ID != "" {
			var open bool

			_ = c.ws.View(func(db *shop.DB) error {
				i := db.SaleIndex(s.ID)
				open = i >= 0 && db.Sales[i].Status == shop.StatusOpen

				return nil
			})

			if open {
				err := c.ws.Update(ctx, func(db *shop.DB) error {
					db.DeleteSale(s.ID)
					return nil
				})
				if err != nil {
					return err
				}

				c.log.Info("held sale cancelled", "sale_id", s.ID)
			}
		}

		c.reset(ctx)

		return nil
	})
}

// StartNew drops the current draft without touching any persisted record.
func (c *Controller) StartNew(ctx context.Context) error {
	return c.mutate(func() error {
		c.reset(ctx)
		return nil
	})
}

// LoadForEditing copies a persisted open or closed sale into the draft. The
// current draft must be empty or already be that sale.
func (c *Controller) LoadForEditing(ctx context.Context, id string) error {
	return c.mutate(func() error {
		cur := c.engine.Sale()
		if len(cur.Items) > 0 && cur.ID != id {
			return ErrUnsavedDraft
		}

		var rec shop.Sale

		err := c.ws.View(func(db *shop.DB) error {
			var err error
			rec, err = db.Sale(id)

			return err
		})
		if err != nil {
			return err
		}

		c.engine.Load(rec)
		c.engine.autosave(ctx)

		return nil
	})
}

// Queries for the presentation layer.

func (c *Controller) ListOpenSales() []shop.Sale {
	var out []shop.Sale

	_ = c.ws.View(func(db *shop.DB) error {
		out = db.SalesByStatus(shop.StatusOpen)
		return nil
	})

	return out
}

// LastClosedID is the id of the sale most recently completed in this session.
func (c *Controller) LastClosedID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastClosedID, c.lastClosedID != ""
}

// LastClosedSale returns the record of LastClosedID for receipt reprinting.
func (c *Controller) LastClosedSale() (shop.Sale, error) {
	id, ok := c.LastClosedID()
	if !ok {
		return shop.Sale{}, &shop.NotFoundError{Kind: "sale", ID: ""}
	}

	var out shop.Sale

	err := c.ws.View(func(db *shop.DB) error {
		var err error
		out, err = db.Sale(id)

		return err
	})

	return out, err
}

// reset starts a fresh draft and empties the auto-save slot. Caller holds mu.
func (c *Controller) reset(ctx context.Context) {
	c.engine.Load(NewSale(c.salesperson, c.now()))

	if err := c.drafts.ClearDraft(ctx); err != nil {
		c.log.Warn("failed to clear auto-saved draft", "error", err)
	}
}

// mutate runs fn under the lock and notifies subscribers once it succeeded.
func (c *Controller) mutate(fn func() error) error {
	c.mu.Lock()

	err := fn()

	var (
		draft shop.Sale
		subs  []func(shop.Sale)
	)

	if err == nil {
		draft = c.engine.Sale()
		for _, s := range c.subs {
			subs = append(subs, s)
		}
	}

	c.mu.Unlock()

	for _, fn := range subs {
		fn(draft.Clone())
	}

	return err
}

// IsValidation reports whether err is one of the caller-facing kinds that
// leave all state untouched.
func IsValidation(err error) bool {
	var (
		stock   *StockExceededError
		payment *InsufficientPaymentError
	)

	switch {
	case errors.As(err, &stock), errors.As(err, &payment):
		return true
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrZeroTotal),
		errors.Is(err, ErrUnsavedDraft), errors.Is(err, ErrLineNotFound),
		errors.Is(err, ErrInvalidQuantity):
		return true
	}

	return false
}
