package sale_test

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/sale"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

// buildSale pairs quantities with prices given in cents.
func buildSale(qtys, cents []int, discount, payment int) shop.Sale {
	s := sale.NewSale("admin", fixedNow)

	for i := 0; i < len(qtys) && i < len(cents); i++ {
		s.Items = append(s.Items, shop.Item{
			ProductID: string(rune('a' + i%26)),
			Qty:       qtys[i],
			UnitPrice: decimal.New(int64(cents[i]), -2),
		})
	}

	s.Discount = decimal.New(int64(discount), -2)
	s.Payment = decimal.New(int64(payment), -2)

	return s
}

func saleGens() []gopter.Gen {
	return []gopter.Gen{
		gen.SliceOf(gen.IntRange(1, 50)),
		gen.SliceOf(gen.IntRange(0, 10_000_000)),
		gen.IntRange(-1_000_000, 100_000_000),
		gen.IntRange(0, 100_000_000),
	}
}

func TestTotals_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("recomputing is idempotent", prop.ForAll(
		func(qtys, cents []int, discount, payment int) bool {
			s := buildSale(qtys, cents, discount, payment)
			sale.Totals(&s)
			once := s.Clone()
			sale.Totals(&s)

			return once.Subtotal.Equal(s.Subtotal) &&
				once.Discount.Equal(s.Discount) &&
				once.Total.Equal(s.Total) &&
				once.Change.Equal(s.Change)
		},
		saleGens()...,
	))

	properties.Property("discount is clamped into [0, subtotal]", prop.ForAll(
		func(qtys, cents []int, discount, payment int) bool {
			s := buildSale(qtys, cents, discount, payment)
			sale.Totals(&s)

			return !s.Discount.IsNegative() && s.Discount.LessThanOrEqual(s.Subtotal)
		},
		saleGens()...,
	))

	properties.Property("total and change follow from subtotal, discount and payment", prop.ForAll(
		func(qtys, cents []int, discount, payment int) bool {
			s := buildSale(qtys, cents, discount, payment)
			sale.Totals(&s)

			subtotal := decimal.Zero
			for _, it := range s.Items {
				subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))))
			}

			return s.Subtotal.Equal(subtotal) &&
				s.Total.Equal(subtotal.Sub(s.Discount)) &&
				!s.Total.IsNegative() &&
				s.Change.Equal(decimal.Max(decimal.Zero, s.Payment.Sub(s.Total)))
		},
		saleGens()...,
	))

	properties.TestingRun(t)
}

func TestComplete_StockNeverNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("stock stays within [0, initial] across edits", prop.ForAll(
		func(initial int, qtys []int) bool {
			r := newRegister(t, product("p1", 100, initial))
			ctx := context.Background()

			var id string

			for _, qty := range qtys {
				if id != "" {
					if err := r.ctrl.LoadForEditing(ctx, id); err != nil {
						return false
					}

					if err := r.ctrl.ClearItems(ctx); err != nil {
						return false
					}
				}

				// Requests above the available stock are rejected, the rest must commit.
				if err := r.ctrl.AddItem(ctx, "p1", qty); err != nil {
					_ = r.ctrl.StartNew(ctx)
					continue
				}

				if err := r.ctrl.SetPayment(ctx, decimal.NewFromInt(int64(qty*100))); err != nil {
					return false
				}

				closed, err := r.ctrl.Complete(ctx)
				if err != nil {
					return false
				}

				id = closed.ID

				if got := r.stock(t, "p1"); got != initial-qty {
					return false
				}
			}

			got := r.stock(t, "p1")

			return got >= 0 && got <= initial
		},
		gen.IntRange(0, 30),
		gen.SliceOf(gen.IntRange(1, 40)),
	))

	properties.TestingRun(t)
}
