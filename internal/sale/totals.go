package sale

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

// NewSale returns an empty draft owned by salespersonID.
func NewSale(salespersonID string, now time.Time) shop.Sale {
	return shop.Sale{
		Status:        shop.StatusNew,
		Items:         []shop.Item{},
		Discount:      decimal.Zero,
		Payment:       decimal.Zero,
		Subtotal:      decimal.Zero,
		Total:         decimal.Zero,
		Change:        decimal.Zero,
		SalespersonID: salespersonID,
		UpdatedAt:     now,
	}
}

// Totals derives Subtotal, Total and Change and clamps Discount into
// [0, Subtotal]. It depends only on Items, Discount and Payment.
func Totals(s *shop.Sale) {
	subtotal := decimal.Zero
	for _, it := range s.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	s.Subtotal = subtotal
	s.Discount = clamp(s.Discount, decimal.Zero, subtotal)
	s.Total = decimal.Max(decimal.Zero, subtotal.Sub(s.Discount))
	s.Change = decimal.Max(decimal.Zero, s.Payment.Sub(s.Total))
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}

	if v.GreaterThan(hi) {
		return hi
	}

	return v
}
