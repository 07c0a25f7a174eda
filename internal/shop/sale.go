package shop

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a sale.
type Status string

const (
	StatusNew    Status = "new"
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Sale is either the register's draft or a committed record in DB.Sales.
// Subtotal, Total and Change are derived from Items, Discount and Payment.
type Sale struct {
	ID             string          `json:"id,omitempty"`
	Status         Status          `json:"status"`
	Items          []Item          `json:"items"`
	Discount       decimal.Decimal `json:"discount"`
	Payment        decimal.Decimal `json:"payment"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
	Change         decimal.Decimal `json:"change"`
	Customer       *CustomerRef    `json:"customer,omitempty"`
	SalespersonID  string          `json:"salesperson_id"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	PaymentDetails string          `json:"payment_details,omitempty"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Item is a cart line. Prices are captured when the line is created.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// LineTotal is Qty × UnitPrice.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// CustomerRef is the customer snapshot attached to a sale. Nil means walk-in.
type CustomerRef struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

func (s Sale) Clone() Sale {
	s.Items = slices.Clone(s.Items)
	if s.Customer != nil {
		s.Customer = new(*s.Customer)
	}

	return s
}

// ItemIndex returns the index of the line for productID, or -1.
func (s Sale) ItemIndex(productID string) int {
	return slices.IndexFunc(s.Items, func(it Item) bool { return it.ProductID == productID })
}

// Quantities sums line quantities per product.
func (s Sale) Quantities() map[string]int {
	out := make(map[string]int, len(s.Items))
	for _, it := range s.Items {
		out[it.ProductID] += it.Qty
	}

	return out
}

// ItemCount is the number of units across all lines.
func (s Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Qty
	}

	return n
}

// FormatSaleID renders the sequential sale identifier, e.g. S0007.
func FormatSaleID(n int) string {
	return fmt.Sprintf("S%04d", n)
}
