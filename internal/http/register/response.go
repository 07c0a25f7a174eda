package register

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

type itemResponse struct {
	Index     int             `json:"index"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type saleResponse struct {
	ID             string            `json:"id,omitempty"`
	Status         shop.Status       `json:"status"`
	Items          []itemResponse    `json:"items"`
	ItemCount      int               `json:"item_count"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	Discount       decimal.Decimal   `json:"discount"`
	Total          decimal.Decimal   `json:"total"`
	Payment        decimal.Decimal   `json:"payment"`
	Change         decimal.Decimal   `json:"change"`
	Customer       *shop.CustomerRef `json:"customer,omitempty"`
	SalespersonID  string            `json:"salesperson_id"`
	PaymentMethod  string            `json:"payment_method,omitempty"`
	PaymentDetails string            `json:"payment_details,omitempty"`
	Note           string            `json:"note,omitempty"`
	CreatedAt      *time.Time        `json:"created_at,omitempty"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func toResponse(s shop.Sale) saleResponse {
	resp := saleResponse{
		ID:             s.ID,
		Status:         s.Status,
		Items:          make([]itemResponse, len(s.Items)),
		ItemCount:      s.ItemCount(),
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Total:          s.Total,
		Payment:        s.Payment,
		Change:         s.Change,
		Customer:       s.Customer,
		SalespersonID:  s.SalespersonID,
		PaymentMethod:  s.PaymentMethod,
		PaymentDetails: s.PaymentDetails,
		Note:           s.Note,
		UpdatedAt:      s.UpdatedAt,
	}

	if !s.CreatedAt.IsZero() {
		resp.CreatedAt = new(s.CreatedAt)
	}

	for i, it := range s.Items {
		resp.Items[i] = itemResponse{
			Index:     i,
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal(),
		}
	}

	return resp
}

func toResponseList(sales []shop.Sale) []saleResponse {
	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = toResponse(s)
	}

	return resp
}
