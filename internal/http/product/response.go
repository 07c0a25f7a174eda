package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

type productResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku,omitempty"`
	Barcodes          []string        `json:"barcodes"`
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Brand             string          `json:"brand,omitempty"`
	Supplier          string          `json:"supplier,omitempty"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(p shop.Product) productResponse {
	resp := productResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Barcodes:          p.Barcodes,
		Name:              p.Name,
		Category:          p.Category,
		Brand:             p.Brand,
		Supplier:          p.Supplier,
		BuyPrice:          p.BuyPrice,
		SellPrice:         p.SellPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	if resp.Barcodes == nil {
		resp.Barcodes = []string{}
	}

	return resp
}

func toResponseList(products []shop.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	return resp
}
