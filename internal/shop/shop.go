package shop

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion is written into every saved DB.
const SchemaVersion = 3

// DB is the whole persisted shop database. It is loaded once, mutated in memory
// under a Workspace lock and written back as a single blob.
type DB struct {
	Version      int               `json:"version"`
	Shop         Info              `json:"shop"`
	Users        []User            `json:"users"`
	Customers    []Customer        `json:"customers"`
	Products     []Product         `json:"products"`
	Sales        []Sale            `json:"sales"`
	StockUpdates []StockAdjustment `json:"stock_updates"`
	Counters     Counters          `json:"counters"`
	Settings     Settings          `json:"settings"`
}

type Info struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Logo    string `json:"logo,omitempty"`
}

type Counters struct {
	NextSaleID int `json:"next_sale_id"`
}

type Settings struct {
	Currency      string `json:"currency"`
	ReceiptFooter string `json:"receipt_footer,omitempty"`
}

// User identifies a salesperson. Authentication lives outside the core.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Product is a sellable item. Stock is never negative.
type Product struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku,omitempty"`
	Barcodes          []string        `json:"barcodes,omitempty"`
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Brand             string          `json:"brand,omitempty"`
	Supplier          string          `json:"supplier,omitempty"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

// IsLowStock reports whether the product is at or below its threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

func (p Product) Clone() Product {
	p.Barcodes = slices.Clone(p.Barcodes)
	if p.UpdatedAt != nil {
		p.UpdatedAt = new(*p.UpdatedAt)
	}

	return p
}

type Customer struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Phone         string           `json:"phone,omitempty"`
	Address       string           `json:"address,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	LastSaleAt    *time.Time       `json:"last_sale_at,omitempty"`
	LastSaleTotal *decimal.Decimal `json:"last_sale_total,omitempty"`
}

func (c Customer) Clone() Customer {
	if c.LastSaleAt != nil {
		c.LastSaleAt = new(*c.LastSaleAt)
	}

	if c.LastSaleTotal != nil {
		c.LastSaleTotal = new(*c.LastSaleTotal)
	}

	return c
}

// StockAdjustment is an append-only record of a manual stock correction.
type StockAdjustment struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Delta     int       `json:"delta"`
	Before    int       `json:"before"`
	After     int       `json:"after"`
	Date      string    `json:"date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Actor     string    `json:"actor"`
}

// Clone returns a deep copy of the database.
func (db *DB) Clone() *DB {
	out := *db
	out.Users = slices.Clone(db.Users)
	out.StockUpdates = slices.Clone(db.StockUpdates)

	out.Customers = make([]Customer, len(db.Customers))
	for i, c := range db.Customers {
		out.Customers[i] = c.Clone()
	}

	out.Products = make([]Product, len(db.Products))
	for i, p := range db.Products {
		out.Products[i] = p.Clone()
	}

	out.Sales = make([]Sale, len(db.Sales))
	for i, s := range db.Sales {
		out.Sales[i] = s.Clone()
	}

	return &out
}
