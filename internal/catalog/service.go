package catalog

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

// Service manages products, customers and manual stock corrections.
type Service struct {
	ws  *shop.Workspace
	now func() time.Time
}

func NewService(ws *shop.Workspace) *Service {
	return &Service{ws: ws, now: time.Now}
}

type ProductParams struct {
	SKU               string
	Barcodes          []string
	Name              string
	Category          string
	Brand             string
	Supplier          string
	BuyPrice          decimal.Decimal
	SellPrice         decimal.Decimal
	Stock             int
	LowStockThreshold int
}

// ProductUpdate carries the fields to change; nil fields are left alone.
// Stock is changed through AdjustStock only.
type ProductUpdate struct {
	SKU               *string
	Barcodes          *[]string
	Name              *string
	Category          *string
	Brand             *string
	Supplier          *string
	BuyPrice          *decimal.Decimal
	SellPrice         *decimal.Decimal
	LowStockThreshold *int
}

type AdjustParams struct {
	ProductID string
	Delta     int
	Note      string
	Actor     string
}

type CustomerParams struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

func (s *Service) ListProducts() []shop.Product {
	var out []shop.Product

	_ = s.ws.View(func(db *shop.DB) error {
		out = make([]shop.Product, len(db.Products))
		for i, p := range db.Products {
			out[i] = p.Clone()
		}

		return nil
	})

	return out
}

// FindProduct resolves a product by id, SKU or barcode.
func (s *Service) FindProduct(ref string) (shop.Product, error) {
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

// LowStock lists products at or below their low-stock threshold.
func (s *Service) LowStock() []shop.Product {
	var out []shop.Product

	for _, p := range s.ListProducts() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}

	return out
}

func (s *Service) CreateProduct(ctx context.Context, params ProductParams) (shop.Product, error) {
	p := shop.Product{
		ID:                uuid.NewString(),
		SKU:               strings.TrimSpace(params.SKU),
		Barcodes:          cleanBarcodes(params.Barcodes),
		Name:              strings.TrimSpace(params.Name),
		Category:          strings.TrimSpace(params.Category),
		Brand:             strings.TrimSpace(params.Brand),
		Supplier:          strings.TrimSpace(params.Supplier),
		BuyPrice:          params.BuyPrice,
		SellPrice:         params.SellPrice,
		Stock:             params.Stock,
		LowStockThreshold: params.LowStockThreshold,
		CreatedAt:         s.now(),
	}

	err := s.ws.Update(ctx, func(db *shop.DB) error {
		if err := db.ValidateProduct(p); err != nil {
			return err
		}

		db.Products = append(db.Products, p)

		return nil
	})
	if err != nil {
		return shop.Product{}, err
	}

	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (shop.Product, error) {
	var out shop.Product

	err := s.ws.Update(ctx, func(db *shop.DB) error {
		p, err := db.Product(id)
		if err != nil {
			return err
		}

		next := p.Clone()
		applyUpdate(&next, upd)
		next.UpdatedAt = new(s.now())

		if err := db.ValidateProduct(next); err != nil {
			return err
		}

		*p = next
		out = next.Clone()

		return nil
	})

	return out, err
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.ws.Update(ctx, func(db *shop.DB) error {
		if _, err := db.Product(id); err != nil {
			return err
		}

		db.Products = slices.DeleteFunc(db.Products, func(p shop.Product) bool { return p.ID == id })

		return nil
	})
}

// AdjustStock applies a manual stock correction and logs it. Corrections that
// would take stock below zero are refused.
func (s *Service) AdjustStock(ctx context.Context, params AdjustParams) (shop.StockAdjustment, error) {
	var rec shop.StockAdjustment

	err := s.ws.Update(ctx, func(db *shop.DB) error {
		p, err := db.Product(params.ProductID)
		if err != nil {
			return err
		}

		after := p.Stock + params.Delta
		if after < 0 {
			return shop.ErrNegativeStock
		}

		now := s.now()
		rec = shop.StockAdjustment{
			ID:        uuid.NewString(),
			ProductID: p.ID,
			Delta:     params.Delta,
			Before:    p.Stock,
			After:     after,
			Date:      now.Format(time.DateOnly),
			Note:      strings.TrimSpace(params.Note),
			CreatedAt: now,
			Actor:     params.Actor,
		}

		p.Stock = after
		p.UpdatedAt = new(now)
		db.StockUpdates = append(db.StockUpdates, rec)

		return nil
	})

	return rec, err
}

// ListStockUpdates returns the adjustment log, newest first. An empty
// productID returns every product's adjustments.
func (s *Service) ListStockUpdates(productID string) []shop.StockAdjustment {
	var out []shop.StockAdjustment

	_ = s.ws.View(func(db *shop.DB) error {
		for _, u := range db.StockUpdates {
			if productID == "" || u.ProductID == productID {
				out = append(out, u)
			}
		}

		return nil
	})

	slices.Reverse(out)

	return out
}

// UpsertBySKU creates products with unknown SKUs and updates the rest, all in
// one save. Stock of existing products is not touched.
func (s *Service) UpsertBySKU(ctx context.Context, params []ProductParams) (created, updated int, err error) {
	err = s.ws.Update(ctx, func(db *shop.DB) error {
		now := s.now()

		for _, pp := range params {
			sku := strings.TrimSpace(pp.SKU)

			idx := -1
			if sku != "" {
				idx = slices.IndexFunc(db.Products, func(p shop.Product) bool { return strings.EqualFold(p.SKU, sku) })
			}

			if idx < 0 {
				p := shop.Product{
					ID:                uuid.NewString(),
					SKU:               sku,
					Barcodes:          cleanBarcodes(pp.Barcodes),
					Name:              strings.TrimSpace(pp.Name),
					Category:          pp.Category,
					Brand:             pp.Brand,
					Supplier:          pp.Supplier,
					BuyPrice:          pp.BuyPrice,
					SellPrice:         pp.SellPrice,
					Stock:             pp.Stock,
					LowStockThreshold: pp.LowStockThreshold,
					CreatedAt:         now,
				}
				if err := db.ValidateProduct(p); err != nil {
					return err
				}

				db.Products = append(db.Products, p)
				created++

				continue
			}

			next := db.Products[idx].Clone()
			next.Name = strings.TrimSpace(pp.Name)
			next.Category = pp.Category
			next.Brand = pp.Brand
			next.Supplier = pp.Supplier
			next.BuyPrice = pp.BuyPrice
			next.SellPrice = pp.SellPrice
			next.LowStockThreshold = pp.LowStockThreshold
			next.UpdatedAt = new(now)

			if len(pp.Barcodes) > 0 {
				next.Barcodes = cleanBarcodes(pp.Barcodes)
			}

			if err := db.ValidateProduct(next); err != nil {
				return err
			}

			db.Products[idx] = next
			updated++
		}

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return created, updated, nil
}

func (s *Service) ListCustomers() []shop.Customer {
	var out []shop.Customer

	_ = s.ws.View(func(db *shop.DB) error {
		out = make([]shop.Customer, len(db.Customers))
		for i, c := range db.Customers {
			out[i] = c.Clone()
		}

		return nil
	})

	return out
}

func (s *Service) FindCustomerByPhone(phone string) (shop.Customer, error) {
	var out shop.Customer

	err := s.ws.View(func(db *shop.DB) error {
		c := db.FindCustomerByPhone(phone)
		if c == nil {
			return &shop.NotFoundError{Kind: "customer", ID: phone}
		}

		out = c.Clone()

		return nil
	})

	return out, err
}

// CreateCustomer is the quick-add path of the register.
func (s *Service) CreateCustomer(ctx context.Context, params CustomerParams) (shop.Customer, error) {
	c := shop.Customer{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(params.Name),
		Phone:   shop.NormalizePhone(params.Phone),
		Address: strings.TrimSpace(params.Address),
		Notes:   strings.TrimSpace(params.Notes),
	}

	err := s.ws.Update(ctx, func(db *shop.DB) error {
		if err := db.ValidateCustomer(c); err != nil {
			return err
		}

		db.Customers = append(db.Customers, c)

		return nil
	})
	if err != nil {
		return shop.Customer{}, err
	}

	return c, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, params CustomerParams) (shop.Customer, error) {
	var out shop.Customer

	err := s.ws.Update(ctx, func(db *shop.DB) error {
		c, err := db.Customer(id)
		if err != nil {
			return err
		}

		next := c.Clone()
		next.Name = strings.TrimSpace(params.Name)
		next.Phone = shop.NormalizePhone(params.Phone)
		next.Address = strings.TrimSpace(params.Address)
		next.Notes = strings.TrimSpace(params.Notes)

		if err := db.ValidateCustomer(next); err != nil {
			return err
		}

		*c = next
		out = next.Clone()

		return nil
	})

	return out, err
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.ws.Update(ctx, func(db *shop.DB) error {
		if _, err := db.Customer(id); err != nil {
			return err
		}

		db.Customers = slices.DeleteFunc(db.Customers, func(c shop.Customer) bool { return c.ID == id })

		return nil
	})
}

func applyUpdate(p *shop.Product, upd ProductUpdate) {
	if upd.SKU != nil {
		p.SKU = strings.TrimSpace(*upd.SKU)
	}

	if upd.Barcodes != nil {
		p.Barcodes = cleanBarcodes(*upd.Barcodes)
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}

	if upd.Category != nil {
		p.Category = strings.TrimSpace(*upd.Category)
	}

	if upd.Brand != nil {
		p.Brand = strings.TrimSpace(*upd.Brand)
	}

	if upd.Supplier != nil {
		p.Supplier = strings.TrimSpace(*upd.Supplier)
	}

	if upd.BuyPrice != nil {
		p.BuyPrice = *upd.BuyPrice
	}

	if upd.SellPrice != nil {
		p.SellPrice = *upd.SellPrice
	}

	if upd.LowStockThreshold != nil {
		p.LowStockThreshold = *upd.LowStockThreshold
	}
}

// cleanBarcodes trims and de-duplicates codes, keeping their order.
func cleanBarcodes(codes []string) []string {
	var out []string

	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || slices.Contains(out, c) {
			continue
		}

		out = append(out, c)
	}

	return out
}
