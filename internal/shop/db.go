package shop

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The lookups below return pointers into the DB slices. Callers must hold the
// Workspace lock for as long as they use them.

// FindProduct resolves a product by ID, SKU (case-insensitive) or barcode, in that order.
func (db *DB) FindProduct(ref string) (*Product, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, notFound("product", ref)
	}

	if i := db.productIndex(ref); i >= 0 {
		return &db.Products[i], nil
	}

	for i := range db.Products {
		if db.Products[i].SKU != "" && strings.EqualFold(db.Products[i].SKU, ref) {
			return &db.Products[i], nil
		}
	}

	for i := range db.Products {
		if slices.Contains(db.Products[i].Barcodes, ref) {
			return &db.Products[i], nil
		}
	}

	return nil, notFound("product", ref)
}

// Product looks a product up by ID only.
func (db *DB) Product(id string) (*Product, error) {
	i := db.productIndex(id)
	if i < 0 {
		return nil, notFound("product", id)
	}

	return &db.Products[i], nil
}

func (db *DB) productIndex(id string) int {
	return slices.IndexFunc(db.Products, func(p Product) bool { return p.ID == id })
}

// ValidateProduct checks SKU and barcode uniqueness against every other product.
func (db *DB) ValidateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}

	if p.Stock < 0 {
		return ErrNegativeStock
	}

	if p.BuyPrice.IsNegative() || p.SellPrice.IsNegative() {
		return ErrInvalidProduct
	}

	for _, other := range db.Products {
		if other.ID == p.ID {
			continue
		}

		if p.SKU != "" && strings.EqualFold(other.SKU, p.SKU) {
			return ErrDuplicateSKU
		}

		for _, code := range p.Barcodes {
			if slices.Contains(other.Barcodes, code) {
				return ErrDuplicateBarcode
			}
		}
	}

	return nil
}

func (db *DB) User(id string) (User, error) {
	i := slices.IndexFunc(db.Users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return User{}, notFound("user", id)
	}

	return db.Users[i], nil
}

// Customer looks a customer up by ID.
func (db *DB) Customer(id string) (*Customer, error) {
	i := slices.IndexFunc(db.Customers, func(c Customer) bool { return c.ID == id })
	if i < 0 {
		return nil, notFound("customer", id)
	}

	return &db.Customers[i], nil
}

// FindCustomerByPhone returns nil when no customer has that phone.
func (db *DB) FindCustomerByPhone(phone string) *Customer {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil
	}

	for i := range db.Customers {
		if NormalizePhone(db.Customers[i].Phone) == phone {
			return &db.Customers[i]
		}
	}

	return nil
}

// ValidateCustomer enforces phone uniqueness among customers with a phone.
func (db *DB) ValidateCustomer(c Customer) error {
	if strings.TrimSpace(c.Name) == "" && c.Phone == "" {
		return ErrInvalidCustomer
	}

	if existing := db.FindCustomerByPhone(c.Phone); existing != nil && existing.ID != c.ID {
		return ErrDuplicatePhone
	}

	return nil
}

// WalkInCustomer is the first customer without a phone, else the first customer.
// Returns nil for an empty customer list.
func (db *DB) WalkInCustomer() *Customer {
	for i := range db.Customers {
		if db.Customers[i].Phone == "" {
			return &db.Customers[i]
		}
	}

	if len(db.Customers) > 0 {
		return &db.Customers[0]
	}

	return nil
}

// RecordCustomerSale upserts the customer of a completed sale and updates its
// last-sale stats. A phone that is not known yet creates a new customer.
func (db *DB) RecordCustomerSale(ref CustomerRef, total decimal.Decimal, at time.Time) CustomerRef {
	var c *Customer

	switch {
	case ref.Phone != "":
		c = db.FindCustomerByPhone(ref.Phone)
	case ref.ID != "":
		c, _ = db.Customer(ref.ID)
	}

	if c == nil {
		if ref.Phone == "" {
			return ref
		}

		db.Customers = append(db.Customers, Customer{
			ID:    uuid.NewString(),
			Name:  ref.Name,
			Phone: NormalizePhone(ref.Phone),
		})
		c = &db.Customers[len(db.Customers)-1]
	}

	if name := strings.TrimSpace(ref.Name); name != "" {
		c.Name = name
	}

	c.LastSaleAt = new(at)
	c.LastSaleTotal = new(total)

	return CustomerRef{ID: c.ID, Name: c.Name, Phone: c.Phone}
}

// SaleIndex returns the index of the sale record with id, or -1.
func (db *DB) SaleIndex(id string) int {
	if id == "" {
		return -1
	}

	return slices.IndexFunc(db.Sales, func(s Sale) bool { return s.ID == id })
}

// Sale returns a copy of the sale record with id.
func (db *DB) Sale(id string) (Sale, error) {
	i := db.SaleIndex(id)
	if i < 0 {
		return Sale{}, notFound("sale", id)
	}

	return db.Sales[i].Clone(), nil
}

// PutSale overwrites the record with the same ID or appends a new one.
func (db *DB) PutSale(s Sale) {
	if i := db.SaleIndex(s.ID); i >= 0 {
		db.Sales[i] = s.Clone()
		return
	}

	db.Sales = append(db.Sales, s.Clone())
}

// DeleteSale removes the record with id and reports whether it existed.
func (db *DB) DeleteSale(id string) bool {
	i := db.SaleIndex(id)
	if i < 0 {
		return false
	}

	db.Sales = slices.Delete(db.Sales, i, i+1)

	return true
}

// SalesByStatus returns copies of the records with the given status, in stored order.
func (db *DB) SalesByStatus(status Status) []Sale {
	var out []Sale

	for _, s := range db.Sales {
		if s.Status == status {
			out = append(out, s.Clone())
		}
	}

	return out
}

// NextSaleID allocates a sequential sale id. The counter never goes back.
func (db *DB) NextSaleID() string {
	if db.Counters.NextSaleID < 1 {
		db.Counters.NextSaleID = 1
	}

	id := FormatSaleID(db.Counters.NextSaleID)
	db.Counters.NextSaleID++

	// Imported or restored data may already use the id.
	for db.SaleIndex(id) >= 0 {
		id = FormatSaleID(db.Counters.NextSaleID)
		db.Counters.NextSaleID++
	}

	return id
}

// NormalizePhone strips spaces and dashes so "0812-345 678" and "0812345678" match.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' {
			return -1
		}

		return r
	}, strings.TrimSpace(phone))
}
