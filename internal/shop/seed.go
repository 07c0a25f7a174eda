package shop

import (
	"github.com/google/uuid"
)

const (
	DefaultUserID   = "admin"
	DefaultCurrency = "Rp"
)

// Seed builds the database used on first start and after a corrupt load.
func Seed(info Info) *DB {
	if info.Name == "" {
		info.Name = "My Shop"
	}

	return &DB{
		Version: SchemaVersion,
		Shop:    info,
		Users: []User{
			{ID: DefaultUserID, Name: "Administrator", Role: "admin"},
		},
		Customers: []Customer{
			{ID: uuid.NewString(), Name: "Walk-in Customer"},
		},
		Products:     []Product{},
		Sales:        []Sale{},
		StockUpdates: []StockAdjustment{},
		Counters:     Counters{NextSaleID: 1},
		Settings:     Settings{Currency: DefaultCurrency},
	}
}
