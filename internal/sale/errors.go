package sale

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrZeroTotal       = errors.New("sale total must be greater than zero")
	ErrUnsavedDraft    = errors.New("current sale has unsaved items")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// StockExceededError is returned when a cart change asks for more units than
// the product has available. The draft is left unchanged.
type StockExceededError struct {
	ProductID string
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("only %d in stock for product %s", e.Available, e.ProductID)
}

// InsufficientPaymentError is returned by Complete when payment does not cover the total.
type InsufficientPaymentError struct {
	Total   decimal.Decimal
	Payment decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("payment %s does not cover total %s", e.Payment.StringFixed(2), e.Total.StringFixed(2))
}
