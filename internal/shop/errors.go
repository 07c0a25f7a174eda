package shop

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicatePhone   = errors.New("phone already used by another customer")
	ErrDuplicateSKU     = errors.New("sku already used by another product")
	ErrDuplicateBarcode = errors.New("barcode already used by another product")
	ErrNegativeStock    = errors.New("stock cannot go below zero")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrInvalidCustomer  = errors.New("invalid customer")
)

// NotFoundError reports a missing sale, product or customer.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
