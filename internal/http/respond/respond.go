// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/export"
	"github.com/MrJamesThe3rd/till/internal/sale"
	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
)

type errorResponse struct {
	Error     string           `json:"error"`
	Kind      string           `json:"kind"`
	ProductID string           `json:"product_id,omitempty"`
	Available *int             `json:"available,omitempty"`
	Total     *decimal.Decimal `json:"total,omitempty"`
	Payment   *decimal.Decimal `json:"payment,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// BadRequest reports a malformed request that never reached the domain.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg, Kind: "bad_request"})
}

// Error writes err with the status of its kind. Unknown errors are logged and
// reported as 500 without detail.
func Error(w http.ResponseWriter, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}

	JSON(w, status, body)
}

func classify(err error) (int, errorResponse) {
	var (
		stock   *sale.StockExceededError
		payment *sale.InsufficientPaymentError
	)

	body := errorResponse{Error: err.Error()}

	switch {
	case errors.As(err, &stock):
		body.Kind = "stock_exceeded"
		body.ProductID = stock.ProductID
		body.Available = new(stock.Available)

		return http.StatusConflict, body
	case errors.As(err, &payment):
		body.Kind = "insufficient_payment"
		body.Total = new(payment.Total)
		body.Payment = new(payment.Payment)

		return http.StatusUnprocessableEntity, body
	case errors.Is(err, shop.ErrNotFound):
		body.Kind = "not_found"
		return http.StatusNotFound, body
	case errors.Is(err, sale.ErrLineNotFound):
		body.Kind = "line_not_found"
		return http.StatusNotFound, body
	case errors.Is(err, sale.ErrUnsavedDraft):
		body.Kind = "unsaved_draft"
		return http.StatusConflict, body
	case errors.Is(err, shop.ErrDuplicatePhone),
		errors.Is(err, shop.ErrDuplicateSKU),
		errors.Is(err, shop.ErrDuplicateBarcode):
		body.Kind = "duplicate"
		return http.StatusConflict, body
	case errors.Is(err, shop.ErrNegativeStock):
		body.Kind = "negative_stock"
		return http.StatusConflict, body
	case errors.Is(err, shop.ErrInvalidProduct), errors.Is(err, shop.ErrInvalidCustomer):
		body.Kind = "invalid"
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, sale.ErrEmptyCart):
		body.Kind = "empty_cart"
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, sale.ErrZeroTotal):
		body.Kind = "zero_total"
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, export.ErrInvalidBackup):
		body.Kind = "invalid_backup"
		return http.StatusUnprocessableEntity, body
	case sale.IsValidation(err):
		body.Kind = "invalid"
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, storage.ErrCorrupt):
		body.Kind = "storage_corrupt"
		return http.StatusInternalServerError, body
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "internal"}
}
