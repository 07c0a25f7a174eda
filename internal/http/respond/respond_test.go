package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/till/internal/export"
	"github.com/MrJamesThe3rd/till/internal/http/respond"
	"github.com/MrJamesThe3rd/till/internal/sale"
	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
)

type errorBody struct {
	Error     string           `json:"error"`
	Kind      string           `json:"kind"`
	ProductID string           `json:"product_id"`
	Available *int             `json:"available"`
	Total     *decimal.Decimal `json:"total"`
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "StockExceeded", err: &sale.StockExceededError{ProductID: "p1", Available: 2}, wantStatus: http.StatusConflict, wantKind: "stock_exceeded"},
		{name: "InsufficientPayment", err: &sale.InsufficientPaymentError{Total: decimal.NewFromInt(500), Payment: decimal.NewFromInt(100)}, wantStatus: http.StatusUnprocessableEntity, wantKind: "insufficient_payment"},
		{name: "NotFound", err: fmt.Errorf("loading: %w", &shop.NotFoundError{Kind: "sale", ID: "S0001"}), wantStatus: http.StatusNotFound, wantKind: "not_found"},
		{name: "LineNotFound", err: sale.ErrLineNotFound, wantStatus: http.StatusNotFound, wantKind: "line_not_found"},
		{name: "UnsavedDraft", err: sale.ErrUnsavedDraft, wantStatus: http.StatusConflict, wantKind: "unsaved_draft"},
		{name: "DuplicateSKU", err: shop.ErrDuplicateSKU, wantStatus: http.StatusConflict, wantKind: "duplicate"},
		{name: "NegativeStock", err: shop.ErrNegativeStock, wantStatus: http.StatusConflict, wantKind: "negative_stock"},
		{name: "InvalidProduct", err: shop.ErrInvalidProduct, wantStatus: http.StatusUnprocessableEntity, wantKind: "invalid"},
		{name: "EmptyCart", err: sale.ErrEmptyCart, wantStatus: http.StatusUnprocessableEntity, wantKind: "empty_cart"},
		{name: "ZeroTotal", err: sale.ErrZeroTotal, wantStatus: http.StatusUnprocessableEntity, wantKind: "zero_total"},
		{name: "InvalidQuantity", err: sale.ErrInvalidQuantity, wantStatus: http.StatusUnprocessableEntity, wantKind: "invalid"},
		{name: "InvalidBackup", err: fmt.Errorf("%w: bad", export.ErrInvalidBackup), wantStatus: http.StatusUnprocessableEntity, wantKind: "invalid_backup"},
		{name: "Corrupt", err: storage.ErrCorrupt, wantStatus: http.StatusInternalServerError, wantKind: "storage_corrupt"},
		{name: "Unknown", err: errors.New("disk on fire"), wantStatus: http.StatusInternalServerError, wantKind: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond.Error(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Kind)

			if tt.wantKind == "internal" {
				assert.Equal(t, "internal error", body.Error)
			}
		})
	}
}

func TestError_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, &sale.StockExceededError{ProductID: "p1", Available: 2})

	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "p1", body.ProductID)
	require.NotNil(t, body.Available)
	assert.Equal(t, 2, *body.Available)

	rec = httptest.NewRecorder()
	respond.Error(rec, &sale.InsufficientPaymentError{Total: decimal.NewFromInt(500), Payment: decimal.NewFromInt(100)})

	body = errorBody{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Total)
	assert.True(t, decimal.NewFromInt(500).Equal(*body.Total))
}

func TestBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.BadRequest(rec, "ref is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"ref is required","kind":"bad_request"}`, rec.Body.String())
}
