package register_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/till/internal/http/register"
	"github.com/MrJamesThe3rd/till/internal/sale"
	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
	"github.com/MrJamesThe3rd/till/internal/storage/store"
)

type draftBody struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Change    decimal.Decimal `json:"change"`
	Items     []struct {
		Index     int             `json:"index"`
		Qty       int             `json:"qty"`
		LineTotal decimal.Decimal `json:"line_total"`
	} `json:"items"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := storage.NewService(store.NewMemory(), storage.Options{Logger: log})

	ws, err := shop.NewWorkspace(ctx, st)
	require.NoError(t, err)

	require.NoError(t, ws.Update(ctx, func(db *shop.DB) error {
		db.Products = append(db.Products, shop.Product{
			ID: "p1", SKU: "KOP-01", Barcodes: []string{"8991001"}, Name: "Kopi",
			SellPrice: decimal.NewFromInt(5000), Stock: 3,
		})

		return nil
	}))

	ctrl, err := sale.NewController(ctx, ws, st, sale.Options{Salesperson: shop.DefaultUserID, Logger: log})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/register", register.NewHandler(ctrl).Routes)

	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeDraft(t *testing.T, rec *httptest.ResponseRecorder) draftBody {
	t.Helper()

	var d draftBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))

	return d
}

func TestHandler_CheckoutFlow(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodPost, "/register/items", `{"ref":"8991001"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeDraft(t, rec).ItemCount)

	rec = do(t, h, http.MethodPatch, "/register/items/0", `{"delta":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	d := decodeDraft(t, rec)
	require.Len(t, d.Items, 1)
	assert.Equal(t, 2, d.Items[0].Qty)
	assert.True(t, decimal.NewFromInt(10000).Equal(d.Items[0].LineTotal))

	rec = do(t, h, http.MethodPut, "/register/discount", `{"amount":"1000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decimal.NewFromInt(9000).Equal(decodeDraft(t, rec).Total))

	rec = do(t, h, http.MethodPut, "/register/payment", `{"amount":10000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/register/complete", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	closed := decodeDraft(t, rec)
	assert.Equal(t, "S0001", closed.ID)
	assert.Equal(t, "closed", closed.Status)
	assert.True(t, decimal.NewFromInt(1000).Equal(closed.Change))

	rec = do(t, h, http.MethodGet, "/register/last-closed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "S0001", decodeDraft(t, rec).ID)

	rec = do(t, h, http.MethodGet, "/register", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeDraft(t, rec).ItemCount)
}

func TestHandler_HoldAndResume(t *testing.T) {
	h := newRouter(t)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/register/items", `{"ref":"KOP-01","qty":2}`).Code)

	rec := do(t, h, http.MethodPost, "/register/hold", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	held := decodeDraft(t, rec)
	assert.Equal(t, "open", held.Status)

	rec = do(t, h, http.MethodGet, "/register/open", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var open []draftBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&open))
	require.Len(t, open, 1)

	rec = do(t, h, http.MethodPost, "/register/open/"+held.ID+"/edit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, held.ID, decodeDraft(t, rec).ID)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/register/cancel", "").Code)

	rec = do(t, h, http.MethodGet, "/register/open", "")
	open = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&open))
	assert.Empty(t, open)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "MissingRef", method: http.MethodPost, path: "/register/items", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "MalformedBody", method: http.MethodPost, path: "/register/items", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "UnknownProduct", method: http.MethodPost, path: "/register/items", body: `{"ref":"nope"}`, wantStatus: http.StatusNotFound},
		{name: "OverStock", method: http.MethodPost, path: "/register/items", body: `{"ref":"p1","qty":4}`, wantStatus: http.StatusConflict},
		{name: "BadIndex", method: http.MethodDelete, path: "/register/items/x", wantStatus: http.StatusBadRequest},
		{name: "MissingLine", method: http.MethodDelete, path: "/register/items/3", wantStatus: http.StatusNotFound},
		{name: "HoldEmpty", method: http.MethodPost, path: "/register/hold", wantStatus: http.StatusUnprocessableEntity},
		{name: "NoLastClosed", method: http.MethodGet, path: "/register/last-closed", wantStatus: http.StatusNotFound},
		{name: "CustomerWithoutFields", method: http.MethodPut, path: "/register/customer", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "UnknownCustomer", method: http.MethodPut, path: "/register/customer", body: `{"id":"c404"}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(t), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_InsufficientPayment(t *testing.T) {
	h := newRouter(t)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/register/items", `{"ref":"p1"}`).Code)

	rec := do(t, h, http.MethodPost, "/register/complete", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"insufficient_payment"`)
}
