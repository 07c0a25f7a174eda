package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/till/internal/app"
	"github.com/MrJamesThe3rd/till/internal/config"
	tillHttp "github.com/MrJamesThe3rd/till/internal/http"
	"github.com/MrJamesThe3rd/till/internal/http/backup"
	"github.com/MrJamesThe3rd/till/internal/http/customer"
	"github.com/MrJamesThe3rd/till/internal/http/importcsv"
	"github.com/MrJamesThe3rd/till/internal/http/product"
	"github.com/MrJamesThe3rd/till/internal/http/register"
	"github.com/MrJamesThe3rd/till/internal/http/report"
	httpsession "github.com/MrJamesThe3rd/till/internal/http/session"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newClient(t *testing.T) *client {
	t.Helper()

	cfg := &config.Config{}
	cfg.DB.Driver = app.DriverMemory
	cfg.App.DefaultUser = "admin"
	cfg.Shop.Name = "Toko Test"
	cfg.Storage.ResetOnCorrupt = true
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTL = time.Hour

	a, err := app.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	router := tillHttp.New(tillHttp.Handlers{
		Session:   httpsession.NewHandler(a.Session, a.Register.SetSalesperson),
		Register:  register.NewHandler(a.Register),
		Products:  product.NewHandler(a.Catalog),
		Customers: customer.NewHandler(a.Catalog),
		Reports:   report.NewHandler(a.Reports),
		Import:    importcsv.NewHandler(a.Importer),
		Backup:    backup.NewHandler(a.Export),
	}, a.Session, []string{"*"})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &client{t: t, server: srv}
}

func (c *client) do(method, path, body string) *http.Response {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, c.server.URL+"/api/v1"+path, reader)
	require.NoError(c.t, err)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func (c *client) decode(resp *http.Response, v any) {
	c.t.Helper()
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRouter_RequiresSession(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodGet, "/register", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c.token = "not-a-token"
	resp = c.do(http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_SaleLifecycle(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/session", `{"user_id":"admin"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var started struct {
		Token string `json:"token"`
	}
	c.decode(resp, &started)
	require.NotEmpty(t, started.Token)
	c.token = started.Token

	resp = c.do(http.MethodPost, "/products", `{"sku":"KOP-01","name":"Kopi","sell_price":"5000","stock":10,"low_stock_threshold":2}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = c.do(http.MethodPost, "/register/items", `{"ref":"kop-01","qty":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodPut, "/register/payment", `{"amount":"20000"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodPost, "/register/complete", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var closed struct {
		ID            string `json:"id"`
		SalespersonID string `json:"salesperson_id"`
	}
	c.decode(resp, &closed)
	assert.Equal(t, "S0001", closed.ID)
	assert.Equal(t, "admin", closed.SalespersonID)

	resp = c.do(http.MethodGet, "/products/KOP-01", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p struct {
		Stock int `json:"stock"`
	}
	c.decode(resp, &p)
	assert.Equal(t, 7, p.Stock)

	resp = c.do(http.MethodGet, "/sales/S0001/receipt", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	receipt, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(receipt), "Toko Test")
	assert.Contains(t, string(receipt), "S0001")

	resp = c.do(http.MethodGet, "/sales?status=closed", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sales []map[string]any
	c.decode(resp, &sales)
	assert.Len(t, sales, 1)

	resp = c.do(http.MethodGet, "/reports/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sum struct {
		SalesCount int `json:"sales_count"`
		ItemsSold  int `json:"items_sold"`
	}
	c.decode(resp, &sum)
	assert.Equal(t, 1, sum.SalesCount)
	assert.Equal(t, 3, sum.ItemsSold)

	resp = c.do(http.MethodGet, "/backup", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	resp = c.do(http.MethodDelete, "/session", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do(http.MethodGet, "/register", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_UnknownUser(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/session", `{"user_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = c.do(http.MethodPost, "/session", "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
