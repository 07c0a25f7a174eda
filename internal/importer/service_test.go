package importer_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/till/internal/catalog"
	"github.com/MrJamesThe3rd/till/internal/importer"
	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
	"github.com/MrJamesThe3rd/till/internal/storage/store"
)

func newCatalog(t *testing.T) *catalog.Service {
	t.Helper()

	st := storage.NewService(store.NewMemory(), storage.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	ws, err := shop.NewWorkspace(context.Background(), st)
	require.NoError(t, err)

	return catalog.NewService(ws)
}

const products = `sku;name;sell_price;stock
KOP-01;Kopi;5000;10
TEH-01;Teh;3000;4
`

func TestService_Import(t *testing.T) {
	cat := newCatalog(t)
	svc := importer.NewService(cat)
	ctx := context.Background()

	res, err := svc.Import(ctx, importer.FormatCSV, strings.NewReader(products))
	require.NoError(t, err)
	assert.Equal(t, importer.Result{Parsed: 2, Created: 2}, res)

	res, err = svc.Import(ctx, importer.FormatCSV, strings.NewReader(products))
	require.NoError(t, err)
	assert.Equal(t, importer.Result{Parsed: 2, Updated: 2}, res)

	assert.Len(t, cat.ListProducts(), 2)
}

func TestService_Parse(t *testing.T) {
	tests := []struct {
		name    string
		format  importer.Format
		input   string
		wantLen int
		wantErr bool
	}{
		{name: "CSV", format: importer.FormatCSV, input: products, wantLen: 2},
		{name: "UnknownFormat", format: "xlsx", input: products, wantErr: true},
		{name: "NoHeader", format: importer.FormatCSV, input: "a;b\n1;2\n", wantErr: true},
	}

	svc := importer.NewService(newCatalog(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Parse(tt.format, strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_SaveRejectsDuplicates(t *testing.T) {
	cat := newCatalog(t)
	svc := importer.NewService(cat)

	_, err := svc.Save(context.Background(), []catalog.ProductParams{
		{SKU: "A", Name: "A", Barcodes: []string{"1"}},
		{SKU: "B", Name: "B", Barcodes: []string{"1"}},
	})
	assert.ErrorIs(t, err, shop.ErrDuplicateBarcode)
	assert.Empty(t, cat.ListProducts())
}
