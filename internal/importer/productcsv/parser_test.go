package productcsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/till/internal/importer/productcsv"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParser_SemicolonWithTitleRows(t *testing.T) {
	csv := `Daftar Produk;Toko Maju
Dicetak;16-10-2026

Kode;Nama Barang;Kategori;Harga Beli;Harga Jual;Stok;Barcode
KP-01;Kopi Susu;Minuman;8.000;12.500;24;8991001|8991002
RT-02;Roti Cokelat;Makanan;5.000;8.000;10;
`

	p := productcsv.NewParser()
	products, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "KP-01", products[0].SKU)
	assert.Equal(t, "Kopi Susu", products[0].Name)
	assert.Equal(t, "Minuman", products[0].Category)
	assert.True(t, dec("8000").Equal(products[0].BuyPrice))
	assert.True(t, dec("12500").Equal(products[0].SellPrice))
	assert.Equal(t, 24, products[0].Stock)
	assert.Equal(t, []string{"8991001", "8991002"}, products[0].Barcodes)

	assert.Equal(t, "Roti Cokelat", products[1].Name)
	assert.Empty(t, products[1].Barcodes)
}

func TestParser_Comma(t *testing.T) {
	csv := "sku,name,price,stock,low_stock\n" +
		"T1,Teh Manis,\"4,50\",7,2\n" +
		",Air Mineral,3000,,\n"

	p := productcsv.NewParser()
	products, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.True(t, dec("4.5").Equal(products[0].SellPrice))
	assert.Equal(t, 7, products[0].Stock)
	assert.Equal(t, 2, products[0].LowStockThreshold)
	assert.True(t, products[0].BuyPrice.IsZero())

	assert.Empty(t, products[1].SKU)
	assert.Equal(t, 0, products[1].Stock)
}

func TestParser_Prices(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  string
	}{
		{name: "plain", price: "12500", want: "12500"},
		{name: "dot thousands", price: "12.500", want: "12500"},
		{name: "dot thousands with comma decimals", price: "12.500,50", want: "12500.5"},
		{name: "comma thousands with dot decimals", price: "12,500.50", want: "12500.5"},
		{name: "currency prefix", price: "Rp 12.500", want: "12500"},
		{name: "comma decimal", price: "4,5", want: "4.5"},
		{name: "dot decimal", price: "4.50", want: "4.5"},
		{name: "many groups", price: "1.250.000", want: "1250000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "name;price\nItem;" + tt.price + "\n"

			products, err := productcsv.NewParser().Parse(strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, products, 1)

			assert.True(t, dec(tt.want).Equal(products[0].SellPrice), "got %s", products[0].SellPrice)
		})
	}
}

func TestParser_SkipsBlankRows(t *testing.T) {
	csv := "name;price\nKopi;10\n;\n\nTeh;5\n"

	products, err := productcsv.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestParser_Windows1252(t *testing.T) {
	utf := "name;price\nCrème brûlée;25.000\n"

	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf))
	require.NoError(t, err)

	products, err := productcsv.NewParser().Parse(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, products, 1)

	assert.Equal(t, "Crème brûlée", products[0].Name)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{name: "no header", csv: "foo;bar\n1;2\n", wantErr: "no product header"},
		{name: "bad price", csv: "name;price\nKopi;abc\n", wantErr: "row 2: sell price"},
		{name: "bad stock", csv: "name;price;stock\nKopi;10;many\n", wantErr: "row 2: stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := productcsv.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
