package productcsv

import "strings"

// field identifies a product attribute that a CSV column can map to.
type field int

const (
	fieldSKU field = iota
	fieldBarcode
	fieldName
	fieldCategory
	fieldBrand
	fieldSupplier
	fieldBuyPrice
	fieldSellPrice
	fieldStock
	fieldLowStock
)

// aliases lists the header spellings accepted for each field, compared after
// lower-casing and dropping spaces, dashes and underscores.
var aliases = map[field][]string{
	fieldSKU:       {"sku", "code", "productcode", "kode", "kodebarang"},
	fieldBarcode:   {"barcode", "barcodes", "ean", "upc"},
	fieldName:      {"name", "product", "productname", "nama", "namabarang"},
	fieldCategory:  {"category", "kategori"},
	fieldBrand:     {"brand", "merek"},
	fieldSupplier:  {"supplier", "vendor", "pemasok"},
	fieldBuyPrice:  {"buyprice", "cost", "costprice", "hargabeli"},
	fieldSellPrice: {"sellprice", "price", "saleprice", "hargajual"},
	fieldStock:     {"stock", "qty", "quantity", "stok"},
	fieldLowStock:  {"lowstock", "lowstockthreshold", "minstock", "stokminimum"},
}

// required fields must be present for a row to be recognised as the header.
var required = []field{fieldName, fieldSellPrice}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '_' || r == '.' {
			return -1
		}

		return r
	}, s)
}

// lookup maps a header cell to a field.
func lookup(cell string) (field, bool) {
	name := normalizeHeader(cell)
	if name == "" {
		return 0, false
	}

	for f, names := range aliases {
		for _, n := range names {
			if n == name {
				return f, true
			}
		}
	}

	return 0, false
}
