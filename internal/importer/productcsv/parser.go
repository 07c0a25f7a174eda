package productcsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/catalog"
	enc "github.com/MrJamesThe3rd/till/internal/encoding"
)

// Parser reads product lists exported from spreadsheets. The header row is
// found by matching column names against known aliases, so leading title rows
// are skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]catalog.ProductParams, error) {
	utf8r, _, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := detectHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no product header found: expected at least name and price columns")
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps fields to their column in the row.
type colIndex map[field]int

func detectHeader(rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if f, ok := lookup(cell); ok {
				if _, seen := cols[f]; !seen {
					cols[f] = i
				}
			}
		}

		if hasRequired(cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func hasRequired(cols colIndex) bool {
	for _, f := range required {
		if _, ok := cols[f]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows. Blank rows are skipped; a row with a name but
// an unreadable number is an error that names the 1-based line.
func parseRows(cols colIndex, rows [][]string, headerRowNum int) ([]catalog.ProductParams, error) {
	var out []catalog.ProductParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		name := cell(row, cols, fieldName)
		if name == "" {
			continue
		}

		sell, err := parsePrice(cell(row, cols, fieldSellPrice))
		if err != nil {
			return nil, fmt.Errorf("row %d: sell price: %w", rowNum, err)
		}

		params := catalog.ProductParams{
			SKU:       cell(row, cols, fieldSKU),
			Name:      name,
			Category:  cell(row, cols, fieldCategory),
			Brand:     cell(row, cols, fieldBrand),
			Supplier:  cell(row, cols, fieldSupplier),
			SellPrice: sell,
			BuyPrice:  decimal.Zero,
		}

		if s := cell(row, cols, fieldBuyPrice); s != "" {
			if params.BuyPrice, err = parsePrice(s); err != nil {
				return nil, fmt.Errorf("row %d: buy price: %w", rowNum, err)
			}
		}

		if params.Stock, err = intCell(row, cols, fieldStock); err != nil {
			return nil, fmt.Errorf("row %d: stock: %w", rowNum, err)
		}

		if params.LowStockThreshold, err = intCell(row, cols, fieldLowStock); err != nil {
			return nil, fmt.Errorf("row %d: low stock: %w", rowNum, err)
		}

		if s := cell(row, cols, fieldBarcode); s != "" {
			params.Barcodes = strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ' ' })
		}

		out = append(out, params)
	}

	return out, nil
}

// cell returns the trimmed value of f, or "" when the column is absent.
func cell(row []string, cols colIndex, f field) string {
	idx, ok := cols[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func intCell(row []string, cols colIndex, f field) (int, error) {
	s := cell(row, cols, f)
	if s == "" {
		return 0, nil
	}

	return strconv.Atoi(strings.ReplaceAll(s, ".", ""))
}

// sniffDelimiter picks the most frequent of ; , and tab in the first lines.
func sniffDelimiter(data []byte) rune {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}

	best, bestCount := ',', 0

	for _, d := range []rune{';', ',', '\t'} {
		if n := bytes.Count(head, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}
