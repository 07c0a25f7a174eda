package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
)

var ErrInvalidBackup = errors.New("invalid backup")

// Service produces backups and receipts from the shop database and restores
// backups into it.
type Service struct {
	ws *shop.Workspace
}

func NewService(ws *shop.Workspace) *Service {
	return &Service{ws: ws}
}

// Archive file names.
const (
	FileDB       = "db.json"
	FileSales    = "sales.csv"
	FileProducts = "products.csv"
)

// WriteArchive writes a zip with the whole database as JSON plus spreadsheet
// friendly sale lines and products.
func (s *Service) WriteArchive(w io.Writer) error {
	db := s.ws.Snapshot()

	zw := zip.NewWriter(w)

	if err := writeEntry(zw, FileDB, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(db)
	}); err != nil {
		return err
	}

	if err := writeEntry(zw, FileSales, func(w io.Writer) error { return writeSales(w, db.Sales) }); err != nil {
		return err
	}

	if err := writeEntry(zw, FileProducts, func(w io.Writer) error { return writeProducts(w, db.Products) }); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}

// Restore replaces the whole database with a db.json backup.
func (s *Service) Restore(ctx context.Context, r io.Reader) error {
	var db shop.DB
	if err := json.NewDecoder(r).Decode(&db); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if db.Version == 0 {
		return fmt.Errorf("%w: missing version", ErrInvalidBackup)
	}

	storage.Normalize(&db)

	if err := s.ws.Replace(ctx, &db); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}

	return nil
}

// Receipt renders the committed sale id as plain text.
func (s *Service) Receipt(id string) (string, error) {
	var out string

	err := s.ws.View(func(db *shop.DB) error {
		sale, err := db.Sale(id)
		if err != nil {
			return err
		}

		out = FormatReceipt(db.Shop, db.Settings, sale)

		return nil
	})

	return out, err
}

const receiptWidth = 40

// FormatReceipt lays out a sale for a narrow receipt printer.
func FormatReceipt(info shop.Info, settings shop.Settings, sale shop.Sale) string {
	var sb strings.Builder

	line := strings.Repeat("-", receiptWidth) + "\n"
	money := func(label, amount string) {
		fmt.Fprintf(&sb, "%-20s%20s\n", label, settings.Currency+" "+amount)
	}

	sb.WriteString(center(info.Name))

	if info.Address != "" {
		sb.WriteString(center(info.Address))
	}

	if info.Phone != "" {
		sb.WriteString(center(info.Phone))
	}

	sb.WriteString(line)
	fmt.Fprintf(&sb, "%s  %s\n", sale.ID, sale.UpdatedAt.Format("2006-01-02 15:04"))

	if sale.Customer != nil && sale.Customer.Name != "" {
		fmt.Fprintf(&sb, "Customer: %s\n", sale.Customer.Name)
	}

	sb.WriteString(line)

	for _, it := range sale.Items {
		sb.WriteString(it.Name + "\n")
		fmt.Fprintf(&sb, "  %d x %-14s%20s\n", it.Qty, it.UnitPrice.StringFixed(2), it.LineTotal().StringFixed(2))
	}

	sb.WriteString(line)
	money("Subtotal", sale.Subtotal.StringFixed(2))

	if sale.Discount.IsPositive() {
		money("Discount", "-"+sale.Discount.StringFixed(2))
	}

	money("Total", sale.Total.StringFixed(2))
	money("Paid", sale.Payment.StringFixed(2))
	money("Change", sale.Change.StringFixed(2))

	if sale.PaymentMethod != "" {
		fmt.Fprintf(&sb, "Paid by %s\n", sale.PaymentMethod)
	}

	if settings.ReceiptFooter != "" {
		sb.WriteString(line)
		sb.WriteString(center(settings.ReceiptFooter))
	}

	return sb.String()
}

func center(s string) string {
	if len(s) >= receiptWidth {
		return s + "\n"
	}

	return strings.Repeat(" ", (receiptWidth-len(s))/2) + s + "\n"
}

func writeEntry(zw *zip.Writer, name string, fn func(io.Writer) error) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	if err := fn(f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

func writeSales(w io.Writer, sales []shop.Sale) error {
	cw := csv.NewWriter(w)

	header := []string{
		"sale_id", "status", "updated_at", "customer", "salesperson",
		"product_id", "name", "qty", "unit_price", "line_total", "discount", "total",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range sales {
		customer := ""
		if s.Customer != nil {
			customer = s.Customer.Name
		}

		for _, it := range s.Items {
			row := []string{
				s.ID,
				string(s.Status),
				s.UpdatedAt.Format(time.RFC3339),
				customer,
				s.SalespersonID,
				it.ProductID,
				it.Name,
				strconv.Itoa(it.Qty),
				it.UnitPrice.String(),
				it.LineTotal().String(),
				s.Discount.String(),
				s.Total.String(),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()

	return cw.Error()
}

func writeProducts(w io.Writer, products []shop.Product) error {
	cw := csv.NewWriter(w)

	header := []string{"sku", "barcode", "name", "category", "brand", "supplier", "buy_price", "sell_price", "stock", "low_stock"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range products {
		row := []string{
			p.SKU,
			strings.Join(p.Barcodes, "|"),
			p.Name,
			p.Category,
			p.Brand,
			p.Supplier,
			p.BuyPrice.String(),
			p.SellPrice.String(),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.LowStockThreshold),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
