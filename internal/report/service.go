package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

// Service computes KPIs from committed sale records. It never writes.
type Service struct {
	ws *shop.Workspace
}

func NewService(ws *shop.Workspace) *Service {
	return &Service{ws: ws}
}

type Filter struct {
	Status    *shop.Status
	StartDate *time.Time
	EndDate   *time.Time
}

type ProductSales struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type Summary struct {
	SalesCount    int                        `json:"sales_count"`
	OpenCount     int                        `json:"open_count"`
	ItemsSold     int                        `json:"items_sold"`
	Gross         decimal.Decimal            `json:"gross"`
	Discounts     decimal.Decimal            `json:"discounts"`
	Revenue       decimal.Decimal            `json:"revenue"`
	Cost          decimal.Decimal            `json:"cost"`
	Profit        decimal.Decimal            `json:"profit"`
	AverageTicket decimal.Decimal            `json:"average_ticket"`
	TopProducts   []ProductSales             `json:"top_products"`
	LowStock      []shop.Product             `json:"low_stock"`
	Daily         map[string]decimal.Decimal `json:"daily"`
}

const topProducts = 5

// Summary aggregates closed sales whose UpdatedAt falls inside the filter.
// Status in the filter is ignored.
// Profit uses the buy price captured on each line, not today's price.
func (s *Service) Summary(filter Filter) Summary {
	var (
		sales    []shop.Sale
		open     int
		lowStock []shop.Product
	)

	_ = s.ws.View(func(db *shop.DB) error {
		for _, sale := range db.Sales {
			if sale.Status == shop.StatusOpen {
				open++
				continue
			}

			if sale.Status == shop.StatusClosed && inRange(sale.UpdatedAt, filter) {
				sales = append(sales, sale.Clone())
			}
		}

		for _, p := range db.Products {
			if p.IsLowStock() {
				lowStock = append(lowStock, p.Clone())
			}
		}

		return nil
	})

	sum := Summary{
		SalesCount:  len(sales),
		OpenCount:   open,
		Gross:       decimal.Zero,
		Discounts:   decimal.Zero,
		Revenue:     decimal.Zero,
		Cost:        decimal.Zero,
		LowStock:    lowStock,
		Daily:       make(map[string]decimal.Decimal),
		TopProducts: []ProductSales{},
	}

	byProduct := make(map[string]*ProductSales)

	for _, sale := range sales {
		sum.Gross = sum.Gross.Add(sale.Subtotal)
		sum.Discounts = sum.Discounts.Add(sale.Discount)
		sum.Revenue = sum.Revenue.Add(sale.Total)

		day := sale.UpdatedAt.Format(time.DateOnly)
		sum.Daily[day] = sum.Daily[day].Add(sale.Total)

		for _, it := range sale.Items {
			qty := decimal.NewFromInt(int64(it.Qty))
			sum.ItemsSold += it.Qty
			sum.Cost = sum.Cost.Add(it.UnitCost.Mul(qty))

			ps, ok := byProduct[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
				byProduct[it.ProductID] = ps
			}

			ps.Qty += it.Qty
			ps.Revenue = ps.Revenue.Add(it.LineTotal())
		}
	}

	sum.Profit = sum.Revenue.Sub(sum.Cost)
	sum.AverageTicket = decimal.Zero

	if len(sales) > 0 {
		sum.AverageTicket = sum.Revenue.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	}

	for _, ps := range byProduct {
		sum.TopProducts = append(sum.TopProducts, *ps)
	}

	slices.SortFunc(sum.TopProducts, func(a, b ProductSales) int {
		if c := cmp.Compare(b.Qty, a.Qty); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	if len(sum.TopProducts) > topProducts {
		sum.TopProducts = sum.TopProducts[:topProducts]
	}

	return sum
}

// Sales lists committed records matching the filter, most recent first.
func (s *Service) Sales(filter Filter) []shop.Sale {
	out := []shop.Sale{}

	_ = s.ws.View(func(db *shop.DB) error {
		for _, sale := range db.Sales {
			if filter.Status != nil && sale.Status != *filter.Status {
				continue
			}

			if inRange(sale.UpdatedAt, filter) {
				out = append(out, sale.Clone())
			}
		}

		return nil
	})

	slices.SortStableFunc(out, func(a, b shop.Sale) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	return out
}

func inRange(t time.Time, f Filter) bool {
	if f.StartDate != nil && t.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && t.After(*f.EndDate) {
		return false
	}

	return true
}
