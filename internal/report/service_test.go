package report_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/till/internal/report"
	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
	"github.com/MrJamesThe3rd/till/internal/storage/store"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC)
}

func item(id string, qty int, price, cost int64) shop.Item {
	return shop.Item{ProductID: id, Name: "Product " + id, Qty: qty, UnitPrice: decimal.NewFromInt(price), UnitCost: decimal.NewFromInt(cost)}
}

func closedSale(id string, at time.Time, discount int64, items ...shop.Item) shop.Sale {
	s := shop.Sale{ID: id, Status: shop.StatusClosed, Items: items, Discount: decimal.NewFromInt(discount), UpdatedAt: at}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	s.Subtotal = subtotal
	s.Total = subtotal.Sub(s.Discount)

	return s
}

func newService(t *testing.T) *report.Service {
	t.Helper()

	ctx := context.Background()
	st := storage.NewService(store.NewMemory(), storage.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	ws, err := shop.NewWorkspace(ctx, st)
	require.NoError(t, err)

	require.NoError(t, ws.Update(ctx, func(db *shop.DB) error {
		db.Products = []shop.Product{
			{ID: "p1", Name: "Kopi", Stock: 1, LowStockThreshold: 3},
			{ID: "p2", Name: "Teh", Stock: 10, LowStockThreshold: 3},
		}
		db.Sales = []shop.Sale{
			closedSale("S0001", day(1), 0, item("p1", 2, 1000, 600)),
			closedSale("S0002", day(2), 500, item("p1", 1, 1000, 600), item("p2", 3, 500, 200)),
			{ID: "S0003", Status: shop.StatusOpen, Items: []shop.Item{item("p2", 1, 500, 200)}, UpdatedAt: day(2)},
			closedSale("S0004", day(10), 0, item("p2", 1, 500, 200)),
		}

		return nil
	}))

	return report.NewService(ws)
}

func TestService_Summary(t *testing.T) {
	type testCase struct {
		name      string
		filter    report.Filter
		wantCount int
		wantItems int
		revenue   int64
		cost      int64
	}

	tests := []testCase{
		{name: "All", wantCount: 3, wantItems: 7, revenue: 2000 + 2000 + 500, cost: 1200 + 1200 + 200},
		{
			name:      "Range",
			filter:    report.Filter{StartDate: new(day(1)), EndDate: new(day(5))},
			wantCount: 2, wantItems: 6, revenue: 4000, cost: 2400,
		},
		{
			name:      "Empty",
			filter:    report.Filter{StartDate: new(day(20))},
			wantCount: 0,
		},
	}

	svc := newService(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := svc.Summary(tt.filter)

			assert.Equal(t, tt.wantCount, sum.SalesCount)
			assert.Equal(t, 1, sum.OpenCount)
			assert.Equal(t, tt.wantItems, sum.ItemsSold)
			assert.True(t, decimal.NewFromInt(tt.revenue).Equal(sum.Revenue), sum.Revenue.String())
			assert.True(t, decimal.NewFromInt(tt.cost).Equal(sum.Cost), sum.Cost.String())
			assert.True(t, sum.Revenue.Sub(sum.Cost).Equal(sum.Profit))
			require.Len(t, sum.LowStock, 1)
			assert.Equal(t, "p1", sum.LowStock[0].ID)
		})
	}
}

func TestService_SummaryBreakdown(t *testing.T) {
	sum := newService(t).Summary(report.Filter{})

	assert.True(t, decimal.NewFromInt(500).Equal(sum.Discounts))
	assert.True(t, decimal.NewFromInt(1500).Equal(sum.AverageTicket))
	assert.True(t, decimal.NewFromInt(2000).Equal(sum.Daily["2026-03-02"]))

	require.Len(t, sum.TopProducts, 2)
	assert.Equal(t, "p2", sum.TopProducts[0].ProductID)
	assert.Equal(t, 4, sum.TopProducts[0].Qty)
	assert.Equal(t, "p1", sum.TopProducts[1].ProductID)
	assert.True(t, decimal.NewFromInt(3000).Equal(sum.TopProducts[1].Revenue))
}

func TestService_Sales(t *testing.T) {
	svc := newService(t)

	all := svc.Sales(report.Filter{})
	require.Len(t, all, 4)
	assert.Equal(t, "S0004", all[0].ID)

	open := svc.Sales(report.Filter{Status: new(shop.StatusOpen)})
	require.Len(t, open, 1)
	assert.Equal(t, "S0003", open[0].ID)

	closed := svc.Sales(report.Filter{Status: new(shop.StatusClosed), EndDate: new(day(1))})
	require.Len(t, closed, 1)
	assert.Equal(t, "S0001", closed[0].ID)
}
