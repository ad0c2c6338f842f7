package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

func insertTestSale(t *testing.T, st *Store, customerID int64, date model.Date, createdAt int64) int64 {
	t.Helper()

	id, err := st.InsertSale(context.Background(), &model.Sale{
		CustomerID:   customerID,
		CustomerName: "John Smith",
		PharmacyName: "City Pharmacy",
		Items: []model.PurchaseItem{
			{Item: "Aspirin", Quantity: 5, LineTotal: 29.95},
			{Item: "Bandages", Quantity: 2, LineTotal: 7.00},
		},
		TotalAmount: 36.95,
		Date:        date,
		CreatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("insert sale: %v", err)
	}
	return id
}

func TestSalesRoundTrip(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	customerID, err := st.InsertCustomer(ctx, &model.Customer{Name: "John Smith"})
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}

	day1 := model.NewDate(2026, 8, 29)
	day2 := model.NewDate(2026, 8, 30)
	insertTestSale(t, st, customerID, day1, 1000)
	second := insertTestSale(t, st, customerID, day2, 2000)

	sales, err := st.Sales(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("got %d sales, want 2", len(sales))
	}
	// Newest first.
	if sales[0].ID != second {
		t.Errorf("sales[0].ID = %d, want %d", sales[0].ID, second)
	}
	if sales[0].Date != day2 {
		t.Errorf("sales[0].Date = %s, want %s", sales[0].Date, day2)
	}
	if len(sales[0].Items) != 2 {
		t.Fatalf("sale items = %d, want 2", len(sales[0].Items))
	}
	if got := sales[0].ItemCount(); got != 7 {
		t.Errorf("item count = %d, want 7", got)
	}

	byDate, err := st.SalesByDate(ctx, day1)
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if len(byDate) != 1 || byDate[0].Date != day1 {
		t.Errorf("by date = %+v", byDate)
	}

	byCustomer, err := st.SalesByCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("by customer: %v", err)
	}
	if len(byCustomer) != 2 {
		t.Errorf("by customer = %d sales, want 2", len(byCustomer))
	}

	// Sales surface as the customer's history.
	customer, err := st.CustomerByID(ctx, customerID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if len(customer.History) != 2 {
		t.Errorf("history = %d sales, want 2", len(customer.History))
	}
}

func TestDailyStatsUpsert(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	day := model.NewDate(2026, 8, 30)

	if _, err := st.DailyStats(ctx, day); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("empty day err = %v, want ErrNotFound", err)
	}

	if err := st.AddToDailyStats(ctx, day, 36.95, 7); err != nil {
		t.Fatalf("add: %v", err)
	}
	stats, err := st.DailyStats(ctx, day)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stats.TotalSales != 36.95 || stats.CustomerCount != 1 || stats.ItemCount != 7 {
		t.Errorf("first sale stats = %+v", stats)
	}

	// A second sale on the same day accumulates.
	if err := st.AddToDailyStats(ctx, day, 3.05, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	stats, err = st.DailyStats(ctx, day)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if math.Abs(stats.TotalSales-40.00) > 1e-9 || stats.CustomerCount != 2 || stats.ItemCount != 10 {
		t.Errorf("accumulated stats = %+v", stats)
	}

	all, err := st.AllDailyStats(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 || all[0].Date != day {
		t.Errorf("all stats = %+v", all)
	}
}
