package service

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HusseinZein235/SalesAssociate/internal/files"
	"github.com/HusseinZein235/SalesAssociate/internal/model"
	"github.com/HusseinZein235/SalesAssociate/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	fm, err := files.NewManager(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("init files: %v", err)
	}
	return New(st, fm)
}

// firstCustomer returns the first seeded customer.
func firstCustomer(t *testing.T, svc *Service) *model.Customer {
	t.Helper()

	customers, err := svc.Customers(context.Background())
	if err != nil {
		t.Fatalf("customers: %v", err)
	}
	if len(customers) == 0 {
		t.Fatal("no customers")
	}
	return &customers[0]
}

func TestSeedOnEmpty(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	products, err := svc.Products(ctx)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 6 {
		t.Fatalf("seeded %d products, want 6", len(products))
	}

	customers, err := svc.Customers(ctx)
	if err != nil {
		t.Fatalf("customers: %v", err)
	}
	if len(customers) != 3 {
		t.Fatalf("seeded %d customers, want 3", len(customers))
	}

	// Seeding happens once, not on every read.
	again, err := svc.Products(ctx)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(again) != 6 {
		t.Fatalf("reread seeded again: %d products", len(again))
	}
}

func TestCatalogGroupingAndFilter(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	catalog, err := svc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	if len(catalog["Medicines"]) != 2 {
		t.Errorf("medicines = %d, want 2", len(catalog["Medicines"]))
	}

	filtered := catalog.Filter("aspirin")
	if len(filtered) != 1 || len(filtered["Medicines"]) != 1 {
		t.Errorf("filter result = %+v", filtered)
	}
	if unfiltered := catalog.Filter(""); len(unfiltered) != len(catalog) {
		t.Errorf("empty query should keep all categories")
	}
}

func TestAddCartItem_StockEnforcement(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	// Thermometer has 15 units at 25.99 each; limit the cart to 10 by
	// editing the product first.
	product, err := svc.ProductByName(ctx, "Thermometer")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	product.Amount = 10
	if err := svc.UpdateProduct(ctx, product); err != nil {
		t.Fatalf("update product: %v", err)
	}

	customer := firstCustomer(t, svc)

	c, err := svc.AddCartItem(ctx, customer.ID, "Thermometer", 3)
	if err != nil {
		t.Fatalf("add 3: %v", err)
	}
	c, err = svc.AddCartItem(ctx, customer.ID, "Thermometer", 5)
	if err != nil {
		t.Fatalf("add 5: %v", err)
	}

	if got := c.CartQuantity("Thermometer"); got != 8 {
		t.Fatalf("cart quantity = %d, want 8 (merged line)", got)
	}
	if len(c.Cart) != 1 {
		t.Fatalf("cart lines = %d, want 1", len(c.Cart))
	}
	wantTotal := 8 * 25.99
	if math.Abs(c.Cart[0].LineTotal-wantTotal) > 1e-9 {
		t.Errorf("line total = %v, want %v", c.Cart[0].LineTotal, wantTotal)
	}

	// Three more would exceed the 10 in stock; only 2 remain addable.
	_, err = svc.AddCartItem(ctx, customer.ID, "Thermometer", 3)
	var stockErr *model.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want StockError", err)
	}
	if stockErr.Requested != 3 || stockErr.Available != 2 {
		t.Errorf("stock error = %+v, want requested 3 available 2", stockErr)
	}

	// The failed add left the cart alone.
	got, err := svc.CustomerByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.CartQuantity("Thermometer") != 8 {
		t.Errorf("cart changed by failed add: %d", got.CartQuantity("Thermometer"))
	}
}

func TestAddCartItem_StockEditedBelowReservation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	customer := firstCustomer(t, svc)
	if _, err := svc.AddCartItem(ctx, customer.ID, "Aspirin", 5); err != nil {
		t.Fatalf("add 5: %v", err)
	}

	// A manual stock edit can drop below what the cart already holds.
	product, err := svc.ProductByName(ctx, "Aspirin")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	product.Amount = 3
	if err := svc.UpdateProduct(ctx, product); err != nil {
		t.Fatalf("update product: %v", err)
	}

	_, err = svc.AddCartItem(ctx, customer.ID, "Aspirin", 1)
	var stockErr *model.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want StockError", err)
	}
	if stockErr.Available != 0 {
		t.Errorf("available = %d, want 0 and never negative", stockErr.Available)
	}
	if !strings.Contains(stockErr.Error(), "only 0 units available") {
		t.Errorf("message = %q", stockErr.Error())
	}
}

func TestAddCartItem_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	customer := firstCustomer(t, svc)

	if _, err := svc.AddCartItem(ctx, customer.ID, "Aspirin", 0); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := svc.AddCartItem(ctx, customer.ID, "No Such Product", 1); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.AddCartItem(ctx, 9999, "Aspirin", 1); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateCartItem(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	customer := firstCustomer(t, svc)

	if _, err := svc.AddCartItem(ctx, customer.ID, "Aspirin", 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	c, err := svc.UpdateCartItem(ctx, customer.ID, "Aspirin", 7)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := c.CartQuantity("Aspirin"); got != 7 {
		t.Errorf("quantity = %d, want 7", got)
	}
	wantTotal := 7 * 5.99
	if math.Abs(c.Cart[0].LineTotal-wantTotal) > 1e-9 {
		t.Errorf("line total = %v, want %v", c.Cart[0].LineTotal, wantTotal)
	}

	// Beyond stock (50) fails.
	_, err = svc.UpdateCartItem(ctx, customer.ID, "Aspirin", 51)
	var stockErr *model.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want StockError", err)
	}

	// Zero removes the line.
	c, err = svc.UpdateCartItem(ctx, customer.ID, "Aspirin", 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(c.Cart) != 0 {
		t.Errorf("cart = %+v, want empty", c.Cart)
	}

	// Updating a line that is not in the cart fails.
	if _, err := svc.UpdateCartItem(ctx, customer.ID, "Aspirin", 1); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveCartItem(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	customer := firstCustomer(t, svc)

	if _, err := svc.AddCartItem(ctx, customer.ID, "Aspirin", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddCartItem(ctx, customer.ID, "Bandages", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	c, err := svc.RemoveCartItem(ctx, customer.ID, "Aspirin")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(c.Cart) != 1 || c.Cart[0].Item != "Bandages" {
		t.Errorf("cart = %+v, want only Bandages", c.Cart)
	}
}

func TestConfirmSale(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	customer := firstCustomer(t, svc)

	// 5 Aspirin at 5.99 and 2 Bandages at 3.50 comes to 36.95.
	if _, err := svc.AddCartItem(ctx, customer.ID, "Aspirin", 5); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddCartItem(ctx, customer.ID, "Bandages", 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	sale, err := svc.ConfirmSale(ctx, customer.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sale.ID <= 0 {
		t.Errorf("sale id = %d", sale.ID)
	}
	if sale.CustomerName != customer.Name || sale.PharmacyName != customer.PharmacyName {
		t.Errorf("sale identity = %q/%q", sale.CustomerName, sale.PharmacyName)
	}
	if math.Abs(sale.TotalAmount-36.95) > 1e-9 {
		t.Errorf("total = %v, want 36.95", sale.TotalAmount)
	}
	if sale.Date != model.Today() {
		t.Errorf("sale date = %s, want today", sale.Date)
	}

	// Stock decremented.
	aspirin, err := svc.ProductByName(ctx, "Aspirin")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if aspirin.Amount != 45 {
		t.Errorf("aspirin stock = %d, want 45", aspirin.Amount)
	}

	// Cart cleared, history grew.
	after, err := svc.CustomerByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if len(after.Cart) != 0 {
		t.Errorf("cart not cleared: %+v", after.Cart)
	}
	if len(after.History) != 1 || after.History[0].ID != sale.ID {
		t.Errorf("history = %+v", after.History)
	}

	// Daily stats picked up the sale.
	stats, err := svc.DailyStats(ctx, model.Today())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if math.Abs(stats.TotalSales-36.95) > 1e-9 || stats.CustomerCount != 1 || stats.ItemCount != 7 {
		t.Errorf("stats = %+v", stats)
	}

	// Confirming again with an empty cart is rejected.
	if _, err := svc.ConfirmSale(ctx, customer.ID); !errors.Is(err, model.ErrEmptyCart) {
		t.Errorf("err = %v, want ErrEmptyCart", err)
	}
}
