// Package service is the business-logic facade over the store, the workbook
// codec and file storage. Handlers and the view model talk to this package
// instead of the store directly.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HusseinZein235/SalesAssociate/internal/excel"
	"github.com/HusseinZein235/SalesAssociate/internal/files"
	"github.com/HusseinZein235/SalesAssociate/internal/importer"
	"github.com/HusseinZein235/SalesAssociate/internal/model"
	"github.com/HusseinZein235/SalesAssociate/internal/store"
)

// Service bundles the persistence and workbook operations of the app.
type Service struct {
	store    *store.Store
	files    *files.Manager
	importer *importer.Coordinator
	workbook string
}

// New creates the service facade.
func New(st *store.Store, fm *files.Manager) *Service {
	return &Service{
		store:    st,
		files:    fm,
		importer: importer.NewCoordinator(st),
	}
}

// Files exposes the file storage manager.
func (s *Service) Files() *files.Manager {
	return s.files
}

// PinWorkbook fixes the spreadsheet that sync writes to, regardless of later
// uploads. An empty path clears the pin.
func (s *Service) PinWorkbook(path string) {
	s.workbook = path
}

// SyncTarget returns the workbook sync writes to: the pinned path when one
// is configured, otherwise the most recently uploaded spreadsheet. Empty
// means there is nothing to sync.
func (s *Service) SyncTarget() string {
	if s.workbook != "" {
		return s.workbook
	}
	return s.files.CurrentSpreadsheet()
}

// Products returns the full catalog, seeding sample data the first time the
// store is found empty.
func (s *Service) Products(ctx context.Context) ([]model.Product, error) {
	if err := s.seedProducts(ctx); err != nil {
		return nil, err
	}
	return s.store.Products(ctx)
}

// Catalog returns the products grouped by category.
func (s *Service) Catalog(ctx context.Context) (model.Catalog, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return model.GroupByCategory(products), nil
}

// SearchProducts filters products by a substring of name, description or
// category.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	if err := s.seedProducts(ctx); err != nil {
		return nil, err
	}
	return s.store.SearchProducts(ctx, query)
}

// ProductByName looks up one product by its name key.
func (s *Service) ProductByName(ctx context.Context, item string) (*model.Product, error) {
	return s.store.ProductByName(ctx, item)
}

// UpdateProduct saves manual edits to one product.
func (s *Service) UpdateProduct(ctx context.Context, p *model.Product) error {
	return s.store.UpdateProduct(ctx, p)
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, item string) error {
	return s.store.DeleteProduct(ctx, item)
}

// CountProducts returns the catalog size without seeding.
func (s *Service) CountProducts(ctx context.Context) (int, error) {
	return s.store.CountProducts(ctx)
}

// CountCustomers returns the customer count without seeding.
func (s *Service) CountCustomers(ctx context.Context) (int, error) {
	return s.store.CountCustomers(ctx)
}

// Customers returns all customers with their carts and sale history, seeding
// sample customers the first time the store is found empty.
func (s *Service) Customers(ctx context.Context) ([]model.Customer, error) {
	if err := s.seedCustomers(ctx); err != nil {
		return nil, err
	}
	return s.store.Customers(ctx)
}

// CustomerByID loads one customer with cart and history.
func (s *Service) CustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	return s.store.CustomerByID(ctx, id)
}

// CreateCustomer inserts a customer and returns it with its assigned id.
func (s *Service) CreateCustomer(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	id, err := s.store.InsertCustomer(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// UpdateCustomer saves a customer's identity fields.
func (s *Service) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	return s.store.UpdateCustomer(ctx, c)
}

// DeleteCustomer removes a customer and its cart.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.store.DeleteCustomer(ctx, id)
}

// AddCartItem adds quantity units of a product to a customer's cart, merging
// with an existing line. The combined quantity may not exceed the product's
// stock; the line total is recomputed as quantity times unit cost.
func (s *Service) AddCartItem(ctx context.Context, customerID int64, item string, quantity int) (*model.Customer, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	customer, err := s.store.CustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	product, err := s.store.ProductByName(ctx, item)
	if err != nil {
		return nil, err
	}

	inCart := customer.CartQuantity(item)
	if inCart+quantity > product.Amount {
		return nil, &model.StockError{
			Item:      item,
			Requested: quantity,
			Available: clampStock(product.Amount - inCart),
		}
	}

	merged := false
	for i := range customer.Cart {
		if customer.Cart[i].Item == item {
			customer.Cart[i].Quantity += quantity
			customer.Cart[i].LineTotal = float64(customer.Cart[i].Quantity) * product.CostPerUnit
			merged = true
			break
		}
	}
	if !merged {
		customer.Cart = append(customer.Cart, model.PurchaseItem{
			Item:      item,
			Quantity:  quantity,
			LineTotal: float64(quantity) * product.CostPerUnit,
		})
	}

	if err := s.store.SaveCart(ctx, customerID, customer.Cart); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCartItem sets the quantity of an existing cart line. A quantity of
// zero or less removes the line.
func (s *Service) UpdateCartItem(ctx context.Context, customerID int64, item string, quantity int) (*model.Customer, error) {
	customer, err := s.store.CustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.CartQuantity(item) == 0 {
		return nil, model.NotFoundError("cart item", item)
	}
	if quantity <= 0 {
		return s.RemoveCartItem(ctx, customerID, item)
	}

	product, err := s.store.ProductByName(ctx, item)
	if err != nil {
		return nil, err
	}
	if quantity > product.Amount {
		return nil, &model.StockError{
			Item:      item,
			Requested: quantity,
			Available: clampStock(product.Amount),
		}
	}

	for i := range customer.Cart {
		if customer.Cart[i].Item == item {
			customer.Cart[i].Quantity = quantity
			customer.Cart[i].LineTotal = float64(quantity) * product.CostPerUnit
			break
		}
	}

	if err := s.store.SaveCart(ctx, customerID, customer.Cart); err != nil {
		return nil, err
	}
	return customer, nil
}

// clampStock keeps the reported availability non-negative; stock edited
// below an existing reservation must not surface as a negative count.
func clampStock(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// RemoveCartItem drops one line from a customer's cart.
func (s *Service) RemoveCartItem(ctx context.Context, customerID int64, item string) (*model.Customer, error) {
	customer, err := s.store.CustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	kept := customer.Cart[:0]
	for _, line := range customer.Cart {
		if line.Item != item {
			kept = append(kept, line)
		}
	}
	customer.Cart = kept

	if err := s.store.SaveCart(ctx, customerID, customer.Cart); err != nil {
		return nil, err
	}
	return customer, nil
}

// ConfirmSale freezes the customer's cart into a sale, decrements product
// stock, clears the cart and rolls the sale into today's stats.
func (s *Service) ConfirmSale(ctx context.Context, customerID int64) (*model.Sale, error) {
	customer, err := s.store.CustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(customer.Cart) == 0 {
		return nil, fmt.Errorf("customer %d: %w", customerID, model.ErrEmptyCart)
	}

	sale := &model.Sale{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		PharmacyName: customer.PharmacyName,
		Items:        customer.Cart,
		TotalAmount:  customer.CartTotal(),
		Date:         model.Today(),
		CreatedAt:    time.Now().UnixMilli(),
	}

	id, err := s.store.InsertSale(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}
	sale.ID = id

	for _, line := range sale.Items {
		product, err := s.store.ProductByName(ctx, line.Item)
		if err != nil {
			log.Warn().Err(err).Str("item", line.Item).Msg("sold product missing from catalog")
			continue
		}
		product.Amount -= line.Quantity
		if err := s.store.UpdateProduct(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to decrement stock for %q: %w", line.Item, err)
		}
	}

	if err := s.store.ClearCart(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := s.store.AddToDailyStats(ctx, sale.Date, sale.TotalAmount, sale.ItemCount()); err != nil {
		return nil, fmt.Errorf("failed to update daily stats: %w", err)
	}

	return sale, nil
}

// Sales returns all recorded sales, newest first.
func (s *Service) Sales(ctx context.Context) ([]model.Sale, error) {
	return s.store.Sales(ctx)
}

// SalesByCustomer returns one customer's sale history.
func (s *Service) SalesByCustomer(ctx context.Context, customerID int64) ([]model.Sale, error) {
	return s.store.SalesByCustomer(ctx, customerID)
}

// SalesByDate returns the sales confirmed on one day.
func (s *Service) SalesByDate(ctx context.Context, date model.Date) ([]model.Sale, error) {
	return s.store.SalesByDate(ctx, date)
}

// DailyStats returns the aggregate for one day.
func (s *Service) DailyStats(ctx context.Context, date model.Date) (*model.DailyStats, error) {
	return s.store.DailyStats(ctx, date)
}

// AllDailyStats returns every recorded day, newest first.
func (s *Service) AllDailyStats(ctx context.Context) ([]model.DailyStats, error) {
	return s.store.AllDailyStats(ctx)
}

// ImportWorkbook loads the workbook at path into the catalog in the
// background, replacing any existing products, and returns the progress
// channel.
func (s *Service) ImportWorkbook(ctx context.Context, path string) <-chan importer.ProgressEvent {
	return s.importer.Import(ctx, importer.Options{FilePath: path})
}

// ImportWorkbookSync runs the import inline and returns its report.
func (s *Service) ImportWorkbookSync(ctx context.Context, path string) (*importer.Report, error) {
	return s.importer.ImportSync(ctx, importer.Options{FilePath: path})
}

// SyncWorkbook writes the current catalog back into the workbook at path.
// Quantity, notes and expiry cells of matching rows are rewritten; products
// with no row are reported and logged, never inserted.
func (s *Service) SyncWorkbook(ctx context.Context, path string) (*excel.UpdateReport, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}

	report, err := excel.UpdateWorkbook(path, products)
	if err != nil {
		return nil, err
	}
	if len(report.Missing) > 0 {
		log.Warn().
			Strs("items", report.Missing).
			Msg("products missing from workbook were not written")
	}
	return report, nil
}
