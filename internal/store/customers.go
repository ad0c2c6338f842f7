package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// Customers returns all customers with their carts and sale histories loaded.
func (s *Store) Customers(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, note, place, pharmacy_name FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Note, &c.Place, &c.PharmacyName); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range customers {
		if err := s.attachCustomerDetails(ctx, &customers[i]); err != nil {
			return nil, err
		}
	}
	return customers, nil
}

// CustomerByID returns one customer with cart and history, or model.ErrNotFound.
func (s *Store) CustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	c := &model.Customer{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, note, place, pharmacy_name FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Note, &c.Place, &c.PharmacyName)
	if err == sql.ErrNoRows {
		return nil, model.NotFoundError("customer", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}

	if err := s.attachCustomerDetails(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) attachCustomerDetails(ctx context.Context, c *model.Customer) error {
	cart, err := s.cartItems(ctx, c.ID)
	if err != nil {
		return err
	}
	c.Cart = cart

	history, err := s.SalesByCustomer(ctx, c.ID)
	if err != nil {
		return err
	}
	c.History = history
	return nil
}

// InsertCustomer creates a customer and returns its generated id.
func (s *Store) InsertCustomer(ctx context.Context, c *model.Customer) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, note, place, pharmacy_name) VALUES (?, ?, ?, ?)`,
		c.Name, c.Note, c.Place, c.PharmacyName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read customer id: %w", err)
	}
	if len(c.Cart) > 0 {
		if err := s.SaveCart(ctx, id, c.Cart); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// UpdateCustomer rewrites a customer's identity fields. The cart is managed
// separately through SaveCart.
func (s *Store) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, note = ?, place = ?, pharmacy_name = ? WHERE id = ?`,
		c.Name, c.Note, c.Place, c.PharmacyName, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NotFoundError("customer", strconv.FormatInt(c.ID, 10))
	}
	return nil
}

// DeleteCustomer removes a customer; the cart goes with it via cascade.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// CountCustomers reports the number of customers.
func (s *Store) CountCustomers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

func (s *Store) cartItems(ctx context.Context, customerID int64) ([]model.PurchaseItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item, quantity, line_total FROM cart_items WHERE customer_id = ? ORDER BY item`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var items []model.PurchaseItem
	for rows.Next() {
		var line model.PurchaseItem
		if err := rows.Scan(&line.Item, &line.Quantity, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

// SaveCart replaces the customer's cart with the given lines.
func (s *Store) SaveCart(ctx context.Context, customerID int64, items []model.PurchaseItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE customer_id = ?`, customerID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	for _, line := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cart_items (customer_id, item, quantity, line_total) VALUES (?, ?, ?, ?)`,
			customerID, line.Item, line.Quantity, line.LineTotal); err != nil {
			return fmt.Errorf("failed to insert cart line %q: %w", line.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ClearCart drops every line of the customer's cart.
func (s *Store) ClearCart(ctx context.Context, customerID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE customer_id = ?`, customerID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
