package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// InsertSale writes a sale and its item lines in one transaction and returns
// the generated sale id.
func (s *Store) InsertSale(ctx context.Context, sale *model.Sale) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO sales (customer_id, customer_name, pharmacy_name, total_amount, sale_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sale.CustomerID, sale.CustomerName, sale.PharmacyName, sale.TotalAmount,
		sale.Date.String(), sale.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sale: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read sale id: %w", err)
	}

	for _, line := range sale.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, item, quantity, line_total) VALUES (?, ?, ?, ?)`,
			id, line.Item, line.Quantity, line.LineTotal); err != nil {
			return 0, fmt.Errorf("failed to insert sale line %q: %w", line.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// Sales returns all sales, newest first.
func (s *Store) Sales(ctx context.Context) ([]model.Sale, error) {
	return s.querySales(ctx,
		`SELECT id, customer_id, customer_name, pharmacy_name, total_amount, sale_date, created_at
		 FROM sales ORDER BY created_at DESC`)
}

// SalesByCustomer returns one customer's sales, newest first.
func (s *Store) SalesByCustomer(ctx context.Context, customerID int64) ([]model.Sale, error) {
	return s.querySales(ctx,
		`SELECT id, customer_id, customer_name, pharmacy_name, total_amount, sale_date, created_at
		 FROM sales WHERE customer_id = ? ORDER BY created_at DESC`, customerID)
}

// SalesByDate returns the sales confirmed on one calendar date.
func (s *Store) SalesByDate(ctx context.Context, date model.Date) ([]model.Sale, error) {
	return s.querySales(ctx,
		`SELECT id, customer_id, customer_name, pharmacy_name, total_amount, sale_date, created_at
		 FROM sales WHERE sale_date = ? ORDER BY created_at DESC`, date.String())
}

func (s *Store) querySales(ctx context.Context, query string, args ...any) ([]model.Sale, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range sales {
		items, err := s.saleItems(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

func scanSale(rows *sql.Rows) (*model.Sale, error) {
	sale := &model.Sale{}
	var dateText string
	err := rows.Scan(&sale.ID, &sale.CustomerID, &sale.CustomerName, &sale.PharmacyName,
		&sale.TotalAmount, &dateText, &sale.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sale: %w", err)
	}
	date, err := model.ParseISO(dateText)
	if err != nil {
		return nil, fmt.Errorf("bad sale date: %w", err)
	}
	sale.Date = date
	return sale, nil
}

func (s *Store) saleItems(ctx context.Context, saleID int64) ([]model.PurchaseItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item, quantity, line_total FROM sale_items WHERE sale_id = ? ORDER BY item`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	var items []model.PurchaseItem
	for rows.Next() {
		var line model.PurchaseItem
		if err := rows.Scan(&line.Item, &line.Quantity, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}
