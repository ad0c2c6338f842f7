package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

const productColumns = `item, description, units, category, amount, cost_per_unit,
	wholesale_price, notes, expiry_date, barcode, photo`

// Products returns all products ordered by category then item name.
func (s *Store) Products(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY category, item`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ProductsByCategory returns all products of one category.
func (s *Store) ProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = ? ORDER BY item`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// SearchProducts returns products whose name or description contains query.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	like := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE item LIKE ? OR description LIKE ? ORDER BY category, item`, like, like)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ProductByName returns the product keyed by item, or model.ErrNotFound.
func (s *Store) ProductByName(ctx context.Context, item string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE item = ?`, item)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, model.NotFoundError("product", item)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}

// InsertProducts upserts products by item name.
func (s *Store) InsertProducts(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.Item, p.Description, p.Units, p.Category, p.Amount, p.CostPerUnit,
			p.WholesalePrice, p.Notes, expiryText(p.ExpiryDate), p.Barcode, p.Photo,
		); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceProducts clears the catalog and inserts products, so the stored set
// equals exactly the given set.
func (s *Store) ReplaceProducts(ctx context.Context, products []model.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.Item, p.Description, p.Units, p.Category, p.Amount, p.CostPerUnit,
			p.WholesalePrice, p.Notes, expiryText(p.ExpiryDate), p.Barcode, p.Photo,
		); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateProduct rewrites one product row.
func (s *Store) UpdateProduct(ctx context.Context, p *model.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET description = ?, units = ?, category = ?, amount = ?,
			cost_per_unit = ?, wholesale_price = ?, notes = ?, expiry_date = ?,
			barcode = ?, photo = ?
		WHERE item = ?
	`,
		p.Description, p.Units, p.Category, p.Amount, p.CostPerUnit,
		p.WholesalePrice, p.Notes, expiryText(p.ExpiryDate), p.Barcode, p.Photo,
		p.Item,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %q: %w", p.Item, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NotFoundError("product", p.Item)
	}
	return nil
}

// DeleteProduct removes one product row.
func (s *Store) DeleteProduct(ctx context.Context, item string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE item = ?`, item)
	if err != nil {
		return fmt.Errorf("failed to delete product %q: %w", item, err)
	}
	return nil
}

// CountProducts reports the catalog size.
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func expiryText(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	p := &model.Product{}
	var expiry sql.NullString
	err := row.Scan(
		&p.Item, &p.Description, &p.Units, &p.Category, &p.Amount, &p.CostPerUnit,
		&p.WholesalePrice, &p.Notes, &expiry, &p.Barcode, &p.Photo,
	)
	if err != nil {
		return nil, err
	}
	if expiry.Valid {
		if d, err := model.ParseISO(expiry.String); err == nil {
			p.ExpiryDate = &d
		}
	}
	return p, nil
}
