package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// DailyStats returns the aggregates for one calendar date, or model.ErrNotFound.
func (s *Store) DailyStats(ctx context.Context, date model.Date) (*model.DailyStats, error) {
	stats := &model.DailyStats{Date: date}
	err := s.db.QueryRowContext(ctx,
		`SELECT total_sales, customer_count, item_count FROM daily_stats WHERE date = ?`,
		date.String()).
		Scan(&stats.TotalSales, &stats.CustomerCount, &stats.ItemCount)
	if err == sql.ErrNoRows {
		return nil, model.NotFoundError("daily stats", date.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan daily stats: %w", err)
	}
	return stats, nil
}

// AddToDailyStats folds one confirmed sale into the given day's aggregates,
// creating the row if the day has none yet.
func (s *Store) AddToDailyStats(ctx context.Context, date model.Date, amount float64, items int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_stats (date, total_sales, customer_count, item_count)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_sales = total_sales + excluded.total_sales,
			customer_count = customer_count + 1,
			item_count = item_count + excluded.item_count
	`, date.String(), amount, items)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}
	return nil
}

// AllDailyStats returns every day's aggregates, newest first.
func (s *Store) AllDailyStats(ctx context.Context) ([]model.DailyStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, total_sales, customer_count, item_count FROM daily_stats ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var all []model.DailyStats
	for rows.Next() {
		var stats model.DailyStats
		var dateText string
		if err := rows.Scan(&dateText, &stats.TotalSales, &stats.CustomerCount, &stats.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		date, err := model.ParseISO(dateText)
		if err != nil {
			return nil, fmt.Errorf("bad stats date: %w", err)
		}
		stats.Date = date
		all = append(all, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return all, nil
}
