package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	model "github.com/chatfood/chatfood/internal/model/catalog"
)

// Service exposes the food catalog from SQLite. The table is created and
// seeded on first use, mirroring the bundled demo database.
type Service struct {
	db *sql.DB
}

// NewService prepares the foods table and seeds it when empty.
func NewService(ctx context.Context, db *sql.DB) (*Service, error) {
	const schema = `
CREATE TABLE IF NOT EXISTS foods (
	food_name       TEXT NOT NULL,
	food_category   TEXT NOT NULL,
	restaurant_name TEXT NOT NULL,
	price           REAL NOT NULL
)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create foods table: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count foods: %w", err)
	}

	if count == 0 {
		for _, item := range model.Seed() {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO foods (food_name, food_category, restaurant_name, price) VALUES (?, ?, ?, ?)`,
				item.Name, item.Category, item.Restaurant, item.Price,
			); err != nil {
				return nil, fmt.Errorf("seed foods: %w", err)
			}
		}
	}

	return &Service{db: db}, nil
}

// List returns every catalog row.
func (s *Service) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT food_name, food_category, restaurant_name, price FROM foods`)
	if err != nil {
		return nil, fmt.Errorf("query foods: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Search filters the catalog by optional food and restaurant name
// fragments, case-insensitively. Empty arguments match everything.
func (s *Service) Search(ctx context.Context, foodName, restaurantName string) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT food_name, food_category, restaurant_name, price FROM foods
		 WHERE LOWER(food_name) LIKE ? AND LOWER(restaurant_name) LIKE ?`,
		likePattern(foodName), likePattern(restaurantName))
	if err != nil {
		return nil, fmt.Errorf("search foods: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func likePattern(fragment string) string {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	return "%" + fragment + "%"
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.Name, &item.Category, &item.Restaurant, &item.Price); err != nil {
			return nil, fmt.Errorf("scan food row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
