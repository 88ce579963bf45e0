// Package postgres implements the repository interfaces against PostgreSQL
// using database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/repository"

	"github.com/lib/pq"
)

type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) repository.CategoryRepository {
	return &CategoryRepo{db: db}
}

func (repo *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	defer observeQuery("list_categories")()

	const query = `
SELECT id, name
FROM categories
ORDER BY name`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := make([]*entity.Category, 0, 16)
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (repo *CategoryRepo) ListByIDs(ctx context.Context, ids []int64) ([]*entity.Category, error) {
	defer observeQuery("list_categories_by_ids")()

	if len(ids) == 0 {
		return []*entity.Category{}, nil
	}
	const query = `
SELECT id, name
FROM categories
WHERE id = ANY($1)
ORDER BY name`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("ListByIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := make([]*entity.Category, 0, len(ids))
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("ListByIDs: Scan: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (repo *CategoryRepo) Count(ctx context.Context) (int64, error) {
	defer observeQuery("count_categories")()

	const query = `SELECT COUNT(*) FROM categories`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}
