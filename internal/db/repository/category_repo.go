package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository exposes typed DB operations over the categories table.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository wraps a pgx pool for category operations.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Kind, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c Category) (Category, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO categories (id, name, kind, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, kind, description`,
		c.ID, c.Name, c.Kind, c.Description)
	return scanCategory(row)
}

// Get fetches a category by ID.
func (r *CategoryRepository) Get(ctx context.Context, id uuid.UUID) (Category, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, kind, description FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

// List returns all categories ordered by kind then name.
func (r *CategoryRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, kind, description FROM categories ORDER BY kind, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Update replaces the mutable fields of a category.
func (r *CategoryRepository) Update(ctx context.Context, c Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2, kind = $3, description = $4 WHERE id = $1`,
		c.ID, c.Name, c.Kind, c.Description)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category. Its questions and results cascade.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of categories.
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
