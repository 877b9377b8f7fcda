package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResourceRepository exposes typed DB operations over the resources table.
type ResourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository wraps a pgx pool for resource operations.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

const resourceColumns = `id, title, description, resource_type, content, link, created_by, created_at`

func scanResource(row pgx.Row) (Resource, error) {
	var res Resource
	err := row.Scan(&res.ID, &res.Title, &res.Description, &res.ResourceType, &res.Content,
		&res.Link, &res.CreatedBy, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Resource{}, ErrNotFound
	}
	if err != nil {
		return Resource{}, fmt.Errorf("scan resource: %w", err)
	}
	return res, nil
}

// Create inserts a new resource.
func (r *ResourceRepository) Create(ctx context.Context, res Resource) (Resource, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO resources (id, title, description, resource_type, content, link, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+resourceColumns,
		res.ID, res.Title, res.Description, res.ResourceType, res.Content, res.Link, res.CreatedBy)
	return scanResource(row)
}

// Get fetches a resource by ID.
func (r *ResourceRepository) Get(ctx context.Context, id uuid.UUID) (Resource, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
	return scanResource(row)
}

// List returns all resources grouped by type, newest first within each type.
func (r *ResourceRepository) List(ctx context.Context) ([]Resource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY resource_type, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

// Update replaces the mutable fields of a resource.
func (r *ResourceRepository) Update(ctx context.Context, res Resource) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE resources SET title = $2, description = $3, resource_type = $4, content = $5, link = $6
		 WHERE id = $1`,
		res.ID, res.Title, res.Description, res.ResourceType, res.Content, res.Link)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a resource.
func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of resources.
func (r *ResourceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM resources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return n, nil
}
