package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository reads and appends entries in the student_activities
// log. The log is append-only; nothing here mutates or deletes rows.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository wraps a pgx pool for activity log access.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Append records one activity entry for a user.
func (r *ActivityRepository) Append(ctx context.Context, act Activity) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO student_activities (id, user_id, activity_type, description)
		 VALUES ($1, $2, $3, $4)`,
		act.ID, act.UserID, act.ActivityType, act.Description)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// ListByUser returns a user's activity entries, newest first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, activity_type, description, created_at
		 FROM student_activities WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var entries []Activity
	for rows.Next() {
		var act Activity
		if err := rows.Scan(&act.ID, &act.UserID, &act.ActivityType, &act.Description, &act.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, act)
	}
	return entries, rows.Err()
}
