package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultRepository exposes typed DB operations over the quiz_results table.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository wraps a pgx pool for quiz result operations.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `id, user_id, category_id, score, total_questions, percentage, taken_at`

func scanResult(row pgx.Row) (QuizResult, error) {
	var res QuizResult
	err := row.Scan(&res.ID, &res.UserID, &res.CategoryID, &res.Score, &res.TotalQuestions,
		&res.Percentage, &res.TakenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return QuizResult{}, ErrNotFound
	}
	if err != nil {
		return QuizResult{}, fmt.Errorf("scan quiz result: %w", err)
	}
	return res, nil
}

func collectResults(rows pgx.Rows) ([]QuizResult, error) {
	var results []QuizResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// CreateWithActivity persists a quiz result and its completion activity entry
// in one transaction. Either both rows land or neither does.
func (r *ResultRepository) CreateWithActivity(ctx context.Context, res QuizResult, act Activity) (QuizResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return QuizResult{}, fmt.Errorf("begin submit tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO quiz_results (id, user_id, category_id, score, total_questions, percentage)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+resultColumns,
		res.ID, res.UserID, res.CategoryID, res.Score, res.TotalQuestions, res.Percentage)
	created, err := scanResult(row)
	if err != nil {
		return QuizResult{}, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO student_activities (id, user_id, activity_type, description)
		 VALUES ($1, $2, $3, $4)`,
		act.ID, act.UserID, act.ActivityType, act.Description)
	if err != nil {
		return QuizResult{}, fmt.Errorf("insert completion activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return QuizResult{}, fmt.Errorf("commit submit tx: %w", err)
	}
	return created, nil
}

// Get fetches a result by ID.
func (r *ResultRepository) Get(ctx context.Context, id uuid.UUID) (QuizResult, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resultColumns+` FROM quiz_results WHERE id = $1`, id)
	return scanResult(row)
}

// ListByUser returns a user's results, newest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM quiz_results WHERE user_id = $1 ORDER BY taken_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list results by user: %w", err)
	}
	defer rows.Close()
	return collectResults(rows)
}

// ListByUserAndCategory returns a user's attempts for one category, newest first.
func (r *ResultRepository) ListByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM quiz_results
		 WHERE user_id = $1 AND category_id = $2 ORDER BY taken_at DESC`, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list results by user and category: %w", err)
	}
	defer rows.Close()
	return collectResults(rows)
}

// RecentByUser returns a user's most recent results.
func (r *ResultRepository) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM quiz_results
		 WHERE user_id = $1 ORDER BY taken_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	defer rows.Close()
	return collectResults(rows)
}

// Recent returns the latest results portal-wide.
func (r *ResultRepository) Recent(ctx context.Context, limit int) ([]QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM quiz_results ORDER BY taken_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	defer rows.Close()
	return collectResults(rows)
}

// BestPercentages returns the user's best percentage per category.
func (r *ResultRepository) BestPercentages(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]float64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category_id, MAX(percentage) FROM quiz_results
		 WHERE user_id = $1 GROUP BY category_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("best percentages: %w", err)
	}
	defer rows.Close()

	best := make(map[uuid.UUID]float64)
	for rows.Next() {
		var categoryID uuid.UUID
		var pct float64
		if err := rows.Scan(&categoryID, &pct); err != nil {
			return nil, fmt.Errorf("scan best percentage: %w", err)
		}
		best[categoryID] = pct
	}
	return best, rows.Err()
}

// StatsByUser returns the attempt count and average percentage for a user.
// Average is 0 when the user has no attempts.
func (r *ResultRepository) StatsByUser(ctx context.Context, userID uuid.UUID) (attempts int64, avgPercentage float64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(percentage), 0) FROM quiz_results WHERE user_id = $1`,
		userID).Scan(&attempts, &avgPercentage)
	if err != nil {
		return 0, 0, fmt.Errorf("result stats: %w", err)
	}
	return attempts, avgPercentage, nil
}

// Count returns the number of recorded results.
func (r *ResultRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quiz_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}
