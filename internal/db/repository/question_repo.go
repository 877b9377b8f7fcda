package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository exposes typed DB operations over the questions table.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository wraps a pgx pool for question operations.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, category_id, question_text, option_a, option_b, option_c, option_d,
	correct_answer, explanation, difficulty, created_at`

func scanQuestion(row pgx.Row) (Question, error) {
	var q Question
	err := row.Scan(&q.ID, &q.CategoryID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC,
		&q.OptionD, &q.CorrectAnswer, &q.Explanation, &q.Difficulty, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, fmt.Errorf("scan question: %w", err)
	}
	return q, nil
}

func collectQuestions(rows pgx.Rows) ([]Question, error) {
	var qs []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q Question) (Question, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO questions (id, category_id, question_text, option_a, option_b, option_c,
			option_d, correct_answer, explanation, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+questionColumns,
		q.ID, q.CategoryID, q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.CorrectAnswer, q.Explanation, q.Difficulty)
	return scanQuestion(row)
}

// Get fetches a question by ID.
func (r *QuestionRepository) Get(ctx context.Context, id uuid.UUID) (Question, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	return scanQuestion(row)
}

// ListByCategory returns all questions belonging to a category.
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE category_id = $1 ORDER BY created_at`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list questions by category: %w", err)
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// List returns all questions, newest first.
func (r *QuestionRepository) List(ctx context.Context) ([]Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// GetMany fetches a set of questions by ID. Missing IDs are silently skipped;
// callers decide whether absence matters.
func (r *QuestionRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// Update replaces the mutable content of a question. Identity stays fixed.
func (r *QuestionRepository) Update(ctx context.Context, q Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET category_id = $2, question_text = $3, option_a = $4, option_b = $5,
			option_c = $6, option_d = $7, correct_answer = $8, explanation = $9, difficulty = $10
		 WHERE id = $1`,
		q.ID, q.CategoryID, q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.CorrectAnswer, q.Explanation, q.Difficulty)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByCategory returns how many questions a category holds.
func (r *QuestionRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions by category: %w", err)
	}
	return n, nil
}

// Count returns the total number of questions.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
