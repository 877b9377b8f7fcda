package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned on unique constraint violations.
	ErrConflict = errors.New("record already exists")
)

// Role values stored on users.role.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Activity types recorded in student_activities.
const (
	ActivityRegister     = "register"
	ActivityLogin        = "login"
	ActivityQuizStart    = "quiz_start"
	ActivityQuizComplete = "quiz_complete"
)

// User is a portal account, student or admin.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	College      string
	IsActive     bool
	CreatedAt    time.Time
}

// Category groups questions, tagged aptitude or technical.
type Category struct {
	ID          uuid.UUID
	Name        string
	Kind        string
	Description string
}

// Question is a four-option multiple choice question.
type Question struct {
	ID            uuid.UUID
	CategoryID    uuid.UUID
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	Explanation   string
	Difficulty    string
	CreatedAt     time.Time
}

// QuizResult records one completed attempt. Rows are never updated.
type QuizResult struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CategoryID     uuid.UUID
	Score          int
	TotalQuestions int
	Percentage     float64
	TakenAt        time.Time
}

// Resource is a preparation material entry.
type Resource struct {
	ID           uuid.UUID
	Title        string
	Description  string
	ResourceType string
	Content      string
	Link         string
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
}

// Activity is an append-only log entry for a user action.
type Activity struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ActivityType string
	Description  string
	CreatedAt    time.Time
}
