package quiz

import (
	"time"

	"github.com/google/uuid"

	"github.com/placementprep/portal/internal/db/repository"
)

// AttemptState is the per-user scratch record for one in-flight attempt.
// The order of QuestionIDs is fixed at start time and is the presentation
// order for the whole attempt.
type AttemptState struct {
	CategoryID  uuid.UUID   `json:"category_id"`
	QuestionIDs []uuid.UUID `json:"question_ids"`
	StartedAt   time.Time   `json:"started_at"`
}

// StartedAttempt describes a freshly started attempt.
type StartedAttempt struct {
	CategoryID    uuid.UUID `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	QuestionCount int       `json:"question_count"`
	StartedAt     time.Time `json:"started_at"`
}

// QuestionView is a question as shown to the taker: no answer, no explanation.
type QuestionView struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      string    `json:"option_c"`
	OptionD      string    `json:"option_d"`
	Difficulty   string    `json:"difficulty"`
}

// QuestionPage is one question plus presentation metadata.
type QuestionPage struct {
	Question   QuestionView `json:"question"`
	CategoryID uuid.UUID    `json:"category_id"`
	Position   int          `json:"position"`
	Total      int          `json:"total"`
	Progress   float64      `json:"progress"`
}

// SubmitOutcome reports the graded attempt.
type SubmitOutcome struct {
	ResultID   uuid.UUID `json:"result_id"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
}

// ReviewQuestion is a question as shown on the result page, answer included.
type ReviewQuestion struct {
	ID            uuid.UUID `json:"id"`
	QuestionText  string    `json:"question_text"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation,omitempty"`
	Difficulty    string    `json:"difficulty"`
}

// ResultReview bundles a result with its category and question set.
type ResultReview struct {
	ResultID   uuid.UUID           `json:"result_id"`
	Score      int                 `json:"score"`
	Total      int                 `json:"total"`
	Percentage float64             `json:"percentage"`
	TakenAt    time.Time           `json:"taken_at"`
	Category   repository.Category `json:"category"`
	Questions  []ReviewQuestion    `json:"questions"`
}

// CategorySummary is a category with the user's best score, if any.
type CategorySummary struct {
	repository.Category
	BestPercentage *float64 `json:"best_percentage,omitempty"`
}

// CategoryList groups categories the way the category screen presents them.
type CategoryList struct {
	Aptitude  []CategorySummary `json:"aptitude"`
	Technical []CategorySummary `json:"technical"`
}

// AttemptSummary is one past attempt on the category detail screen.
type AttemptSummary struct {
	ResultID   uuid.UUID `json:"result_id"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	TakenAt    time.Time `json:"taken_at"`
}

// CategoryDetail describes a category before starting a quiz.
type CategoryDetail struct {
	repository.Category
	QuestionCount    int64            `json:"question_count"`
	PreviousAttempts []AttemptSummary `json:"previous_attempts"`
}

// HistoryEntry is one row of the user's attempt history.
type HistoryEntry struct {
	ResultID     uuid.UUID `json:"result_id"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CategoryKind string    `json:"category_kind"`
	Score        int       `json:"score"`
	Total        int       `json:"total"`
	Percentage   float64   `json:"percentage"`
	TakenAt      time.Time `json:"taken_at"`
}
