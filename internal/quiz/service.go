package quiz

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/placementprep/portal/internal/db/repository"
)

const defaultMaxQuestions = 10

type questionStore interface {
	Get(ctx context.Context, id uuid.UUID) (repository.Question, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]repository.Question, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]repository.Question, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type categoryStore interface {
	Get(ctx context.Context, id uuid.UUID) (repository.Category, error)
	List(ctx context.Context) ([]repository.Category, error)
}

type resultStore interface {
	CreateWithActivity(ctx context.Context, res repository.QuizResult, act repository.Activity) (repository.QuizResult, error)
	Get(ctx context.Context, id uuid.UUID) (repository.QuizResult, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.QuizResult, error)
	ListByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]repository.QuizResult, error)
	BestPercentages(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]float64, error)
}

type activityStore interface {
	Append(ctx context.Context, act repository.Activity) error
}

type attemptStore interface {
	Begin(ctx context.Context, userID uuid.UUID, state AttemptState) error
	Get(ctx context.Context, userID uuid.UUID) (*AttemptState, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Service orchestrates the quiz workflow: start, question-by-position, grade.
type Service struct {
	questions    questionStore
	categories   categoryStore
	results      resultStore
	activities   activityStore
	attempts     attemptStore
	maxQuestions int
	logger       zerolog.Logger
}

// ServiceOptions configures the quiz service.
type ServiceOptions struct {
	MaxQuestionsPerAttempt int
}

// NewService creates a quiz service.
func NewService(questions questionStore, categories categoryStore, results resultStore,
	activities activityStore, attempts attemptStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	maxQuestions := opts.MaxQuestionsPerAttempt
	if maxQuestions <= 0 {
		maxQuestions = defaultMaxQuestions
	}
	return &Service{
		questions:    questions,
		categories:   categories,
		results:      results,
		activities:   activities,
		attempts:     attempts,
		maxQuestions: maxQuestions,
		logger:       logger,
	}
}

// Start begins a new attempt for the user in the given category. Any prior
// unfinished attempt is silently abandoned. Samples min(maxQuestions, N)
// questions uniformly without replacement; the sampled order is the
// presentation order for the whole attempt.
func (s *Service) Start(ctx context.Context, userID, categoryID uuid.UUID) (*StartedAttempt, error) {
	category, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	pool, err := s.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrEmptyCategory
	}

	count := min(s.maxQuestions, len(pool))
	sampled := make([]uuid.UUID, 0, count)
	for _, idx := range rand.Perm(len(pool))[:count] {
		sampled = append(sampled, pool[idx].ID)
	}

	state := AttemptState{
		CategoryID:  categoryID,
		QuestionIDs: sampled,
		StartedAt:   time.Now().UTC(),
	}
	if err := s.attempts.Begin(ctx, userID, state); err != nil {
		return nil, fmt.Errorf("begin attempt: %w", err)
	}

	if err := s.activities.Append(ctx, repository.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: repository.ActivityQuizStart,
		Description:  fmt.Sprintf("Started quiz for category: %s", category.Name),
	}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("quiz start activity write failed")
	}

	attemptsStarted.Inc()
	s.logger.Info().
		Str("user_id", userID.String()).
		Str("category_id", categoryID.String()).
		Int("questions", count).
		Msg("quiz attempt started")

	return &StartedAttempt{
		CategoryID:    categoryID,
		CategoryName:  category.Name,
		QuestionCount: count,
		StartedAt:     state.StartedAt,
	}, nil
}

// GetQuestion returns the question at the given 1-indexed position of the
// user's in-flight attempt, plus presentation metadata. Repeated lookups for
// the same position always return the same question.
func (s *Service) GetQuestion(ctx context.Context, userID uuid.UUID, position int) (*QuestionPage, error) {
	state, err := s.attempts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNoActiveAttempt
	}

	total := len(state.QuestionIDs)
	if position < 1 || position > total {
		return nil, ErrInvalidPosition
	}

	question, err := s.questions.Get(ctx, state.QuestionIDs[position-1])
	if err != nil {
		return nil, err
	}

	return &QuestionPage{
		Question: QuestionView{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			OptionA:      question.OptionA,
			OptionB:      question.OptionB,
			OptionC:      question.OptionC,
			OptionD:      question.OptionD,
			Difficulty:   question.Difficulty,
		},
		CategoryID: state.CategoryID,
		Position:   position,
		Total:      total,
		Progress:   100 * float64(position) / float64(total),
	}, nil
}

// Submit grades the user's answers against the sampled question set, persists
// the result together with its completion activity in one transaction, and
// clears the attempt state only after that transaction commits. An absent or
// garbled answer counts as incorrect; letters compare case-insensitively.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, answers map[uuid.UUID]string) (*SubmitOutcome, error) {
	state, err := s.attempts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNoActiveAttempt
	}

	sampled, err := s.questions.GetMany(ctx, state.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("load sampled questions: %w", err)
	}
	byID := make(map[uuid.UUID]repository.Question, len(sampled))
	for _, q := range sampled {
		byID[q.ID] = q
	}

	score := 0
	total := len(state.QuestionIDs)
	for _, qid := range state.QuestionIDs {
		question, ok := byID[qid]
		if !ok {
			continue
		}
		answer, ok := answers[qid]
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(answer), question.CorrectAnswer) {
			score++
		}
	}

	percentage := 0.0
	if total > 0 {
		percentage = round2(100 * float64(score) / float64(total))
	}

	categoryName := "Unknown"
	if category, err := s.categories.Get(ctx, state.CategoryID); err == nil {
		categoryName = category.Name
	}

	result, err := s.results.CreateWithActivity(ctx,
		repository.QuizResult{
			ID:             uuid.New(),
			UserID:         userID,
			CategoryID:     state.CategoryID,
			Score:          score,
			TotalQuestions: total,
			Percentage:     percentage,
		},
		repository.Activity{
			ID:           uuid.New(),
			UserID:       userID,
			ActivityType: repository.ActivityQuizComplete,
			Description: fmt.Sprintf("Completed quiz for %s: Score %d/%d (%.1f%%)",
				categoryName, score, total, percentage),
		})
	if err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}

	// The result is durable; a failed clear only means the stale attempt
	// lingers until its TTL or the next Start overwrites it.
	if err := s.attempts.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("clear attempt state failed")
	}

	attemptsCompleted.Inc()
	s.logger.Info().
		Str("user_id", userID.String()).
		Str("result_id", result.ID.String()).
		Int("score", score).
		Int("total", total).
		Msg("quiz attempt completed")

	return &SubmitOutcome{
		ResultID:   result.ID,
		Score:      score,
		Total:      total,
		Percentage: percentage,
	}, nil
}

// GetResult returns a result with its category and the category's full
// question set for review. Only the owner may read it.
func (s *Service) GetResult(ctx context.Context, userID, resultID uuid.UUID) (*ResultReview, error) {
	result, err := s.results.Get(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if result.UserID != userID {
		return nil, ErrResultForbidden
	}

	category, err := s.categories.Get(ctx, result.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("load result category: %w", err)
	}

	questions, err := s.questions.ListByCategory(ctx, result.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("load review questions: %w", err)
	}

	review := &ResultReview{
		ResultID:   result.ID,
		Score:      result.Score,
		Total:      result.TotalQuestions,
		Percentage: result.Percentage,
		TakenAt:    result.TakenAt,
		Category:   category,
		Questions:  make([]ReviewQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		review.Questions = append(review.Questions, ReviewQuestion{
			ID:            q.ID,
			QuestionText:  q.QuestionText,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    q.Difficulty,
		})
	}
	return review, nil
}

// ListCategories returns categories grouped by kind with the user's best
// percentage per category.
func (s *Service) ListCategories(ctx context.Context, userID uuid.UUID) (*CategoryList, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	best, err := s.results.BestPercentages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("best percentages: %w", err)
	}

	list := &CategoryList{}
	for _, category := range categories {
		summary := CategorySummary{Category: category}
		if pct, ok := best[category.ID]; ok {
			summary.BestPercentage = &pct
		}
		switch category.Kind {
		case "technical":
			list.Technical = append(list.Technical, summary)
		default:
			list.Aptitude = append(list.Aptitude, summary)
		}
	}
	return list, nil
}

// CategoryDetail returns a category with its question count and the user's
// previous attempts, newest first.
func (s *Service) CategoryDetail(ctx context.Context, userID, categoryID uuid.UUID) (*CategoryDetail, error) {
	category, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	count, err := s.questions.CountByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	previous, err := s.results.ListByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list previous attempts: %w", err)
	}

	detail := &CategoryDetail{
		Category:      category,
		QuestionCount: count,
	}
	for _, res := range previous {
		detail.PreviousAttempts = append(detail.PreviousAttempts, AttemptSummary{
			ResultID:   res.ID,
			Score:      res.Score,
			Total:      res.TotalQuestions,
			Percentage: res.Percentage,
			TakenAt:    res.TakenAt,
		})
	}
	return detail, nil
}

// History returns the user's attempts, newest first, with category info.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	catByID := make(map[uuid.UUID]repository.Category, len(categories))
	for _, c := range categories {
		catByID[c.ID] = c
	}

	entries := make([]HistoryEntry, 0, len(results))
	for _, res := range results {
		entry := HistoryEntry{
			ResultID:   res.ID,
			CategoryID: res.CategoryID,
			Score:      res.Score,
			Total:      res.TotalQuestions,
			Percentage: res.Percentage,
			TakenAt:    res.TakenAt,
		}
		if category, ok := catByID[res.CategoryID]; ok {
			entry.CategoryName = category.Name
			entry.CategoryKind = category.Kind
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
