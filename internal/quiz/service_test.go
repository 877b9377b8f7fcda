package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placementprep/portal/internal/db/repository"
)

type stubQuestionStore struct {
	byID map[uuid.UUID]repository.Question
	pool []repository.Question
}

func (s *stubQuestionStore) Get(_ context.Context, id uuid.UUID) (repository.Question, error) {
	q, ok := s.byID[id]
	if !ok {
		return repository.Question{}, repository.ErrNotFound
	}
	return q, nil
}

func (s *stubQuestionStore) ListByCategory(_ context.Context, _ uuid.UUID) ([]repository.Question, error) {
	return s.pool, nil
}

func (s *stubQuestionStore) GetMany(_ context.Context, ids []uuid.UUID) ([]repository.Question, error) {
	var out []repository.Question
	for _, id := range ids {
		if q, ok := s.byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubQuestionStore) CountByCategory(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(s.pool)), nil
}

type stubCategoryStore struct {
	categories map[uuid.UUID]repository.Category
}

func (s *stubCategoryStore) Get(_ context.Context, id uuid.UUID) (repository.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return repository.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (s *stubCategoryStore) List(_ context.Context) ([]repository.Category, error) {
	var out []repository.Category
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

type stubResultStore struct {
	created    []repository.QuizResult
	activities []repository.Activity
	results    map[uuid.UUID]repository.QuizResult
	best       map[uuid.UUID]float64
	createErr  error
}

func (s *stubResultStore) CreateWithActivity(_ context.Context, res repository.QuizResult, act repository.Activity) (repository.QuizResult, error) {
	if s.createErr != nil {
		return repository.QuizResult{}, s.createErr
	}
	s.created = append(s.created, res)
	s.activities = append(s.activities, act)
	return res, nil
}

func (s *stubResultStore) Get(_ context.Context, id uuid.UUID) (repository.QuizResult, error) {
	res, ok := s.results[id]
	if !ok {
		return repository.QuizResult{}, repository.ErrNotFound
	}
	return res, nil
}

func (s *stubResultStore) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.QuizResult, error) {
	var out []repository.QuizResult
	for _, res := range s.results {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *stubResultStore) ListByUserAndCategory(_ context.Context, userID, categoryID uuid.UUID) ([]repository.QuizResult, error) {
	var out []repository.QuizResult
	for _, res := range s.results {
		if res.UserID == userID && res.CategoryID == categoryID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *stubResultStore) BestPercentages(_ context.Context, _ uuid.UUID) (map[uuid.UUID]float64, error) {
	if s.best == nil {
		return map[uuid.UUID]float64{}, nil
	}
	return s.best, nil
}

type stubActivityStore struct {
	entries []repository.Activity
}

func (s *stubActivityStore) Append(_ context.Context, act repository.Activity) error {
	s.entries = append(s.entries, act)
	return nil
}

type memoryAttemptStore struct {
	states map[uuid.UUID]AttemptState
}

func newMemoryAttemptStore() *memoryAttemptStore {
	return &memoryAttemptStore{states: map[uuid.UUID]AttemptState{}}
}

func (s *memoryAttemptStore) Begin(_ context.Context, userID uuid.UUID, state AttemptState) error {
	s.states[userID] = state
	return nil
}

func (s *memoryAttemptStore) Get(_ context.Context, userID uuid.UUID) (*AttemptState, error) {
	state, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *memoryAttemptStore) Clear(_ context.Context, userID uuid.UUID) error {
	delete(s.states, userID)
	return nil
}

func makePool(categoryID uuid.UUID, n int) []repository.Question {
	pool := make([]repository.Question, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, repository.Question{
			ID:            uuid.New(),
			CategoryID:    categoryID,
			QuestionText:  fmt.Sprintf("question %d", i),
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectAnswer: "A",
			Difficulty:    "easy",
		})
	}
	return pool
}

func newTestService(pool []repository.Question, category repository.Category) (*Service, *stubResultStore, *memoryAttemptStore) {
	byID := make(map[uuid.UUID]repository.Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}
	questions := &stubQuestionStore{byID: byID, pool: pool}
	categories := &stubCategoryStore{categories: map[uuid.UUID]repository.Category{category.ID: category}}
	results := &stubResultStore{results: map[uuid.UUID]repository.QuizResult{}}
	attempts := newMemoryAttemptStore()
	svc := NewService(questions, categories, results, &stubActivityStore{}, attempts,
		ServiceOptions{MaxQuestionsPerAttempt: 10}, zerolog.Nop())
	return svc, results, attempts
}

func TestStart_SamplesAtMostMaxQuestions(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Aptitude", Kind: "aptitude"}
	pool := makePool(categoryID, 25)
	svc, _, attempts := newTestService(pool, category)

	userID := uuid.New()
	started, err := svc.Start(context.Background(), userID, categoryID)
	require.NoError(t, err)
	assert.Equal(t, 10, started.QuestionCount)
	assert.Equal(t, category.Name, started.CategoryName)

	state := attempts.states[userID]
	assert.Len(t, state.QuestionIDs, 10)

	// Sampled ids are distinct and drawn from the pool.
	poolIDs := make(map[uuid.UUID]bool, len(pool))
	for _, q := range pool {
		poolIDs[q.ID] = true
	}
	seen := make(map[uuid.UUID]bool)
	for _, id := range state.QuestionIDs {
		assert.True(t, poolIDs[id])
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestStart_SmallPoolUsesAllQuestions(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Networks", Kind: "technical"}
	pool := makePool(categoryID, 4)
	svc, _, _ := newTestService(pool, category)

	started, err := svc.Start(context.Background(), uuid.New(), categoryID)
	require.NoError(t, err)
	assert.Equal(t, 4, started.QuestionCount)
}

func TestStart_EmptyCategory(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Empty", Kind: "aptitude"}
	svc, _, _ := newTestService(nil, category)

	_, err := svc.Start(context.Background(), uuid.New(), categoryID)
	assert.ErrorIs(t, err, ErrEmptyCategory)
}

func TestStart_UnknownCategory(t *testing.T) {
	svc, _, _ := newTestService(nil, repository.Category{ID: uuid.New()})

	_, err := svc.Start(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStart_OverwritesPriorAttempt(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Aptitude", Kind: "aptitude"}
	pool := makePool(categoryID, 12)
	svc, _, attempts := newTestService(pool, category)

	userID := uuid.New()
	_, err := svc.Start(context.Background(), userID, categoryID)
	require.NoError(t, err)
	first := attempts.states[userID].StartedAt

	_, err = svc.Start(context.Background(), userID, categoryID)
	require.NoError(t, err)
	assert.False(t, attempts.states[userID].StartedAt.Before(first))
	assert.Len(t, attempts.states, 1)
}

func TestGetQuestion_FollowsSampledOrder(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Aptitude", Kind: "aptitude"}
	pool := makePool(categoryID, 5)
	svc, _, attempts := newTestService(pool, category)

	userID := uuid.New()
	_, err := svc.Start(context.Background(), userID, categoryID)
	require.NoError(t, err)

	state := attempts.states[userID]
	for pos := 1; pos <= len(state.QuestionIDs); pos++ {
		page, err := svc.GetQuestion(context.Background(), userID, pos)
		require.NoError(t, err)
		assert.Equal(t, state.QuestionIDs[pos-1], page.Question.ID)
		assert.Equal(t, pos, page.Position)
		assert.Equal(t, len(state.QuestionIDs), page.Total)

		// Same position, same question.
		again, err := svc.GetQuestion(context.Background(), userID, pos)
		require.NoError(t, err)
		assert.Equal(t, page.Question.ID, again.Question.ID)
	}

	last, err := svc.GetQuestion(context.Background(), userID, len(state.QuestionIDs))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, last.Progress, 0.001)
}

func TestGetQuestion_InvalidPosition(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Aptitude", Kind: "aptitude"}
	pool := makePool(categoryID, 3)
	svc, _, _ := newTestService(pool, category)

	userID := uuid.New()
	_, err := svc.Start(context.Background(), userID, categoryID)
	require.NoError(t, err)

	_, err = svc.GetQuestion(context.Background(), userID, 0)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = svc.GetQuestion(context.Background(), userID, 4)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestGetQuestion_NoActiveAttempt(t *testing.T) {
	svc, _, _ := newTestService(nil, repository.Category{ID: uuid.New()})

	_, err := svc.GetQuestion(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)
}

func TestSubmit_ScoresAndClearsState(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Logical Reasoning", Kind: "aptitude"}
	pool := makePool(categoryID, 5)
	svc, results, attempts := newTestService(pool, category)

	userID := uuid.New()
	_, err := svc.Start(context.Background(), userID, categoryID)
	require.NoError(t, err)

	state := attempts.states[userID]
	answers := map[uuid.UUID]string{
		state.QuestionIDs[0]: "a",  // correct, case-insensitive
		state.QuestionIDs[1]: " A", // correct, whitespace trimmed
		state.QuestionIDs[2]: "B",  // wrong
		state.QuestionIDs[3]: "A",  // correct
		// position 4 unanswered
	}

	outcome, err := svc.Submit(context.Background(), userID, answers)
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Score)
	assert.Equal(t, 5, outcome.Total)
	assert.Equal(t, 60.0, outcome.Percentage)

	// Attempt state is gone; a second submit has nothing to grade.
	_, err = svc.Submit(context.Background(), userID, answers)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)

	require.Len(t, results.created, 1)
	assert.Equal(t, 3, results.created[0].Score)
	require.Len(t, results.activities, 1)
	assert.Equal(t, repository.ActivityQuizComplete, results.activities[0].ActivityType)
	assert.Equal(t, "Completed quiz for Logical Reasoning: Score 3/5 (60.0%)", results.activities[0].Description)
}

func TestSubmit_PercentageRoundsToTwoDecimals(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Aptitude", Kind: "aptitude"}
	pool := makePool(categoryID, 3)
	svc, _, attempts := newTestService(pool, category)

	userID := uuid.New()
	_, err := svc.Start(context.Background(), userID, categoryID)
	require.NoError(t, err)

	state := attempts.states[userID]
	answers := map[uuid.UUID]string{state.QuestionIDs[0]: "A"}

	outcome, err := svc.Submit(context.Background(), userID, answers)
	require.NoError(t, err)
	assert.Equal(t, 33.33, outcome.Percentage)
}

func TestSubmit_PersistFailureKeepsAttemptState(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Aptitude", Kind: "aptitude"}
	pool := makePool(categoryID, 3)

	byID := make(map[uuid.UUID]repository.Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}
	results := &stubResultStore{createErr: errors.New("boom")}
	attempts := newMemoryAttemptStore()
	svc := NewService(
		&stubQuestionStore{byID: byID, pool: pool},
		&stubCategoryStore{categories: map[uuid.UUID]repository.Category{categoryID: category}},
		results, &stubActivityStore{}, attempts,
		ServiceOptions{}, zerolog.Nop())

	userID := uuid.New()
	_, err := svc.Start(context.Background(), userID, categoryID)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), userID, nil)
	assert.Error(t, err)

	// State survives so the user can retry.
	state, err := attempts.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, state)
}

func TestGetResult_OwnerOnly(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "Aptitude", Kind: "aptitude"}
	pool := makePool(categoryID, 2)
	svc, results, _ := newTestService(pool, category)

	ownerID := uuid.New()
	resultID := uuid.New()
	results.results[resultID] = repository.QuizResult{
		ID:             resultID,
		UserID:         ownerID,
		CategoryID:     categoryID,
		Score:          1,
		TotalQuestions: 2,
		Percentage:     50,
	}

	review, err := svc.GetResult(context.Background(), ownerID, resultID)
	require.NoError(t, err)
	assert.Equal(t, 1, review.Score)
	assert.Len(t, review.Questions, 2)
	assert.NotEmpty(t, review.Questions[0].CorrectAnswer)

	_, err = svc.GetResult(context.Background(), uuid.New(), resultID)
	assert.ErrorIs(t, err, ErrResultForbidden)

	_, err = svc.GetResult(context.Background(), ownerID, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListCategories_GroupsByKindWithBest(t *testing.T) {
	aptID := uuid.New()
	techID := uuid.New()
	categories := &stubCategoryStore{categories: map[uuid.UUID]repository.Category{
		aptID:  {ID: aptID, Name: "Verbal Ability", Kind: "aptitude"},
		techID: {ID: techID, Name: "Data Structures", Kind: "technical"},
	}}
	results := &stubResultStore{best: map[uuid.UUID]float64{techID: 80}}
	svc := NewService(&stubQuestionStore{}, categories, results, &stubActivityStore{},
		newMemoryAttemptStore(), ServiceOptions{}, zerolog.Nop())

	list, err := svc.ListCategories(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, list.Aptitude, 1)
	require.Len(t, list.Technical, 1)
	assert.Nil(t, list.Aptitude[0].BestPercentage)
	require.NotNil(t, list.Technical[0].BestPercentage)
	assert.Equal(t, 80.0, *list.Technical[0].BestPercentage)
}

func TestHistory_JoinsCategoryInfo(t *testing.T) {
	categoryID := uuid.New()
	category := repository.Category{ID: categoryID, Name: "SQL & Databases", Kind: "technical"}
	svc, results, _ := newTestService(nil, category)

	userID := uuid.New()
	resultID := uuid.New()
	results.results[resultID] = repository.QuizResult{
		ID:             resultID,
		UserID:         userID,
		CategoryID:     categoryID,
		Score:          4,
		TotalQuestions: 5,
		Percentage:     80,
	}

	entries, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SQL & Databases", entries[0].CategoryName)
	assert.Equal(t, "technical", entries[0].CategoryKind)
}
