package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/placementprep/portal/internal/db/repository"
)

// ErrSelfModification is returned when an admin targets their own account.
var ErrSelfModification = errors.New("cannot modify your own account")

// ErrValidation wraps form-level input problems.
var ErrValidation = errors.New("validation failed")

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	List(ctx context.Context) ([]repository.User, error)
	Recent(ctx context.Context, limit int) ([]repository.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type categoryStore interface {
	Create(ctx context.Context, c repository.Category) (repository.Category, error)
	Get(ctx context.Context, id uuid.UUID) (repository.Category, error)
	List(ctx context.Context) ([]repository.Category, error)
	Update(ctx context.Context, c repository.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type questionStore interface {
	Create(ctx context.Context, q repository.Question) (repository.Question, error)
	Get(ctx context.Context, id uuid.UUID) (repository.Question, error)
	List(ctx context.Context) ([]repository.Question, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]repository.Question, error)
	Update(ctx context.Context, q repository.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type resourceStore interface {
	Create(ctx context.Context, res repository.Resource) (repository.Resource, error)
	Get(ctx context.Context, id uuid.UUID) (repository.Resource, error)
	List(ctx context.Context) ([]repository.Resource, error)
	Update(ctx context.Context, res repository.Resource) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type resultStore interface {
	Recent(ctx context.Context, limit int) ([]repository.QuizResult, error)
	Count(ctx context.Context) (int64, error)
}

// Service implements the admin-only management operations.
type Service struct {
	users      userStore
	categories categoryStore
	questions  questionStore
	resources  resourceStore
	results    resultStore
	logger     zerolog.Logger
}

// NewService creates the admin service.
func NewService(users userStore, categories categoryStore, questions questionStore,
	resources resourceStore, results resultStore, logger zerolog.Logger) *Service {
	return &Service{
		users:      users,
		categories: categories,
		questions:  questions,
		resources:  resources,
		results:    results,
		logger:     logger,
	}
}

// DashboardStats summarizes the portal for the admin landing screen.
type DashboardStats struct {
	UsersCount      int64                   `json:"users_count"`
	CategoriesCount int64                   `json:"categories_count"`
	QuestionsCount  int64                   `json:"questions_count"`
	ResourcesCount  int64                   `json:"resources_count"`
	ResultsCount    int64                   `json:"results_count"`
	RecentUsers     []UserView              `json:"recent_users"`
	RecentResults   []repository.QuizResult `json:"recent_results"`
}

// UserView is a user without the credential hash.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	College   string    `json:"college,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u repository.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		College:   u.College,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Dashboard collects counts and recent records.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.UsersCount, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.CategoriesCount, err = s.categories.Count(ctx); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if stats.QuestionsCount, err = s.questions.Count(ctx); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if stats.ResourcesCount, err = s.resources.Count(ctx); err != nil {
		return nil, fmt.Errorf("count resources: %w", err)
	}
	if stats.ResultsCount, err = s.results.Count(ctx); err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	recentUsers, err := s.users.Recent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	for _, u := range recentUsers {
		stats.RecentUsers = append(stats.RecentUsers, toUserView(u))
	}

	if stats.RecentResults, err = s.results.Recent(ctx, 5); err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	return stats, nil
}

// ListUsers returns all accounts, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return views, nil
}

// ToggleRole flips a user between student and admin. Admins cannot change
// their own role.
func (s *Service) ToggleRole(ctx context.Context, actorID, targetID uuid.UUID) (string, error) {
	if actorID == targetID {
		return "", ErrSelfModification
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}

	newRole := repository.RoleAdmin
	if target.Role == repository.RoleAdmin {
		newRole = repository.RoleStudent
	}
	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		return "", err
	}

	s.logger.Info().
		Str("actor_id", actorID.String()).
		Str("user_id", targetID.String()).
		Str("role", newRole).
		Msg("user role toggled")
	return newRole, nil
}

// DeleteUser removes an account and, by cascade, everything it owns. Admins
// cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfModification
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info().
		Str("actor_id", actorID.String()).
		Str("user_id", targetID.String()).
		Msg("user deleted")
	return nil
}

// CategoryInput carries the editable fields of a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if in.Kind != "aptitude" && in.Kind != "technical" {
		return fmt.Errorf("%w: kind must be aptitude or technical", ErrValidation)
	}
	return nil
}

// CreateCategory adds a new category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (repository.Category, error) {
	if err := in.validate(); err != nil {
		return repository.Category{}, err
	}
	return s.categories.Create(ctx, repository.Category{
		ID:          uuid.New(),
		Name:        in.Name,
		Kind:        in.Kind,
		Description: in.Description,
	})
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]repository.Category, error) {
	return s.categories.List(ctx)
}

// UpdateCategory replaces a category's fields.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return s.categories.Update(ctx, repository.Category{
		ID:          id,
		Name:        in.Name,
		Kind:        in.Kind,
		Description: in.Description,
	})
}

// DeleteCategory removes a category; its questions and results cascade away.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("category_id", id.String()).Msg("category deleted with its questions")
	return nil
}

// QuestionInput carries the editable fields of a question.
type QuestionInput struct {
	CategoryID    uuid.UUID `json:"category_id"`
	QuestionText  string    `json:"question_text"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	Difficulty    string    `json:"difficulty"`
}

func (in QuestionInput) validate() error {
	if strings.TrimSpace(in.QuestionText) == "" {
		return fmt.Errorf("%w: question text required", ErrValidation)
	}
	switch strings.ToUpper(in.CorrectAnswer) {
	case "A", "B", "C", "D":
	default:
		return fmt.Errorf("%w: correct answer must be A, B, C or D", ErrValidation)
	}
	switch in.Difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("%w: difficulty must be easy, medium or hard", ErrValidation)
	}
	return nil
}

// CreateQuestion adds a question to a category. The category must exist.
func (s *Service) CreateQuestion(ctx context.Context, in QuestionInput) (repository.Question, error) {
	if err := in.validate(); err != nil {
		return repository.Question{}, err
	}
	if _, err := s.categories.Get(ctx, in.CategoryID); err != nil {
		return repository.Question{}, err
	}
	return s.questions.Create(ctx, repository.Question{
		ID:            uuid.New(),
		CategoryID:    in.CategoryID,
		QuestionText:  in.QuestionText,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectAnswer: strings.ToUpper(in.CorrectAnswer),
		Explanation:   in.Explanation,
		Difficulty:    in.Difficulty,
	})
}

// ListQuestions returns questions, optionally filtered to one category.
func (s *Service) ListQuestions(ctx context.Context, categoryID *uuid.UUID) ([]repository.Question, error) {
	if categoryID != nil {
		return s.questions.ListByCategory(ctx, *categoryID)
	}
	return s.questions.List(ctx)
}

// UpdateQuestion replaces a question's content. Its identity is fixed.
func (s *Service) UpdateQuestion(ctx context.Context, id uuid.UUID, in QuestionInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	if _, err := s.categories.Get(ctx, in.CategoryID); err != nil {
		return err
	}
	return s.questions.Update(ctx, repository.Question{
		ID:            id,
		CategoryID:    in.CategoryID,
		QuestionText:  in.QuestionText,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectAnswer: strings.ToUpper(in.CorrectAnswer),
		Explanation:   in.Explanation,
		Difficulty:    in.Difficulty,
	})
}

// DeleteQuestion removes a question.
func (s *Service) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return s.questions.Delete(ctx, id)
}

// ResourceInput carries the editable fields of a resource.
type ResourceInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ResourceType string `json:"resource_type"`
	Content      string `json:"content"`
	Link         string `json:"link"`
}

func (in ResourceInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title required", ErrValidation)
	}
	return nil
}

// CreateResource adds a resource credited to the acting admin.
func (s *Service) CreateResource(ctx context.Context, actorID uuid.UUID, in ResourceInput) (repository.Resource, error) {
	if err := in.validate(); err != nil {
		return repository.Resource{}, err
	}
	return s.resources.Create(ctx, repository.Resource{
		ID:           uuid.New(),
		Title:        in.Title,
		Description:  in.Description,
		ResourceType: in.ResourceType,
		Content:      in.Content,
		Link:         in.Link,
		CreatedBy:    actorID,
	})
}

// ListResources returns all resources.
func (s *Service) ListResources(ctx context.Context) ([]repository.Resource, error) {
	return s.resources.List(ctx)
}

// UpdateResource replaces a resource's fields.
func (s *Service) UpdateResource(ctx context.Context, id uuid.UUID, in ResourceInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return s.resources.Update(ctx, repository.Resource{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		ResourceType: in.ResourceType,
		Content:      in.Content,
		Link:         in.Link,
	})
}

// DeleteResource removes a resource.
func (s *Service) DeleteResource(ctx context.Context, id uuid.UUID) error {
	return s.resources.Delete(ctx, id)
}
