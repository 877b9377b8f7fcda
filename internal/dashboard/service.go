package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/placementprep/portal/internal/db/repository"
)

type resultStore interface {
	RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]repository.QuizResult, error)
	StatsByUser(ctx context.Context, userID uuid.UUID) (int64, float64, error)
}

type activityStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]repository.Activity, error)
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// Service assembles the student dashboard.
type Service struct {
	results    resultStore
	activities activityStore
	categories counter
	questions  counter
	resources  counter
}

// NewService creates the dashboard service.
func NewService(results resultStore, activities activityStore, categories, questions, resources counter) *Service {
	return &Service{
		results:    results,
		activities: activities,
		categories: categories,
		questions:  questions,
		resources:  resources,
	}
}

// Stats is what the student dashboard shows.
type Stats struct {
	RecentResults    []repository.QuizResult `json:"recent_results"`
	RecentActivities []repository.Activity   `json:"recent_activities"`
	CategoriesCount  int64                   `json:"categories_count"`
	QuestionsCount   int64                   `json:"questions_count"`
	ResourcesCount   int64                   `json:"resources_count"`
	TotalAttempts    int64                   `json:"total_attempts"`
	AverageScore     float64                 `json:"average_score"`
}

// ForUser collects recent results, portal counts and the user's averages.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	stats := &Stats{}

	recent, err := s.results.RecentByUser(ctx, userID, 5)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	stats.RecentResults = recent

	acts, err := s.activities.ListByUser(ctx, userID, 10)
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	stats.RecentActivities = acts

	if stats.CategoriesCount, err = s.categories.Count(ctx); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if stats.QuestionsCount, err = s.questions.Count(ctx); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if stats.ResourcesCount, err = s.resources.Count(ctx); err != nil {
		return nil, fmt.Errorf("count resources: %w", err)
	}

	attempts, avg, err := s.results.StatsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("result stats: %w", err)
	}
	stats.TotalAttempts = attempts
	stats.AverageScore = math.Round(avg*100) / 100

	return stats, nil
}
