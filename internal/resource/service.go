package resource

import (
	"context"
	"fmt"

	"github.com/placementprep/portal/internal/db/repository"
)

type resourceStore interface {
	List(ctx context.Context) ([]repository.Resource, error)
}

// Service serves the public preparation-material listing.
type Service struct {
	resources resourceStore
}

// NewService creates the resource listing service.
func NewService(resources resourceStore) *Service {
	return &Service{resources: resources}
}

// Grouped maps each resource type to its entries, newest first. Resources
// without a type land under "General".
func (s *Service) Grouped(ctx context.Context) (map[string][]repository.Resource, error) {
	all, err := s.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	grouped := make(map[string][]repository.Resource)
	for _, res := range all {
		key := res.ResourceType
		if key == "" {
			key = "General"
		}
		grouped[key] = append(grouped[key], res)
	}
	return grouped, nil
}
