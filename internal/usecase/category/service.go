// Package category provides the read-only use case for the fixed category set.
package category

import (
	"context"
	"fmt"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/repository"
)

// Service provides category read use cases. Categories are seeded out of
// band; this flow exposes no create/update/delete path for them.
type Service struct {
	Repo repository.CategoryRepository
}

// List retrieves all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]*entity.Category, error) {
	categories, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
