// Package repository defines the persistence interfaces the use case layer
// depends on. Concrete implementations live under internal/infra/adapter.
package repository

import (
	"context"

	"city-announcements/internal/domain/entity"
)

type CategoryRepository interface {
	// List retrieves all categories ordered by name.
	List(ctx context.Context) ([]*entity.Category, error)
	// ListByIDs retrieves the categories whose ID is in ids. IDs with no
	// matching row are simply absent from the result; callers compare the
	// result against the request to report missing IDs.
	ListByIDs(ctx context.Context, ids []int64) ([]*entity.Category, error)
	// Count returns the total number of categories.
	Count(ctx context.Context) (int64, error)
}
