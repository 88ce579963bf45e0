package repository

import (
	"context"

	"city-announcements/internal/domain/entity"
)

// AnnouncementFilters contains optional filters for the announcement list query.
type AnnouncementFilters struct {
	Search     string // Optional: case-insensitive substring match on title OR content
	CategoryID *int64 // Optional: restrict to announcements associated with this category
}

type AnnouncementRepository interface {
	// List retrieves announcements ordered by most-recently-updated first.
	// Both filters are optional and combine with AND when both are set.
	// Each returned announcement carries its flattened category list.
	List(ctx context.Context, filters AnnouncementFilters) ([]*entity.Announcement, error)
	// Get retrieves an announcement by ID with its flattened category list.
	// Returns (nil, nil) if no row exists with that ID.
	Get(ctx context.Context, id int64) (*entity.Announcement, error)
	// Create persists the announcement row and its category associations as a
	// single transaction. On success the entity's ID, CreatedAt and UpdatedAt
	// are populated from the database.
	Create(ctx context.Context, a *entity.Announcement, categoryIDs []int64) error
	// Update persists field changes and refreshes updated_at. When categoryIDs
	// is non-nil the existing association rows are deleted and the new set
	// inserted, all within the same transaction. A nil categoryIDs leaves the
	// associations untouched.
	Update(ctx context.Context, a *entity.Announcement, categoryIDs []int64) error
	// Delete removes the announcement; association rows cascade.
	Delete(ctx context.Context, id int64) error
	// Count returns the total number of announcements.
	Count(ctx context.Context) (int64, error)
}
