package announcement

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/repository"
)

// Notifier pushes a best-effort creation event to connected real-time
// clients. Delivery is fire-and-forget: implementations must not block the
// calling request and errors are handled internally.
type Notifier interface {
	AnnouncementCreated(ctx context.Context, a *entity.Announcement)
}

// CreateInput represents the input parameters for creating a new announcement.
// PublicationDate carries the raw MM/DD/YYYY HH:mm request string; parsing is
// part of the create validation.
type CreateInput struct {
	Title           string
	Content         string
	PublicationDate string
	CategoryIDs     []int64
}

// UpdateInput represents the input parameters for updating an existing
// announcement. Nil fields are left untouched. A non-nil CategoryIDs is a
// full replacement of the association set: any category omitted from the new
// list is dropped, even if unchanged.
type UpdateInput struct {
	ID              int64
	Title           *string
	Content         *string
	PublicationDate *string
	CategoryIDs     []int64
}

// Service provides announcement management use cases.
// It handles business logic for announcement operations and delegates
// persistence to the repositories.
type Service struct {
	Repo       repository.AnnouncementRepository
	Categories repository.CategoryRepository
	Notifier   Notifier
}

// List retrieves announcements ordered by most-recently-updated first, with
// optional case-insensitive search over title/content and an optional
// category membership filter.
func (s *Service) List(ctx context.Context, search string, categoryID *int64) ([]*entity.Announcement, error) {
	announcements, err := s.Repo.List(ctx, repository.AnnouncementFilters{
		Search:     search,
		CategoryID: categoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// Get retrieves a single announcement by its ID.
// Returns ErrInvalidAnnouncementID if the ID is not positive.
// Returns ErrAnnouncementNotFound if the announcement does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Announcement, error) {
	if id <= 0 {
		return nil, ErrInvalidAnnouncementID
	}

	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	if a == nil {
		return nil, ErrAnnouncementNotFound
	}
	return a, nil
}

// Create validates the input, persists the announcement atomically with its
// category associations, and notifies connected clients.
// Returns a ValidationError if category IDs are missing or unknown, or if the
// publication date is malformed. The notification fires exactly once, after
// the persistence commit, and only for create (never for update).
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Announcement, error) {
	if err := entity.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := entity.ValidateContent(in.Content); err != nil {
		return nil, err
	}

	cats, err := s.validateCategoryIDs(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	pubAt, err := entity.ParsePublicationDate(in.PublicationDate)
	if err != nil {
		return nil, err
	}

	a := &entity.Announcement{
		Title:           in.Title,
		Content:         in.Content,
		PublicationDate: pubAt,
		Categories:      cats,
	}
	if err := s.Repo.Create(ctx, a, in.CategoryIDs); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	if s.Notifier != nil {
		s.Notifier.AnnouncementCreated(ctx, a)
	}
	return a, nil
}

// Update modifies an existing announcement. Only non-nil fields are applied,
// each validated with the same rules as create. A supplied CategoryIDs
// replaces the full association set. No notification is sent on update.
// Returns ErrAnnouncementNotFound if the announcement does not exist.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Announcement, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidAnnouncementID
	}

	a, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	if a == nil {
		return nil, ErrAnnouncementNotFound
	}

	if in.Title != nil {
		if err := entity.ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
		a.Title = *in.Title
	}
	if in.Content != nil {
		if err := entity.ValidateContent(*in.Content); err != nil {
			return nil, err
		}
		a.Content = *in.Content
	}
	if in.PublicationDate != nil {
		pubAt, err := entity.ParsePublicationDate(*in.PublicationDate)
		if err != nil {
			return nil, err
		}
		a.PublicationDate = pubAt
	}

	var cats []entity.Category
	if in.CategoryIDs != nil {
		cats, err = s.validateCategoryIDs(ctx, in.CategoryIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Update(ctx, a, in.CategoryIDs); err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	if in.CategoryIDs != nil {
		a.Categories = cats
	}
	return a, nil
}

// Delete removes an announcement and its association rows, returning the
// deleted record's flattened shape.
// Returns ErrAnnouncementNotFound if the announcement does not exist.
func (s *Service) Delete(ctx context.Context, id int64) (*entity.Announcement, error) {
	if id <= 0 {
		return nil, ErrInvalidAnnouncementID
	}

	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	if a == nil {
		return nil, ErrAnnouncementNotFound
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete announcement: %w", err)
	}
	return a, nil
}

// validateCategoryIDs checks that the ID list is non-empty and that every ID
// exists. All missing IDs are collected and reported together in a single
// ValidationError rather than one at a time. On success it returns the
// matching categories ordered by name, ready for response flattening.
func (s *Service) validateCategoryIDs(ctx context.Context, ids []int64) ([]entity.Category, error) {
	if len(ids) == 0 {
		return nil, &entity.ValidationError{
			Field:   "categoryIds",
			Message: "at least one category is required",
		}
	}

	existing, err := s.Categories.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("validate category IDs: %w", err)
	}

	found := make(map[int64]bool, len(existing))
	for _, c := range existing {
		found[c.ID] = true
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, strconv.FormatInt(id, 10))
		}
	}
	if len(missing) > 0 {
		return nil, &entity.ValidationError{
			Field:   "categoryIds",
			Message: "category IDs do not exist: " + strings.Join(missing, ", "),
		}
	}

	cats := make([]entity.Category, 0, len(existing))
	for _, c := range existing {
		cats = append(cats, *c)
	}
	return cats, nil
}
