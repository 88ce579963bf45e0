// Package announcement provides HTTP handlers for announcement-related endpoints.
// It includes handlers for creating, listing, updating, and deleting announcements.
package announcement

import (
	"time"

	"city-announcements/internal/domain/entity"
)

// CategoryDTO represents the JSON structure for a category attached to an announcement.
type CategoryDTO struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"Community events"`
}

// DTO represents the JSON structure for announcement data transfer.
// Categories are always present, flattened to id/name pairs ordered by name.
type DTO struct {
	ID              int64         `json:"id" example:"1"`
	Title           string        `json:"title" example:"Road closure on Main St"`
	Content         string        `json:"content" example:"Main St will be closed between..."`
	PublicationDate time.Time     `json:"publicationDate" example:"2025-06-15T10:00:00Z"`
	CreatedAt       time.Time     `json:"createdAt" example:"2025-06-10T12:00:00Z"`
	UpdatedAt       time.Time     `json:"updatedAt" example:"2025-06-10T12:00:00Z"`
	Categories      []CategoryDTO `json:"categories"`
}

// NewDTO converts an entity into its wire representation.
func NewDTO(a *entity.Announcement) DTO {
	cats := make([]CategoryDTO, 0, len(a.Categories))
	for _, c := range a.Categories {
		cats = append(cats, CategoryDTO{ID: c.ID, Name: c.Name})
	}
	return DTO{
		ID:              a.ID,
		Title:           a.Title,
		Content:         a.Content,
		PublicationDate: a.PublicationDate,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Categories:      cats,
	}
}
