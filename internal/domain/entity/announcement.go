// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Announcement and Category, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// Category represents a classification tag for announcements.
// Categories are a fixed, seeded set; this flow never updates or deletes them.
type Category struct {
	ID   int64
	Name string
}

// Announcement represents a published city notice.
// Categories holds the flattened category list; the join table that backs it
// is a storage detail and never leaks out of the persistence layer.
type Announcement struct {
	ID              int64
	Title           string
	Content         string
	PublicationDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Categories      []Category
}
