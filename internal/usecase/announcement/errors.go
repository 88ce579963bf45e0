// Package announcement provides use cases for managing announcement entities.
// It implements business logic for creating, updating, deleting, and querying
// announcements, including category validation, publication date parsing, and
// creation notifications.
package announcement

import "errors"

// Sentinel errors for announcement use case operations.
var (
	// ErrAnnouncementNotFound indicates that the requested announcement was not found.
	ErrAnnouncementNotFound = errors.New("announcement not found")

	// ErrInvalidAnnouncementID indicates that the provided announcement ID is invalid.
	// Announcement IDs must be positive integers.
	ErrInvalidAnnouncementID = errors.New("invalid announcement ID")
)
