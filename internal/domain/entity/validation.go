package entity

import (
	"fmt"

	"city-announcements/internal/utils/text"
)

// maxTitleLength defines the maximum allowed length for announcement titles,
// counted in runes to match the database column semantics.
const maxTitleLength = 255

// ValidateTitle checks that a title is present and within the length limit.
// Returns a ValidationError if the title is empty or too long.
func ValidateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if text.CountRunes(title) > maxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must not exceed %d characters", maxTitleLength),
		}
	}
	return nil
}

// ValidateContent checks that announcement content is present.
// Content length is unbounded.
func ValidateContent(content string) error {
	if content == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	return nil
}
