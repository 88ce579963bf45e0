package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization for optimal performance (<1μs per operation).
var pathPatterns = []*PathPattern{
	// Announcement routes with IDs
	{Pattern: regexp.MustCompile(`^/announcements/\d+$`), Template: "/announcements/:id"},

	// Category routes with IDs (if applicable in the future)
	{Pattern: regexp.MustCompile(`^/categories/\d+$`), Template: "/categories/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with IDs (e.g., /announcements/123) to template format
// (e.g., /announcements/:id). Static paths remain unchanged.
//
// Performance: <1μs per operation (pre-compiled regex patterns)
//
// Examples:
//
//	NormalizePath("/announcements/123")     // "/announcements/:id"
//	NormalizePath("/announcements/456")     // "/announcements/:id"
//	NormalizePath("/categories/789")        // "/categories/:id"
//	NormalizePath("/categories")            // "/categories" (unchanged)
//	NormalizePath("/health")                // "/health" (unchanged)
//	NormalizePath("/metrics")               // "/metrics" (unchanged)
//	NormalizePath("/unknown/path/123")      // "/unknown/path/123" (no match, return original)
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/announcements/123?search=x") // "/announcements/:id"
//	NormalizePath("/announcements/123/")         // "/announcements/:id"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	// Try to match against known patterns
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// No match found, return original path
	// This is safe - static paths like /health, /metrics, /categories
	// will pass through unchanged
	return path
}

// GetExpectedCardinality returns the expected number of unique path labels
// after normalization. This is useful for capacity planning and monitoring.
//
// Expected cardinality calculation:
//   - Static endpoints: ~8-10 (health, metrics, categories, etc.)
//   - Template endpoints: announcements/:id, categories/:id
func GetExpectedCardinality() int {
	// Count template patterns
	templateCount := len(pathPatterns)

	// Estimate static endpoints
	staticCount := 10 // /health, /metrics, /categories, /ws, etc.

	// Total expected cardinality
	return templateCount + staticCount
}
