package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration rejects zero and negative durations. The
// server's request and shutdown timeouts go through this after file
// and environment merging.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}
