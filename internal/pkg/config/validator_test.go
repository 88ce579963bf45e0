package config

import (
	"testing"
	"time"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"standard five fields", "30 5 * * *", false},
		{"every six hours", "0 */6 * * *", false},
		{"weekday range", "30 9 * * 1-5", false},
		{"descriptor hourly", "@hourly", false},
		{"descriptor every", "@every 1m", false},
		{"empty", "", true},
		{"too few fields", "30 5 *", true},
		{"garbage", "not a schedule", true},
		{"minute out of range", "61 5 * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCronSchedule(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	if err := ValidateIntRange(5, 1, 10); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateIntRange(1, 1, 10); err != nil {
		t.Errorf("lower bound must be inclusive: %v", err)
	}
	if err := ValidateIntRange(10, 1, 10); err != nil {
		t.Errorf("upper bound must be inclusive: %v", err)
	}
	if err := ValidateIntRange(0, 1, 10); err == nil {
		t.Error("expected error for value below range")
	}
	if err := ValidateIntRange(11, 1, 10); err == nil {
		t.Error("expected error for value above range")
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	if err := ValidatePositiveDuration(time.Second); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePositiveDuration(0); err == nil {
		t.Error("expected error for zero duration")
	}
	if err := ValidatePositiveDuration(-time.Second); err == nil {
		t.Error("expected error for negative duration")
	}
}
