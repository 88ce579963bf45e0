package config

import (
	"strings"
	"testing"
	"time"
)

/* ───────────────────────── LoadEnvWithFallback ───────────────────────── */

func TestLoadEnvWithFallback(t *testing.T) {
	rejectFoo := func(v string) error {
		if v == "foo" {
			return &testError{"foo is not allowed"}
		}
		return nil
	}

	t.Run("uses env value when valid", func(t *testing.T) {
		t.Setenv("TEST_FB", "bar")
		res := LoadEnvWithFallback("TEST_FB", "default", rejectFoo)
		if res.Value.(string) != "bar" || res.FallbackApplied {
			t.Errorf("got %v (fallback=%v), want bar", res.Value, res.FallbackApplied)
		}
	})

	t.Run("falls back with warning when invalid", func(t *testing.T) {
		t.Setenv("TEST_FB", "foo")
		res := LoadEnvWithFallback("TEST_FB", "default", rejectFoo)
		if res.Value.(string) != "default" || !res.FallbackApplied {
			t.Fatalf("got %v (fallback=%v), want default with fallback", res.Value, res.FallbackApplied)
		}
		if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "TEST_FB") {
			t.Errorf("warnings = %v, want one mentioning TEST_FB", res.Warnings)
		}
	})

	t.Run("unset uses default without warning", func(t *testing.T) {
		res := LoadEnvWithFallback("TEST_FB_UNSET", "default", rejectFoo)
		if res.Value.(string) != "default" || res.FallbackApplied || len(res.Warnings) != 0 {
			t.Errorf("got %v (fallback=%v warnings=%v), want clean default", res.Value, res.FallbackApplied, res.Warnings)
		}
	})
}

/* ───────────────────────── LoadEnvDuration ───────────────────────── */

func TestLoadEnvDuration(t *testing.T) {
	t.Run("parses valid duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "45s")
		res := LoadEnvDuration("TEST_DUR", time.Minute, ValidatePositiveDuration)
		if res.Value.(time.Duration) != 45*time.Second {
			t.Errorf("got %v, want 45s", res.Value)
		}
	})

	t.Run("falls back on parse error", func(t *testing.T) {
		t.Setenv("TEST_DUR", "not-a-duration")
		res := LoadEnvDuration("TEST_DUR", time.Minute, ValidatePositiveDuration)
		if res.Value.(time.Duration) != time.Minute || !res.FallbackApplied {
			t.Errorf("got %v (fallback=%v), want 1m fallback", res.Value, res.FallbackApplied)
		}
	})

	t.Run("falls back on validation error", func(t *testing.T) {
		t.Setenv("TEST_DUR", "-5s")
		res := LoadEnvDuration("TEST_DUR", time.Minute, ValidatePositiveDuration)
		if res.Value.(time.Duration) != time.Minute || !res.FallbackApplied {
			t.Errorf("got %v (fallback=%v), want 1m fallback", res.Value, res.FallbackApplied)
		}
	})
}

/* ───────────────────────── LoadEnvInt ───────────────────────── */

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1, 100) }

	t.Run("parses valid int", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		res := LoadEnvInt("TEST_INT", 10, inRange)
		if res.Value.(int) != 42 {
			t.Errorf("got %v, want 42", res.Value)
		}
	})

	t.Run("falls back on parse error", func(t *testing.T) {
		t.Setenv("TEST_INT", "forty-two")
		res := LoadEnvInt("TEST_INT", 10, inRange)
		if res.Value.(int) != 10 || !res.FallbackApplied {
			t.Errorf("got %v (fallback=%v), want 10 fallback", res.Value, res.FallbackApplied)
		}
	})

	t.Run("falls back on out-of-range value", func(t *testing.T) {
		t.Setenv("TEST_INT", "0")
		res := LoadEnvInt("TEST_INT", 10, inRange)
		if res.Value.(int) != 10 || !res.FallbackApplied {
			t.Errorf("got %v (fallback=%v), want 10 fallback", res.Value, res.FallbackApplied)
		}
	})
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
