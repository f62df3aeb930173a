package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "thresholdtimer/internal/platform/errors"
)

func TestRemainingAtClampsAtZero(t *testing.T) {
	t.Parallel()
	end := time.Date(2026, 3, 1, 9, 0, 30, 0, time.UTC)
	if got := RemainingAt(end, end.Add(-100*time.Millisecond)); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %s", got)
	}
	if got := RemainingAt(end, end.Add(time.Minute)); got != 0 {
		t.Fatalf("expected clamp to zero, got %s", got)
	}
}

func TestValidateDuration(t *testing.T) {
	t.Parallel()
	for _, d := range []time.Duration{0, -time.Second} {
		if err := ValidateDuration(d); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", d, err)
		}
	}
	if err := ValidateDuration(time.Nanosecond); err != nil {
		t.Fatalf("positive duration rejected: %v", err)
	}
}
