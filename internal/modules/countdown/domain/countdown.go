package domain

import (
	"fmt"
	"time"

	apperrors "thresholdtimer/internal/platform/errors"
)

// NotificationID is the single notification slot a countdown owns.
const NotificationID = "thresholdtimer.countdown.complete"

const (
	DefaultDuration = 30 * time.Second
	DefaultTitle    = "Timer finished"
)

func ValidateDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: countdown duration must be positive, got %s", apperrors.ErrInvalidInput, d)
	}
	return nil
}

// RemainingAt derives the time left from the absolute end time, clamped at zero.
func RemainingAt(end, now time.Time) time.Duration {
	left := end.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Status is a snapshot of the engine. Running is true exactly when EndTime is
// set. Completed is only reported by the refresh that finished the countdown.
type Status struct {
	Running    bool
	EndTime    time.Time
	Configured time.Duration
	Remaining  time.Duration
	Label      string
	Completed  bool
}
