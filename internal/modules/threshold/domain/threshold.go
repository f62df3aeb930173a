package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "thresholdtimer/internal/platform/errors"
)

const (
	MinAlertPeriod       = time.Second
	MaxAlertPeriod       = 10 * time.Second
	DefaultDebounceFloor = 300 * time.Millisecond
)

// Config is the snapshot a monitoring session runs against. It does not
// change for the lifetime of a session.
type Config struct {
	Bound       float64
	AlertPeriod time.Duration
}

func (c Config) Validate() error {
	if math.IsNaN(c.Bound) || math.IsInf(c.Bound, 0) {
		return fmt.Errorf("%w: bound must be a finite number", apperrors.ErrInvalidInput)
	}
	return nil
}

// Normalize clamps the alert period into [MinAlertPeriod, MaxAlertPeriod].
func (c Config) Normalize() Config {
	c.AlertPeriod = ClampAlertPeriod(c.AlertPeriod)
	return c
}

// Below reports whether v triggers the alert condition.
func (c Config) Below(v float64) bool {
	return v < c.Bound
}

func ClampAlertPeriod(d time.Duration) time.Duration {
	if d < MinAlertPeriod {
		return MinAlertPeriod
	}
	if d > MaxAlertPeriod {
		return MaxAlertPeriod
	}
	return d
}

// DebounceInterval is half the alert period, never shorter than floor.
func DebounceInterval(period, floor time.Duration) time.Duration {
	half := period / 2
	if half < floor {
		return floor
	}
	return half
}

// Status is an immutable snapshot of the monitor. Alerting implies Running.
type Status struct {
	Running     bool
	Alerting    bool
	LastReading float64
	HasReading  bool
	Bound       float64
	AlertPeriod time.Duration
	StartedAt   time.Time
	// Alerts counts alert-loop cues fired in the current session.
	Alerts int
}
