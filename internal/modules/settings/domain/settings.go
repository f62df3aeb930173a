package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "thresholdtimer/internal/platform/errors"
)

const (
	MinBound     = 40.0
	MaxBound     = 200.0
	DefaultBound = 100.0

	MinAlertPeriodSeconds     = 1
	MaxAlertPeriodSeconds     = 10
	DefaultAlertPeriodSeconds = 1
)

const (
	KeyBound              = "threshold.bound"
	KeyAlertPeriodSeconds = "threshold.alert_period_seconds"
)

// Threshold holds the persisted monitor settings. A running session keeps the
// values it started with.
type Threshold struct {
	Bound              float64
	AlertPeriodSeconds int
}

func DefaultThreshold() Threshold {
	return Threshold{Bound: DefaultBound, AlertPeriodSeconds: DefaultAlertPeriodSeconds}
}

func (t Threshold) Validate() error {
	if math.IsNaN(t.Bound) || math.IsInf(t.Bound, 0) {
		return fmt.Errorf("%w: bound must be a finite number", apperrors.ErrInvalidInput)
	}
	if t.Bound < MinBound || t.Bound > MaxBound {
		return fmt.Errorf("%w: bound %.0f outside %.0f-%.0f bpm", apperrors.ErrInvalidInput, t.Bound, MinBound, MaxBound)
	}
	return nil
}

func (t Threshold) Normalize() Threshold {
	t.AlertPeriodSeconds = ClampAlertPeriodSeconds(t.AlertPeriodSeconds)
	return t
}

func (t Threshold) AlertPeriod() time.Duration {
	return time.Duration(ClampAlertPeriodSeconds(t.AlertPeriodSeconds)) * time.Second
}

func ClampAlertPeriodSeconds(n int) int {
	if n < MinAlertPeriodSeconds {
		return MinAlertPeriodSeconds
	}
	if n > MaxAlertPeriodSeconds {
		return MaxAlertPeriodSeconds
	}
	return n
}
