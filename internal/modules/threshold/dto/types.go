package dto

import "time"

type StartInput struct {
	// Zero values are filled from the stored threshold settings.
	Bound              float64
	AlertPeriodSeconds int
}

type StatusOutput struct {
	Running     bool
	Alerting    bool
	LastReading float64
	HasReading  bool
	Bound       float64
	AlertPeriod time.Duration
	StartedAt   time.Time
	Alerts      int
}
