package dto

import "time"

type ThresholdOutput struct {
	Bound              float64
	AlertPeriodSeconds int
	AlertPeriod        time.Duration
}

type SaveThresholdInput struct {
	Bound              float64
	AlertPeriodSeconds int
}
