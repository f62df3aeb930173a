package dto

import "time"

type StartInput struct {
	Seconds int
	Label   string
}

type StatusOutput struct {
	Running    bool
	EndTime    time.Time
	Configured time.Duration
	Remaining  time.Duration
	Label      string
	Completed  bool
	// PresetID is the preset whose duration is selected, if any.
	PresetID string
}
