package dto

import "time"

type PresetOutput struct {
	ID       string
	Label    string
	Seconds  int
	Duration time.Duration
}

type AddInput struct {
	// Label defaults to a rendering of the duration when empty.
	Label   string
	Seconds int
}
