package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "thresholdtimer/internal/platform/errors"
)

const MaxDuration = 24 * time.Hour

type Preset struct {
	ID       string
	Label    string
	Duration time.Duration
}

func (p Preset) Validate() error {
	if strings.TrimSpace(p.Label) == "" {
		return fmt.Errorf("%w: preset label is required", apperrors.ErrInvalidInput)
	}
	if p.Duration <= 0 || p.Duration > MaxDuration {
		return fmt.Errorf("%w: preset duration must be between 1s and %s", apperrors.ErrInvalidInput, MaxDuration)
	}
	if p.Duration%time.Second != 0 {
		return fmt.Errorf("%w: preset duration must be whole seconds", apperrors.ErrInvalidInput)
	}
	return nil
}

// Defaults are the presets a fresh store is seeded with.
func Defaults() []Preset {
	return []Preset{
		{Label: LabelFor(30 * time.Second), Duration: 30 * time.Second},
		{Label: LabelFor(time.Minute), Duration: time.Minute},
		{Label: LabelFor(2 * time.Minute), Duration: 2 * time.Minute},
	}
}

// LabelFor renders a duration the way preset buttons show it: "45 sec",
// "2 min", "1 min 30 sec".
func LabelFor(d time.Duration) string {
	total := int(d / time.Second)
	minutes, seconds := total/60, total%60
	switch {
	case minutes == 0:
		return fmt.Sprintf("%d sec", seconds)
	case seconds == 0:
		return fmt.Sprintf("%d min", minutes)
	default:
		return fmt.Sprintf("%d min %d sec", minutes, seconds)
	}
}
