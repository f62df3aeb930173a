package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "thresholdtimer/internal/platform/errors"
)

func TestValidate(t *testing.T) {
	t.Parallel()
	bad := []Preset{
		{Label: "", Duration: time.Minute},
		{Label: "zero", Duration: 0},
		{Label: "neg", Duration: -time.Second},
		{Label: "frac", Duration: 1500 * time.Millisecond},
		{Label: "long", Duration: 25 * time.Hour},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", p, err)
		}
	}
	if err := (Preset{Label: "ok", Duration: 90 * time.Second}).Validate(); err != nil {
		t.Fatalf("valid preset rejected: %v", err)
	}
}

func TestDefaultsAndLabels(t *testing.T) {
	t.Parallel()
	defaults := Defaults()
	want := []string{"30 sec", "1 min", "2 min"}
	if len(defaults) != len(want) {
		t.Fatalf("expected %d defaults, got %d", len(want), len(defaults))
	}
	for i, p := range defaults {
		if p.Label != want[i] {
			t.Fatalf("default %d: expected %q, got %q", i, want[i], p.Label)
		}
	}
	if got := LabelFor(90 * time.Second); got != "1 min 30 sec" {
		t.Fatalf("unexpected label %q", got)
	}
}
