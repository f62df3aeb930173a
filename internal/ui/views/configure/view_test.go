package configure

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	presetdto "thresholdtimer/internal/modules/preset/dto"
	settingsdto "thresholdtimer/internal/modules/settings/dto"
)

type fakeSettings struct {
	saved settingsdto.ThresholdOutput
}

func (f *fakeSettings) Threshold(context.Context) (settingsdto.ThresholdOutput, error) {
	return settingsdto.ThresholdOutput{Bound: 100, AlertPeriodSeconds: 1, AlertPeriod: time.Second}, nil
}

func (f *fakeSettings) SaveThreshold(_ context.Context, bound float64, periodSeconds int) (settingsdto.ThresholdOutput, error) {
	f.saved = settingsdto.ThresholdOutput{Bound: bound, AlertPeriodSeconds: periodSeconds, AlertPeriod: time.Duration(periodSeconds) * time.Second}
	return f.saved, nil
}

type fakePresets struct {
	presets []presetdto.PresetOutput
	removed []string
}

func (f *fakePresets) List(context.Context) ([]presetdto.PresetOutput, error) { return f.presets, nil }

func (f *fakePresets) Add(_ context.Context, label string, seconds int) (presetdto.PresetOutput, error) {
	p := presetdto.PresetOutput{ID: label, Label: label, Seconds: seconds, Duration: time.Duration(seconds) * time.Second}
	f.presets = append(f.presets, p)
	return p, nil
}

func (f *fakePresets) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	kept := f.presets[:0]
	for _, p := range f.presets {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.presets = kept
	return nil
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAdjustAndSaveThreshold(t *testing.T) {
	t.Parallel()
	settings := &fakeSettings{}
	m := New(settings, &fakePresets{})
	m, _ = m.Update(m.loadSettingsCmd()())

	m, _ = m.Update(key("-"))
	m, _ = m.Update(key("-"))
	m, _ = m.Update(key("]"))
	if m.Bound() != 98 || m.Period() != 2 {
		t.Fatalf("unexpected draft bound=%v period=%d", m.Bound(), m.Period())
	}
	m, cmd := m.Update(key("s"))
	m, _ = m.Update(cmd())
	if settings.saved.Bound != 98 || settings.saved.AlertPeriodSeconds != 2 {
		t.Fatalf("unexpected saved settings %+v", settings.saved)
	}
}

func TestAddAndRemovePresetRefreshesList(t *testing.T) {
	t.Parallel()
	presets := &fakePresets{presets: []presetdto.PresetOutput{{ID: "a", Label: "a", Seconds: 30, Duration: 30 * time.Second}}}
	m := New(&fakeSettings{}, presets)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m, _ = m.Update(m.loadPresetsCmd()())

	msg := m.AddPreset("tea", 180)()
	changed, ok := msg.(PresetsChangedMsg)
	if !ok || changed.Err != nil || len(changed.Presets) != 2 {
		t.Fatalf("unexpected add result %#v", msg)
	}
	m, _ = m.Update(changed)

	msg = m.RemoveSelected()()
	if changed = msg.(PresetsChangedMsg); len(changed.Presets) != 1 || presets.removed[0] != "a" {
		t.Fatalf("expected the highlighted preset removed, got %#v", changed)
	}
}
