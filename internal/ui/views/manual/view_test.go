package manual

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	countdowndto "thresholdtimer/internal/modules/countdown/dto"
	presetdto "thresholdtimer/internal/modules/preset/dto"
)

type fakeCountdown struct {
	started  string
	selected string
	stopped  bool
}

func (f *fakeCountdown) Start(_ context.Context, seconds int, label string) (countdowndto.StatusOutput, error) {
	d := time.Duration(seconds) * time.Second
	return countdowndto.StatusOutput{Running: true, Configured: d, Remaining: d, Label: label}, nil
}

func (f *fakeCountdown) StartPreset(_ context.Context, id string) (countdowndto.StatusOutput, error) {
	f.started = id
	return countdowndto.StatusOutput{Running: true, Configured: time.Minute, Remaining: time.Minute, PresetID: id}, nil
}

func (f *fakeCountdown) SelectPreset(_ context.Context, id string) (countdowndto.StatusOutput, error) {
	f.selected = id
	return countdowndto.StatusOutput{Configured: 2 * time.Minute, Remaining: 2 * time.Minute, PresetID: id}, nil
}

func (f *fakeCountdown) Stop(context.Context) (countdowndto.StatusOutput, error) {
	f.stopped = true
	return countdowndto.StatusOutput{Remaining: time.Minute}, nil
}

func (f *fakeCountdown) Status(context.Context) countdowndto.StatusOutput {
	return countdowndto.StatusOutput{Remaining: 30 * time.Second}
}

type fakePresets struct{ presets []presetdto.PresetOutput }

func (f fakePresets) List(context.Context) ([]presetdto.PresetOutput, error) { return f.presets, nil }

func loaded(t *testing.T, countdown *fakeCountdown) Model {
	t.Helper()
	presets := []presetdto.PresetOutput{
		{ID: "p1", Label: "1 min", Seconds: 60, Duration: time.Minute},
		{ID: "p2", Label: "2 min", Seconds: 120, Duration: 2 * time.Minute},
	}
	m := New(countdown, fakePresets{presets: presets})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m, _ = m.Update(PresetsLoadedMsg{Presets: presets})
	return m
}

func run(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	m, _ = m.Update(cmd())
	return m
}

func TestToggleStartsHighlightedPresetThenStops(t *testing.T) {
	t.Parallel()
	countdown := &fakeCountdown{}
	m := loaded(t, countdown)

	m = run(m, m.Toggle())
	if countdown.started != "p1" || !m.Running() {
		t.Fatalf("expected p1 to start, got %q running=%v", countdown.started, m.Running())
	}
	m = run(m, m.Toggle())
	if !countdown.stopped || m.Running() {
		t.Fatalf("second toggle must stop the countdown")
	}
}

func TestMovingCursorSelectsPreset(t *testing.T) {
	t.Parallel()
	countdown := &fakeCountdown{}
	m := loaded(t, countdown)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	for _, msg := range drain(cmd) {
		m, _ = m.Update(msg)
	}
	if countdown.selected != "p2" {
		t.Fatalf("expected p2 selected, got %q", countdown.selected)
	}
	if got := m.Remaining(); got != "2:00" {
		t.Fatalf("expected the selected duration on screen, got %s", got)
	}
}

func TestDoneBannerHoldsUntilNextStart(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakeCountdown{})

	m, _ = m.Update(StatusMsg{Status: countdowndto.StatusOutput{Completed: true, Remaining: time.Minute}})
	if !strings.Contains(m.View(), "Done!") {
		t.Fatalf("completion must show the done banner")
	}
	m, _ = m.Update(StatusMsg{Status: countdowndto.StatusOutput{Remaining: time.Minute}})
	if !strings.Contains(m.View(), "Done!") {
		t.Fatalf("an idle refresh must not clear the banner")
	}
	m = run(m, m.Toggle())
	if strings.Contains(m.View(), "Done!") {
		t.Fatalf("starting again must clear the banner")
	}
}

// drain runs cmd and flattens batches into their messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, drain(c)...)
	}
	return out
}
