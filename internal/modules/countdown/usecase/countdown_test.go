package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	countdowndto "thresholdtimer/internal/modules/countdown/dto"
	"thresholdtimer/internal/modules/countdown/service"
	"thresholdtimer/internal/modules/countdown/usecase"
	presetdto "thresholdtimer/internal/modules/preset/dto"
	"thresholdtimer/internal/platform/alert"
	"thresholdtimer/internal/platform/clock"
	apperrors "thresholdtimer/internal/platform/errors"
)

type fakePresets struct {
	items map[string]presetdto.PresetOutput
}

func (f fakePresets) List(context.Context) ([]presetdto.PresetOutput, error) {
	out := make([]presetdto.PresetOutput, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f fakePresets) Get(_ context.Context, id string) (presetdto.PresetOutput, error) {
	p, ok := f.items[id]
	if !ok {
		return presetdto.PresetOutput{}, apperrors.ErrNotFound
	}
	return p, nil
}

func (f fakePresets) Add(context.Context, presetdto.AddInput) (presetdto.PresetOutput, error) {
	return presetdto.PresetOutput{}, nil
}

func (f fakePresets) Remove(context.Context, string) error { return nil }

type nopSink struct{}

func (nopSink) Fire(alert.Pattern) {}

func newInteractor() (*clock.Fake, *service.Engine, fakePresets) {
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	engine := service.NewEngine(clk, nil, nopSink{}, nil, service.Options{})
	presets := fakePresets{items: map[string]presetdto.PresetOutput{
		"short": {ID: "short", Label: "30 sec", Seconds: 30, Duration: 30 * time.Second},
		"long":  {ID: "long", Label: "2 min", Seconds: 120, Duration: 2 * time.Minute},
	}}
	return clk, engine, presets
}

func TestStartPresetUsesPresetDurationAndLabel(t *testing.T) {
	t.Parallel()
	clk, engine, presets := newInteractor()
	uc := usecase.NewInteractor(engine, presets)
	ctx := context.Background()

	status, err := uc.StartPreset(ctx, "long")
	if err != nil {
		t.Fatalf("start preset: %v", err)
	}
	if !status.Running || status.Configured != 2*time.Minute || status.Label != "2 min" || status.PresetID != "long" {
		t.Fatalf("unexpected status %+v", status)
	}
	if _, err := uc.StartPreset(ctx, "short"); !errors.Is(err, apperrors.ErrAlreadyRunning) {
		t.Fatalf("expected already running, got %v", err)
	}

	if _, err := uc.SelectPreset(ctx, "short"); err != nil {
		t.Fatalf("select while running: %v", err)
	}
	clk.Advance(time.Minute)
	if got := uc.Refresh(ctx); got.Remaining != time.Minute || got.Configured != 2*time.Minute {
		t.Fatalf("selection must not touch the running countdown, got %+v", got)
	}
	clk.Advance(time.Minute)
	done := uc.Refresh(ctx)
	if !done.Completed || done.Remaining != 30*time.Second || done.PresetID != "short" {
		t.Fatalf("unexpected completion %+v", done)
	}
}

func TestStartRejectsNonPositiveSeconds(t *testing.T) {
	t.Parallel()
	_, engine, presets := newInteractor()
	uc := usecase.NewInteractor(engine, presets)
	if _, err := uc.Start(context.Background(), countdowndto.StartInput{Seconds: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	status, err := uc.Start(context.Background(), countdowndto.StartInput{Seconds: 45, Label: "rest"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if status.Remaining != 45*time.Second || status.Label != "rest" {
		t.Fatalf("unexpected status %+v", status)
	}
	stopped, err := uc.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.Running {
		t.Fatalf("expected stopped, got %+v", stopped)
	}
}

func TestSelectUnknownPreset(t *testing.T) {
	t.Parallel()
	_, engine, presets := newInteractor()
	uc := usecase.NewInteractor(engine, presets)
	if _, err := uc.SelectPreset(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.StartPreset(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if uc.Status(context.Background()).Running {
		t.Fatalf("unknown preset must not start a countdown")
	}
}
