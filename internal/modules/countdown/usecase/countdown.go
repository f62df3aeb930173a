package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"thresholdtimer/internal/modules/countdown/domain"
	countdowndto "thresholdtimer/internal/modules/countdown/dto"
	countdownin "thresholdtimer/internal/modules/countdown/port/in"
	"thresholdtimer/internal/modules/countdown/service"
	presetdto "thresholdtimer/internal/modules/preset/dto"
	presetin "thresholdtimer/internal/modules/preset/port/in"
	apperrors "thresholdtimer/internal/platform/errors"
	"thresholdtimer/internal/platform/observe"
)

type Interactor struct {
	engine  *service.Engine
	presets presetin.Usecase

	mu       sync.Mutex
	presetID string
}

func NewInteractor(engine *service.Engine, presets presetin.Usecase) countdownin.Usecase {
	return &Interactor{engine: engine, presets: presets}
}

func (i *Interactor) Start(ctx context.Context, input countdowndto.StartInput) (countdowndto.StatusOutput, error) {
	if input.Seconds <= 0 {
		return countdowndto.StatusOutput{}, fmt.Errorf("%w: seconds must be positive", apperrors.ErrInvalidInput)
	}
	if err := i.engine.Start(ctx, time.Duration(input.Seconds)*time.Second, input.Label); err != nil {
		return countdowndto.StatusOutput{}, err
	}
	return i.output(i.engine.Status()), nil
}

// StartPreset selects the preset and starts it. The selection stays in place
// after the countdown ends.
func (i *Interactor) StartPreset(ctx context.Context, presetID string) (countdowndto.StatusOutput, error) {
	if i.engine.Status().Running {
		return countdowndto.StatusOutput{}, apperrors.ErrAlreadyRunning
	}
	preset, err := i.selectPreset(ctx, presetID)
	if err != nil {
		return countdowndto.StatusOutput{}, err
	}
	if err := i.engine.Start(ctx, preset.Duration, preset.Label); err != nil {
		return countdowndto.StatusOutput{}, err
	}
	return i.output(i.engine.Status()), nil
}

// SelectPreset changes the duration used by the next start. A running
// countdown keeps its end time.
func (i *Interactor) SelectPreset(ctx context.Context, presetID string) (countdowndto.StatusOutput, error) {
	if _, err := i.selectPreset(ctx, presetID); err != nil {
		return countdowndto.StatusOutput{}, err
	}
	return i.output(i.engine.Status()), nil
}

func (i *Interactor) selectPreset(ctx context.Context, presetID string) (presetdto.PresetOutput, error) {
	if i.presets == nil {
		return presetdto.PresetOutput{}, fmt.Errorf("preset usecase is not configured")
	}
	preset, err := i.presets.Get(ctx, presetID)
	if err != nil {
		return presetdto.PresetOutput{}, err
	}
	if err := i.engine.Select(preset.Duration); err != nil {
		return presetdto.PresetOutput{}, err
	}
	i.mu.Lock()
	i.presetID = preset.ID
	i.mu.Unlock()
	return preset, nil
}

func (i *Interactor) Stop(ctx context.Context) (countdowndto.StatusOutput, error) {
	if err := i.engine.Stop(ctx); err != nil {
		return countdowndto.StatusOutput{}, err
	}
	return i.output(i.engine.Status()), nil
}

func (i *Interactor) Refresh(context.Context) countdowndto.StatusOutput {
	return i.output(i.engine.Refresh())
}

func (i *Interactor) Status(context.Context) countdowndto.StatusOutput {
	return i.output(i.engine.Status())
}

func (i *Interactor) Subscribe() (<-chan countdowndto.StatusOutput, func()) {
	src, cancel := i.engine.Subscribe()
	return observe.Map(src, i.output), cancel
}

func (i *Interactor) Dispose(ctx context.Context) error {
	return i.engine.Dispose(ctx)
}

func (i *Interactor) output(s domain.Status) countdowndto.StatusOutput {
	i.mu.Lock()
	presetID := i.presetID
	i.mu.Unlock()
	return countdowndto.StatusOutput{
		Running:    s.Running,
		EndTime:    s.EndTime,
		Configured: s.Configured,
		Remaining:  s.Remaining,
		Label:      s.Label,
		Completed:  s.Completed,
		PresetID:   presetID,
	}
}
