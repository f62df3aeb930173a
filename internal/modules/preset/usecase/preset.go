package usecase

import (
	"context"
	"time"

	"thresholdtimer/internal/modules/preset/domain"
	"thresholdtimer/internal/modules/preset/dto"
	presetin "thresholdtimer/internal/modules/preset/port/in"
	"thresholdtimer/internal/modules/preset/service"
)

type Interactor struct {
	svc *service.PresetService
}

func NewInteractor(svc *service.PresetService) presetin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PresetOutput, error) {
	presets, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresetOutput, 0, len(presets))
	for _, p := range presets {
		out = append(out, toOutput(p))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.PresetOutput, error) {
	p, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.PresetOutput{}, err
	}
	return toOutput(p), nil
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) (dto.PresetOutput, error) {
	p, err := i.svc.Add(ctx, input.Label, input.Seconds)
	if err != nil {
		return dto.PresetOutput{}, err
	}
	return toOutput(p), nil
}

func (i *Interactor) Remove(ctx context.Context, id string) error {
	return i.svc.Remove(ctx, id)
}

func toOutput(p domain.Preset) dto.PresetOutput {
	return dto.PresetOutput{ID: p.ID, Label: p.Label, Seconds: int(p.Duration / time.Second), Duration: p.Duration}
}
