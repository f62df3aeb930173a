package usecase

import (
	"context"

	"thresholdtimer/internal/modules/settings/domain"
	"thresholdtimer/internal/modules/settings/dto"
	settingsin "thresholdtimer/internal/modules/settings/port/in"
	"thresholdtimer/internal/modules/settings/service"
)

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Threshold(ctx context.Context) (dto.ThresholdOutput, error) {
	t, err := i.svc.Threshold(ctx)
	if err != nil {
		return dto.ThresholdOutput{}, err
	}
	return toOutput(t), nil
}

func (i *Interactor) SaveThreshold(ctx context.Context, input dto.SaveThresholdInput) (dto.ThresholdOutput, error) {
	t, err := i.svc.SaveThreshold(ctx, domain.Threshold{Bound: input.Bound, AlertPeriodSeconds: input.AlertPeriodSeconds})
	if err != nil {
		return dto.ThresholdOutput{}, err
	}
	return toOutput(t), nil
}

func toOutput(t domain.Threshold) dto.ThresholdOutput {
	return dto.ThresholdOutput{Bound: t.Bound, AlertPeriodSeconds: t.AlertPeriodSeconds, AlertPeriod: t.AlertPeriod()}
}
