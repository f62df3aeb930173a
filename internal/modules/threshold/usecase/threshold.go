package usecase

import (
	"context"
	"time"

	settingsin "thresholdtimer/internal/modules/settings/port/in"
	"thresholdtimer/internal/modules/threshold/domain"
	thresholddto "thresholdtimer/internal/modules/threshold/dto"
	thresholdin "thresholdtimer/internal/modules/threshold/port/in"
	"thresholdtimer/internal/modules/threshold/service"
	"thresholdtimer/internal/platform/observe"
)

type Interactor struct {
	monitor  *service.Monitor
	settings settingsin.Usecase
}

func NewInteractor(monitor *service.Monitor, settings settingsin.Usecase) thresholdin.Usecase {
	return &Interactor{monitor: monitor, settings: settings}
}

// Start snapshots the bound and alert period; later settings changes do not
// reach a running session.
func (i *Interactor) Start(ctx context.Context, input thresholddto.StartInput) (thresholddto.StatusOutput, error) {
	cfg := domain.Config{Bound: input.Bound, AlertPeriod: time.Duration(input.AlertPeriodSeconds) * time.Second}
	if (input.Bound == 0 || input.AlertPeriodSeconds == 0) && i.settings != nil {
		stored, err := i.settings.Threshold(ctx)
		if err != nil {
			return thresholddto.StatusOutput{}, err
		}
		if input.Bound == 0 {
			cfg.Bound = stored.Bound
		}
		if input.AlertPeriodSeconds == 0 {
			cfg.AlertPeriod = stored.AlertPeriod
		}
	}
	if err := i.monitor.Start(ctx, cfg); err != nil {
		return thresholddto.StatusOutput{}, err
	}
	return toOutput(i.monitor.Status()), nil
}

func (i *Interactor) Stop(ctx context.Context) (thresholddto.StatusOutput, error) {
	if err := i.monitor.Stop(ctx); err != nil {
		return thresholddto.StatusOutput{}, err
	}
	return toOutput(i.monitor.Status()), nil
}

func (i *Interactor) Status(context.Context) thresholddto.StatusOutput {
	return toOutput(i.monitor.Status())
}

func (i *Interactor) Subscribe() (<-chan thresholddto.StatusOutput, func()) {
	src, cancel := i.monitor.Subscribe()
	return observe.Map(src, toOutput), cancel
}

func (i *Interactor) Record(value float64) {
	i.monitor.OnReading(value)
}

func (i *Interactor) Dispose(ctx context.Context) error {
	return i.monitor.Dispose(ctx)
}

func toOutput(s domain.Status) thresholddto.StatusOutput {
	return thresholddto.StatusOutput{
		Running:     s.Running,
		Alerting:    s.Alerting,
		LastReading: s.LastReading,
		HasReading:  s.HasReading,
		Bound:       s.Bound,
		AlertPeriod: s.AlertPeriod,
		StartedAt:   s.StartedAt,
		Alerts:      s.Alerts,
	}
}
