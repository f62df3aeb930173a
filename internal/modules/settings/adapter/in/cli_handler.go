package in

import (
	"context"

	settingsdto "thresholdtimer/internal/modules/settings/dto"
	settingsin "thresholdtimer/internal/modules/settings/port/in"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Threshold(ctx context.Context) (settingsdto.ThresholdOutput, error) {
	return h.usecase.Threshold(ctx)
}

func (h CLIHandler) SaveThreshold(ctx context.Context, bound float64, periodSeconds int) (settingsdto.ThresholdOutput, error) {
	return h.usecase.SaveThreshold(ctx, settingsdto.SaveThresholdInput{Bound: bound, AlertPeriodSeconds: periodSeconds})
}
