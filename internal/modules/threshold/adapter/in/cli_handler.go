package in

import (
	"context"

	thresholddto "thresholdtimer/internal/modules/threshold/dto"
	thresholdin "thresholdtimer/internal/modules/threshold/port/in"
)

type CLIHandler struct {
	usecase thresholdin.Usecase
}

func NewCLIHandler(usecase thresholdin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, bound float64, periodSeconds int) (thresholddto.StatusOutput, error) {
	return h.usecase.Start(ctx, thresholddto.StartInput{Bound: bound, AlertPeriodSeconds: periodSeconds})
}

func (h CLIHandler) Stop(ctx context.Context) (thresholddto.StatusOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Status(ctx context.Context) thresholddto.StatusOutput {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Subscribe() (<-chan thresholddto.StatusOutput, func()) {
	return h.usecase.Subscribe()
}

func (h CLIHandler) Record(value float64) {
	h.usecase.Record(value)
}

func (h CLIHandler) Dispose(ctx context.Context) error {
	return h.usecase.Dispose(ctx)
}
