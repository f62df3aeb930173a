package in

import (
	"context"

	countdowndto "thresholdtimer/internal/modules/countdown/dto"
	countdownin "thresholdtimer/internal/modules/countdown/port/in"
)

type CLIHandler struct {
	usecase countdownin.Usecase
}

func NewCLIHandler(usecase countdownin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, seconds int, label string) (countdowndto.StatusOutput, error) {
	return h.usecase.Start(ctx, countdowndto.StartInput{Seconds: seconds, Label: label})
}

func (h CLIHandler) StartPreset(ctx context.Context, presetID string) (countdowndto.StatusOutput, error) {
	return h.usecase.StartPreset(ctx, presetID)
}

func (h CLIHandler) SelectPreset(ctx context.Context, presetID string) (countdowndto.StatusOutput, error) {
	return h.usecase.SelectPreset(ctx, presetID)
}

func (h CLIHandler) Stop(ctx context.Context) (countdowndto.StatusOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Refresh(ctx context.Context) countdowndto.StatusOutput {
	return h.usecase.Refresh(ctx)
}

func (h CLIHandler) Status(ctx context.Context) countdowndto.StatusOutput {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Subscribe() (<-chan countdowndto.StatusOutput, func()) {
	return h.usecase.Subscribe()
}

func (h CLIHandler) Dispose(ctx context.Context) error {
	return h.usecase.Dispose(ctx)
}
