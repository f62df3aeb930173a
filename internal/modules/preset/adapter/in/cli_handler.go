package in

import (
	"context"

	presetdto "thresholdtimer/internal/modules/preset/dto"
	presetin "thresholdtimer/internal/modules/preset/port/in"
)

type CLIHandler struct {
	usecase presetin.Usecase
}

func NewCLIHandler(usecase presetin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]presetdto.PresetOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Add(ctx context.Context, label string, seconds int) (presetdto.PresetOutput, error) {
	return h.usecase.Add(ctx, presetdto.AddInput{Label: label, Seconds: seconds})
}

func (h CLIHandler) Remove(ctx context.Context, id string) error {
	return h.usecase.Remove(ctx, id)
}
