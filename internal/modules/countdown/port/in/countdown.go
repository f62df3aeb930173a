package in

import (
	"context"

	"thresholdtimer/internal/modules/countdown/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StatusOutput, error)
	StartPreset(ctx context.Context, presetID string) (dto.StatusOutput, error)
	SelectPreset(ctx context.Context, presetID string) (dto.StatusOutput, error)
	Stop(ctx context.Context) (dto.StatusOutput, error)
	Refresh(ctx context.Context) dto.StatusOutput
	Status(ctx context.Context) dto.StatusOutput
	Subscribe() (<-chan dto.StatusOutput, func())
	Dispose(ctx context.Context) error
}
