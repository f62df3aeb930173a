package in

import (
	"context"

	"thresholdtimer/internal/modules/preset/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PresetOutput, error)
	Get(ctx context.Context, id string) (dto.PresetOutput, error)
	Add(ctx context.Context, input dto.AddInput) (dto.PresetOutput, error)
	Remove(ctx context.Context, id string) error
}
