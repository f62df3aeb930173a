package in

import (
	"context"

	"thresholdtimer/internal/modules/settings/dto"
)

type Usecase interface {
	Threshold(ctx context.Context) (dto.ThresholdOutput, error)
	SaveThreshold(ctx context.Context, input dto.SaveThresholdInput) (dto.ThresholdOutput, error)
}
