package in

import (
	"context"

	"thresholdtimer/internal/modules/threshold/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StatusOutput, error)
	Stop(ctx context.Context) (dto.StatusOutput, error)
	Status(ctx context.Context) dto.StatusOutput
	Subscribe() (<-chan dto.StatusOutput, func())
	// Record injects a reading as if the sensor feed had delivered it.
	Record(value float64)
	Dispose(ctx context.Context) error
}
