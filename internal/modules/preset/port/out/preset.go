package out

import (
	"context"

	"thresholdtimer/internal/modules/preset/domain"
)

// Store persists presets in display order. Get and Delete return
// apperrors.ErrNotFound for an unknown id.
type Store interface {
	List(ctx context.Context) ([]domain.Preset, error)
	Get(ctx context.Context, id string) (domain.Preset, error)
	Append(ctx context.Context, preset domain.Preset) error
	Delete(ctx context.Context, id string) error
	// Seeded reports whether defaults were ever written, so removing every
	// preset does not bring them back.
	Seeded(ctx context.Context) (bool, error)
	MarkSeeded(ctx context.Context) error
}
