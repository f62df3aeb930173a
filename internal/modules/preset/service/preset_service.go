package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"thresholdtimer/internal/modules/preset/domain"
	presetout "thresholdtimer/internal/modules/preset/port/out"
	apperrors "thresholdtimer/internal/platform/errors"
	"thresholdtimer/internal/platform/id"
	"thresholdtimer/internal/platform/tx"
)

type PresetService struct {
	store presetout.Store
	tx    tx.Manager
	idGen id.Generator
}

func NewPresetService(store presetout.Store, txManager tx.Manager, idGen id.Generator) *PresetService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	return &PresetService{store: store, tx: txManager, idGen: idGen}
}

// List returns presets in display order, seeding the defaults the first time
// the store is read.
func (s *PresetService) List(ctx context.Context) ([]domain.Preset, error) {
	var presets []domain.Preset
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		seeded, err := s.store.Seeded(ctx)
		if err != nil {
			return err
		}
		if !seeded {
			for _, p := range domain.Defaults() {
				p.ID = s.idGen.New()
				if err := s.store.Append(ctx, p); err != nil {
					return err
				}
			}
			if err := s.store.MarkSeeded(ctx); err != nil {
				return err
			}
		}
		presets, err = s.store.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return presets, nil
}

func (s *PresetService) Get(ctx context.Context, presetID string) (domain.Preset, error) {
	if strings.TrimSpace(presetID) == "" {
		return domain.Preset{}, fmt.Errorf("%w: preset id is required", apperrors.ErrInvalidInput)
	}
	return s.store.Get(ctx, presetID)
}

func (s *PresetService) Add(ctx context.Context, label string, seconds int) (domain.Preset, error) {
	duration := time.Duration(seconds) * time.Second
	label = strings.TrimSpace(label)
	if label == "" && seconds > 0 {
		label = domain.LabelFor(duration)
	}
	p := domain.Preset{ID: s.idGen.New(), Label: label, Duration: duration}
	if err := p.Validate(); err != nil {
		return domain.Preset{}, err
	}
	// Seed first so a user preset never lands ahead of the defaults.
	if _, err := s.List(ctx); err != nil {
		return domain.Preset{}, err
	}
	if err := s.store.Append(ctx, p); err != nil {
		return domain.Preset{}, err
	}
	return p, nil
}

func (s *PresetService) Remove(ctx context.Context, presetID string) error {
	if strings.TrimSpace(presetID) == "" {
		return fmt.Errorf("%w: preset id is required", apperrors.ErrInvalidInput)
	}
	return s.store.Delete(ctx, presetID)
}
