package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"thresholdtimer/internal/modules/settings/domain"
	settingsout "thresholdtimer/internal/modules/settings/port/out"
	apperrors "thresholdtimer/internal/platform/errors"
)

type SettingsService struct {
	store settingsout.Store
}

func NewSettingsService(store settingsout.Store) *SettingsService {
	return &SettingsService{store: store}
}

// Threshold returns the stored settings, substituting defaults for missing
// keys. The alert period is read back clamped.
func (s *SettingsService) Threshold(ctx context.Context) (domain.Threshold, error) {
	out := domain.DefaultThreshold()
	raw, err := s.lookup(ctx, domain.KeyBound)
	if err != nil {
		return domain.Threshold{}, err
	}
	if raw != "" {
		bound, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Threshold{}, fmt.Errorf("decode %s: %w", domain.KeyBound, err)
		}
		out.Bound = bound
	}
	raw, err = s.lookup(ctx, domain.KeyAlertPeriodSeconds)
	if err != nil {
		return domain.Threshold{}, err
	}
	if raw != "" {
		period, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Threshold{}, fmt.Errorf("decode %s: %w", domain.KeyAlertPeriodSeconds, err)
		}
		out.AlertPeriodSeconds = period
	}
	return out.Normalize(), nil
}

func (s *SettingsService) SaveThreshold(ctx context.Context, t domain.Threshold) (domain.Threshold, error) {
	if err := t.Validate(); err != nil {
		return domain.Threshold{}, err
	}
	t = t.Normalize()
	if err := s.store.Set(ctx, domain.KeyBound, strconv.FormatFloat(t.Bound, 'f', -1, 64)); err != nil {
		return domain.Threshold{}, err
	}
	if err := s.store.Set(ctx, domain.KeyAlertPeriodSeconds, strconv.Itoa(t.AlertPeriodSeconds)); err != nil {
		return domain.Threshold{}, err
	}
	return t, nil
}

func (s *SettingsService) lookup(ctx context.Context, key string) (string, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil
	}
	return raw, err
}
