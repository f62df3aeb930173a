package service

import (
	"context"
	"errors"
	"testing"

	"thresholdtimer/internal/modules/settings/domain"
	apperrors "thresholdtimer/internal/platform/errors"
)

type memoryStore struct {
	values map[string]string
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func TestThresholdDefaultsOnEmptyStore(t *testing.T) {
	t.Parallel()
	svc := NewSettingsService(&memoryStore{})
	got, err := svc.Threshold(context.Background())
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	if got != domain.DefaultThreshold() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestSaveThresholdRoundTripsAndClamps(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	svc := NewSettingsService(store)
	saved, err := svc.SaveThreshold(context.Background(), domain.Threshold{Bound: 85.5, AlertPeriodSeconds: 30})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.AlertPeriodSeconds != domain.MaxAlertPeriodSeconds {
		t.Fatalf("expected clamped period, got %d", saved.AlertPeriodSeconds)
	}
	got, err := svc.Threshold(context.Background())
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	if got.Bound != 85.5 || got.AlertPeriodSeconds != domain.MaxAlertPeriodSeconds {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestSaveThresholdRejectsOutOfRangeBound(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	svc := NewSettingsService(store)
	if _, err := svc.SaveThreshold(context.Background(), domain.Threshold{Bound: 20, AlertPeriodSeconds: 1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(store.values) != 0 {
		t.Fatalf("rejected settings must not be stored")
	}
}

func TestThresholdReadBackClampsStoredPeriod(t *testing.T) {
	t.Parallel()
	store := &memoryStore{values: map[string]string{domain.KeyAlertPeriodSeconds: "0"}}
	got, err := NewSettingsService(store).Threshold(context.Background())
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	if got.AlertPeriodSeconds != domain.MinAlertPeriodSeconds {
		t.Fatalf("expected clamped period, got %d", got.AlertPeriodSeconds)
	}
}

func TestThresholdRejectsCorruptValue(t *testing.T) {
	t.Parallel()
	store := &memoryStore{values: map[string]string{domain.KeyBound: "fast"}}
	if _, err := NewSettingsService(store).Threshold(context.Background()); err == nil {
		t.Fatalf("corrupt bound must fail")
	}
}
