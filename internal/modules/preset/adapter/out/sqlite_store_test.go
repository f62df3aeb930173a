package out_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	presetout "thresholdtimer/internal/modules/preset/adapter/out"
	"thresholdtimer/internal/modules/preset/service"
	apperrors "thresholdtimer/internal/platform/errors"
	"thresholdtimer/internal/platform/sqlitedb"
	"thresholdtimer/internal/platform/tx"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("p%d", s.n)
}

func TestSQLiteStoreThroughService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "presets.db")
	db, err := sqlitedb.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store, err := presetout.NewSQLiteStore(ctx, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ids := &seqID{}
	svc := service.NewPresetService(store, tx.NewSQLManager(db), ids)

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 seeded presets, got %d", len(list))
	}
	added, err := svc.Add(ctx, "Tea", 180)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(ctx, list[1].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(ctx, list[1].ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
	_ = db.Close()

	db, err = sqlitedb.Open(path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close()
	store, err = presetout.NewSQLiteStore(ctx, db)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	svc = service.NewPresetService(store, tx.NewSQLManager(db), ids)
	list, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("list after reopen: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 presets after reopen, got %+v", list)
	}
	if list[0].Duration != 30*time.Second || list[1].Duration != 2*time.Minute || list[2].ID != added.ID {
		t.Fatalf("unexpected order %+v", list)
	}
	got, err := svc.Get(ctx, added.ID)
	if err != nil || got.Label != "Tea" || got.Duration != 3*time.Minute {
		t.Fatalf("get: %+v %v", got, err)
	}
	if _, err := svc.Get(ctx, "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
