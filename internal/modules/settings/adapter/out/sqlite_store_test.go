package out

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "thresholdtimer/internal/platform/errors"
	"thresholdtimer/internal/platform/sqlitedb"
)

func TestSQLiteStoreUpsertsAndReportsMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")
	db, err := sqlitedb.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store, err := NewSQLiteStore(ctx, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Get(ctx, "threshold.bound"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Set(ctx, "threshold.bound", "90"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "threshold.bound", "85"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	_ = db.Close()

	db, err = sqlitedb.Open(path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close()
	store, err = NewSQLiteStore(ctx, db)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	got, err := store.Get(ctx, "threshold.bound")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "85" {
		t.Fatalf("expected persisted 85, got %q", got)
	}
}
