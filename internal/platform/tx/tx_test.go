package tx

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"thresholdtimer/internal/platform/sqlitedb"
)

func TestSQLManagerCommitsAndRollsBack(t *testing.T) {
	t.Parallel()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "tx.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE items (name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	mgr := NewSQLManager(db)

	if err := mgr.Within(ctx, func(ctx context.Context) error {
		_, err := From(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ('kept')`)
		return err
	}); err != nil {
		t.Fatalf("commit path: %v", err)
	}

	boom := errors.New("boom")
	err = mgr.Within(ctx, func(ctx context.Context) error {
		if _, err := From(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ('dropped')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 committed row, got %d", n)
	}
}

func TestNoopManagerRunsInline(t *testing.T) {
	t.Parallel()
	called := false
	if err := (NoopManager{}).Within(context.Background(), func(context.Context) error {
		called = true
		return nil
	}); err != nil || !called {
		t.Fatalf("noop manager must run fn, err=%v called=%v", err, called)
	}
}
