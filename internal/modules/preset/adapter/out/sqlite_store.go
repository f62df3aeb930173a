package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"thresholdtimer/internal/modules/preset/domain"
	presetout "thresholdtimer/internal/modules/preset/port/out"
	apperrors "thresholdtimer/internal/platform/errors"
	"thresholdtimer/internal/platform/tx"
)

// SQLiteStore keeps presets in one table ordered by position. Every query
// runs on the transaction bound to ctx when there is one.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, db *sql.DB) (presetout.Store, error) {
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS presets (
  id TEXT PRIMARY KEY,
  label TEXT NOT NULL,
  duration_seconds INTEGER NOT NULL,
  position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS preset_meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create presets tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Preset, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `SELECT id, label, duration_seconds FROM presets ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()
	var out []domain.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Preset, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `SELECT id, label, duration_seconds FROM presets WHERE id = ?`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Preset{}, fmt.Errorf("preset %s: %w", id, apperrors.ErrNotFound)
	}
	return p, err
}

func (s *SQLiteStore) Append(ctx context.Context, p domain.Preset) error {
	const stmt = `
INSERT INTO presets (id, label, duration_seconds, position)
VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM presets));
`
	if _, err := tx.From(ctx, s.db).ExecContext(ctx, stmt, p.ID, p.Label, int64(p.Duration/time.Second)); err != nil {
		return fmt.Errorf("insert preset: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("preset %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Seeded(ctx context.Context) (bool, error) {
	var value string
	err := tx.From(ctx, s.db).QueryRowContext(ctx, `SELECT value FROM preset_meta WHERE key = 'seeded'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read preset seed flag: %w", err)
	}
	return value == "1", nil
}

func (s *SQLiteStore) MarkSeeded(ctx context.Context) error {
	const stmt = `
INSERT INTO preset_meta (key, value) VALUES ('seeded', '1')
ON CONFLICT(key) DO UPDATE SET value=excluded.value;
`
	if _, err := tx.From(ctx, s.db).ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("write preset seed flag: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (domain.Preset, error) {
	var (
		p       domain.Preset
		seconds int64
	)
	if err := row.Scan(&p.ID, &p.Label, &seconds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Preset{}, err
		}
		return domain.Preset{}, fmt.Errorf("scan preset: %w", err)
	}
	p.Duration = time.Duration(seconds) * time.Second
	return p, nil
}
