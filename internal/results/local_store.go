package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// LocalStore is the edge-side sqlite table results are written to before sync.
type LocalStore struct {
	db *sql.DB
}

func NewLocalStore(dbPath string) (*LocalStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer; one connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	s := &LocalStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS processed_results (
  id TEXT PRIMARY KEY,
  session_id TEXT,
  timestamp TEXT,
  muscle_fatigue REAL,
  muscle_activation REAL,
  force REAL,
  velocity REAL,
  power_output REAL,
  firing_rate REAL,
  intensity REAL,
  work_ratio REAL,
  is_synced INTEGER DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_processed_results_synced ON processed_results(is_synced);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create processed_results table: %w", err)
	}
	return nil
}

// Insert stores the result as unsynced. An empty ID gets a fresh uuid.
func (s *LocalStore) Insert(ctx context.Context, r Result) (Result, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.IsSynced = false

	const stmt = `
INSERT INTO processed_results
  (id, session_id, timestamp, muscle_fatigue, muscle_activation, force, velocity,
   power_output, firing_rate, intensity, work_ratio, is_synced)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0);
`
	if _, err := s.db.ExecContext(ctx, stmt,
		r.ID,
		r.SessionID,
		r.Timestamp.UTC().Format(TimestampLayout),
		r.MuscleFatigue,
		r.MuscleActivation,
		r.Force,
		r.Velocity,
		r.PowerOutput,
		r.FiringRate,
		r.Intensity,
		r.WorkRatio,
	); err != nil {
		return Result{}, fmt.Errorf("insert result: %w", err)
	}
	return r, nil
}

const selectColumns = `id, session_id, timestamp, muscle_fatigue, muscle_activation, force,
  velocity, power_output, firing_rate, intensity, work_ratio, is_synced`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocalResult(row rowScanner) (Result, error) {
	var (
		r         Result
		timestamp string
	)
	if err := row.Scan(
		&r.ID,
		&r.SessionID,
		&timestamp,
		&r.MuscleFatigue,
		&r.MuscleActivation,
		&r.Force,
		&r.Velocity,
		&r.PowerOutput,
		&r.FiringRate,
		&r.Intensity,
		&r.WorkRatio,
		&r.IsSynced,
	); err != nil {
		return Result{}, err
	}

	ts, err := time.Parse(TimestampLayout, timestamp)
	if err != nil {
		return Result{}, fmt.Errorf("parse timestamp %q: %w", timestamp, err)
	}
	r.Timestamp = ts
	return r, nil
}

// Latest returns the most recently inserted result.
func (s *LocalStore) Latest(ctx context.Context) (*Result, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+selectColumns+`
FROM processed_results
ORDER BY rowid DESC
LIMIT 1;
`)
	r, err := scanLocalResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest result: %w", err)
	}
	return &r, nil
}

// Unsynced returns up to limit results not yet pushed to the central repo, oldest first.
func (s *LocalStore) Unsynced(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+selectColumns+`
FROM processed_results
WHERE is_synced = 0
ORDER BY rowid ASC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		r, err := scanLocalResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unsynced result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unsynced: %w", err)
	}
	return out, nil
}

func (s *LocalStore) MarkSynced(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE processed_results SET is_synced = 1 WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("mark synced %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark synced %s, rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("mark synced %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}
