package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/mapzones/internal/timeutil"
	"github.com/banshee-data/mapzones/internal/zones"
)

// Run describes one stored labelling run.
type Run struct {
	RunID      string          `json:"run_id"`
	CreatedAt  time.Time       `json:"created_at"`
	ParamsJSON json.RawMessage `json:"params_json"`
	Papers     int             `json:"papers"`
	Cells      int             `json:"cells"`
	Regions    int             `json:"region_count"`
}

// RunStore persists labelling runs and their region records.
type RunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewRunStore creates a new RunStore stamping runs with the wall clock.
func NewRunStore(db *sql.DB) *RunStore {
	return NewRunStoreWithClock(db, timeutil.RealClock{})
}

// NewRunStoreWithClock creates a RunStore that takes CreatedAt from clock.
func NewRunStoreWithClock(db *sql.DB, clock timeutil.Clock) *RunStore {
	return &RunStore{db: db, clock: clock}
}

// SaveRun stores run and its records in one transaction. If run.RunID is
// empty a new UUID is generated; a zero CreatedAt is taken from the clock.
func (s *RunStore) SaveRun(ctx context.Context, run *Run, records []zones.Record) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.clock.Now()
	}
	if len(run.ParamsJSON) == 0 {
		run.ParamsJSON = json.RawMessage("{}")
	}
	run.Regions = len(records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO label_runs (run_id, created_at, params_json, papers, cells, region_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.RunID,
		run.CreatedAt.UnixNano(),
		string(run.ParamsJSON),
		run.Papers,
		run.Cells,
		run.Regions,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO label_regions (run_id, seq, x, y, keywords) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare region insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		kws, err := json.Marshal(rec.Keywords)
		if err != nil {
			return fmt.Errorf("encode region %d keywords: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, run.RunID, i, rec.X, rec.Y, string(kws)); err != nil {
			return fmt.Errorf("insert region %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given ID, or sql.ErrNoRows.
func (s *RunStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	r := &Run{}
	var createdAt int64
	var params string
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, created_at, params_json, papers, cells, region_count
		FROM label_runs
		WHERE run_id = ?
	`, runID).Scan(&r.RunID, &createdAt, &params, &r.Papers, &r.Cells, &r.Regions)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	r.CreatedAt = time.Unix(0, createdAt)
	r.ParamsJSON = json.RawMessage(params)
	return r, nil
}

// Regions returns the records of a run in the order they were saved.
func (s *RunStore) Regions(ctx context.Context, runID string) ([]zones.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT x, y, keywords
		FROM label_regions
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	records := []zones.Record{}
	for rows.Next() {
		var rec zones.Record
		var kws string
		if err := rows.Scan(&rec.X, &rec.Y, &kws); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		if err := json.Unmarshal([]byte(kws), &rec.Keywords); err != nil {
			return nil, fmt.Errorf("decode region keywords: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LatestRunID returns the most recently created run, or sql.ErrNoRows if
// nothing has been stored.
func (s *RunStore) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id FROM label_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("latest run: %w", err)
	}
	return id, nil
}

// DeleteRun removes a run and its regions.
func (s *RunStore) DeleteRun(ctx context.Context, runID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM label_runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
