package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/banshee-data/mapzones/internal/papers"
)

// LayoutStore persists paper positions in map_data.
type LayoutStore struct {
	db *sql.DB
}

// NewLayoutStore creates a new LayoutStore.
func NewLayoutStore(db *sql.DB) *LayoutStore {
	return &LayoutStore{db: db}
}

// PutMany upserts every entry in a single transaction.
func (s *LayoutStore) PutMany(ctx context.Context, entries []papers.LayoutEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin layout tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO map_data (id, x, y, r) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET x = excluded.x, y = excluded.y, r = excluded.r
	`)
	if err != nil {
		return fmt.Errorf("prepare layout insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.ID, e.X, e.Y, e.R); err != nil {
			return fmt.Errorf("put layout %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit layout: %w", err)
	}
	return nil
}

// All returns every stored entry ordered by id.
func (s *LayoutStore) All(ctx context.Context) ([]papers.LayoutEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, x, y, r FROM map_data ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list layout: %w", err)
	}
	defer rows.Close()

	var entries []papers.LayoutEntry
	for rows.Next() {
		var e papers.LayoutEntry
		if err := rows.Scan(&e.ID, &e.X, &e.Y, &e.R); err != nil {
			return nil, fmt.Errorf("scan layout: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
