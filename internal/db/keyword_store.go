package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// KeywordStore reads and writes the comma-separated keyword strings in
// mapskw. It satisfies papers.KeywordSource.
type KeywordStore struct {
	db *sql.DB
}

// NewKeywordStore creates a new KeywordStore.
func NewKeywordStore(db *sql.DB) *KeywordStore {
	return &KeywordStore{db: db}
}

const upsertKeywords = `
	INSERT INTO mapskw (id, keywords) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET keywords = excluded.keywords
`

// Put stores the keyword string for one paper, replacing any existing one.
func (s *KeywordStore) Put(ctx context.Context, id int64, keywords string) error {
	if _, err := s.db.ExecContext(ctx, upsertKeywords, id, keywords); err != nil {
		return fmt.Errorf("put keywords %d: %w", id, err)
	}
	return nil
}

// PutMany stores all keyword strings in a single transaction, in id order.
func (s *KeywordStore) PutMany(ctx context.Context, keywords map[int64]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin keywords tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertKeywords)
	if err != nil {
		return fmt.Errorf("prepare keywords insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range slices.Sorted(maps.Keys(keywords)) {
		if _, err := stmt.ExecContext(ctx, id, keywords[id]); err != nil {
			return fmt.Errorf("put keywords %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit keywords: %w", err)
	}
	return nil
}

// Keywords returns the raw keyword string for id. A paper with no row
// reports ok == false and no error.
func (s *KeywordStore) Keywords(ctx context.Context, id int64) (string, bool, error) {
	var kws string
	err := s.db.QueryRowContext(ctx, "SELECT keywords FROM mapskw WHERE id = ?", id).Scan(&kws)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup keywords %d: %w", id, err)
	}
	return kws, true, nil
}

// Count returns the number of papers with a keyword row.
func (s *KeywordStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mapskw").Scan(&n); err != nil {
		return 0, fmt.Errorf("count keywords: %w", err)
	}
	return n, nil
}
