package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/mapzones/internal/monitoring"
	"github.com/banshee-data/mapzones/internal/papers"
	"github.com/banshee-data/mapzones/internal/timeutil"
	"github.com/banshee-data/mapzones/internal/zones"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "map.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPragmasApplied(t *testing.T) {
	db := newTestDB(t)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)

	var synchronous int
	require.NoError(t, db.QueryRow("PRAGMA synchronous").Scan(&synchronous))
	assert.Equal(t, 1, synchronous) // NORMAL

	var tempStore int
	require.NoError(t, db.QueryRow("PRAGMA temp_store").Scan(&tempStore))
	assert.Equal(t, 2, tempStore) // MEMORY

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestNewDB_CreatesTables(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"map_data", "mapskw", "label_runs", "label_regions", "schema_migrations"} {
		var n int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

func TestNewDB_ReopenExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.db")

	first, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, NewKeywordStore(first.DB).Put(context.Background(), 1, "A,B"))
	require.NoError(t, first.Close())

	second, err := NewDB(path)
	require.NoError(t, err)
	defer second.Close()

	kws, ok, err := NewKeywordStore(second.DB).Keywords(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A,B", kws)
}

func TestOpenDB_NoSchema(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "bare.db"))
	require.NoError(t, err)
	defer db.Close()

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, db.MigrateUp())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestMigrateDown(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.MigrateDown())
	version, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'label_runs'").Scan(&n))
	assert.Equal(t, 0, n)

	require.NoError(t, db.MigrateUp())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestKeywordStore(t *testing.T) {
	ctx := context.Background()
	store := NewKeywordStore(newTestDB(t).DB)

	require.NoError(t, store.Put(ctx, 7, "Higgs boson, QCD"))
	require.NoError(t, store.PutMany(ctx, map[int64]string{
		1: "A,B",
		2: "",
		7: "replaced",
	}))

	kws, ok, err := store.Keywords(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "replaced", kws)

	kws, ok, err = store.Keywords(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, kws)

	kws, ok, err = store.Keywords(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, kws)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestKeywordStore_CancelledContext(t *testing.T) {
	store := NewKeywordStore(newTestDB(t).DB)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.PutMany(ctx, map[int64]string{1: "A"})
	assert.Error(t, err)
}

func TestKeywordStore_FeedsLoad(t *testing.T) {
	ctx := context.Background()
	store := NewKeywordStore(newTestDB(t).DB)
	require.NoError(t, store.PutMany(ctx, map[int64]string{
		1: "Higgs boson, QCD",
		2: "QCD,QCD",
	}))

	entries := []papers.LayoutEntry{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 1, Y: 1}, {ID: 3, X: 2, Y: 2}}
	table, err := papers.Load(ctx, entries, store, papers.LoadOptions{
		Normalizer: papers.Normalizer{CanonicalPrefixes: []string{"Higgs"}},
	})
	require.NoError(t, err)

	docs := table.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"Higgs", "QCD"}, docs[0].Keywords)
	assert.Equal(t, []string{"QCD"}, docs[1].Keywords)
	assert.Empty(t, docs[2].Keywords)
}

func TestLayoutStore(t *testing.T) {
	ctx := context.Background()
	store := NewLayoutStore(newTestDB(t).DB)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, store.PutMany(ctx, []papers.LayoutEntry{
		{ID: 3, X: 30, Y: -3, R: 1.5},
		{ID: 1, X: 10, Y: -1},
	}))
	require.NoError(t, store.PutMany(ctx, []papers.LayoutEntry{
		{ID: 3, X: 33, Y: -33, R: 2},
	}))

	all, err = store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []papers.LayoutEntry{
		{ID: 1, X: 10, Y: -1},
		{ID: 3, X: 33, Y: -33, R: 2},
	}, all)
}

func TestRunStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore(newTestDB(t).DB)

	run := &Run{
		ParamsJSON: []byte(`{"hex_radius":700}`),
		Papers:     9,
		Cells:      95,
	}
	records := []zones.Record{
		{X: 2800, Y: 2424, Keywords: []string{"A", "B"}},
		{X: 700, Y: 606, Keywords: []string{"C"}},
	}
	require.NoError(t, store.SaveRun(ctx, run, records))

	assert.NotEmpty(t, run.RunID)
	assert.False(t, run.CreatedAt.IsZero())
	assert.Equal(t, 2, run.Regions)

	got, err := store.Regions(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	stored, err := store.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, stored.RunID)
	assert.True(t, stored.CreatedAt.Equal(run.CreatedAt))
	assert.JSONEq(t, `{"hex_radius":700}`, string(stored.ParamsJSON))
	assert.Equal(t, 9, stored.Papers)
	assert.Equal(t, 95, stored.Cells)
	assert.Equal(t, 2, stored.Regions)
}

func TestRunStore_EmptyRun(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore(newTestDB(t).DB)

	run := &Run{RunID: "empty"}
	require.NoError(t, store.SaveRun(ctx, run, nil))

	got, err := store.Regions(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	stored, err := store.GetRun(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(stored.ParamsJSON))
}

func TestRunStore_LatestRunID(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore(newTestDB(t).DB)

	_, err := store.LatestRunID(ctx)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, &Run{RunID: "old", CreatedAt: base}, nil))
	require.NoError(t, store.SaveRun(ctx, &Run{RunID: "new", CreatedAt: base.Add(time.Minute)}, nil))
	require.NoError(t, store.SaveRun(ctx, &Run{RunID: "middle", CreatedAt: base.Add(time.Second)}, nil))

	id, err := store.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", id)
}

func TestRunStore_ClockStampsRuns(t *testing.T) {
	ctx := context.Background()
	clock := timeutil.NewMockClock(time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC))
	store := NewRunStoreWithClock(newTestDB(t).DB, clock)

	first := &Run{}
	require.NoError(t, store.SaveRun(ctx, first, nil))
	clock.Advance(time.Hour)
	second := &Run{}
	require.NoError(t, store.SaveRun(ctx, second, nil))

	assert.Equal(t, time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, time.Hour, second.CreatedAt.Sub(first.CreatedAt))
	assert.NotEqual(t, first.RunID, second.RunID)

	id, err := store.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, id)

	stored, err := store.GetRun(ctx, first.RunID)
	require.NoError(t, err)
	assert.True(t, stored.CreatedAt.Equal(first.CreatedAt))
}

func TestRunStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore(newTestDB(t).DB)

	require.NoError(t, store.SaveRun(ctx, &Run{RunID: "dup"}, []zones.Record{{Keywords: []string{"A"}}}))
	err := store.SaveRun(ctx, &Run{RunID: "dup"}, []zones.Record{{Keywords: []string{"B"}}, {Keywords: []string{"C"}}})
	require.Error(t, err)

	got, err := store.Regions(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, []zones.Record{{Keywords: []string{"A"}}}, got)
}

func TestRunStore_DeleteRun(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewRunStore(db.DB)

	require.NoError(t, store.SaveRun(ctx, &Run{RunID: "gone"}, []zones.Record{{Keywords: []string{"A"}}}))
	require.NoError(t, store.DeleteRun(ctx, "gone"))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM label_regions WHERE run_id = 'gone'").Scan(&n))
	assert.Equal(t, 0, n)

	_, err := store.GetRun(ctx, "gone")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, store.DeleteRun(ctx, "gone"), sql.ErrNoRows)
}
