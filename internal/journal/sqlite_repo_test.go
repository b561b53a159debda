package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hambruna/server/internal/storage"
)

func TestSQLiteRepositoryAppendAndRecent(t *testing.T) {
	db, err := storage.InitSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0).UTC()
	require.NoError(t, repo.Append(ctx, Entry{RecordedAt: base, Kind: KindSeverityChanged, Severity: "Hungry", Fraction: 0.45}))
	require.NoError(t, repo.Append(ctx, Entry{RecordedAt: base.Add(time.Minute), Kind: KindSeverityChanged, Severity: "Starving", Fraction: 0.15}))
	require.NoError(t, repo.Append(ctx, Entry{RecordedAt: base.Add(2 * time.Minute), Kind: KindStarvationTick, Severity: "Starving", Fraction: 0.1}))

	entries, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, KindStarvationTick, entries[0].Kind)
	assert.Equal(t, "Starving", entries[1].Severity)
	assert.Equal(t, 0.15, entries[1].Fraction)
}

func TestSQLiteRepositoryDefaultLimit(t *testing.T) {
	db, err := storage.InitSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLiteRepository(db)
	entries, err := repo.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
