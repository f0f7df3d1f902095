package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{
		ProjectKey:       "fixture",
		RunID:            "run-1",
		Timestamp:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ReferenceVariant: "debug",
		ModuleCount:      4,
		AndroidCount:     2,
		GenericCount:     1,
		FailedCount:      1,
		DependencyCount:  17,
		Duration:         1500 * time.Millisecond,
	}
	require.NoError(t, store.SaveSnapshot(snap))

	loaded, err := store.LoadSnapshots("fixture", time.Time{})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "run-1", loaded[0].RunID)
	assert.Equal(t, "debug", loaded[0].ReferenceVariant)
	assert.Equal(t, 4, loaded[0].ModuleCount)
	assert.Equal(t, 1500*time.Millisecond, loaded[0].Duration)
	assert.Equal(t, SchemaVersion, loaded[0].SchemaVersion)
}

func TestSaveSnapshotUpsert(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{ProjectKey: "p", RunID: "r", ModuleCount: 1}
	require.NoError(t, store.SaveSnapshot(snap))
	snap.ModuleCount = 2
	require.NoError(t, store.SaveSnapshot(snap))

	loaded, err := store.LoadSnapshots("p", time.Time{})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 2, loaded[0].ModuleCount)
}

func TestLoadSnapshotsSince(t *testing.T) {
	store := openTestStore(t)

	old := Snapshot{ProjectKey: "p", RunID: "old", Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := Snapshot{ProjectKey: "p", RunID: "recent", Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.SaveSnapshot(old))
	require.NoError(t, store.SaveSnapshot(recent))

	loaded, err := store.LoadSnapshots("p", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "recent", loaded[0].RunID)
}

func TestSaveSnapshotRequiresRunID(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.SaveSnapshot(Snapshot{ProjectKey: "p"}))
}

func TestOpenRejectsDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}
