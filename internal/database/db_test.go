package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netmonitor/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema())
	return store
}

func TestSaveAndRecent(t *testing.T) {
	store := newTestStore(t)
	base := time.Now().Truncate(time.Millisecond)

	require.NoError(t, store.SaveResult(models.Measurement{
		Timestamp: base,
		RTT:       12500 * time.Microsecond,
		OK:        true,
	}, "1.1.1.1"))
	require.NoError(t, store.SaveResult(models.Measurement{
		Timestamp: base.Add(time.Second),
	}, "1.1.1.1"))

	records, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// newest first
	failed := records[0]
	assert.False(t, failed.Success)
	assert.Nil(t, failed.LatencyMS, "failed probes persist a NULL latency")
	assert.Equal(t, base.Add(time.Second).UnixMilli(), failed.Timestamp.UnixMilli())

	okRec := records[1]
	assert.True(t, okRec.Success)
	require.NotNil(t, okRec.LatencyMS)
	assert.InDelta(t, 12.5, *okRec.LatencyMS, 1e-9)
	assert.Equal(t, "1.1.1.1", okRec.Target)
}

func TestStatsAggregates(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	for _, rtt := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond} {
		require.NoError(t, store.SaveResult(models.Measurement{Timestamp: now, RTT: rtt, OK: true}, "host"))
	}
	require.NoError(t, store.SaveResult(models.Measurement{Timestamp: now}, "host"))
	require.NoError(t, store.SaveResult(models.Measurement{Timestamp: now, RTT: time.Millisecond, OK: true}, "other"))

	stats, err := store.Stats("host")
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Successful)
	assert.InDelta(t, 20, stats.AvgLatencyMS, 1e-9)
	assert.InDelta(t, 10, stats.MinLatencyMS, 1e-9)
	assert.InDelta(t, 30, stats.MaxLatencyMS, 1e-9)
}

func TestStatsEmptyTarget(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats("unknown")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Successful)
	assert.Zero(t, stats.AvgLatencyMS)
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	require.NoError(t, store.SaveResult(models.Measurement{Timestamp: now.Add(-48 * time.Hour), RTT: time.Millisecond, OK: true}, "host"))
	require.NoError(t, store.SaveResult(models.Measurement{Timestamp: now, RTT: time.Millisecond, OK: true}, "host"))

	pruned, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	records, err := store.Recent(10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPruneDisabled(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveResult(models.Measurement{Timestamp: time.Now().Add(-time.Hour)}, "host"))

	pruned, err := store.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestRepositorySavesAsynchronously(t *testing.T) {
	store := newTestStore(t)
	repo := NewRepository(store)

	repo.Save(models.Measurement{Timestamp: time.Now(), RTT: time.Millisecond, OK: true}, "host")
	require.True(t, repo.Flush(5*time.Second))

	records, err := store.Recent(10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRepositorySwallowsStorageErrors(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.InitSchema())
	require.NoError(t, store.Close())

	repo := NewRepository(store)

	// writes against a closed store fail internally, the caller never
	// notices
	for i := 0; i < 5; i++ {
		repo.Save(models.Measurement{Timestamp: time.Now()}, "host")
	}
	assert.True(t, repo.Flush(5*time.Second))
}

func TestRepositoryWithoutStoreIsNoop(t *testing.T) {
	repo := NewRepository(nil)
	repo.Save(models.Measurement{Timestamp: time.Now()}, "host")
	assert.True(t, repo.Flush(time.Second))

	var nilRepo *Repository
	nilRepo.Save(models.Measurement{Timestamp: time.Now()}, "host")
}
