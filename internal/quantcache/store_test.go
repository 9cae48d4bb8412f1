package quantcache

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/palsetup/internal/quantization"
	"github.com/aristath/palsetup/pkg/timeframe"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGetOnEmptyStoreIsMiss(t *testing.T) {
	store := openTestStore(t)
	key := Key{FilePath: "spy.txt", MtimeUnix: 1, SizeBytes: 100, TimeFrame: timeframe.DAILY}

	_, ok, err := store.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutThenGetRoundTrips(t *testing.T) {
	store := openTestStore(t)
	key := Key{FilePath: "spy.txt", MtimeUnix: 1700000000, SizeBytes: 4096, TimeFrame: timeframe.DAILY}
	result := quantization.CleanStartResult{
		Found:          true,
		Index:          50,
		EffectiveTick:  0.01,
		RelTick:        0.002,
		ZeroReturnFrac: 0.01,
	}

	require.NoError(t, store.Put(key, result))

	got, ok, err := store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.Found, got.Found)
	assert.Equal(t, result.Index, got.Index)
	assert.InDelta(t, result.EffectiveTick, got.EffectiveTick, 1e-9)
	assert.InDelta(t, result.RelTick, got.RelTick, 1e-9)
	assert.InDelta(t, result.ZeroReturnFrac, got.ZeroReturnFrac, 1e-9)
}

func TestPutReplacesExistingEntry(t *testing.T) {
	store := openTestStore(t)
	key := Key{FilePath: "spy.txt", MtimeUnix: 1, SizeBytes: 100, TimeFrame: timeframe.DAILY}

	require.NoError(t, store.Put(key, quantization.CleanStartResult{Found: true, Index: 10, EffectiveTick: 0.1}))
	require.NoError(t, store.Put(key, quantization.CleanStartResult{Found: true, Index: 99, EffectiveTick: 0.01}))

	got, ok, err := store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 99, got.Index)
}

func TestKeysWithDifferentTimeFrameAreDistinct(t *testing.T) {
	store := openTestStore(t)
	daily := Key{FilePath: "spy.txt", MtimeUnix: 1, SizeBytes: 100, TimeFrame: timeframe.DAILY}
	weekly := Key{FilePath: "spy.txt", MtimeUnix: 1, SizeBytes: 100, TimeFrame: timeframe.WEEKLY}

	require.NoError(t, store.Put(daily, quantization.CleanStartResult{Found: true, Index: 1}))

	_, ok, err := store.Get(weekly)
	require.NoError(t, err)
	assert.False(t, ok)
}
