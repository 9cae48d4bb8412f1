package series

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/pkg/timeframe"
)

func barAt(t *testing.T, day int, close float64) palbar.OHLCBar {
	t.Helper()
	ts := time.Date(2021, 4, day, 0, 0, 0, 0, time.UTC)
	b, err := palbar.New(ts, close-1, close+1, close-2, close, 100, timeframe.DAILY)
	require.NoError(t, err)
	return b
}

// TestOffsetRoundTrip is seed test 1: four bars at 2021-04-05..08 with
// closes 103/106/109/111.
func TestOffsetRoundTrip(t *testing.T) {
	s := New(timeframe.DAILY, palbar.Shares, NewOrderedPolicy())
	closes := []float64{103, 106, 109, 111}
	for i, c := range closes {
		require.NoError(t, s.Add(barAt(t, 5+i, c)))
	}

	d8 := time.Date(2021, 4, 8, 0, 0, 0, 0, time.UTC)
	b, err := s.GetWithOffset(d8, 0)
	require.NoError(t, err)
	assert.Equal(t, 111.0, b.Close())

	b, err = s.GetWithOffset(d8, 1)
	require.NoError(t, err)
	assert.Equal(t, 109.0, b.Close())

	b, err = s.GetWithOffset(d8, 3)
	require.NoError(t, err)
	assert.Equal(t, 103.0, b.Close())

	_, err = s.GetWithOffset(d8, 4)
	assert.ErrorIs(t, err, palerrors.ErrOffsetOutOfRange)

	d5 := time.Date(2021, 4, 5, 0, 0, 0, 0, time.UTC)
	b, err = s.GetWithOffset(d5, -1)
	require.NoError(t, err)
	assert.Equal(t, 106.0, b.Close())
}

func TestAddRejectsDuplicateTimestamp(t *testing.T) {
	s := New(timeframe.DAILY, palbar.Shares, NewOrderedPolicy())
	b := barAt(t, 5, 100)
	require.NoError(t, s.Add(b))
	err := s.Add(b)
	assert.ErrorIs(t, err, palerrors.ErrDuplicateTimestamp)
}

func TestAddRejectsTimeFrameMismatch(t *testing.T) {
	s := New(timeframe.DAILY, palbar.Shares, NewOrderedPolicy())
	intraday, err := palbar.New(time.Now(), 1, 2, 1, 1.5, 10, timeframe.INTRADAY)
	require.NoError(t, err)
	err = s.Add(intraday)
	assert.ErrorIs(t, err, palerrors.ErrTimeFrameMismatch)
}

func TestNumEntriesAndPresence(t *testing.T) {
	s := New(timeframe.DAILY, palbar.Shares, NewOrderedPolicy())
	b := barAt(t, 5, 100)
	require.NoError(t, s.Add(b))
	assert.Equal(t, 1, s.NumEntries())
	assert.True(t, s.IsPresent(b.Timestamp()))
	assert.False(t, s.IsPresent(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDeleteAtAbsentIsError(t *testing.T) {
	s := New(timeframe.DAILY, palbar.Shares, NewOrderedPolicy())
	err := s.DeleteAt(time.Now())
	assert.ErrorIs(t, err, palerrors.ErrNotFound)
}

// TestHashedConcurrentInsertAndRead is seed test 6: num_cores goroutines
// each insert 200 uniquely-timestamped bars into one shared series; at
// join, num_entries == num_cores*200 and every timestamp is retrievable.
func TestHashedConcurrentInsertAndRead(t *testing.T) {
	const numCores = 8
	const perCore = 200

	s := New(timeframe.DAILY, palbar.Shares, NewHashedPolicy())
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	errs := make(chan error, numCores)
	var wg sync.WaitGroup
	for core := 0; core < numCores; core++ {
		wg.Add(1)
		go func(core int) {
			defer wg.Done()
			for i := 0; i < perCore; i++ {
				ts := base.AddDate(0, 0, core*perCore+i)
				b, err := palbar.New(ts, 100, 101, 99, 100, 1, timeframe.DAILY)
				if err != nil {
					errs <- err
					return
				}
				if err := s.Add(b); err != nil {
					errs <- err
					return
				}
			}
		}(core)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, numCores*perCore, s.NumEntries())
	for core := 0; core < numCores; core++ {
		for i := 0; i < perCore; i++ {
			ts := base.AddDate(0, 0, core*perCore+i)
			assert.True(t, s.IsPresent(ts))
			_, err := s.Get(ts)
			assert.NoError(t, err)
		}
	}
}
