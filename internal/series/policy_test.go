package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// TestHashedAgreesWithOrdered checks that after an identical sequence of
// adds and deletes, a Hashed-policy series' Get agrees with an
// Ordered-policy series seeded the same way.
func TestHashedAgreesWithOrdered(t *testing.T) {
	ordered := New(timeframe.DAILY, palbar.Shares, NewOrderedPolicy())
	hashed := New(timeframe.DAILY, palbar.Shares, NewHashedPolicy())

	for day := 1; day <= 10; day++ {
		b := dailyBar(t, day, float64(100+day))
		require.NoError(t, ordered.Add(b))
		require.NoError(t, hashed.Add(b))
	}

	removed := time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ordered.DeleteAt(removed))
	require.NoError(t, hashed.DeleteAt(removed))

	for day := 1; day <= 10; day++ {
		ts := time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC)
		oBar, oErr := ordered.Get(ts)
		hBar, hErr := hashed.Get(ts)
		if day == 5 {
			assert.Error(t, oErr)
			assert.Error(t, hErr)
			continue
		}
		require.NoError(t, oErr)
		require.NoError(t, hErr)
		assert.Equal(t, oBar.Close(), hBar.Close())
	}
}

func TestOrderedPolicyFindPosition(t *testing.T) {
	p := NewOrderedPolicy()
	timestamps := []time.Time{
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	idx, ok := p.FindPosition(timestamps, timestamps[1])
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = p.FindPosition(timestamps, time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestHashedPolicyRebuildsAfterInvalidate(t *testing.T) {
	p := NewHashedPolicy()
	timestamps := []time.Time{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}
	idx, ok := p.FindPosition(timestamps, timestamps[0])
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	p.Invalidate()
	timestamps = append(timestamps, time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC))
	idx, ok = p.FindPosition(timestamps, timestamps[1])
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}
