package bar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/palsetup/pkg/timeframe"
)

func mustNew(t *testing.T, open, high, low, close, volume float64) OHLCBar {
	t.Helper()
	b, err := New(time.Date(2021, 4, 5, 0, 0, 0, 0, time.UTC), open, high, low, close, volume, timeframe.DAILY)
	require.NoError(t, err)
	return b
}

func TestNewValidBar(t *testing.T) {
	b := mustNew(t, 100, 105, 99, 103, 1000)
	assert.Equal(t, 100.0, b.Open())
	assert.Equal(t, 105.0, b.High())
	assert.Equal(t, 99.0, b.Low())
	assert.Equal(t, 103.0, b.Close())
	assert.Equal(t, 1000.0, b.Volume())
	assert.Equal(t, timeframe.DAILY, b.TimeFrame())
}

func TestNewRejectsLowAboveOpenOrClose(t *testing.T) {
	_, err := New(time.Now(), 100, 105, 101, 103, 1000, timeframe.DAILY)
	assert.Error(t, err)
}

func TestNewRejectsHighBelowOpenOrClose(t *testing.T) {
	_, err := New(time.Now(), 100, 99, 95, 103, 1000, timeframe.DAILY)
	assert.Error(t, err)
}

func TestNewRejectsHighBelowLow(t *testing.T) {
	_, err := New(time.Now(), 100, 90, 95, 92, 1000, timeframe.DAILY)
	assert.Error(t, err)
}

func TestStrictlyPositivePrices(t *testing.T) {
	positive := mustNew(t, 1, 2, 1, 1.5, 10)
	assert.True(t, positive.StrictlyPositivePrices())

	zero, err := New(time.Now(), 0, 0, 0, 0, 0, timeframe.DAILY)
	require.NoError(t, err)
	assert.False(t, zero.StrictlyPositivePrices())
}

func TestEqual(t *testing.T) {
	a := mustNew(t, 100, 105, 99, 103, 1000)
	b := mustNew(t, 100, 105, 99, 103, 1000)
	c := mustNew(t, 100, 105, 99, 104, 1000)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestDateTruncatesTimeOfDay(t *testing.T) {
	b, err := New(time.Date(2021, 4, 5, 14, 30, 0, 0, time.UTC), 1, 1, 1, 1, 1, timeframe.INTRADAY)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 4, 5, 0, 0, 0, 0, time.UTC), b.Date())
}
