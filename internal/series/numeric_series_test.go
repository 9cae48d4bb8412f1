package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/pkg/decimal"
	"github.com/aristath/palsetup/pkg/timeframe"
)

func TestNumericSeriesGetValueOffset(t *testing.T) {
	s := NewNumericSeries(timeframe.DAILY, NewOrderedPolicy())
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Add(base.AddDate(0, 0, i), decimal.FromFloat(float64(i), 2)))
	}

	v, err := s.GetValue(base.AddDate(0, 0, 4), 2)
	require.NoError(t, err)
	assert.InDelta(t, 2, v.Float64(), 1e-9)

	_, err = s.GetValue(base.AddDate(0, 0, 4), 5)
	assert.ErrorIs(t, err, palerrors.ErrOffsetOutOfRange)
}

func TestNumericSeriesValuesAndFloat64Values(t *testing.T) {
	s := NewNumericSeries(timeframe.DAILY, NewOrderedPolicy())
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Add(base, decimal.FromFloat(1.5, 2)))
	require.NoError(t, s.Add(base.AddDate(0, 0, 1), decimal.FromFloat(2.5, 2)))

	assert.Equal(t, []float64{1.5, 2.5}, s.Float64Values())
}
