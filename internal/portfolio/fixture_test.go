package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aristath/palsetup/internal/series"
	"github.com/aristath/palsetup/pkg/decimal"
	"github.com/aristath/palsetup/pkg/timeframe"
)

type closeSeriesFixture struct {
	series *series.NumericSeries
	base   time.Time
}

func newCloseSeriesFixture(t *testing.T, closes []float64) *closeSeriesFixture {
	t.Helper()
	s := series.NewNumericSeries(timeframe.DAILY, series.NewOrderedPolicy())
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range closes {
		require.NoError(t, s.Add(base.AddDate(0, 0, i), decimal.FromFloat(v, decimal.DefaultScale)))
	}
	return &closeSeriesFixture{series: s, base: base}
}
