package manifest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/palsetup/internal/quantization"
)

func TestWriteDetailsIncludesAllSections(t *testing.T) {
	report := DetailsReport{
		Symbol:    "SPY",
		TimeFrame: "DAILY",
		CleanStart: quantization.CleanStartResult{
			Found: true, Index: 50, EffectiveTick: 0.01, RelTick: 0.001, ZeroReturnFrac: 0.02,
		},
		Partitions: []PartitionSummary{
			{Name: "in-sample", Count: 100, StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)},
		},
		SideStats: []SideStats{
			{Side: "long", Median: 1.1, Qn: 0.9, StdDev: 1.5, TargetWidth: 2.0, StopWidth: 1.0},
		},
		Spreads: []SpreadStats{
			{Estimator: "corwin-schultz", Mean: 0.01, Median: 0.009, Qn: 0.002},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDetails(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "SPY")
	assert.Contains(t, out, "DAILY")
	assert.Contains(t, out, "in-sample")
	assert.Contains(t, out, "long")
	assert.Contains(t, out, "corwin-schultz")
}

func TestWriteDetailsWithNoRowsStillRenders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetails(&buf, DetailsReport{Symbol: "QQQ", TimeFrame: "WEEKLY"}))
	assert.Contains(t, buf.String(), "QQQ")
}
