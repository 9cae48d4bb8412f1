package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runForEmit(t *testing.T) *Result {
	t.Helper()
	e := New(stubReader{series: randomWalkSeries(t, 320)}, nil, zerolog.Nop())
	result, err := e.Run("anything.txt", testConfig())
	require.NoError(t, err)
	return result
}

func TestEmitWritesExpectedFileLayout(t *testing.T) {
	result := runForEmit(t)
	outDir := t.TempDir()
	opts := EmitOptions{
		OutputDir:   outDir,
		IRPath:      "SPY.IR",
		DataPath:    "SPY.TXT",
		FileFormat:  "EOD",
		WorkerCount: 2,
	}

	require.NoError(t, Emit(result, testConfig(), opts))

	expectPaths := []string{
		filepath.Join(outDir, "worker_1", "SPY_IS.txt"),
		filepath.Join(outDir, "worker_2", "SPY_IS.txt"),
		filepath.Join(outDir, "rr_0_5", "SPY_ALL.txt"),
		filepath.Join(outDir, "rr_0_5", "SPY_0_5_LONG.TRS"),
		filepath.Join(outDir, "rr_0_5", "SPY_0_5_SHORT.TRS"),
		filepath.Join(outDir, "rr_1_0", "SPY_1_0_LONG.TRS"),
		filepath.Join(outDir, "rr_2_0", "SPY_2_0_SHORT.TRS"),
		filepath.Join(outDir, "SPY_OOS.txt"),
		filepath.Join(outDir, "SPY_reserved.txt"),
		filepath.Join(outDir, "SPY_config.csv"),
		filepath.Join(outDir, "SPY_Palsetup_Details.txt"),
	}
	for _, p := range expectPaths {
		_, err := os.Stat(p)
		assert.NoError(t, err, "expected file at %s", p)
	}
}

func TestEmitDefaultsWorkerCountToOne(t *testing.T) {
	result := runForEmit(t)
	outDir := t.TempDir()
	opts := EmitOptions{OutputDir: outDir, FileFormat: "EOD"}

	require.NoError(t, Emit(result, testConfig(), opts))

	_, err := os.Stat(filepath.Join(outDir, "worker_1", "SPY_IS.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "worker_2"))
	assert.True(t, os.IsNotExist(err))
}

func TestBoundsOfEmptySliceReturnsZeroTimes(t *testing.T) {
	start, end := boundsOf(nil)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}
