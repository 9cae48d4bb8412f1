package manifest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/pkg/timeframe"
)

func TestWriteDataFileEODLayout(t *testing.T) {
	bar, err := palbar.New(time.Date(2021, 4, 5, 0, 0, 0, 0, time.UTC), 100, 105, 99, 103, 1000, timeframe.DAILY)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDataFile(&buf, []palbar.OHLCBar{bar}, timeframe.DAILY))

	lines := strings.Split(buf.String(), crlf)
	assert.Equal(t, "20210405,100.0000,105.0000,99.0000,103.0000,1000", lines[0])
}

func TestWriteDataFileIntradayLayoutIncludesTime(t *testing.T) {
	bar, err := palbar.New(time.Date(2021, 4, 5, 9, 30, 0, 0, time.UTC), 100, 105, 99, 103, 1000, timeframe.INTRADAY)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDataFile(&buf, []palbar.OHLCBar{bar}, timeframe.INTRADAY))

	lines := strings.Split(buf.String(), crlf)
	assert.Equal(t, "20210405,0930,100.0000,105.0000,99.0000,103.0000,1000", lines[0])
}

func TestWriteDataFileLinesAreCRLFTerminated(t *testing.T) {
	bar, err := palbar.New(time.Date(2021, 4, 5, 0, 0, 0, 0, time.UTC), 100, 105, 99, 103, 1000, timeframe.DAILY)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDataFile(&buf, []palbar.OHLCBar{bar, bar}, timeframe.DAILY))
	assert.True(t, strings.HasSuffix(buf.String(), crlf))
	assert.Equal(t, 2, strings.Count(buf.String(), crlf))
}

func TestWriteTRSTwoLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTRS(&buf, 2.5, 1.25))
	assert.Equal(t, "2.5000\r\n1.2500\r\n", buf.String())
}
