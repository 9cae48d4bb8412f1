// Package reader implements the external OHLC reader abstraction (spec
// §6.1): given a raw data file, produce an OHLCSeries. Only the PAL-format
// CSV variant is implemented; CSI, TradeStation, and Pinnacle formats stay
// out of scope as named interface implementations a caller could add.
package reader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/internal/series"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// OHLCReader yields a complete OHLCSeries from a raw data file.
type OHLCReader interface {
	Read(path string, tf timeframe.TimeFrame, vu palbar.VolumeUnit) (*series.OHLCSeries, error)
}

// PALReader reads the PAL EOD/intraday CSV layout: "YYYYMMDD,O,H,L,C,V" or,
// for INTRADAY, "YYYYMMDD,HHMM,O,H,L,C,V".
type PALReader struct{}

func (PALReader) Read(path string, tf timeframe.TimeFrame, vu palbar.VolumeUnit) (*series.OHLCSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, palerrors.NewIoError("open", path, err)
	}
	defer f.Close()

	var bars []palbar.OHLCBar
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		bar, err := parseLine(line, tf)
		if err != nil {
			return nil, palerrors.NewIoError("parse", fmt.Sprintf("%s:%d", path, lineNum), err)
		}
		bars = append(bars, bar)
	}
	if err := scanner.Err(); err != nil {
		return nil, palerrors.NewIoError("read", path, err)
	}

	return series.NewFromRange(tf, vu, series.NewOrderedPolicy(), bars)
}

func parseLine(line string, tf timeframe.TimeFrame) (palbar.OHLCBar, error) {
	fields := strings.Split(line, ",")
	minFields := 6
	if tf == timeframe.INTRADAY {
		minFields = 7
	}
	if len(fields) < minFields {
		return palbar.OHLCBar{}, fmt.Errorf("expected at least %d fields, found %d", minFields, len(fields))
	}

	idx := 0
	dateStr := fields[idx]
	idx++
	var timeStr string
	if tf == timeframe.INTRADAY {
		timeStr = fields[idx]
		idx++
	}

	open, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return palbar.OHLCBar{}, fmt.Errorf("invalid open: %w", err)
	}
	idx++
	high, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return palbar.OHLCBar{}, fmt.Errorf("invalid high: %w", err)
	}
	idx++
	low, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return palbar.OHLCBar{}, fmt.Errorf("invalid low: %w", err)
	}
	idx++
	closeP, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return palbar.OHLCBar{}, fmt.Errorf("invalid close: %w", err)
	}
	idx++
	volume, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return palbar.OHLCBar{}, fmt.Errorf("invalid volume: %w", err)
	}

	var ts time.Time
	if tf == timeframe.INTRADAY {
		ts, err = time.Parse("200601021504", dateStr+timeStr)
	} else {
		ts, err = time.Parse("20060102", dateStr)
	}
	if err != nil {
		return palbar.OHLCBar{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	return palbar.New(ts, open, high, low, closeP, volume, tf)
}
