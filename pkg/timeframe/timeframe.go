// Package timeframe models the granularity of an OHLC series: daily,
// weekly, monthly, quarterly, or intraday, plus the helper used to infer an
// intraday bar's spacing in minutes from a run of timestamps.
package timeframe

import (
	"sort"
	"strings"
	"time"

	"github.com/aristath/palsetup/internal/palerrors"
)

// TimeFrame is a closed enumeration of the granularities an OHLCSeries can
// declare. DAILY/WEEKLY/MONTHLY/QUARTERLY carry no payload; INTRADAY's
// per-series minutes-per-bar is derived separately (see InferIntradayMinutes)
// because it is a property of the series' timestamps, not of the tag itself.
type TimeFrame int

const (
	DAILY TimeFrame = iota
	WEEKLY
	MONTHLY
	QUARTERLY
	INTRADAY
)

func (t TimeFrame) String() string {
	switch t {
	case DAILY:
		return "DAILY"
	case WEEKLY:
		return "WEEKLY"
	case MONTHLY:
		return "MONTHLY"
	case QUARTERLY:
		return "QUARTERLY"
	case INTRADAY:
		return "INTRADAY"
	default:
		return "UNKNOWN"
	}
}

// Parse maps a case-insensitive name to a TimeFrame.
func Parse(name string) (TimeFrame, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DAILY":
		return DAILY, nil
	case "WEEKLY":
		return WEEKLY, nil
	case "MONTHLY":
		return MONTHLY, nil
	case "QUARTERLY":
		return QUARTERLY, nil
	case "INTRADAY":
		return INTRADAY, nil
	default:
		return 0, palerrors.NewConfigError(palerrors.ErrUnknownTimeFrame, name)
	}
}

// InferIntradayMinutes computes the statistical mode, in whole minutes, of
// the positive gaps between consecutive chronologically-ordered timestamps.
// Ties prefer the smaller gap, so that occasional holiday early-closes
// (which create larger-than-usual gaps) never cause overestimation of the
// series' normal bar spacing.
func InferIntradayMinutes(timestamps []time.Time) (int, error) {
	if len(timestamps) < 2 {
		return 0, palerrors.NewDataError(palerrors.ErrInsufficientSample, "need at least two timestamps")
	}

	counts := make(map[int]int)
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		minutes := int(gap.Minutes())
		if minutes <= 0 {
			continue
		}
		counts[minutes]++
	}
	if len(counts) == 0 {
		return 0, palerrors.NewDataError(palerrors.ErrNoPositiveGap, "all gaps were zero or negative")
	}

	gaps := make([]int, 0, len(counts))
	for g := range counts {
		gaps = append(gaps, g)
	}
	sort.Ints(gaps) // ascending, so the tie-break scan below finds the smaller gap first

	best := gaps[0]
	bestCount := counts[gaps[0]]
	for _, g := range gaps[1:] {
		if counts[g] > bestCount {
			best = g
			bestCount = counts[g]
		}
	}
	return best, nil
}
