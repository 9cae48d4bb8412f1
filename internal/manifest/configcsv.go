package manifest

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/palsetup/pkg/timeframe"
)

// ConfigManifest is the single-record config manifest (spec §4.K/§6.4),
// plus a trailing run ID (§4.R NEW) for cross-run traceability. The run ID
// is appended after the nine required positional fields and never disturbs
// their parsing.
type ConfigManifest struct {
	Symbol      string
	IRPath      string
	DataPath    string
	FileFormat  string
	ISStart     time.Time
	ISEnd       time.Time
	OOSStart    time.Time
	OOSEnd      time.Time
	TimeFrame   timeframe.TimeFrame
	RunID       uuid.UUID
}

// dateLayout picks YYYYMMDD for EOD frames and YYYYMMDDTHHMMSS for intraday,
// to prevent range overlap between dates that share a calendar day.
func dateLayout(tf timeframe.TimeFrame) string {
	if tf == timeframe.INTRADAY {
		return "20060102T150405"
	}
	return "20060102"
}

// WriteConfigCSV writes the single CSV record described in spec §6.4, with
// the trailing run-id field appended.
func WriteConfigCSV(w io.Writer, m ConfigManifest) error {
	layout := dateLayout(m.TimeFrame)
	line := fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s",
		m.Symbol, m.IRPath, m.DataPath, m.FileFormat,
		m.ISStart.Format(layout), m.ISEnd.Format(layout),
		m.OOSStart.Format(layout), m.OOSEnd.Format(layout),
		m.TimeFrame.String(), m.RunID.String())
	_, err := fmt.Fprint(w, line)
	if err != nil {
		return fmt.Errorf("failed to write config manifest: %w", err)
	}
	return nil
}
