// Package manifest writes the output artifacts of a setup run: PAL/
// TradeStation-style OHLC data files, target/stop (.TRS) files, the
// one-line config manifest, and the human-readable details report.
package manifest

import (
	"bufio"
	"fmt"
	"io"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/pkg/timeframe"
)

const crlf = "\r\n"

// WriteDataFile renders bars as CRLF-terminated OHLC lines: EOD frames use
// "YYYYMMDD,O,H,L,C,V"; INTRADAY uses "YYYYMMDD,HHMM,O,H,L,C,V".
func WriteDataFile(w io.Writer, bars []palbar.OHLCBar, tf timeframe.TimeFrame) error {
	bw := bufio.NewWriter(w)
	for _, b := range bars {
		ts := b.Timestamp()
		var line string
		if tf == timeframe.INTRADAY {
			line = fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s",
				ts.Format("20060102"), ts.Format("1504"),
				formatPrice(b.Open()), formatPrice(b.High()), formatPrice(b.Low()), formatPrice(b.Close()),
				formatVolume(b.Volume()))
		} else {
			line = fmt.Sprintf("%s,%s,%s,%s,%s,%s",
				ts.Format("20060102"),
				formatPrice(b.Open()), formatPrice(b.High()), formatPrice(b.Low()), formatPrice(b.Close()),
				formatVolume(b.Volume()))
		}
		if _, err := bw.WriteString(line + crlf); err != nil {
			return fmt.Errorf("failed to write data file line: %w", err)
		}
	}
	return bw.Flush()
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func formatVolume(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// WriteTRS writes a two-line CRLF-terminated target/stop file: target
// percentage then stop percentage, each a decimal number with period radix.
func WriteTRS(w io.Writer, targetPct, stopPct float64) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%.4f%s%.4f%s", targetPct, crlf, stopPct, crlf); err != nil {
		return fmt.Errorf("failed to write TRS file: %w", err)
	}
	return bw.Flush()
}
