package manifest

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/aristath/palsetup/internal/quantization"
)

// PartitionSummary describes one chronological segment's size and date
// range for the details file's partition table.
type PartitionSummary struct {
	Name          string
	Count         int
	StartDate     time.Time
	EndDate       time.Time
}

// SideStats holds the robust statistics computed for one trade side
// (long/short) at the configured holding period.
type SideStats struct {
	Side          string
	Median        float64
	Qn            float64
	StdDev        float64
	TargetWidth   float64
	StopWidth     float64
}

// SpreadStats summarizes one bid-ask spread estimator's mean/median/Qn over
// the out-of-sample segment.
type SpreadStats struct {
	Estimator string
	Mean      float64
	Median    float64
	Qn        float64
}

// DetailsReport bundles everything the human-readable details file prints.
type DetailsReport struct {
	Symbol      string
	TimeFrame   string
	CleanStart  quantization.CleanStartResult
	Partitions  []PartitionSummary
	SideStats   []SideStats
	Spreads     []SpreadStats
}

// WriteDetails renders a free-form human-readable summary with tabular
// sections rendered through tablewriter, writing directly into w (typically
// the *_Palsetup_Details.txt file handle; tablewriter writes to any
// io.Writer, so no terminal is required).
func WriteDetails(w io.Writer, r DetailsReport) error {
	fmt.Fprintf(w, "PAL setup details for %s (%s)\n\n", r.Symbol, r.TimeFrame)
	fmt.Fprintf(w, "Clean start: found=%t index=%d effective_tick=%.6f rel_tick=%.6f zero_return_fraction=%.4f\n\n",
		r.CleanStart.Found, r.CleanStart.Index, r.CleanStart.EffectiveTick, r.CleanStart.RelTick, r.CleanStart.ZeroReturnFrac)

	fmt.Fprintln(w, "Partitions:")
	partitionTable := tablewriter.NewTable(w)
	partitionTable.Header([]string{"Segment", "Count", "Start", "End"})
	for _, p := range r.Partitions {
		partitionTable.Append([]string{
			p.Name,
			fmt.Sprintf("%d", p.Count),
			p.StartDate.Format("2006-01-02"),
			p.EndDate.Format("2006-01-02"),
		})
	}
	partitionTable.Render()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Per-side robust statistics:")
	sideTable := tablewriter.NewTable(w)
	sideTable.Header([]string{"Side", "Median", "Qn", "StdDev", "Target", "Stop"})
	for _, s := range r.SideStats {
		sideTable.Append([]string{
			s.Side,
			fmt.Sprintf("%.6f", s.Median),
			fmt.Sprintf("%.6f", s.Qn),
			fmt.Sprintf("%.6f", s.StdDev),
			fmt.Sprintf("%.6f", s.TargetWidth),
			fmt.Sprintf("%.6f", s.StopWidth),
		})
	}
	sideTable.Render()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Out-of-sample bid-ask spread estimates:")
	spreadTable := tablewriter.NewTable(w)
	spreadTable.Header([]string{"Estimator", "Mean", "Median", "Qn"})
	for _, s := range r.Spreads {
		spreadTable.Append([]string{
			s.Estimator,
			fmt.Sprintf("%.6f", s.Mean),
			fmt.Sprintf("%.6f", s.Median),
			fmt.Sprintf("%.6f", s.Qn),
		})
	}
	spreadTable.Render()

	return nil
}

// WarnStdDevVsQn prints the std-dev-vs-2*Qn heavy-tail warning to stderr in
// yellow (auto-detecting TTY support).
func WarnStdDevVsQn(symbol string, stdDev, qn float64) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %s std_dev (%.6f) > 2*Qn (%.6f); distribution is heavy-tailed, trust Qn over std_dev\n", symbol, stdDev, 2*qn)
}

// WarnMarginalCleanStart prints a warning when a clean-start window was
// accepted but only marginally cleared the acceptance thresholds.
func WarnMarginalCleanStart(symbol string, result quantization.CleanStartResult) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %s clean-start window at index %d is marginal (rel_tick=%.6f zero_return_fraction=%.4f)\n",
		symbol, result.Index, result.RelTick, result.ZeroReturnFrac)
}
