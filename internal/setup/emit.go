package setup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aristath/palsetup/internal/config"
	"github.com/aristath/palsetup/internal/indicators"
	"github.com/aristath/palsetup/internal/manifest"
	"github.com/aristath/palsetup/internal/palerrors"
)

// riskRewardRatios names the three target/stop multipliers every setup run
// emits per side (spec §4.J step 6).
var riskRewardRatios = []struct {
	Name       string
	Multiplier float64
}{
	{"0_5", 0.5},
	{"1_0", 1.0},
	{"2_0", 2.0},
}

// EmitOptions configures the file layout of a full (non stats-only) setup
// run; WorkerCount controls how many duplicate in-sample subdirectories are
// produced for downstream parallel workers.
type EmitOptions struct {
	OutputDir   string
	IRPath      string
	DataPath    string
	FileFormat  string
	WorkerCount int
}

// Emit writes every file artifact described in spec §4.K for a completed
// Result.
func Emit(r *Result, cfg *config.SetupConfig, opts EmitOptions) error {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 1
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return palerrors.NewIoError("mkdir", opts.OutputDir, err)
	}

	isBars := r.Partitions.InSample.SortedIter()
	oosBars := r.Partitions.OutOfSample.SortedIter()
	reservedBars := r.Partitions.Reserved.SortedIter()
	allBars := r.Source.SortedIter()

	for w := 1; w <= opts.WorkerCount; w++ {
		workerDir := filepath.Join(opts.OutputDir, fmt.Sprintf("worker_%d", w))
		if err := os.MkdirAll(workerDir, 0o755); err != nil {
			return palerrors.NewIoError("mkdir", workerDir, err)
		}
		if err := writeDataFile(filepath.Join(workerDir, cfg.Ticker+"_IS.txt"), isBars, cfg); err != nil {
			return err
		}
	}

	for _, rr := range riskRewardRatios {
		rrDir := filepath.Join(opts.OutputDir, "rr_"+rr.Name)
		if err := os.MkdirAll(rrDir, 0o755); err != nil {
			return palerrors.NewIoError("mkdir", rrDir, err)
		}
		if err := writeDataFile(filepath.Join(rrDir, cfg.Ticker+"_ALL.txt"), allBars, cfg); err != nil {
			return err
		}
		if err := writeTRSFile(filepath.Join(rrDir, fmt.Sprintf("%s_%s_LONG.TRS", cfg.Ticker, rr.Name)), rr.Multiplier*r.LongTarget, r.LongStop); err != nil {
			return err
		}
		if err := writeTRSFile(filepath.Join(rrDir, fmt.Sprintf("%s_%s_SHORT.TRS", cfg.Ticker, rr.Name)), rr.Multiplier*r.ShortTarget, r.ShortStop); err != nil {
			return err
		}
	}

	if err := writeDataFile(filepath.Join(opts.OutputDir, cfg.Ticker+"_OOS.txt"), oosBars, cfg); err != nil {
		return err
	}
	if err := writeDataFile(filepath.Join(opts.OutputDir, cfg.Ticker+"_reserved.txt"), reservedBars, cfg); err != nil {
		return err
	}

	isStart, isEnd := boundsOf(isBars)
	oosStart, oosEnd := boundsOf(oosBars)

	configPath := filepath.Join(opts.OutputDir, cfg.Ticker+"_config.csv")
	configFile, err := os.Create(configPath)
	if err != nil {
		return palerrors.NewIoError("create", configPath, err)
	}
	defer configFile.Close()
	if err := manifest.WriteConfigCSV(configFile, manifest.ConfigManifest{
		Symbol:     cfg.Ticker,
		IRPath:     opts.IRPath,
		DataPath:   opts.DataPath,
		FileFormat: opts.FileFormat,
		ISStart:    isStart,
		ISEnd:      isEnd,
		OOSStart:   oosStart,
		OOSEnd:     oosEnd,
		TimeFrame:  cfg.TimeFrame,
		RunID:      r.RunID,
	}); err != nil {
		return err
	}

	return emitDetails(r, cfg, opts)
}

func emitDetails(r *Result, cfg *config.SetupConfig, opts EmitOptions) error {
	detailsPath := filepath.Join(opts.OutputDir, cfg.Ticker+"_Palsetup_Details.txt")
	detailsFile, err := os.Create(detailsPath)
	if err != nil {
		return palerrors.NewIoError("create", detailsPath, err)
	}
	defer detailsFile.Close()

	isStart, isEnd := boundsOf(r.Partitions.InSample.SortedIter())
	oosStart, oosEnd := boundsOf(r.Partitions.OutOfSample.SortedIter())
	resStart, resEnd := boundsOf(r.Partitions.Reserved.SortedIter())

	robustMedian := 0.0
	if roc, err := indicators.ROCSeries(r.Partitions.InSample.CloseSeries(), cfg.HoldingPeriod); err == nil {
		robustMedian = indicators.Median(roc.Float64Values())
	}

	report := manifest.DetailsReport{
		Symbol:     cfg.Ticker,
		TimeFrame:  cfg.TimeFrame.String(),
		CleanStart: r.CleanStart,
		Partitions: []manifest.PartitionSummary{
			{Name: "in-sample", Count: r.Partitions.InSample.NumEntries(), StartDate: isStart, EndDate: isEnd},
			{Name: "out-of-sample", Count: r.Partitions.OutOfSample.NumEntries(), StartDate: oosStart, EndDate: oosEnd},
			{Name: "reserved", Count: r.Partitions.Reserved.NumEntries(), StartDate: resStart, EndDate: resEnd},
		},
		SideStats: []manifest.SideStats{
			{Side: "robust", Median: robustMedian, Qn: r.QnROC, StdDev: r.StdDevROC, TargetWidth: r.RobustTarget, StopWidth: r.RobustStop},
			{Side: "long", TargetWidth: r.LongTarget, StopWidth: r.LongStop},
			{Side: "short", TargetWidth: r.ShortTarget, StopWidth: r.ShortStop},
		},
	}

	oosBars := r.Partitions.OutOfSample.SortedIter()
	if len(oosBars) >= 2 {
		if _, csSpread, err := indicators.CorwinSchultzSpread(oosBars, indicators.ClampToZero, cfg.SecurityTick); err == nil && len(csSpread) > 0 {
			report.Spreads = append(report.Spreads, spreadStats("Corwin-Schultz", csSpread))
		}
		if _, edgeSpread, err := indicators.EdgeSpread(oosBars, 0, indicators.ClampToZero, cfg.SecurityTick, false); err == nil && len(edgeSpread) > 0 {
			report.Spreads = append(report.Spreads, spreadStats("EDGE", edgeSpread))
		}
	}

	return manifest.WriteDetails(detailsFile, report)
}

func spreadStats(name string, values []float64) manifest.SpreadStats {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	median := indicators.Median(values)
	qn, err := indicators.RobustQn(values)
	if err != nil {
		qn = 0
	}
	return manifest.SpreadStats{Estimator: name, Mean: mean, Median: median, Qn: qn}
}
