// Package setup orchestrates a full PAL setup run: read the raw series,
// locate its clean-start index, partition the retained tail into
// in-sample/out-of-sample/reserved segments, compute indicators and
// asymmetric stop/target widths, and emit the output manifest.
package setup

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/internal/config"
	"github.com/aristath/palsetup/internal/indicators"
	"github.com/aristath/palsetup/internal/manifest"
	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/internal/quantcache"
	"github.com/aristath/palsetup/internal/quantization"
	"github.com/aristath/palsetup/internal/reader"
	"github.com/aristath/palsetup/internal/series"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// Engine wires together the reader, quantization analyzer, clean-start
// cache, and indicator library into the orchestration described in spec
// §4.J.
type Engine struct {
	reader reader.OHLCReader
	cache  *quantcache.Store
	log    zerolog.Logger
}

// New constructs an Engine; cache may be nil to disable clean-start
// memoization.
func New(r reader.OHLCReader, cache *quantcache.Store, log zerolog.Logger) *Engine {
	return &Engine{
		reader: r,
		cache:  cache,
		log:    log.With().Str("component", "setup").Logger(),
	}
}

// Partitions holds the three chronologically-ordered, non-overlapping
// sub-series produced from the cleaned tail of the source series.
type Partitions struct {
	InSample     *series.OHLCSeries
	OutOfSample  *series.OHLCSeries
	Reserved     *series.OHLCSeries
}

// Result bundles everything a caller (stats-only mode or full emission)
// needs after a setup run.
type Result struct {
	RunID        uuid.UUID
	Source       *series.OHLCSeries
	CleanStart   quantization.CleanStartResult
	Partitions   Partitions
	LongTarget   float64
	LongStop     float64
	ShortTarget  float64
	ShortStop    float64
	RobustTarget float64
	RobustStop   float64
	StdDevROC    float64
	QnROC        float64
	InSampleIBS  *series.NumericSeries
}

// Run executes steps 1-5 of the orchestration: read, locate clean start,
// partition, compute the in-sample IBS series when cfg.IndicatorMode is set,
// and compute stop/target widths. File emission (step 6) is the caller's
// responsibility via Emit, so stats-only mode can reuse this exact path.
func (e *Engine) Run(path string, cfg *config.SetupConfig) (*Result, error) {
	e.log.Info().Str("path", path).Str("symbol", cfg.Ticker).Msg("reading source series")

	source, err := e.reader.Read(path, cfg.TimeFrame, palbar.Shares)
	if err != nil {
		return nil, err
	}

	cleanStart, err := e.resolveCleanStart(path, source, cfg)
	if err != nil {
		return nil, err
	}
	if !cleanStart.Found && source.NumEntries() > 0 {
		return nil, palerrors.NewConfigError(palerrors.ErrNoCleanStart, "no clean-start window qualified for this series")
	}

	parts, err := e.partition(source, cleanStart.Index, cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:      uuid.New(),
		Source:     source,
		CleanStart: cleanStart,
		Partitions: parts,
	}

	if cfg.IndicatorMode {
		result.InSampleIBS = indicators.IBS1Series(parts.InSample)
	}

	close := parts.InSample.CloseSeries()
	robustTarget, robustStop, err := indicators.ComputeRobustStopTarget(close, cfg.HoldingPeriod)
	if err != nil {
		return nil, err
	}
	result.RobustTarget, result.RobustStop = robustTarget, robustStop

	longTarget, longStop, err := indicators.ComputeLongStopTarget(close, cfg.HoldingPeriod)
	if err != nil {
		return nil, err
	}
	result.LongTarget, result.LongStop = longTarget, longStop

	shortTarget, shortStop, err := indicators.ComputeShortStopTarget(close, cfg.HoldingPeriod)
	if err != nil {
		return nil, err
	}
	result.ShortTarget, result.ShortStop = shortTarget, shortStop

	roc, err := indicators.ROCSeries(close, cfg.HoldingPeriod)
	if err == nil {
		values := roc.Float64Values()
		result.StdDevROC = indicators.StdDev(values)
		if qn, qErr := indicators.RobustQn(values); qErr == nil {
			result.QnROC = qn
		}
	}

	if result.StdDevROC > 2*result.QnROC && result.QnROC > 0 {
		e.log.Warn().Str("symbol", cfg.Ticker).Float64("std_dev", result.StdDevROC).Float64("qn", result.QnROC).
			Msg("std_dev exceeds 2*Qn; distribution is heavy-tailed")
		manifest.WarnStdDevVsQn(cfg.Ticker, result.StdDevROC, result.QnROC)
	}

	return result, nil
}

// resolveCleanStart checks the clean-start cache (when configured) before
// running the quantization analyzer's window scan; a cache miss or stale
// entry always falls back to a full recompute, which then repopulates the
// cache.
func (e *Engine) resolveCleanStart(path string, source *series.OHLCSeries, cfg *config.SetupConfig) (quantization.CleanStartResult, error) {
	info, statErr := os.Stat(path)

	var key quantcache.Key
	haveKey := false
	if statErr == nil && e.cache != nil {
		key = quantcache.Key{
			FilePath:  path,
			MtimeUnix: info.ModTime().Unix(),
			SizeBytes: info.Size(),
			TimeFrame: cfg.TimeFrame,
		}
		haveKey = true
		if cached, ok, err := e.cache.Get(key); err == nil && ok {
			e.log.Debug().Str("path", path).Msg("clean-start cache hit")
			return cached, nil
		}
	}

	bars := source.SortedIter()
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close()
	}

	minutesPerBar := 0
	if cfg.TimeFrame == timeframe.INTRADAY {
		if m, err := source.IntradayMinutesPerBar(); err == nil {
			minutesPerBar = m
		}
	}
	params := quantization.DefaultWindowParams(cfg.TimeFrame, minutesPerBar, len(closes))
	result := quantization.FindCleanStart(closes, params, 0)

	if result.Found && result.ZeroReturnFrac > params.MaxZeroFrac*0.8 {
		manifest.WarnMarginalCleanStart(cfg.Ticker, result)
	}

	if haveKey {
		if err := e.cache.Put(key, result); err != nil {
			e.log.Warn().Err(err).Msg("failed to populate clean-start cache")
		}
	}
	return result, nil
}

// partition splits usable = num_entries - clean_start_index into in-sample,
// out-of-sample, and reserved segments by floor-rounded percentages,
// preserving chronological order; reserved absorbs the remainder.
func (e *Engine) partition(source *series.OHLCSeries, cleanStartIndex int, cfg *config.SetupConfig) (Partitions, error) {
	bars := source.SortedIter()
	if cleanStartIndex < 0 || cleanStartIndex > len(bars) {
		return Partitions{}, palerrors.NewDataError(palerrors.ErrOffsetOutOfRange, "clean-start index out of range")
	}
	tail := bars[cleanStartIndex:]
	usable := len(tail)

	inSampleN := int(float64(usable) * cfg.InSamplePct / 100)
	outOfSampleN := int(float64(usable) * cfg.OutOfSamplePct / 100)

	inSampleBars := tail[:inSampleN]
	oosBars := tail[inSampleN : inSampleN+outOfSampleN]
	reservedBars := tail[inSampleN+outOfSampleN:]

	inSample, err := series.NewFromRange(source.TimeFrame(), source.VolumeUnit(), series.NewOrderedPolicy(), inSampleBars)
	if err != nil {
		return Partitions{}, err
	}
	oos, err := series.NewFromRange(source.TimeFrame(), source.VolumeUnit(), series.NewOrderedPolicy(), oosBars)
	if err != nil {
		return Partitions{}, err
	}
	reserved, err := series.NewFromRange(source.TimeFrame(), source.VolumeUnit(), series.NewOrderedPolicy(), reservedBars)
	if err != nil {
		return Partitions{}, err
	}

	return Partitions{InSample: inSample, OutOfSample: oos, Reserved: reserved}, nil
}
