// Command palsetup runs a single PAL pattern-validation setup against one
// raw OHLC data file. Flag/argument handling is deliberately minimal: spec
// §6.7 treats the CLI as out-of-scope glue, so this stays on the standard
// library's flag package rather than adopting a third-party CLI framework.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aristath/palsetup/internal/config"
	"github.com/aristath/palsetup/internal/quantcache"
	"github.com/aristath/palsetup/internal/reader"
	"github.com/aristath/palsetup/internal/setup"
	"github.com/aristath/palsetup/pkg/logger"
)

func main() {
	indicatorMode := flag.Bool("indicator", false, "compute indicators on the in-sample segment")
	statsOnly := flag.Bool("stats-only", false, "print results without emitting any files")
	outputDir := flag.String("output", ".", "directory to write setup output files into")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: palsetup [--indicator] [--stats-only] [--output dir] <datafile> <file-type-tag>")
		os.Exit(2)
	}
	datafile, fileTypeTag := args[0], args[1]

	log := logger.New(logger.Config{Level: "info", Pretty: true})

	cfg, err := config.Load(config.SetupConfig{
		Ticker:        fileTypeTag,
		FileTypeTag:   fileTypeTag,
		IndicatorMode: *indicatorMode,
		StatsOnly:     *statsOnly,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var cache *quantcache.Store
	if cfg.CachePath != "" {
		cache, err = quantcache.Open(cfg.CachePath, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open clean-start cache")
		}
		defer cache.Close()
	}

	engine := setup.New(reader.PALReader{}, cache, log)
	result, err := engine.Run(datafile, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("setup run failed")
	}

	log.Info().
		Int("clean_start_index", result.CleanStart.Index).
		Int("in_sample", result.Partitions.InSample.NumEntries()).
		Int("out_of_sample", result.Partitions.OutOfSample.NumEntries()).
		Int("reserved", result.Partitions.Reserved.NumEntries()).
		Msg("setup run complete")

	if *statsOnly {
		fmt.Printf("robust target=%.6f stop=%.6f\n", result.RobustTarget, result.RobustStop)
		fmt.Printf("long   target=%.6f stop=%.6f\n", result.LongTarget, result.LongStop)
		fmt.Printf("short  target=%.6f stop=%.6f\n", result.ShortTarget, result.ShortStop)
		return
	}

	if err := setup.Emit(result, cfg, setup.EmitOptions{
		OutputDir:   *outputDir,
		IRPath:      "",
		DataPath:    datafile,
		FileFormat:  fileTypeTag,
		WorkerCount: 4,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to emit setup output")
	}
}
