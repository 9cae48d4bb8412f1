package setup

import (
	"os"
	"time"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/internal/config"
	"github.com/aristath/palsetup/internal/manifest"
	"github.com/aristath/palsetup/internal/palerrors"
)

func writeDataFile(path string, bars []palbar.OHLCBar, cfg *config.SetupConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return palerrors.NewIoError("create", path, err)
	}
	defer f.Close()
	return manifest.WriteDataFile(f, bars, cfg.TimeFrame)
}

func writeTRSFile(path string, targetPct, stopPct float64) error {
	f, err := os.Create(path)
	if err != nil {
		return palerrors.NewIoError("create", path, err)
	}
	defer f.Close()
	return manifest.WriteTRS(f, targetPct, stopPct)
}

func boundsOf(bars []palbar.OHLCBar) (start, end time.Time) {
	if len(bars) == 0 {
		return time.Time{}, time.Time{}
	}
	return bars[0].Timestamp(), bars[len(bars)-1].Timestamp()
}
