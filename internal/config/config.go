// Package config resolves a SetupConfig from explicit fields layered over
// PALSETUP_* environment variables (optionally loaded from a .env file),
// then validates it both structurally (go-playground/validator tags) and
// with the percentage-sum invariant spec.md requires.
package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// SetupConfig mirrors the data model entity of the same name.
type SetupConfig struct {
	Ticker          string  `validate:"required"`
	TimeFrame       timeframe.TimeFrame
	IntradayMinutes int     `validate:"gte=0"`
	FileTypeTag     string  `validate:"required"`
	IndicatorMode   bool
	InSamplePct     float64 `validate:"gte=0,lte=100"`
	OutOfSamplePct  float64 `validate:"gte=0,lte=100"`
	ReservedPct     float64 `validate:"gte=0,lte=100"`
	HoldingPeriod   int     `validate:"gt=0"`
	StatsOnly       bool
	SecurityTick    float64 `validate:"gte=0"`
	CachePath       string
}

var validate = validator.New()

// Validate checks struct-level field constraints and the percentage-sum
// invariant (in-sample + out-of-sample + reserved <= 100).
func (c *SetupConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return palerrors.NewConfigError(palerrors.ErrPercentagesExceed, err.Error())
	}
	if c.InSamplePct+c.OutOfSamplePct+c.ReservedPct > 100 {
		return palerrors.NewConfigError(palerrors.ErrPercentagesExceed, "in-sample + out-of-sample + reserved must not exceed 100")
	}
	return nil
}

// Load builds a SetupConfig from explicit overrides layered over
// PALSETUP_*-prefixed environment variables (with a .env file consulted
// first, if present), then validates the result. A field left at its zero
// value counts as not given: an explicit 0 percentage or holding period is
// replaced by the environment value or built-in default, and an explicit
// DAILY (the zero TimeFrame) is replaced by PALSETUP_TIME_FRAME when set.
func Load(overrides SetupConfig) (*SetupConfig, error) {
	_ = godotenv.Load()

	cfg := overrides
	if cfg.InSamplePct == 0 {
		cfg.InSamplePct = getEnvAsFloat("PALSETUP_IN_SAMPLE_PCT", 70)
	}
	if cfg.OutOfSamplePct == 0 {
		cfg.OutOfSamplePct = getEnvAsFloat("PALSETUP_OUT_OF_SAMPLE_PCT", 20)
	}
	if cfg.ReservedPct == 0 {
		cfg.ReservedPct = getEnvAsFloat("PALSETUP_RESERVED_PCT", 10)
	}
	if cfg.HoldingPeriod == 0 {
		cfg.HoldingPeriod = getEnvAsInt("PALSETUP_HOLDING_PERIOD", 5)
	}
	if cfg.CachePath == "" {
		cfg.CachePath = getEnv("PALSETUP_CACHE_PATH", "./palsetup_cache.db")
	}
	if cfg.TimeFrame == 0 && os.Getenv("PALSETUP_TIME_FRAME") != "" {
		tf, err := timeframe.Parse(os.Getenv("PALSETUP_TIME_FRAME"))
		if err != nil {
			return nil, err
		}
		cfg.TimeFrame = tf
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
