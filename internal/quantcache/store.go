// Package quantcache memoizes the quantization analyzer's clean-start
// result per source file, keyed by path, mtime, size, and time frame, in a
// local SQLite database. A cache miss or a stale entry always falls back
// to a full recompute; this package only shortens wall-clock time on
// repeated runs against unchanged data, it never changes output.
package quantcache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/aristath/palsetup/internal/quantization"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// Key identifies one cacheable clean-start computation.
type Key struct {
	FilePath  string
	MtimeUnix int64
	SizeBytes int64
	TimeFrame timeframe.TimeFrame
}

// Store wraps a single SQLite file holding the clean_start_cache table.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates or opens the cache database at path and ensures its schema
// exists.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quantization cache at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping quantization cache at %s: %w", path, err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS clean_start_cache (
		file_path TEXT NOT NULL,
		mtime_unix INTEGER NOT NULL,
		size_bytes INTEGER NOT NULL,
		time_frame INTEGER NOT NULL,
		found INTEGER NOT NULL,
		idx INTEGER NOT NULL,
		effective_tick REAL NOT NULL,
		rel_tick REAL NOT NULL,
		zero_return_frac REAL NOT NULL,
		PRIMARY KEY (file_path, mtime_unix, size_bytes, time_frame)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create quantization cache schema: %w", err)
	}

	return &Store{db: db, log: log.With().Str("component", "quantcache").Logger()}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached CleanStartResult for key, if present.
func (s *Store) Get(key Key) (quantization.CleanStartResult, bool, error) {
	row := s.db.QueryRow(`
		SELECT found, idx, effective_tick, rel_tick, zero_return_frac
		FROM clean_start_cache
		WHERE file_path = ? AND mtime_unix = ? AND size_bytes = ? AND time_frame = ?
	`, key.FilePath, key.MtimeUnix, key.SizeBytes, int(key.TimeFrame))

	var found int
	var result quantization.CleanStartResult
	err := row.Scan(&found, &result.Index, &result.EffectiveTick, &result.RelTick, &result.ZeroReturnFrac)
	if err == sql.ErrNoRows {
		return quantization.CleanStartResult{}, false, nil
	}
	if err != nil {
		return quantization.CleanStartResult{}, false, fmt.Errorf("failed to read quantization cache entry: %w", err)
	}
	result.Found = found != 0
	return result, true, nil
}

// Put stores result under key, replacing any existing entry.
func (s *Store) Put(key Key, result quantization.CleanStartResult) error {
	foundInt := 0
	if result.Found {
		foundInt = 1
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO clean_start_cache
		(file_path, mtime_unix, size_bytes, time_frame, found, idx, effective_tick, rel_tick, zero_return_frac)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, key.FilePath, key.MtimeUnix, key.SizeBytes, int(key.TimeFrame), foundInt,
		result.Index, result.EffectiveTick, result.RelTick, result.ZeroReturnFrac)
	if err != nil {
		return fmt.Errorf("failed to write quantization cache entry: %w", err)
	}

	s.log.Debug().Str("file", key.FilePath).Bool("found", result.Found).Msg("cached clean-start result")
	return nil
}
