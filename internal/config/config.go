// Package config defines the service configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Storage drivers for ticket history.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// MaxUploadBytes caps an uploaded image.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
	// UploadDir keeps a copy of every upload when set.
	UploadDir string `koanf:"upload_dir"`

	// OCR engine settings.
	OCRLanguage       string `koanf:"ocr_language"`
	OCRWhitelist      string `koanf:"ocr_whitelist"`
	OCRPageSegMode    int    `koanf:"ocr_page_seg_mode"`
	OCRTessdataPrefix string `koanf:"ocr_tessdata_prefix"`
	OCRConcurrency    int    `koanf:"ocr_concurrency"`
	OCRTimeoutMS      int    `koanf:"ocr_timeout_ms"`

	// Date filtering and merging thresholds of the normalizer.
	YearMin    int `koanf:"year_min"`
	YearMax    int `koanf:"year_max"`
	DateWindow int `koanf:"date_window"`
	MergeGap   int `koanf:"merge_gap"`

	// WinningNumbersPath points at a YAML or JSON winning table. The
	// built-in demo draw is used when empty.
	WinningNumbersPath string `koanf:"winning_numbers_path"`

	// StorageDriver is one of memory, sqlite, postgres.
	StorageDriver string `koanf:"storage_driver"`
	SQLitePath    string `koanf:"sqlite_path"`
	PostgresDSN   string `koanf:"postgres_dsn"`

	// HistoryQueueSize bounds the queue of records waiting to be stored.
	HistoryQueueSize int `koanf:"history_queue_size"`
	// HistoryWorkers is the number of goroutines writing history.
	HistoryWorkers int `koanf:"history_workers"`
	// DedupeSize bounds the set of remembered image hashes.
	DedupeSize int `koanf:"dedupe_size"`
	// HistoryLimitMax caps GET /history?limit.
	HistoryLimitMax int `koanf:"history_limit_max"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		MaxUploadBytes:   10 << 20,
		OCRLanguage:      "eng",
		OCRWhitelist:     "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ/-.:$ ",
		OCRPageSegMode:   6,
		OCRConcurrency:   runtime.NumCPU(),
		OCRTimeoutMS:     30_000,
		YearMin:          1900,
		YearMax:          2099,
		DateWindow:       2,
		MergeGap:         2,
		StorageDriver:    StorageSQLite,
		SQLitePath:       "tickets.db",
		HistoryQueueSize: 10_000,
		HistoryWorkers:   2,
		DedupeSize:       50_000,
		HistoryLimitMax:  500,
	}
}

// OCRTimeout returns the per-image OCR deadline.
func (c *Config) OCRTimeout() time.Duration {
	return time.Duration(c.OCRTimeoutMS) * time.Millisecond
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.YearMin <= 0 || c.YearMax < c.YearMin:
		return fmt.Errorf("%w: year range %d-%d", ErrInvalidConfig, c.YearMin, c.YearMax)
	case c.DateWindow < 1:
		return fmt.Errorf("%w: date_window must be at least 1", ErrInvalidConfig)
	case c.MergeGap < 1:
		return fmt.Errorf("%w: merge_gap must be at least 1", ErrInvalidConfig)
	case c.OCRConcurrency < 1:
		return fmt.Errorf("%w: ocr_concurrency must be at least 1", ErrInvalidConfig)
	case c.HistoryQueueSize < 1 || c.HistoryWorkers < 1:
		return fmt.Errorf("%w: history queue and workers must be positive", ErrInvalidConfig)
	case c.HistoryLimitMax < 1:
		return fmt.Errorf("%w: history_limit_max must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	return nil
}
