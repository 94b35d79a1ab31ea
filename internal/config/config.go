// Package config provides configuration types and defaults for the media
// chunking and frame-serving core.
package config

import (
	"fmt"
	"os"
)

// Default constants.
const (
	// DefaultImageQuality is the JPEG/recompression quality (1-100) used
	// by compressed-tier chunk writers when a task doesn't override it.
	DefaultImageQuality int = 70

	// DefaultChunkSize is the default value of Config.DefaultChunkSize;
	// a task's chunk size always comes from the task itself.
	DefaultChunkSize int = 36

	// MinChunkSize/MaxChunkSize bound a task's configured chunk size.
	MinChunkSize int = 1
	MaxChunkSize int = 500

	// DefaultCacheMaxCostMB bounds the in-process KVCache's total held
	// bytes.
	DefaultCacheMaxCostMB int64 = 512

	// DefaultCacheNumCounters sizes ristretto's admission sketch; roughly
	// 10x the expected number of distinct hot keys.
	DefaultCacheNumCounters int64 = 1_000_000

	// DefaultDownloadConcurrency bounds parallel cloud-blob downloads and
	// checksum verification when the caller's reader deps don't set one.
	DefaultDownloadConcurrency int = 8

	// ProgressLogIntervalPercent is the progress logging interval for
	// framectl's bulk cache-warming command.
	ProgressLogIntervalPercent uint8 = 5
)

// Config holds tunables shared across the core's components.
type Config struct {
	LogDir string

	ImageQuality         int
	DefaultChunkSize     int
	CacheMaxCostMB       int64
	CacheNumCounters     int64
	DownloadConcurrency  int
	TempDir              string // scratch directory for cloud downloads

	Verbose bool
}

// New creates a Config with default values.
func New(logDir string) *Config {
	return &Config{
		LogDir:              logDir,
		ImageQuality:        DefaultImageQuality,
		DefaultChunkSize:    DefaultChunkSize,
		CacheMaxCostMB:      DefaultCacheMaxCostMB,
		CacheNumCounters:    DefaultCacheNumCounters,
		DownloadConcurrency: DefaultDownloadConcurrency,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		return fmt.Errorf("image_quality must be 1-100, got %d", c.ImageQuality)
	}
	if c.DefaultChunkSize < MinChunkSize || c.DefaultChunkSize > MaxChunkSize {
		return fmt.Errorf("default_chunk_size must be %d-%d, got %d", MinChunkSize, MaxChunkSize, c.DefaultChunkSize)
	}
	if c.CacheMaxCostMB < 1 {
		return fmt.Errorf("cache_max_cost_mb must be at least 1, got %d", c.CacheMaxCostMB)
	}
	if c.DownloadConcurrency < 1 {
		return fmt.Errorf("download_concurrency must be at least 1, got %d", c.DownloadConcurrency)
	}
	return nil
}

// GetTempDir returns the scratch directory, falling back to os.TempDir's
// caller-visible default when unset.
func (c *Config) GetTempDir() string {
	if c.TempDir == "" {
		return os.TempDir()
	}
	return c.TempDir
}

// CacheMaxCostBytes returns CacheMaxCostMB converted to bytes, as
// ristretto's MaxCost wants it.
func (c *Config) CacheMaxCostBytes() int64 {
	return c.CacheMaxCostMB * 1024 * 1024
}
