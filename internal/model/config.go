package model

import (
	"fmt"
	"time"
)

// Config is the complete, immutable configuration of a run
type Config struct {
	Extraction  ExtractionConfig  `yaml:"extraction" mapstructure:"extraction"`
	Resolution  ResolutionConfig  `yaml:"resolution" mapstructure:"resolution"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ExtractionConfig controls header cleaning and annotation extraction
type ExtractionConfig struct {
	ReversedPositions bool     `yaml:"reversed_positions" mapstructure:"reversed_positions"` // Ordinals in reading order
	HeaderTitles      []string `yaml:"header_titles" mapstructure:"header_titles"`           // Extra titles preceding header names
	StripNameBrackets bool     `yaml:"strip_name_brackets" mapstructure:"strip_name_brackets"`
	FlatEraBefore     int      `yaml:"flat_era_before" mapstructure:"flat_era_before"` // Sessions below use the flat name grammar
}

// ResolutionConfig holds the similarity thresholds of the identity cascade
type ResolutionConfig struct {
	LastNameThreshold     float64 `yaml:"last_name_threshold" mapstructure:"last_name_threshold"`
	ConstituencyThreshold float64 `yaml:"constituency_threshold" mapstructure:"constituency_threshold"`
	GovernmentThreshold   float64 `yaml:"government_threshold" mapstructure:"government_threshold"`
	ProfessionThreshold   float64 `yaml:"profession_threshold" mapstructure:"profession_threshold"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// CacheConfig controls caching of extraction results
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig controls where results are written
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`   // Empty disables the SQLite sink
	MetricsFile string `yaml:"metrics_file" mapstructure:"metrics_file"` // Empty disables the metrics textfile
	Summary     bool   `yaml:"summary" mapstructure:"summary"`           // Write summary.md
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LogConfig selects log level and encoding
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			ReversedPositions: true,
			HeaderTitles:      []string{},
			StripNameBrackets: false,
			FlatEraBefore:     7115,
		},
		Resolution: ResolutionConfig{
			LastNameThreshold:     0.7,
			ConstituencyThreshold: 0.7,
			GovernmentThreshold:   0.80,
			ProfessionThreshold:   0.75,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".zwischenruf-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Dir:     "./zwischenruf-out",
			Summary: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks ranges the pipeline relies on
func (c *Config) Validate() error {
	thresholds := map[string]float64{
		"resolution.last_name_threshold":    c.Resolution.LastNameThreshold,
		"resolution.constituency_threshold": c.Resolution.ConstituencyThreshold,
		"resolution.government_threshold":   c.Resolution.GovernmentThreshold,
		"resolution.profession_threshold":   c.Resolution.ProfessionThreshold,
	}
	for key, v := range thresholds {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", key, v)
		}
	}

	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be at least 1, got %d", c.Concurrency.Workers)
	}
	if c.Extraction.FlatEraBefore < 0 {
		return fmt.Errorf("extraction.flat_era_before must not be negative, got %d", c.Extraction.FlatEraBefore)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
