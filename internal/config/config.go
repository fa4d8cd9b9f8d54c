// Package config provides configuration management for the ETL pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"speclogic/internal/models"
	"speclogic/pkg/utils"
)

// Configuration validation errors.
var (
	ErrMissingDataDir           = errors.New("pipeline.data_dir is required")
	ErrInvalidWorkers           = errors.New("pipeline.workers must be at least 1")
	ErrInvalidComponent         = errors.New("pipeline.components contains an unknown component type")
	ErrInvalidSource            = errors.New("pipeline.sources must list csv, pcpartpicker or kaggle")
	ErrMissingIndexName         = errors.New("search.index_name is required")
	ErrInvalidBatchSize         = errors.New("search.batch_size must be at least 1")
	ErrMissingBaseURL           = errors.New("scraper.base_url is required")
	ErrInvalidBaseURL           = errors.New("scraper.base_url must be an absolute http(s) URL")
	ErrInvalidGPULimit          = errors.New("scraper.gpu_limit must be non-negative")
	ErrInvalidRequestDelay      = errors.New("scraper.request_delay_ms must be non-negative")
	ErrInvalidBufferSize        = errors.New("scraper.buffer_size_kb must be at least 1")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'console' or 'json'")
)

// Environment variables read by ApplyEnvironment.
const (
	EnvAppID     = "ALGOLIA_APP_ID"
	EnvAdminKey  = "ALGOLIA_ADMIN_KEY"
	EnvIndexName = "ALGOLIA_INDEX_NAME"
	EnvDataDir   = "SPECLOGIC_DATA_DIR"
	EnvLogLevel  = "SPECLOGIC_LOG_LEVEL"
)

// Defaults.
const (
	DefaultIndexName = "prod_components"
	DefaultBatchSize = 1000
	DefaultGPULimit  = 20
	DefaultBaseURL   = "https://www.techpowerup.com"
)

// Extraction sources selectable in pipeline.sources.
const (
	SourceCSV          = "csv"
	SourceKaggle       = "kaggle"
	SourcePCPartPicker = "pcpartpicker"
)

// KnownSources lists every valid pipeline.sources entry.
var KnownSources = []string{SourceCSV, SourcePCPartPicker, SourceKaggle}

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Search   SearchConfig   `yaml:"search"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PipelineConfig controls the ETL run itself.
type PipelineConfig struct {
	DataDir         string   `yaml:"data_dir"`
	Components      []string `yaml:"components"`
	Workers         int      `yaml:"workers"`
	DedupeObjectIDs bool     `yaml:"dedupe_object_ids"`
	// Sources are read in order and their records concatenated.
	Sources         []string `yaml:"sources"`
}

// SearchConfig holds the hosted search index settings.
type SearchConfig struct {
	AppID        string      `yaml:"app_id"`
	APIKey       string      `yaml:"api_key"`
	IndexName    string      `yaml:"index_name"`
	BaseURL      string      `yaml:"base_url"`
	BatchSize    int         `yaml:"batch_size"`
	WaitForTasks bool        `yaml:"wait_for_tasks"`
	Retry        RetryPolicy `yaml:"retry"`
}

// ScraperConfig holds the GPU spec scraper settings.
type ScraperConfig struct {
	BaseURL        string      `yaml:"base_url"`
	CachePath      string      `yaml:"cache_path"`
	GPULimit       int         `yaml:"gpu_limit"`
	RequestDelayMs int         `yaml:"request_delay_ms"`
	BufferSizeKb   int         `yaml:"buffer_size_kb"`
	CacheEnabled   bool        `yaml:"cache_enabled"`
	Retry          RetryPolicy `yaml:"retry"`
}

// RetryPolicy defines retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig defines where run metrics are exported.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			DataDir:         "data",
			Workers:         1,
			DedupeObjectIDs: true,
			Sources:         []string{SourceCSV},
		},
		Search: SearchConfig{
			IndexName:    DefaultIndexName,
			BatchSize:    DefaultBatchSize,
			WaitForTasks: true,
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    1000,
				MaxDelayMs:        8000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
		Scraper: ScraperConfig{
			BaseURL:        DefaultBaseURL,
			CachePath:      filepath.Join("data", "cache", "scraper.db"),
			GPULimit:       DefaultGPULimit,
			RequestDelayMs: 2000,
			BufferSizeKb:   2048,
			CacheEnabled:   true,
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    2000,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when set, otherwise fallback when that file
// exists, otherwise DefaultConfig. It returns the file used, or "" for defaults.
func LoadOrDefault(path, fallback string) (*Config, string, error) {
	if path == "" && fallback != "" {
		if _, err := os.Stat(fallback); err == nil {
			path = fallback
		}
	}

	if path == "" {
		return DefaultConfig(), "", nil
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnvironment overrides credentials and paths from the environment.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnvironment(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAppID); ok && v != "" {
		c.Search.AppID = v
	}

	if v, ok := lookup(EnvAdminKey); ok && v != "" {
		c.Search.APIKey = v
	}

	if v, ok := lookup(EnvIndexName); ok && v != "" {
		c.Search.IndexName = v
	}

	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.Pipeline.DataDir = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pipeline.DataDir == "" {
		return ErrMissingDataDir
	}

	if c.Pipeline.Workers < 1 {
		return ErrInvalidWorkers
	}

	if _, err := models.ParseComponentTypes(c.Pipeline.Components); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidComponent, err)
	}

	for _, src := range c.Pipeline.Sources {
		if !slices.Contains(KnownSources, src) {
			return fmt.Errorf("%w: %q", ErrInvalidSource, src)
		}
	}

	if c.Search.IndexName == "" {
		return ErrMissingIndexName
	}

	if c.Search.BatchSize < 1 {
		return ErrInvalidBatchSize
	}

	if err := c.Search.Retry.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if c.Scraper.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if !utils.NewHTTPHelper().IsValidURL(c.Scraper.BaseURL) {
		return ErrInvalidBaseURL
	}

	if c.Scraper.GPULimit < 0 {
		return ErrInvalidGPULimit
	}

	if c.Scraper.RequestDelayMs < 0 {
		return ErrInvalidRequestDelay
	}

	if c.Scraper.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	if err := c.Scraper.Retry.Validate(); err != nil {
		return fmt.Errorf("scraper: %w", err)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// ComponentTypes returns the configured component subset, or every type when none is set.
func (c *Config) ComponentTypes() ([]models.ComponentType, error) {
	types, err := models.ParseComponentTypes(c.Pipeline.Components)
	if err != nil {
		return nil, err
	}

	if len(types) == 0 {
		return models.AllComponentTypes(), nil
	}

	return types, nil
}

// RawDir is where source CSV files live.
func (c *Config) RawDir() string {
	return filepath.Join(c.Pipeline.DataDir, "raw")
}

// PCPartPickerDir holds the PCPartPicker CSV exports.
func (c *Config) PCPartPickerDir() string {
	return filepath.Join(c.Pipeline.DataDir, "pcpartpicker")
}

// KaggleDir holds the Kaggle hardware datasets.
func (c *Config) KaggleDir() string {
	return filepath.Join(c.Pipeline.DataDir, "kaggle")
}

// CaseImageManifest maps case object IDs to product images.
func (c *Config) CaseImageManifest() string {
	return filepath.Join(c.Pipeline.DataDir, "case_image_manifest.json")
}

// ProcessedDir is where per-type snapshots are written.
func (c *Config) ProcessedDir() string {
	return filepath.Join(c.Pipeline.DataDir, "processed")
}

// Validate checks the retry policy bounds.
func (rp *RetryPolicy) Validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if rp.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if rp.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if rp.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	return nil
}

// GetRetryDelay calculates the exponential backoff delay before attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 2; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if rp.MaxDelayMs > 0 && int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{DataDir: %s, Index: %s, BatchSize: %d, Workers: %d}",
		c.Pipeline.DataDir,
		c.Search.IndexName,
		c.Search.BatchSize,
		c.Pipeline.Workers,
	)
}
