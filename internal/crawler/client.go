package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"speclogic/internal/config"
	"speclogic/internal/logger"
	"speclogic/internal/models"
)

// ScrapedGPUFile is the file name of a standalone scrape under the raw dir.
const ScrapedGPUFile = "gpus_scraped.json"

// Client wires the fetcher, cache and GPU parser for enrichment runs.
type Client struct {
	gpus   *GPUScraper
	cache  *Cache
	limit  int
	logger *logger.Logger
}

// NewClient creates a crawler client. The page cache is opened when enabled.
func NewClient(cfg config.ScraperConfig, log *logger.Logger) (*Client, error) {
	log = logger.OrNop(log)

	var cache *Cache

	if cfg.CacheEnabled && cfg.CachePath != "" {
		c, err := OpenCache(cfg.CachePath)
		if err != nil {
			return nil, err
		}

		cache = c
	}

	return &Client{
		gpus:   NewGPUScraper(NewScraper(cfg, log), cache, cfg, log),
		cache:  cache,
		limit:  cfg.GPULimit,
		logger: log,
	}, nil
}

// NewClientWithDeps creates a crawler client with injected dependencies.
func NewClientWithDeps(gpus *GPUScraper, cache *Cache, limit int, log *logger.Logger) *Client {
	return &Client{
		gpus:   gpus,
		cache:  cache,
		limit:  limit,
		logger: logger.OrNop(log),
	}
}

// ScrapeGPUs scrapes up to the configured number of GPUs.
func (c *Client) ScrapeGPUs(ctx context.Context) ([]models.Record, error) {
	return c.gpus.ScrapeGPUList(ctx, c.limit)
}

// ClearCache empties the page cache when one is open.
func (c *Client) ClearCache() (int, error) {
	if c.cache == nil {
		return 0, nil
	}

	n, err := c.cache.ClearCache()
	if err != nil {
		return 0, err
	}

	c.logger.Info("Cleared page cache", "pages", n)

	return n, nil
}

// Close releases the page cache.
func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}

	return c.cache.Close()
}

// SaveRecordsJSON writes records as an indented JSON array.
func SaveRecordsJSON(records []models.Record, outputPath string) error {
	if records == nil {
		records = []models.Record{}
	}

	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadRecordsJSON reads a JSON array of records.
func LoadRecordsJSON(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return records, nil
}
