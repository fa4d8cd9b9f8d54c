// Package main provides the scraper command-line tool for collecting GPU
// specifications into a raw JSON extract.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"speclogic/internal/config"
	"speclogic/internal/crawler"
	"speclogic/internal/logger"
	"speclogic/internal/models"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	limit := flag.Int("limit", -1, "Maximum number of GPUs to scrape (overrides config)")
	output := flag.String("output", "", "Output JSON path (default <data_dir>/raw/"+crawler.ScrapedGPUFile+")")
	clearCache := flag.Bool("clear-cache", false, "Clear the page cache and exit")
	noCache := flag.Bool("no-cache", false, "Disable the page cache for this run")

	flag.Parse()

	_ = godotenv.Load()

	cfg, cfgPath, err := config.LoadOrDefault(*configFile, "configs/pipeline.yaml")
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	cfg.ApplyEnvironment(os.LookupEnv)

	if cfgPath != "" {
		fmt.Printf("⚙️  Configuration loaded from %s: %s\n", cfgPath, cfg)
	}

	if *limit >= 0 {
		cfg.Scraper.GPULimit = *limit
	}

	if *noCache {
		cfg.Scraper.CacheEnabled = false
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v\n", err)
	}

	logs := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = logs.Sync() }()

	client, err := crawler.NewClient(cfg.Scraper, logs)
	if err != nil {
		log.Fatalf("❌ Failed to create scraper: %v\n", err)
	}
	defer func() { _ = client.Close() }()

	if *clearCache {
		n, clearErr := client.ClearCache()
		if clearErr != nil {
			log.Fatalf("❌ Failed to clear cache: %v\n", clearErr)
		}

		fmt.Printf("🧹 Cleared %d cached pages\n", n)

		return
	}

	printScraperHeader(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	records, err := client.ScrapeGPUs(ctx)
	if err != nil {
		log.Fatalf("❌ Scrape failed: %v\n", err)
	}

	fmt.Printf("✅ Scraped %d GPUs in %.2fs\n", len(records), time.Since(start).Seconds())

	outputPath := *output
	if outputPath == "" {
		outputPath = filepath.Join(cfg.RawDir(), crawler.ScrapedGPUFile)
	}

	fmt.Println("\n📝 Saving to JSON...")

	if err := crawler.SaveRecordsJSON(records, outputPath); err != nil {
		log.Fatalf("❌ Save failed: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s\n", outputPath)

	printSample(records, 3)

	fmt.Println("\n✨ Scraping complete!")
}

func printScraperHeader(cfg *config.Config) {
	fmt.Println("🕷️  SpecLogic GPU Scraper")
	fmt.Printf("Source: %s\n", cfg.Scraper.BaseURL)
	fmt.Printf("Limit: %d GPUs, %dms between requests\n", cfg.Scraper.GPULimit, cfg.Scraper.RequestDelayMs)
	fmt.Printf("Retry policy: max %d attempts, %.1fx backoff\n",
		cfg.Scraper.Retry.MaxAttempts,
		cfg.Scraper.Retry.BackoffMultiplier)

	if cfg.Scraper.CacheEnabled {
		fmt.Printf("Cache: %s\n", cfg.Scraper.CachePath)
	} else {
		fmt.Println("Cache: disabled")
	}

	fmt.Println()
}

func printSample(records []models.Record, n int) {
	if len(records) == 0 {
		return
	}

	fmt.Printf("\n📊 Sample GPUs (first %d):\n", min(n, len(records)))

	for _, r := range records[:min(n, len(records))] {
		fmt.Printf("  %s: %s VRAM, %s TDP, %s length\n",
			r.String(models.FieldModel),
			withUnit(r, "vram_gb", "GB"),
			withUnit(r, "tdp_watts", "W"),
			withUnit(r, "length_mm", "mm"))
	}
}

func withUnit(r models.Record, field, unit string) string {
	v := r.String(field)
	if v == "" {
		return "?"
	}

	return v + unit
}
