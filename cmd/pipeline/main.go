// Package main provides the pipeline command that extracts, transforms and
// uploads PC component data in one run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"speclogic/internal/config"
	"speclogic/internal/crawler"
	"speclogic/internal/extractor"
	"speclogic/internal/formatter"
	"speclogic/internal/logger"
	"speclogic/internal/models"
	"speclogic/internal/pipeline"
	"speclogic/internal/search"
)

const defaultConfigFile = "configs/pipeline.yaml"

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Define Command-Line Flags
	// ---------------------------
	configFile := flag.String("config", "", "Path to YAML config (default "+defaultConfigFile+" when present)")
	components := flag.String("components", "", "Comma separated component types to process (default all)")
	clearIndex := flag.Bool("clear-index", false, "Clear the index before uploading")
	scrape := flag.Bool("scrape", false, "Scrape GPU specs when the GPU CSV is empty")
	dryRun := flag.Bool("dry-run", false, "Run every stage except the upload")
	dataDir := flag.String("data-dir", "", "Override pipeline.data_dir")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	statsOut := flag.String("output-stats", "", "Write run statistics JSON to this path")
	auditOut := flag.String("audit", "", "Write the pre-upload audit report JSON to this path")

	flag.Parse()

	_ = godotenv.Load()

	cfg, cfgPath, err := config.LoadOrDefault(*configFile, defaultConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)

		return 1
	}

	cfg.ApplyEnvironment(os.LookupEnv)

	if *dataDir != "" {
		cfg.Pipeline.DataDir = *dataDir
	}

	if *components != "" {
		cfg.Pipeline.Components = strings.Split(*components, ",")
	}

	if *verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)

		return 1
	}

	log := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	// Only an explicit subset lets a primary source error abort the run.
	types, err := models.ParseComponentTypes(cfg.Pipeline.Components)
	if err != nil {
		log.Error("❌ Invalid component list", "error", err)

		return 1
	}

	log.Info("🚀 Starting SpecLogic pipeline", "config", configLabel(cfgPath), "data_dir", cfg.Pipeline.DataDir, "dry_run", *dryRun)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Wire Collaborators
	// ---------------------
	deps := pipeline.Deps{
		Source:       buildSource(cfg, log),
		Logger:       log,
		ProcessedDir: cfg.ProcessedDir(),
		Workers:      cfg.Pipeline.Workers,
		Dedupe:       cfg.Pipeline.DedupeObjectIDs,
	}

	if !*dryRun {
		loader, err := search.NewLoader(cfg.Search, log)
		if err != nil {
			log.Error("❌ Search credentials are not configured", "error", err)

			return 1
		}

		deps.Loader = loader
	}

	if *scrape {
		client, err := crawler.NewClient(cfg.Scraper, log)
		if err != nil {
			log.Error("❌ Failed to start GPU scraper", "error", err)

			return 1
		}
		defer func() { _ = client.Close() }()

		deps.Scraper = client
	}

	p := pipeline.New(deps)

	// 3. Run
	// ------
	stats, runErr := p.Run(ctx, pipeline.RunOptions{
		Components: types,
		ClearIndex: *clearIndex,
		Scrape:     *scrape,
		DryRun:     *dryRun,
	})

	// 4. Outputs
	// ----------
	if *statsOut != "" {
		if err := stats.WriteJSON(*statsOut); err != nil {
			log.Warn("⚠️  Failed to write stats", "path", *statsOut, "error", err)
		} else {
			log.Info("✅ Stats written", "path", *statsOut)
		}
	}

	if *auditOut != "" && stats.Audit != nil {
		if err := writeJSON(*auditOut, stats.Audit); err != nil {
			log.Warn("⚠️  Failed to write audit report", "path", *auditOut, "error", err)
		} else {
			log.Info("✅ Audit report written", "path", *auditOut)
		}
	}

	if cfg.Metrics.Textfile != "" {
		if err := p.Metrics().WriteToTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("⚠️  Failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	printSummary(stats, *dryRun)

	if runErr != nil {
		log.Error("❌ Pipeline failed", "error", runErr)

		return 1
	}

	if stats.HasErrors() {
		return 1
	}

	log.Info("✨ Pipeline Complete!")

	return 0
}

func configLabel(path string) string {
	if path == "" {
		return "defaults"
	}

	return path
}

func printSummary(stats *pipeline.Stats, dryRun bool) {
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report (run %s)\n", stats.RunID)
	fmt.Println("------------------------------------------------")

	if len(stats.Extracted) > 0 {
		fmt.Println(formatter.CountTable("Source", "Extracted", stats.Extracted))
	}

	fmt.Println(formatter.StageTable(stats, dryRun))

	if stats.Audit != nil {
		fmt.Println(formatter.AuditTable(stats.Audit))
	}

	fmt.Printf("Total Duration: %.2fs\n", stats.DurationSeconds)

	if len(stats.Warnings) > 0 {
		fmt.Printf("⚠️  Warnings: %d\n", len(stats.Warnings))

		for _, w := range stats.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	if len(stats.Errors) > 0 {
		fmt.Printf("❌ Errors: %d\n", len(stats.Errors))

		for _, e := range stats.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Println("------------------------------------------------")
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// buildSource reads pipeline.sources in order, falling back to the raw CSVs.
func buildSource(cfg *config.Config, log *logger.Logger) pipeline.Source {
	var sources []extractor.Source

	for _, name := range cfg.Pipeline.Sources {
		switch name {
		case config.SourceCSV:
			sources = append(sources, extractor.NewCSVSource(cfg.RawDir(), log))
		case config.SourcePCPartPicker:
			src := extractor.NewPCPartPickerSource(cfg.PCPartPickerDir(), log)
			src.ImageManifest = cfg.CaseImageManifest()
			sources = append(sources, src)
		case config.SourceKaggle:
			sources = append(sources, extractor.NewKaggleSource(cfg.KaggleDir(), log))
		}
	}

	switch len(sources) {
	case 0:
		return extractor.NewCSVSource(cfg.RawDir(), log)
	case 1:
		return sources[0]
	}

	return extractor.NewMultiSource(sources...)
}
