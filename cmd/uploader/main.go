// Package main provides the uploader command-line tool for publishing
// processed snapshots to the search index and inspecting it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"speclogic/internal/config"
	"speclogic/internal/logger"
	"speclogic/internal/models"
	"speclogic/internal/pipeline"
	"speclogic/internal/search"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	inputDir := flag.String("input-dir", "", "Directory holding *"+pipeline.SnapshotSuffix+" snapshots (default <data_dir>/processed)")
	components := flag.String("components", "", "Comma separated component types to upload (default all)")
	clearIndex := flag.Bool("clear-index", false, "Clear the index before the first upload")
	skipSettings := flag.Bool("skip-settings", false, "Do not apply index settings")
	showStats := flag.Bool("stats", false, "Print index statistics and exit")
	query := flag.String("query", "", "Run a search query and exit")
	filters := flag.String("filters", "", "Filter expression used with -query")
	deleteIndex := flag.Bool("delete-index", false, "Delete the index and exit")

	flag.Parse()

	_ = godotenv.Load()

	cfg, _, err := config.LoadOrDefault(*configFile, "configs/pipeline.yaml")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg.ApplyEnvironment(os.LookupEnv)

	if *components != "" {
		cfg.Pipeline.Components = strings.Split(*components, ",")
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	loader, err := search.NewLoader(cfg.Search, log)
	if err != nil {
		log.Error("Failed to create loader", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *deleteIndex:
		err = loader.DeleteIndex(ctx)
	case *showStats:
		err = printStats(ctx, loader)
	case *query != "" || *filters != "":
		err = runQuery(ctx, loader, *query, *filters)
	default:
		dir := *inputDir
		if dir == "" {
			dir = cfg.ProcessedDir()
		}

		types, typesErr := cfg.ComponentTypes()
		if typesErr != nil {
			err = typesErr

			break
		}

		err = uploadSnapshots(ctx, loader, log, dir, types, *clearIndex, *skipSettings)
	}

	if err != nil {
		log.Error("Uploader failed", "error", err)
		os.Exit(1)
	}
}

func uploadSnapshots(ctx context.Context, loader *search.Loader, log *logger.Logger, dir string,
	types []models.ComponentType, clearIndex, skipSettings bool,
) error {
	if !skipSettings {
		if err := loader.CreateIndex(ctx, search.DefaultSettings()); err != nil {
			return err
		}
	}

	var (
		total  search.UploadResult
		loaded int
	)

	for _, ct := range types {
		path := pipeline.SnapshotPath(dir, ct)

		records, meta, err := pipeline.LoadSnapshot(path)
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("No snapshot for component type", "component_type", ct.String(), "path", path)

			continue
		}

		if err != nil {
			return err
		}

		log.Info("Loaded snapshot", "component_type", ct.String(), "records", len(records), "run_id", meta.RunID)

		result, err := loader.Upload(ctx, records, clearIndex && loaded == 0)
		if err != nil {
			return fmt.Errorf("upload %s: %w", ct, err)
		}

		loaded++

		total.Uploaded += result.Uploaded
		total.Errors += result.Errors
		total.Batches += result.Batches
	}

	if loaded == 0 {
		log.Warn("Nothing to upload", "dir", dir)

		return nil
	}

	fmt.Printf("\n✓ Uploaded %d records in %d batches to %s (%d failed)\n",
		total.Uploaded, total.Batches, loader.IndexName(), total.Errors)

	if total.Errors > 0 {
		return fmt.Errorf("%d records failed to upload", total.Errors)
	}

	return nil
}

func printStats(ctx context.Context, loader *search.Loader) error {
	stats, err := loader.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Index: %s\nRecords: %d\nProcessing time: %dms\n",
		stats.IndexName, stats.NbHits, stats.ProcessingTimeMS)

	return nil
}

func runQuery(ctx context.Context, loader *search.Loader, query, filters string) error {
	resp, err := loader.Search(ctx, search.SearchParams{
		Query:   query,
		Filters: filters,
		Facets:  []string{models.FieldComponentType, models.FieldCompatibilityTags},
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d hits (%dms)\n", resp.NbHits, resp.ProcessingTimeMS)

	for _, hit := range resp.Hits {
		fmt.Printf("  [%v] %v %v\n", hit[models.FieldComponentType], hit[models.FieldBrand], hit[models.FieldModel])
	}

	if len(resp.Facets) > 0 {
		data, err := json.MarshalIndent(resp.Facets, "", "  ")
		if err == nil {
			fmt.Printf("Facets:\n%s\n", data)
		}
	}

	return nil
}
