// Package pipeline runs Extract, Normalize, Tag, Map and Load across
// component types and keeps the run statistics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"speclogic/internal/extractor"
	"speclogic/internal/logger"
	"speclogic/internal/metrics"
	"speclogic/internal/models"
	"speclogic/internal/normalizer"
	"speclogic/internal/schema"
	"speclogic/internal/search"
	"speclogic/internal/tagger"
	"speclogic/internal/validator"
)

// Pipeline errors.
var (
	ErrNoLoader  = errors.New("no loader configured")
	ErrNoScraper = errors.New("no scraper configured")
)

// Source returns the raw records of one component type.
type Source interface {
	Extract(ctx context.Context, componentType models.ComponentType) ([]models.Record, error)
}

// Scraper returns raw GPU records from the enrichment source.
type Scraper interface {
	ScrapeGPUs(ctx context.Context) ([]models.Record, error)
}

// Loader publishes records to the search index.
type Loader interface {
	CreateIndex(ctx context.Context, settings *search.Settings) error
	Upload(ctx context.Context, records []models.Record, clearExisting bool) (*search.UploadResult, error)
}

// RunOptions selects what one run does. Empty Components means every type.
type RunOptions struct {
	Components []models.ComponentType
	ClearIndex bool
	Scrape     bool
	DryRun     bool
}

// Deps wires the collaborators of a pipeline. Scraper and Loader may be nil;
// an empty ProcessedDir disables snapshots.
type Deps struct {
	Source       Source
	Scraper      Scraper
	Loader       Loader
	Metrics      *metrics.Metrics
	Logger       *logger.Logger
	ProcessedDir string
	Workers      int
	Dedupe       bool
}

// Pipeline orchestrates the ETL stages.
type Pipeline struct {
	source       Source
	scraper      Scraper
	loader       Loader
	normalizer   *normalizer.Processor
	tagger       *tagger.Tagger
	mapper       *schema.Mapper
	metrics      *metrics.Metrics
	logger       *logger.Logger
	processedDir string
	workers      int
	dedupe       bool
}

// New creates a pipeline. A loader that accepts a search.Recorder is
// connected to the pipeline metrics.
func New(deps Deps) *Pipeline {
	log := logger.OrNop(deps.Logger)

	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}

	if r, ok := deps.Loader.(interface{ SetRecorder(search.Recorder) }); ok {
		r.SetRecorder(m)
	}

	return &Pipeline{
		source:       deps.Source,
		scraper:      deps.Scraper,
		loader:       deps.Loader,
		normalizer:   normalizer.NewProcessor(log),
		tagger:       tagger.NewTagger(log),
		mapper:       schema.NewMapper(log),
		metrics:      m,
		logger:       log,
		processedDir: deps.ProcessedDir,
		workers:      workers,
		dedupe:       deps.Dedupe,
	}
}

// Metrics returns the run collectors.
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// Run executes one pipeline run. Stats are always returned. An Extract or
// Transform failure, or a failure to configure the index, is recorded in
// Stats.Errors and returned; failed upload batches are only counted.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Stats, error) {
	stats := NewStats()
	log := p.logger.With("run_id", stats.RunID)

	defer stats.finish()

	log.Info("Starting ETL pipeline")

	log.Info("=== Stage 1: Extraction ===")

	data, order, err := p.extract(ctx, log, stats, opts)
	if err != nil {
		return stats, p.fail(log, stats, err)
	}

	log.Info("=== Stage 2: Transformation ===")

	records, err := p.transform(ctx, log, stats, data, order)
	if err != nil {
		return stats, p.fail(log, stats, err)
	}

	stats.Audit = validator.ValidateRecords(records)
	if stats.Audit.Invalid > 0 {
		log.Warn(stats.warnf("Audit found %d invalid records", stats.Audit.Invalid))
	}

	log.Info("=== Stage 3: Loading ===")

	if opts.DryRun {
		log.Info("Dry run - skipping upload")

		stats.Uploaded = stats.Mapped
	} else if err := p.load(ctx, log, stats, records, opts.ClearIndex); err != nil {
		return stats, p.fail(log, stats, err)
	}

	p.logSummary(log, stats)

	return stats, nil
}

func (p *Pipeline) fail(log *logger.Logger, stats *Stats, err error) error {
	log.Error("Pipeline failed", "error", err)
	stats.Errors = append(stats.Errors, err.Error())

	return fmt.Errorf("pipeline run %s: %w", stats.RunID, err)
}

func (p *Pipeline) extract(ctx context.Context, log *logger.Logger, stats *Stats, opts RunOptions) (map[models.ComponentType][]models.Record, []models.ComponentType, error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(metrics.StageExtract, time.Since(start)) }()

	explicit := len(opts.Components) > 0

	components := opts.Components
	if !explicit {
		components = models.AllComponentTypes()
	}

	data := make(map[models.ComponentType][]models.Record)

	for _, ct := range components {
		records, err := p.source.Extract(ctx, ct)

		var sourceErr *extractor.SourceError

		switch {
		case err == nil:
		case errors.Is(err, extractor.ErrSourceNotFound):
			log.Warn(stats.warnf("No %s source data: %v", ct, err))

			continue
		case errors.As(err, &sourceErr) && !(explicit && ct.Primary()):
			log.Warn(stats.warnf("Skipping %s: %v", ct, err))

			continue
		default:
			return nil, nil, fmt.Errorf("extract %s: %w", ct, err)
		}

		if len(records) == 0 {
			continue
		}

		data[ct] = records
		stats.Extracted[ct.String()] = len(records)
		p.metrics.RecordRecords(metrics.StageExtract, ct.String(), len(records))

		log.Info("Extracted records from CSV", "component_type", ct.String(), "count", len(records))
	}

	if opts.Scrape && slices.Contains(components, models.GPU) {
		p.scrapeGPUs(ctx, log, stats, data)
	}

	return data, components, nil
}

// scrapeGPUs uses scraped GPUs only when the CSV produced none.
func (p *Pipeline) scrapeGPUs(ctx context.Context, log *logger.Logger, stats *Stats, data map[models.ComponentType][]models.Record) {
	log.Info("Scraping additional GPU specs")

	if p.scraper == nil {
		log.Warn(stats.warnf("GPU scraping failed: %v", ErrNoScraper))

		return
	}

	scraped, err := p.scraper.ScrapeGPUs(ctx)
	if err != nil {
		log.Warn(stats.warnf("GPU scraping failed: %v", err))

		return
	}

	if len(scraped) == 0 {
		return
	}

	if len(data[models.GPU]) > 0 {
		log.Info("Keeping CSV GPU data, scraped records discarded", "scraped", len(scraped))

		return
	}

	records := make([]models.Record, len(scraped))
	for i, r := range scraped {
		records[i] = r.Clone()
		records[i][models.FieldComponentType] = models.GPU.String()
	}

	data[models.GPU] = records
	stats.Extracted[ScrapedGPUKey] = len(records)
	p.metrics.RecordRecords(metrics.StageExtract, ScrapedGPUKey, len(records))
}

func (p *Pipeline) transform(ctx context.Context, log *logger.Logger, stats *Stats, data map[models.ComponentType][]models.Record, order []models.ComponentType) ([]models.Record, error) {
	var all []models.Record

	for _, ct := range order {
		raw := data[ct]
		if len(raw) == 0 {
			continue
		}

		log.Info("Transforming data", "component_type", ct.String())

		mapped, err := p.transformType(ctx, stats, ct, raw)
		if err != nil {
			return nil, err
		}

		if len(mapped) == 0 {
			log.Warn(stats.warnf("No valid %s records after mapping", ct))

			continue
		}

		if p.processedDir != "" {
			path, err := WriteSnapshot(p.processedDir, ct, mapped, stats.RunID)
			if err != nil {
				return nil, err
			}

			log.Info("Saved processed records", "component_type", ct.String(), "count", len(mapped), "path", path)
		}

		all = append(all, mapped...)
	}

	log.Info("Total records after transformation", "count", len(all))

	return all, nil
}

func (p *Pipeline) transformType(ctx context.Context, stats *Stats, ct models.ComponentType, raw []models.Record) ([]models.Record, error) {
	typeName := ct.String()

	normalized, err := p.stage(ctx, metrics.StageNormalize, typeName, raw, func(r models.Record) (models.Record, bool) {
		return p.normalizer.NormalizeRecord(r), true
	})
	if err != nil {
		return nil, err
	}

	stats.Normalized += len(normalized)

	tagged, err := p.stage(ctx, metrics.StageTag, typeName, normalized, func(r models.Record) (models.Record, bool) {
		return p.tagger.TagRecord(r), true
	})
	if err != nil {
		return nil, err
	}

	stats.Tagged += len(tagged)

	mapped, err := p.stage(ctx, metrics.StageMap, typeName, tagged, func(r models.Record) (models.Record, bool) {
		out, err := p.mapper.MapRecord(r, ct)
		if err != nil {
			p.logger.Debug("Skipping invalid record", "component_type", typeName, "error", err)

			return nil, false
		}

		return out, true
	})
	if err != nil {
		return nil, err
	}

	if p.dedupe {
		var dropped int

		mapped, dropped = dedupeByObjectID(mapped)
		if dropped > 0 {
			p.logger.Warn(stats.warnf("Dropped %d duplicate %s records", dropped, ct))
		}
	}

	stats.Mapped += len(mapped)

	return mapped, nil
}

// stage applies fn to every record on the worker pool, keeping input order
// and dropping records for which fn reports false.
func (p *Pipeline) stage(ctx context.Context, name, typeName string, in []models.Record, fn func(models.Record) (models.Record, bool)) ([]models.Record, error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(name, time.Since(start)) }()

	out := make([]models.Record, len(in))
	keep := make([]bool, len(in))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, r := range in {
		i, r := i, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out[i], keep[i] = fn(r)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, typeName, err)
	}

	kept := out[:0]

	for i, r := range out {
		if keep[i] {
			kept = append(kept, r)
		}
	}

	p.metrics.RecordRecords(name, typeName, len(kept))

	return kept, nil
}

func (p *Pipeline) load(ctx context.Context, log *logger.Logger, stats *Stats, records []models.Record, clearIndex bool) error {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(metrics.StageLoad, time.Since(start)) }()

	if len(records) == 0 {
		log.Warn("No records to upload")

		return nil
	}

	if p.loader == nil {
		return ErrNoLoader
	}

	log.Info("Configuring search index")

	if err := p.loader.CreateIndex(ctx, nil); err != nil {
		return err
	}

	log.Info("Uploading records", "count", len(records))

	result, err := p.loader.Upload(ctx, records, clearIndex)
	if result != nil {
		stats.Uploaded = result.Uploaded
		stats.Failed = result.Errors
		p.metrics.RecordRecords(metrics.StageLoad, "all", result.Uploaded)
	}

	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if stats.Failed > 0 {
		log.Warn(stats.warnf("%d records failed to upload", stats.Failed))
	}

	return nil
}

func (p *Pipeline) logSummary(log *logger.Logger, stats *Stats) {
	total := 0
	for _, n := range stats.Extracted {
		total += n
	}

	log.Info("Pipeline execution summary",
		"extracted", total,
		"normalized", stats.Normalized,
		"tagged", stats.Tagged,
		"mapped", stats.Mapped,
		"uploaded", stats.Uploaded,
		"failed", stats.Failed,
		"warnings", len(stats.Warnings),
		"errors", len(stats.Errors),
	)
}

// dedupeByObjectID keeps the first record of each objectID.
func dedupeByObjectID(records []models.Record) ([]models.Record, int) {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.Record, 0, len(records))

	for _, r := range records {
		id := r.String(models.FieldObjectID)
		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, r)
	}

	return out, len(records) - len(out)
}
