package search

import (
	"context"
	"fmt"
	"time"

	"speclogic/internal/config"
	"speclogic/internal/logger"
	"speclogic/internal/models"
)

// Recorder observes upload batches and retries.
type Recorder interface {
	ObserveBatch(ok bool)
	ObserveRetry()
}

type nopRecorder struct{}

func (nopRecorder) ObserveBatch(bool) {}
func (nopRecorder) ObserveRetry()     {}

// UploadResult contains the results of an upload operation.
type UploadResult struct {
	Index         string `json:"index"`
	Uploaded      int    `json:"uploaded"`
	Errors        int    `json:"errors"`
	Batches       int    `json:"batches"`
	FailedBatches []int  `json:"failed_batches,omitempty"`
}

// IndexStats summarizes the index contents.
type IndexStats struct {
	IndexName        string `json:"index_name"`
	NbHits           int    `json:"nb_hits"`
	ProcessingTimeMS int    `json:"processing_time_ms"`
}

// Loader manages index configuration and batch uploads.
type Loader struct {
	client       Client
	index        string
	batchSize    int
	waitForTasks bool
	retry        config.RetryPolicy
	recorder     Recorder
	sleep        func(ctx context.Context, d time.Duration) error
	logger       *logger.Logger
}

// NewLoader creates a loader backed by the hosted index REST client.
func NewLoader(cfg config.SearchConfig, log *logger.Logger) (*Loader, error) {
	client, err := NewAlgoliaClient(cfg, log)
	if err != nil {
		return nil, err
	}

	return NewLoaderWithClient(client, cfg, log)
}

// NewLoaderWithClient creates a loader with a custom client (useful for testing).
func NewLoaderWithClient(client Client, cfg config.SearchConfig, log *logger.Logger) (*Loader, error) {
	if cfg.IndexName == "" {
		return nil, ErrMissingIndexName
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}

	l := &Loader{
		client:       client,
		index:        cfg.IndexName,
		batchSize:    batchSize,
		waitForTasks: cfg.WaitForTasks,
		retry:        retry,
		recorder:     nopRecorder{},
		sleep:        sleepContext,
		logger:       logger.OrNop(log),
	}

	l.logger.Info("Initialized search loader", "index", l.index)

	return l, nil
}

// SetRecorder attaches an upload observer.
func (l *Loader) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}

	l.recorder = r
}

// SetSleep replaces the retry backoff wait.
func (l *Loader) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	l.sleep = fn
}

// IndexName returns the target index.
func (l *Loader) IndexName() string {
	return l.index
}

// CreateIndex applies settings, or DefaultSettings when settings is nil.
func (l *Loader) CreateIndex(ctx context.Context, settings *Settings) error {
	if settings == nil {
		settings = DefaultSettings()
	}

	l.logger.Info("Configuring index", "index", l.index)

	if err := l.applySettings(ctx, settings); err != nil {
		l.logger.Error("Failed to configure index", "index", l.index, "error", err)

		return fmt.Errorf("configure index %s: %w", l.index, err)
	}

	l.logger.Info("Index configured", "index", l.index)

	return nil
}

// ConfigureFacets replaces the faceting attributes.
func (l *Loader) ConfigureFacets(ctx context.Context, facets []string) error {
	l.logger.Info("Configuring facet attributes", "count", len(facets))

	return l.applySettings(ctx, &Settings{AttributesForFaceting: facets})
}

// ConfigureRanking replaces the custom ranking.
func (l *Loader) ConfigureRanking(ctx context.Context, customRanking []string) error {
	l.logger.Info("Configuring custom ranking", "ranking", customRanking)

	return l.applySettings(ctx, &Settings{CustomRanking: customRanking})
}

func (l *Loader) applySettings(ctx context.Context, settings *Settings) error {
	taskID, err := l.client.SetSettings(ctx, l.index, settings)
	if err != nil {
		return err
	}

	return l.wait(ctx, taskID)
}

// Upload sends records in batches. Each batch is sanitized and retried with
// backoff; a batch that exhausts its attempts is counted in Errors without
// stopping the remaining batches. A failed clear is only logged.
func (l *Loader) Upload(ctx context.Context, records []models.Record, clearExisting bool) (*UploadResult, error) {
	result := &UploadResult{Index: l.index}

	if len(records) == 0 {
		l.logger.Warn("No records to upload")

		return result, nil
	}

	l.logger.Info("Uploading records", "count", len(records), "index", l.index)

	if clearExisting {
		l.clearIndex(ctx)
	}

	result.Batches = (len(records) + l.batchSize - 1) / l.batchSize

	for start, batchNum := 0, 1; start < len(records); start, batchNum = start+l.batchSize, batchNum+1 {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := min(start+l.batchSize, len(records))
		batch := records[start:end]

		l.logger.Info("Uploading batch", "batch", batchNum, "of", result.Batches, "records", len(batch))

		if err := l.uploadBatchWithRetry(ctx, batch); err != nil {
			l.logger.Error("Failed to upload batch", "batch", batchNum, "error", err)
			l.recorder.ObserveBatch(false)

			result.Errors += len(batch)
			result.FailedBatches = append(result.FailedBatches, batchNum)

			continue
		}

		l.recorder.ObserveBatch(true)
		result.Uploaded += len(batch)
	}

	l.logger.Info("Upload complete", "uploaded", result.Uploaded, "errors", result.Errors)

	return result, nil
}

func (l *Loader) uploadBatchWithRetry(ctx context.Context, batch []models.Record) error {
	var lastErr error

	for attempt := 1; attempt <= l.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			l.recorder.ObserveRetry()

			if err := l.sleep(ctx, l.retry.GetRetryDelay(attempt)); err != nil {
				return err
			}
		}

		lastErr = l.saveBatch(ctx, SanitizeBatch(batch))
		if lastErr == nil {
			return nil
		}

		if attempt < l.retry.MaxAttempts {
			l.logger.Warn("Upload attempt failed",
				"attempt", attempt,
				"retry_in", l.retry.GetRetryDelay(attempt+1).String(),
				"error", lastErr,
			)
		}
	}

	return fmt.Errorf("batch failed after %d attempts: %w", l.retry.MaxAttempts, lastErr)
}

func (l *Loader) saveBatch(ctx context.Context, batch []models.Record) error {
	taskIDs, err := l.client.SaveObjects(ctx, l.index, batch)
	if err != nil {
		return err
	}

	for _, id := range taskIDs {
		if err := l.wait(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

func (l *Loader) clearIndex(ctx context.Context) {
	l.logger.Info("Clearing index", "index", l.index)

	taskID, err := l.client.ClearObjects(ctx, l.index)
	if err == nil {
		err = l.wait(ctx, taskID)
	}

	if err != nil {
		l.logger.Warn("Failed to clear index", "index", l.index, "error", err)

		return
	}

	l.logger.Info("Index cleared", "index", l.index)
}

func (l *Loader) wait(ctx context.Context, taskID int64) error {
	if !l.waitForTasks {
		return nil
	}

	return l.client.WaitForTask(ctx, l.index, taskID)
}

// Search queries the index. HitsPerPage defaults to 20.
func (l *Loader) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if params.HitsPerPage <= 0 {
		params.HitsPerPage = 20
	}

	return l.client.Search(ctx, l.index, params)
}

// Stats runs an empty query to report the record count.
func (l *Loader) Stats(ctx context.Context) (*IndexStats, error) {
	resp, err := l.client.Search(ctx, l.index, SearchParams{})
	if err != nil {
		l.logger.Error("Failed to get index stats", "index", l.index, "error", err)

		return nil, fmt.Errorf("index stats: %w", err)
	}

	return &IndexStats{
		IndexName:        l.index,
		NbHits:           resp.NbHits,
		ProcessingTimeMS: resp.ProcessingTimeMS,
	}, nil
}

// DeleteIndex removes the index entirely.
func (l *Loader) DeleteIndex(ctx context.Context) error {
	l.logger.Warn("Deleting index", "index", l.index)

	if _, err := l.client.DeleteIndex(ctx, l.index); err != nil {
		return fmt.Errorf("delete index %s: %w", l.index, err)
	}

	l.logger.Info("Index deleted", "index", l.index)

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
