package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/call"
	algolia "github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/algolia/algoliasearch-client-go/v4/algolia/transport"

	"speclogic/internal/config"
	"speclogic/internal/logger"
	"speclogic/internal/models"
	"speclogic/pkg/utils"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxPolls     = 240
)

// Ensure AlgoliaClient implements Client.
var _ Client = (*AlgoliaClient)(nil)

// AlgoliaClient adapts the Algolia search SDK to Client.
type AlgoliaClient struct {
	api          *algolia.APIClient
	pollInterval time.Duration
	maxPolls     int
	logger       *logger.Logger
}

// NewAlgoliaClient creates a client from cfg. Missing credentials fail
// immediately with ErrMissingCredentials. A non-empty cfg.BaseURL replaces
// the SDK's default host list with that single host.
func NewAlgoliaClient(cfg config.SearchConfig, log *logger.Logger) (*AlgoliaClient, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, ErrMissingCredentials
	}

	hosts, err := customHosts(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Retry.GetTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	api, err := algolia.NewClientWithConfig(algolia.SearchConfiguration{
		Configuration: transport.Configuration{
			AppID:        cfg.AppID,
			ApiKey:       cfg.APIKey,
			Hosts:        hosts,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	return &AlgoliaClient{
		api:          api,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
		logger:       logger.OrNop(log),
	}, nil
}

func customHosts(baseURL string) ([]transport.StatefulHost, error) {
	if baseURL == "" {
		return nil, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBaseURL, baseURL)
	}

	return []transport.StatefulHost{transport.NewStatefulHost(u.Scheme, u.Host, call.IsReadWrite)}, nil
}

// SetPolling overrides how WaitForTask polls task status.
func (c *AlgoliaClient) SetPolling(interval time.Duration, maxPolls int) {
	c.pollInterval = interval
	c.maxPolls = maxPolls
}

// SaveObjects adds or replaces objects by objectID in one batch request.
func (c *AlgoliaClient) SaveObjects(ctx context.Context, index string, objects []models.Record) ([]int64, error) {
	requests := make([]algolia.BatchRequest, len(objects))
	for i, obj := range objects {
		requests[i] = *algolia.NewBatchRequest(algolia.ACTION_UPDATE_OBJECT, map[string]any(obj))
	}

	c.logger.Debug("Search API batch", "index", index, "objects", len(objects))

	resp, err := c.api.Batch(
		c.api.NewApiBatchRequest(index, algolia.NewBatchWriteParams(requests)),
		algolia.WithContext(ctx),
	)
	if err != nil {
		return nil, c.wrap("batch", index, err)
	}

	return []int64{resp.TaskID}, nil
}

// ClearObjects removes every record but keeps the index settings.
func (c *AlgoliaClient) ClearObjects(ctx context.Context, index string) (int64, error) {
	resp, err := c.api.ClearObjects(c.api.NewApiClearObjectsRequest(index), algolia.WithContext(ctx))
	if err != nil {
		return 0, c.wrap("clear", index, err)
	}

	return resp.TaskID, nil
}

// SetSettings applies the non-empty fields of settings.
func (c *AlgoliaClient) SetSettings(ctx context.Context, index string, settings *Settings) (int64, error) {
	resp, err := c.api.SetSettings(
		c.api.NewApiSetSettingsRequest(index, indexSettings(settings)),
		algolia.WithContext(ctx),
	)
	if err != nil {
		return 0, c.wrap("settings", index, err)
	}

	return resp.TaskID, nil
}

// WaitForTask polls until the task is published.
func (c *AlgoliaClient) WaitForTask(ctx context.Context, index string, taskID int64) error {
	for poll := 0; poll < c.maxPolls; poll++ {
		resp, err := c.api.GetTask(c.api.NewApiGetTaskRequest(index, taskID), algolia.WithContext(ctx))
		if err != nil {
			return c.wrap("task", index, err)
		}

		if resp.GetStatus() == algolia.TASK_STATUS_PUBLISHED {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return fmt.Errorf("%w: task %d on %s", ErrTaskTimeout, taskID, index)
}

// Search runs a query against index.
func (c *AlgoliaClient) Search(ctx context.Context, index string, params SearchParams) (*SearchResponse, error) {
	query := algolia.NewEmptySearchParamsObject().SetQuery(params.Query)
	if params.Filters != "" {
		query.SetFilters(params.Filters)
	}

	if len(params.Facets) > 0 {
		query.SetFacets(params.Facets)
	}

	if params.HitsPerPage > 0 {
		query.SetHitsPerPage(int32(params.HitsPerPage))
	}

	resp, err := c.api.SearchSingleIndex(
		c.api.NewApiSearchSingleIndexRequest(index).WithSearchParams(algolia.SearchParamsObjectAsSearchParams(query)),
		algolia.WithContext(ctx),
	)
	if err != nil {
		return nil, c.wrap("query", index, err)
	}

	return searchResponse(resp)
}

// DeleteIndex removes the index with its settings.
func (c *AlgoliaClient) DeleteIndex(ctx context.Context, index string) (int64, error) {
	resp, err := c.api.DeleteIndex(c.api.NewApiDeleteIndexRequest(index), algolia.WithContext(ctx))
	if err != nil {
		return 0, c.wrap("delete", index, err)
	}

	return resp.TaskID, nil
}

// wrap maps SDK API errors onto ErrUnexpectedStatusCode.
func (c *AlgoliaClient) wrap(op, index string, err error) error {
	var apiErr *algolia.APIError
	if errors.As(err, &apiErr) {
		c.logger.Error("Search API request failed", "op", op, "index", index, "status", apiErr.Status)
		snippet := utils.NewStringHelper().TruncateString(apiErr.Message, 200)

		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, apiErr.Status, snippet)
	}

	return fmt.Errorf("search %s on %s failed: %w", op, index, err)
}

func indexSettings(s *Settings) *algolia.IndexSettings {
	out := algolia.NewEmptyIndexSettings()
	if s == nil {
		return out
	}

	if len(s.SearchableAttributes) > 0 {
		out.SetSearchableAttributes(s.SearchableAttributes)
	}

	if len(s.AttributesForFaceting) > 0 {
		out.SetAttributesForFaceting(s.AttributesForFaceting)
	}

	if len(s.CustomRanking) > 0 {
		out.SetCustomRanking(s.CustomRanking)
	}

	if len(s.Ranking) > 0 {
		out.SetRanking(s.Ranking)
	}

	if s.HighlightPreTag != "" {
		out.SetHighlightPreTag(s.HighlightPreTag)
	}

	if s.HighlightPostTag != "" {
		out.SetHighlightPostTag(s.HighlightPostTag)
	}

	if s.HitsPerPage > 0 {
		out.SetHitsPerPage(int32(s.HitsPerPage))
	}

	if s.MaxValuesPerFacet > 0 {
		out.SetMaxValuesPerFacet(int32(s.MaxValuesPerFacet))
	}

	return out
}

// searchResponse flattens SDK hits into plain records. Hit marshals its
// additional properties next to objectID, so a JSON round trip keeps every
// stored attribute.
func searchResponse(resp *algolia.SearchResponse) (*SearchResponse, error) {
	out := &SearchResponse{
		Hits:             make([]map[string]any, 0, len(resp.GetHits())),
		NbHits:           int(resp.GetNbHits()),
		ProcessingTimeMS: int(resp.GetProcessingTimeMS()),
	}

	for _, hit := range resp.GetHits() {
		data, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("failed to encode hit: %w", err)
		}

		var record map[string]any
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to decode hit: %w", err)
		}

		out.Hits = append(out.Hits, record)
	}

	if facets := resp.GetFacets(); len(facets) > 0 {
		out.Facets = make(map[string]map[string]int, len(facets))
		for name, counts := range facets {
			values := make(map[string]int, len(counts))
			for value, n := range counts {
				values[value] = int(n)
			}

			out.Facets[name] = values
		}
	}

	return out, nil
}
