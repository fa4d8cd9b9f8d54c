// Package search uploads component records to the hosted search index and
// queries it.
package search

import (
	"context"
	"errors"

	"speclogic/internal/models"
)

// Search service errors.
var (
	ErrMissingCredentials   = errors.New("search credentials not found: set ALGOLIA_APP_ID and ALGOLIA_ADMIN_KEY")
	ErrMissingIndexName     = errors.New("search index name is required")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrTaskTimeout          = errors.New("timed out waiting for index task")
)

// Client defines the operations the loader needs from the index service.
type Client interface {
	SaveObjects(ctx context.Context, index string, objects []models.Record) ([]int64, error)
	ClearObjects(ctx context.Context, index string) (int64, error)
	SetSettings(ctx context.Context, index string, settings *Settings) (int64, error)
	WaitForTask(ctx context.Context, index string, taskID int64) error
	Search(ctx context.Context, index string, params SearchParams) (*SearchResponse, error)
	DeleteIndex(ctx context.Context, index string) (int64, error)
}

// SearchParams is a single-index query.
type SearchParams struct {
	Query       string   `json:"query"`
	Filters     string   `json:"filters,omitempty"`
	Facets      []string `json:"facets,omitempty"`
	HitsPerPage int      `json:"hitsPerPage"`
}

// SearchResponse is the subset of a query response the pipeline reads.
type SearchResponse struct {
	Hits             []map[string]any          `json:"hits"`
	NbHits           int                       `json:"nbHits"`
	Facets           map[string]map[string]int `json:"facets,omitempty"`
	ProcessingTimeMS int                       `json:"processingTimeMS"`
}
