package extractor

import (
	"context"
	"errors"
	"fmt"

	"speclogic/internal/models"
)

// Source is anything that yields raw records for one component type.
type Source interface {
	Extract(ctx context.Context, componentType models.ComponentType) ([]models.Record, error)
}

// MultiSource concatenates several sources in order. A source without data
// for a type is skipped; any other error stops the extraction.
type MultiSource struct {
	sources []Source
}

// NewMultiSource returns a source reading from each of sources in turn.
func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

// Extract returns the records of every source that has componentType data.
// It wraps ErrSourceNotFound only when none of them do.
func (m *MultiSource) Extract(ctx context.Context, componentType models.ComponentType) ([]models.Record, error) {
	var (
		records  []models.Record
		found    bool
		notFound []error
	)

	for _, src := range m.sources {
		recs, err := src.Extract(ctx, componentType)
		if errors.Is(err, ErrSourceNotFound) {
			notFound = append(notFound, err)

			continue
		}

		if err != nil {
			return nil, err
		}

		found = true
		records = append(records, recs...)
	}

	if !found {
		if len(notFound) == 0 {
			return nil, fmt.Errorf("%s: no sources configured: %w", componentType, ErrSourceNotFound)
		}

		return nil, errors.Join(notFound...)
	}

	return records, nil
}
