package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speclogic/internal/models"
)

type stubSource struct {
	records []models.Record
	err     error
}

func (s stubSource) Extract(context.Context, models.ComponentType) ([]models.Record, error) {
	return s.records, s.err
}

func TestMultiSource_Concatenates(t *testing.T) {
	missing := stubSource{err: ErrSourceNotFound}
	first := stubSource{records: []models.Record{{"objectID": "a"}}}
	second := stubSource{records: []models.Record{{"objectID": "b"}, {"objectID": "c"}}}

	records, err := NewMultiSource(first, missing, second).Extract(context.Background(), models.CPU)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0]["objectID"])
	assert.Equal(t, "c", records[2]["objectID"])
}

func TestMultiSource_EmptySourceCounts(t *testing.T) {
	records, err := NewMultiSource(stubSource{records: []models.Record{}}).Extract(context.Background(), models.GPU)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMultiSource_NothingFound(t *testing.T) {
	_, err := NewMultiSource(stubSource{err: ErrSourceNotFound}, stubSource{err: ErrSourceNotFound}).
		Extract(context.Background(), models.Case)
	assert.True(t, errors.Is(err, ErrSourceNotFound))

	_, err = NewMultiSource().Extract(context.Background(), models.Case)
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}

func TestMultiSource_StopsOnError(t *testing.T) {
	broken := stubSource{err: &SourceError{Type: models.RAM, Path: "ram.csv", Err: errors.New("bad quote")}}
	after := stubSource{records: []models.Record{{"objectID": "x"}}}

	_, err := NewMultiSource(broken, after).Extract(context.Background(), models.RAM)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "ram.csv", srcErr.Path)
}
