package search

import (
	"math"

	"speclogic/internal/models"
)

// SanitizeRecord returns a copy of r with NaN and infinite floats replaced by
// nil, descending into nested maps and lists.
func SanitizeRecord(r models.Record) models.Record {
	out := make(models.Record, len(r))
	for k, v := range r {
		out[k] = sanitizeValue(v)
	}

	return out
}

// SanitizeBatch sanitizes every record of batch.
func SanitizeBatch(batch []models.Record) []models.Record {
	out := make([]models.Record, len(batch))
	for i, r := range batch {
		out[i] = SanitizeRecord(r)
	}

	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil
		}
	case models.Record:
		return SanitizeRecord(val)
	case map[string]any:
		return map[string]any(SanitizeRecord(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}

		return out
	case []float64:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}

		return out
	}

	return v
}
