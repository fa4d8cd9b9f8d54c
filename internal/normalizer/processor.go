// Package normalizer canonicalizes raw component values (sockets, memory
// types, form factors, wattages, prices, clocks, flags) and derives object
// IDs and performance tiers.
package normalizer

import (
	"strings"

	"speclogic/internal/logger"
	"speclogic/internal/models"
)

// Columns the processor knows how to normalize.
var (
	tdpColumns   = []string{"tdp", "tdp_watts", "max_tdp_watts"}
	priceColumns = []string{"price", "price_usd", "msrp"}
	clockColumns = []string{"base_clock", "boost_clock", "base_clock_ghz", "boost_clock_ghz"}
	boolColumns  = []string{"integrated_graphics", "wifi", "bluetooth", "rgb"}
)

// Processor applies the scalar normalizers across whole records.
type Processor struct {
	logger *logger.Logger
}

// NewProcessor creates a new processor instance. A nil logger discards output.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{logger: logger.OrNop(log)}
}

// NormalizeRecords normalizes every record and returns new records in the same order.
func (p *Processor) NormalizeRecords(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = p.NormalizeRecord(r)
	}

	p.logger.Info("Normalized records", "count", len(out))

	return out
}

// NormalizeRecord returns a normalized copy of r. Columns that are absent
// stay absent; values that cannot be parsed become nil.
func (p *Processor) NormalizeRecord(r models.Record) models.Record {
	out := r.Clone()

	p.apply(out, "socket", func(v any) (any, bool) { return NormalizeSocket(v) })
	p.apply(out, "form_factor", func(v any) (any, bool) { return NormalizeFormFactor(v) })

	if v, ok := out["memory_type"]; ok {
		out["memory_type"] = p.memoryTypes(v)
	}

	for _, col := range tdpColumns {
		p.apply(out, col, func(v any) (any, bool) { return NormalizeTDP(v) })
	}

	for _, col := range priceColumns {
		p.apply(out, col, func(v any) (any, bool) { return NormalizePrice(v) })
	}

	for _, col := range clockColumns {
		p.apply(out, col, func(v any) (any, bool) { return NormalizeClockSpeed(v) })
	}

	for _, col := range boolColumns {
		if v, ok := out[col]; ok {
			out[col] = NormalizeBoolean(v)
		}
	}

	if !out.Has(models.FieldObjectID) {
		if id, ok := objectIDFor(out); ok {
			out[models.FieldObjectID] = id
		}
	}

	if !out.Has(models.FieldModel) {
		if name, ok := out.Get(models.FieldName); ok {
			out[models.FieldModel] = name
		}
	}

	if !out.Has(models.FieldPerformanceTier) {
		out[models.FieldPerformanceTier] = string(tierFor(out))
	}

	return out
}

// apply replaces column with its normalized value when the column is present.
func (p *Processor) apply(r models.Record, column string, normalize func(any) (any, bool)) {
	raw, ok := r[column]
	if !ok {
		return
	}

	v, ok := normalize(raw)
	if !ok {
		if !models.IsNull(raw) {
			p.logger.Debug("Could not parse value", "column", column, "value", raw)
		}

		r[column] = nil

		return
	}

	r[column] = v
}

// memoryTypes normalizes a single memory type, a list of them, or a
// comma-separated string. Lists come back de-duplicated in input order.
func (p *Processor) memoryTypes(raw any) any {
	var parts []any

	switch v := raw.(type) {
	case []any:
		parts = v
	case []string:
		for _, s := range v {
			parts = append(parts, s)
		}
	case string:
		if !strings.Contains(v, ",") {
			if mt, ok := NormalizeMemoryType(v); ok {
				return mt
			}

			return nil
		}

		for _, s := range strings.Split(v, ",") {
			parts = append(parts, s)
		}
	default:
		if mt, ok := NormalizeMemoryType(v); ok {
			return mt
		}

		return nil
	}

	seen := make(map[string]bool)
	out := make([]any, 0, len(parts))

	for _, part := range parts {
		mt, ok := NormalizeMemoryType(part)
		if !ok || seen[mt] {
			continue
		}

		seen[mt] = true
		out = append(out, mt)
	}

	return out
}

func objectIDFor(r models.Record) (string, bool) {
	componentType, ok := r.Get(models.FieldComponentType)
	if !ok {
		return "", false
	}

	brand, ok := r.Get(models.FieldBrand)
	if !ok {
		return "", false
	}

	model, ok := r.Get(models.FieldModel)
	if !ok {
		if model, ok = r.Get(models.FieldName); !ok {
			return "", false
		}
	}

	return GenerateObjectID(
		models.Stringify(componentType),
		models.Stringify(brand),
		models.Stringify(model),
	), true
}

func tierFor(r models.Record) models.Tier {
	componentType, err := models.ParseComponentType(r.String(models.FieldComponentType))
	if err != nil {
		return models.TierMidRange
	}

	price := firstNumber(r, "price_usd", "price")
	tdp := firstNumber(r, "tdp_watts", "tdp")

	return DerivePerformanceTier(componentType, price, tdp)
}

func firstNumber(r models.Record, columns ...string) *float64 {
	for _, col := range columns {
		v, ok := r.Get(col)
		if !ok {
			continue
		}

		if f, ok := models.ToFloat(v); ok {
			return &f
		}
	}

	return nil
}
