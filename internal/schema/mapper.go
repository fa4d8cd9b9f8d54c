package schema

import (
	"fmt"

	"speclogic/internal/logger"
	"speclogic/internal/models"
)

// Mapper validates tagged records against their schema and coerces field types.
type Mapper struct {
	logger *logger.Logger
}

// NewMapper creates a mapper. A nil logger discards output.
func NewMapper(log *logger.Logger) *Mapper {
	return &Mapper{logger: logger.OrNop(log)}
}

// MapRecord returns a new record holding only the schema fields of
// componentType that were present or defaulted, coerced to their declared
// types. A missing or uncoercible required field rejects the record.
func (m *Mapper) MapRecord(r models.Record, componentType models.ComponentType) (models.Record, error) {
	s, ok := Lookup(componentType)
	if !ok {
		m.logger.Warn("Unknown component type", "component_type", componentType.String())

		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, componentType)
	}

	source := models.ApplyAliases(r)
	out := make(models.Record, len(s.Fields))

	for _, f := range s.Fields {
		v, present := source.Get(f.Name)
		if !present {
			switch {
			case f.HasDefault():
				v = f.Default
			case f.Required:
				return nil, fmt.Errorf("%w: %s", ErrMissingRequiredField, f.Name)
			default:
				continue
			}
		}

		coerced, err := Coerce(v, f.Type)
		if err != nil {
			if f.Required {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}

			m.logger.Debug("Dropping optional field", "field", f.Name, "error", err)

			continue
		}

		out[f.Name] = coerced
	}

	return out, nil
}

// MapRecords maps a batch whose component type is taken from the first
// record. Records that fail to map are dropped. An empty slice is returned
// when the batch type cannot be determined.
func (m *Mapper) MapRecords(records []models.Record) []models.Record {
	if len(records) == 0 {
		return []models.Record{}
	}

	name := records[0].String(models.FieldComponentType)

	componentType, err := models.ParseComponentType(name)
	if err != nil {
		m.logger.Error("Cannot map batch without a known component_type", "component_type", name)

		return []models.Record{}
	}

	out := make([]models.Record, 0, len(records))

	for _, r := range records {
		mapped, err := m.MapRecord(r, componentType)
		if err != nil {
			m.logger.Debug("Skipping invalid record", "model", modelOf(r), "error", err)

			continue
		}

		out = append(out, mapped)
	}

	m.logger.Info("Mapped records",
		"component_type", componentType.String(),
		"mapped", len(out),
		"total", len(records),
	)

	return out
}

// ValidateRecord checks required fields without coercing. It returns one
// message per missing or empty field.
func ValidateRecord(r models.Record, componentType models.ComponentType) []string {
	s, ok := Lookup(componentType)
	if !ok {
		return []string{fmt.Sprintf("Unknown component type: %s", componentType)}
	}

	var errs []string

	for _, f := range s.Fields {
		if !f.Required {
			continue
		}

		v, ok := r.Get(f.Name)
		if str, isString := v.(string); !ok || (isString && str == "") {
			errs = append(errs, "Missing required field: "+f.Name)
		}
	}

	return errs
}

func modelOf(r models.Record) string {
	if model := r.String(models.FieldModel); model != "" {
		return model
	}

	return "unknown"
}
