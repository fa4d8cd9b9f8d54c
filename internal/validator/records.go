// Package validator audits mapped records before they are uploaded.
package validator

import (
	"fmt"

	"speclogic/internal/models"
	"speclogic/internal/schema"
)

// TypeCount holds per component type audit counts.
type TypeCount struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Issue lists the problems found on one record.
type Issue struct {
	ObjectID string   `json:"objectID"`
	Errors   []string `json:"errors"`
}

// Report contains audit results.
type Report struct {
	Total   int                  `json:"total"`
	Valid   int                  `json:"valid"`
	Invalid int                  `json:"invalid"`
	ByType  map[string]TypeCount `json:"by_type"`
	Issues  []Issue              `json:"issues"`
}

// IsValid reports whether every record passed.
func (r *Report) IsValid() bool {
	return r.Invalid == 0
}

// ValidateRecords checks each record against the schema of its component type.
func ValidateRecords(records []models.Record) *Report {
	report := &Report{
		Total:  len(records),
		ByType: make(map[string]TypeCount),
		Issues: []Issue{},
	}

	for _, r := range records {
		typeName := r.String(models.FieldComponentType)
		errs := validateOne(r, typeName)

		counts := report.ByType[typeName]
		counts.Total++

		if len(errs) > 0 {
			counts.Invalid++
			report.Invalid++
			report.Issues = append(report.Issues, Issue{
				ObjectID: r.String(models.FieldObjectID),
				Errors:   errs,
			})
		} else {
			counts.Valid++
			report.Valid++
		}

		report.ByType[typeName] = counts
	}

	return report
}

func validateOne(r models.Record, typeName string) []string {
	var errs []string

	if r.String(models.FieldObjectID) == "" {
		errs = append(errs, "Missing objectID")
	}

	componentType, err := models.ParseComponentType(typeName)
	if err != nil {
		return append(errs, fmt.Sprintf("Unknown component type: %s", typeName))
	}

	return append(errs, schema.ValidateRecord(r, componentType)...)
}
