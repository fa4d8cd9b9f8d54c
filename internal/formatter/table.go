// Package formatter renders run reports as display-width aware tables.
package formatter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"speclogic/internal/pipeline"
	"speclogic/internal/validator"
)

// Table is a header row plus body rows. Short rows are padded with empty cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a body row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render draws the table with pipes, padding cells by display width.
// Columns whose body cells are all numeric are right aligned.
func (t *Table) Render() string {
	colCount := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	colWidths := make([]int, colCount)
	numeric := make([]bool, colCount)

	for i := range numeric {
		numeric[i] = len(t.Rows) > 0
	}

	measure := func(row []string, body bool) {
		for i := 0; i < colCount; i++ {
			cell := cellAt(row, i)
			if w := runewidth.StringWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}

			if body && !isNumber(cell) {
				numeric[i] = false
			}
		}
	}

	measure(t.Headers, false)

	for _, row := range t.Rows {
		measure(row, true)
	}

	// Ensure min width for separator
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder

	writeRow(&sb, t.Headers, colWidths, nil)

	sb.WriteString("|")

	for _, w := range colWidths {
		sb.WriteString(" " + strings.Repeat("-", w) + " |")
	}

	sb.WriteString("\n")

	for _, row := range t.Rows {
		writeRow(&sb, row, colWidths, numeric)
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, colWidths []int, rightAlign []bool) {
	sb.WriteString("|")

	for i, width := range colWidths {
		content := cellAt(row, i)
		padding := strings.Repeat(" ", max(width-runewidth.StringWidth(content), 0))

		sb.WriteString(" ")

		if rightAlign != nil && rightAlign[i] {
			sb.WriteString(padding + content)
		} else {
			sb.WriteString(content + padding)
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}

	return ""
}

func isNumber(s string) bool {
	if s == "" {
		return true
	}

	_, err := strconv.ParseFloat(s, 64)

	return err == nil
}

// CountTable renders a two column table of counts sorted by key.
func CountTable(keyHeader, valueHeader string, counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	t := &Table{Headers: []string{keyHeader, valueHeader}}
	for _, k := range keys {
		t.AddRow(k, strconv.Itoa(counts[k]))
	}

	return t.Render()
}

// AuditTable renders the per type totals of an audit report.
func AuditTable(report *validator.Report) string {
	keys := make([]string, 0, len(report.ByType))
	for k := range report.ByType {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	t := &Table{Headers: []string{"Type", "Total", "Valid", "Invalid"}}

	for _, k := range keys {
		c := report.ByType[k]
		t.AddRow(k, strconv.Itoa(c.Total), strconv.Itoa(c.Valid), strconv.Itoa(c.Invalid))
	}

	t.AddRow("All", strconv.Itoa(report.Total), strconv.Itoa(report.Valid), strconv.Itoa(report.Invalid))

	return t.Render()
}

// StageTable renders the record count after each pipeline stage.
func StageTable(stats *pipeline.Stats, dryRun bool) string {
	uploaded := "Uploaded"
	if dryRun {
		uploaded = "Uploaded (dry run)"
	}

	t := &Table{Headers: []string{"Stage", "Records"}}
	t.AddRow("Extracted", strconv.Itoa(stats.TotalExtracted))
	t.AddRow("Normalized", strconv.Itoa(stats.Normalized))
	t.AddRow("Tagged", strconv.Itoa(stats.Tagged))
	t.AddRow("Mapped", strconv.Itoa(stats.Mapped))
	t.AddRow(uploaded, strconv.Itoa(stats.Uploaded))
	t.AddRow("Failed", strconv.Itoa(stats.Failed))

	return t.Render()
}
