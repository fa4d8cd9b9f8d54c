package extractor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"speclogic/internal/models"
)

// row is one CSV line keyed by trimmed header.
type row map[string]string

// text returns the trimmed cell, or false when it is absent or an NA marker.
func (r row) text(col string) (string, bool) {
	v, ok := r[col]
	if !ok {
		return "", false
	}

	v = strings.TrimSpace(v)
	if naMarkers[v] {
		return "", false
	}

	return v, true
}

// textOr returns the trimmed cell or fallback when it is missing.
func (r row) textOr(col, fallback string) string {
	if v, ok := r.text(col); ok {
		return v
	}

	return fallback
}

// number parses the cell after dropping unit suffixes such as "W" and "GHz".
func (r row) number(col string, units ...string) (float64, bool) {
	v, ok := r.text(col)
	if !ok {
		return 0, false
	}

	return parseNumber(v, units...)
}

func parseNumber(v string, units ...string) (float64, bool) {
	for _, unit := range units {
		v = strings.ReplaceAll(v, unit, "")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// integer truncates the parsed cell toward zero.
func (r row) integer(col string, units ...string) (int, bool) {
	f, ok := r.number(col, units...)
	if !ok {
		return 0, false
	}

	return int(f), true
}

// optionalInt returns the truncated cell or nil.
func (r row) optionalInt(col string, units ...string) any {
	if n, ok := r.integer(col, units...); ok {
		return n
	}

	return nil
}

// optionalFloat returns the parsed cell or nil.
func (r row) optionalFloat(col string, units ...string) any {
	if f, ok := r.number(col, units...); ok {
		return f
	}

	return nil
}

var yearPattern = regexp.MustCompile(`20[0-9]{2}|19[0-9]{2}`)

// year returns the first four-digit year in the cell.
func (r row) year(col string) (int, bool) {
	v, ok := r.text(col)
	if !ok {
		return 0, false
	}

	m := yearPattern.FindString(v)
	if m == "" {
		return 0, false
	}

	n, err := strconv.Atoi(m)

	return n, err == nil
}

// readTable reads a CSV file with a header line. A missing file wraps
// ErrSourceNotFound.
func readTable(ctx context.Context, componentType models.ComponentType, path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s data file %s: %w", componentType, path, ErrSourceNotFound)
		}

		return nil, &SourceError{Type: componentType, Path: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []row{}, nil
		}

		return nil, &SourceError{Type: componentType, Path: path, Err: fmt.Errorf("reading header: %w", err)}
	}

	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]row, 0)

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, &SourceError{Type: componentType, Path: path, Err: fmt.Errorf("reading line %d: %w", line, err)}
		}

		r := make(row, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				r[h] = cells[i]
			}
		}

		rows = append(rows, r)
	}

	return rows, nil
}

// nilIfEmpty maps "" to nil so absent text cells stay null.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}
