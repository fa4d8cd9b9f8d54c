// Package extractor reads raw component records from per-type CSV files.
package extractor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"speclogic/internal/logger"
	"speclogic/internal/models"
)

var ErrSourceNotFound = errors.New("source file not found")

// SourceError reports a source that exists but cannot be used for its type.
type SourceError struct {
	Type    models.ComponentType
	Path    string
	Missing []string
	Err     error
}

func (e *SourceError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s source %s: missing required columns: %s", e.Type, e.Path, strings.Join(e.Missing, ", "))
	}

	return fmt.Sprintf("%s source %s: %v", e.Type, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

var fileNames = map[models.ComponentType]string{
	models.CPU:         "cpus.csv",
	models.GPU:         "gpus.csv",
	models.Motherboard: "motherboards.csv",
	models.RAM:         "ram.csv",
	models.PSU:         "psus.csv",
	models.Case:        "cases.csv",
	models.Cooler:      "coolers.csv",
}

var requiredColumns = map[models.ComponentType][]string{
	models.CPU: {"name", "brand", "cores", "threads"},
	models.GPU: {"name", "brand", "vram"},
}

// naMarkers are cells read as missing values.
var naMarkers = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "#N/A": true, "NaN": true, "nan": true,
	"-NaN": true, "null": true, "NULL": true, "None": true, "<NA>": true,
}

// FileName returns the CSV file name read for componentType.
func FileName(componentType models.ComponentType) string {
	return fileNames[componentType]
}

// RequiredColumns returns the header columns a source must carry.
func RequiredColumns(componentType models.ComponentType) []string {
	return append([]string(nil), requiredColumns[componentType]...)
}

// CSVSource reads {Dir}/{file name} for each component type.
type CSVSource struct {
	Dir    string
	logger *logger.Logger
}

// NewCSVSource creates a source rooted at dir. A nil logger discards output.
func NewCSVSource(dir string, log *logger.Logger) *CSVSource {
	return &CSVSource{Dir: dir, logger: logger.OrNop(log)}
}

// Path returns the file read for componentType.
func (s *CSVSource) Path(componentType models.ComponentType) string {
	return filepath.Join(s.Dir, FileName(componentType))
}

// Extract returns every row of the componentType file as a record tagged
// with component_type. A missing file wraps ErrSourceNotFound; missing
// required columns or malformed CSV yield a *SourceError.
func (s *CSVSource) Extract(ctx context.Context, componentType models.ComponentType) ([]models.Record, error) {
	if !componentType.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownComponentType, int(componentType))
	}

	path := s.Path(componentType)
	s.logger.Info("Extracting records", "component_type", componentType.String(), "path", path)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s data file %s: %w", componentType, path, ErrSourceNotFound)
		}

		return nil, &SourceError{Type: componentType, Path: path, Err: err}
	}
	defer f.Close()

	records, err := s.read(ctx, componentType, path, f)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Extracted records", "component_type", componentType.String(), "count", len(records))

	return records, nil
}

func (s *CSVSource) read(ctx context.Context, componentType models.ComponentType, path string, r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return s.emptySource(componentType, path)
		}

		return nil, &SourceError{Type: componentType, Path: path, Err: fmt.Errorf("reading header: %w", err)}
	}

	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	if missing := missingColumns(headers, requiredColumns[componentType]); len(missing) > 0 {
		return nil, &SourceError{Type: componentType, Path: path, Missing: missing}
	}

	records := make([]models.Record, 0)

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, &SourceError{Type: componentType, Path: path, Err: fmt.Errorf("reading line %d: %w", line, err)}
		}

		record := make(models.Record, len(headers)+1)

		for i, header := range headers {
			if i < len(row) {
				record[header] = InferCell(row[i])
			} else {
				record[header] = nil
			}
		}

		record[models.FieldComponentType] = componentType.String()
		records = append(records, record)
	}

	return records, nil
}

// emptySource handles a file with no header row.
func (s *CSVSource) emptySource(componentType models.ComponentType, path string) ([]models.Record, error) {
	if missing := requiredColumns[componentType]; len(missing) > 0 {
		return nil, &SourceError{Type: componentType, Path: path, Missing: RequiredColumns(componentType)}
	}

	s.logger.Warn("Data file is empty", "path", path)

	return []models.Record{}, nil
}

func missingColumns(headers, required []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string

	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}

	return missing
}

// InferCell converts a CSV cell the way a dataframe reader would: NA
// markers become nil, then integers, finite floats and booleans are parsed.
func InferCell(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if naMarkers[trimmed] {
		return nil
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}

	return cell
}
