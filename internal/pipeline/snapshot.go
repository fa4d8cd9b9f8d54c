package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"speclogic/internal/models"
	"speclogic/internal/search"
	"speclogic/pkg/metadata"
)

// SnapshotSuffix follows the lower-cased component type in snapshot names.
const SnapshotSuffix = "_processed.json"

// SnapshotPath returns where the records of componentType are written under dir.
func SnapshotPath(dir string, componentType models.ComponentType) string {
	return filepath.Join(dir, componentType.Lower()+SnapshotSuffix)
}

// WriteSnapshot writes records as an indented JSON array with a signed sidecar.
// Non-finite floats are written as null.
func WriteSnapshot(dir string, componentType models.ComponentType, records []models.Record, runID string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := SnapshotPath(dir, componentType)

	data, err := json.MarshalIndent(search.SanitizeBatch(records), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s snapshot: %w", componentType, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s snapshot: %w", componentType, err)
	}

	if _, err := metadata.WriteSidecar(path, data, runID, len(records)); err != nil {
		return "", err
	}

	return path, nil
}

// LoadSnapshot verifies a snapshot against its sidecar and decodes it.
func LoadSnapshot(path string) ([]models.Record, *metadata.Metadata, error) {
	data, meta, err := metadata.VerifyFile(path)
	if err != nil {
		return nil, meta, fmt.Errorf("snapshot %s: %w", path, err)
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, meta, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	return records, meta, nil
}
