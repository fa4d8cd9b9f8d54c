// Package metadata signs snapshot files with checksum sidecars and verifies them.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the sidecar format version written by Sign.
const Version = "1"

// SidecarSuffix is appended to a snapshot path to name its sidecar.
const SidecarSuffix = ".meta"

// Metadata verification errors.
var (
	ErrNoHashFound  = errors.New("no hash found in metadata")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Metadata describes one signed snapshot.
type Metadata struct {
	Version    string
	RunID      string
	Records    int
	LastModify time.Time
	Hash       string
}

// Parse reads KEY: VALUE lines. Unknown keys are ignored.
func Parse(content string) (*Metadata, error) {
	meta := &Metadata{}

	for _, line := range strings.Split(content, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch key {
		case "VERSION":
			meta.Version = val
		case "RUN_ID":
			meta.RunID = val
		case "RECORDS":
			if n, err := strconv.Atoi(val); err == nil {
				meta.Records = n
			}
		case "LAST_MODIFY":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.LastModify = t
			}
		case "HASH":
			meta.Hash = val
		}
	}

	if meta.Hash == "" {
		return nil, ErrNoHashFound
	}

	return meta, nil
}

// String renders the sidecar content.
func (m *Metadata) String() string {
	return fmt.Sprintf("VERSION: %s\nRUN_ID: %s\nRECORDS: %d\nLAST_MODIFY: %s\nHASH: %s\n",
		m.Version, m.RunID, m.Records, m.LastModify.UTC().Format(time.RFC3339), m.Hash)
}

// CalculateHash computes the SHA-256 hash of data.
func CalculateHash(data []byte) string {
	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:])
}

// Sign builds the metadata for data stamped with the current time.
func Sign(data []byte, runID string, records int) *Metadata {
	return &Metadata{
		Version:    Version,
		RunID:      runID,
		Records:    records,
		LastModify: time.Now().UTC(),
		Hash:       CalculateHash(data),
	}
}

// Verify checks data against the hash recorded in meta.
func Verify(data []byte, meta *Metadata) error {
	if meta == nil || meta.Hash == "" {
		return ErrNoHashFound
	}

	calculated := CalculateHash(data)
	if calculated != meta.Hash {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return nil
}

// SidecarPath returns the sidecar location for a snapshot.
func SidecarPath(path string) string {
	return path + SidecarSuffix
}

// WriteSidecar signs data and writes the sidecar next to path.
func WriteSidecar(path string, data []byte, runID string, records int) (*Metadata, error) {
	meta := Sign(data, runID, records)

	if err := os.WriteFile(SidecarPath(path), []byte(meta.String()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write sidecar: %w", err)
	}

	return meta, nil
}

// VerifyFile reads a snapshot and its sidecar and checks the hash. The
// snapshot bytes are returned so callers do not read the file twice.
func VerifyFile(path string) ([]byte, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	sidecar, err := os.ReadFile(SidecarPath(path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sidecar: %w", err)
	}

	meta, err := Parse(string(sidecar))
	if err != nil {
		return nil, nil, err
	}

	if err := Verify(data, meta); err != nil {
		return nil, meta, err
	}

	return data, meta, nil
}
