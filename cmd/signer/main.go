// Package main provides the signer command-line tool for signing and
// verifying processed snapshot files with metadata sidecars.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"speclogic/internal/models"
	"speclogic/internal/pipeline"
	"speclogic/internal/validator"
	"speclogic/pkg/metadata"
)

func main() {
	inputPath := flag.String("input", "", "Snapshot file or directory of *"+pipeline.SnapshotSuffix+" files")
	verifyOnly := flag.Bool("verify", false, "Only verify existing sidecars")
	runID := flag.String("run-id", "manual", "Run ID recorded when signing")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: signer -input <path> [-verify] [-run-id <id>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	files, err := snapshotFiles(*inputPath)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	failed := 0

	for _, path := range files {
		if *verifyOnly {
			if _, meta, verr := metadata.VerifyFile(path); verr != nil {
				fmt.Printf("❌ %s: %v\n", path, verr)
				failed++
			} else {
				fmt.Printf("✅ %s: %d records, run %s, signed %s\n",
					path, meta.Records, meta.RunID, meta.LastModify.Format("2006-01-02 15:04:05"))
			}

			continue
		}

		if serr := signFile(path, *runID); serr != nil {
			fmt.Printf("❌ %s: %v\n", path, serr)
			failed++
		}
	}

	if failed > 0 {
		fmt.Printf("❌ %d of %d files failed\n", failed, len(files))
		os.Exit(1)
	}
}

func signFile(path, runID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	fmt.Printf("📂 Reading: %s (%d bytes)\n", path, len(data))

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	report := validator.ValidateRecords(records)
	if !report.IsValid() {
		for _, issue := range report.Issues {
			fmt.Printf("  - %s: %s\n", issue.ObjectID, strings.Join(issue.Errors, "; "))
		}

		return fmt.Errorf("%d of %d records failed validation", report.Invalid, report.Total)
	}

	fmt.Println("✅ Validation Passed")
	fmt.Println("✍️  Signing file...")

	meta, err := metadata.WriteSidecar(path, data, runID, len(records))
	if err != nil {
		return err
	}

	fmt.Printf("✅ Signed %s (hash %s)\n", metadata.SidecarPath(path), meta.Hash)

	return nil
}

func snapshotFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := filepath.Glob(filepath.Join(path, "*"+pipeline.SnapshotSuffix))
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no snapshots found in %s", path)
	}

	return files, nil
}
