// Package main provides the normalizer command-line tool for transforming one
// component extract into index-ready records without uploading.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"speclogic/internal/crawler"
	"speclogic/internal/extractor"
	"speclogic/internal/logger"
	"speclogic/internal/models"
	"speclogic/internal/normalizer"
	"speclogic/internal/schema"
	"speclogic/internal/search"
	"speclogic/internal/tagger"
)

func main() {
	typeName := flag.String("type", "", "Component type (CPU, GPU, Motherboard, RAM, PSU, Case, Cooler)")
	inputDir := flag.String("input-dir", "data/raw", "Directory holding the <type>.csv extracts")
	jsonInput := flag.String("json", "", "Read raw records from a JSON file instead of CSV")
	outputPath := flag.String("output", "", "Path to output JSON file (default stdout)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	if *typeName == "" {
		fmt.Println("Usage: normalizer -type <type> [-input-dir <dir> | -json <file>] [-output <file>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	componentType, err := models.ParseComponentType(*typeName)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}

	logs := logger.NewLogger(level)
	defer func() { _ = logs.Sync() }()

	var raw []models.Record

	if *jsonInput != "" {
		fmt.Fprintf(os.Stderr, "📂 Reading: %s\n", *jsonInput)

		raw, err = crawler.LoadRecordsJSON(*jsonInput)
	} else {
		source := extractor.NewCSVSource(*inputDir, logs)
		fmt.Fprintf(os.Stderr, "📂 Reading: %s\n", source.Path(componentType))

		raw, err = source.Extract(context.Background(), componentType)
	}

	if err != nil {
		log.Fatalf("❌ Extract failed: %v\n", err)
	}

	for _, r := range raw {
		r[models.FieldComponentType] = componentType.String()
	}

	normalized := normalizer.NewProcessor(logs).NormalizeRecords(raw)
	tagged := tagger.NewTagger(logs).TagRecords(normalized)
	mapped := schema.NewMapper(logs).MapRecords(tagged)

	fmt.Fprintf(os.Stderr, "📊 %s: %d raw, %d mapped, %d rejected\n",
		componentType, len(raw), len(mapped), len(raw)-len(mapped))

	jsonData, err := json.MarshalIndent(search.SanitizeBatch(mapped), "", "  ")
	if err != nil {
		log.Fatalf("❌ Error marshaling JSON: %v\n", err)
	}

	if *outputPath == "" {
		fmt.Println(string(jsonData))

		return
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0755); mkdirErr != nil {
		log.Fatalf("❌ Error creating directory: %v\n", mkdirErr)
	}

	if err := os.WriteFile(*outputPath, jsonData, 0644); err != nil {
		log.Fatalf("❌ Error writing file: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Saved to: %s\n", *outputPath)
}
