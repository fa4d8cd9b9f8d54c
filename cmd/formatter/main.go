// Package main provides the formatter command-line tool for rendering saved
// run statistics and audit reports as tables.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"speclogic/internal/formatter"
	"speclogic/internal/pipeline"
	"speclogic/internal/validator"
)

func main() {
	statsPath := flag.String("stats", "", "Run statistics JSON written by pipeline -output-stats")
	auditPath := flag.String("audit", "", "Audit report JSON written by pipeline -audit")
	issues := flag.Int("issues", 10, "Maximum number of audit issues to list")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help || (*statsPath == "" && *auditPath == "") {
		printUsage()

		if *help {
			os.Exit(0)
		}

		os.Exit(1)
	}

	if *statsPath != "" {
		var stats pipeline.Stats
		if err := readJSON(*statsPath, &stats); err != nil {
			log.Fatalf("❌ %v\n", err)
		}

		fmt.Printf("📊 Run %s (%.2fs)\n\n", stats.RunID, stats.DurationSeconds)
		fmt.Println(formatter.CountTable("Source", "Extracted", stats.Extracted))
		fmt.Println(formatter.StageTable(&stats, false))

		for _, w := range stats.Warnings {
			fmt.Printf("⚠️  %s\n", w)
		}

		for _, e := range stats.Errors {
			fmt.Printf("❌ %s\n", e)
		}
	}

	if *auditPath != "" {
		var report validator.Report
		if err := readJSON(*auditPath, &report); err != nil {
			log.Fatalf("❌ %v\n", err)
		}

		fmt.Println("\n🔍 Audit")
		fmt.Println(formatter.AuditTable(&report))

		for i, issue := range report.Issues {
			if i >= *issues {
				fmt.Printf("  ... %d more\n", len(report.Issues)-i)

				break
			}

			fmt.Printf("  - %s: %v\n", issue.ObjectID, issue.Errors)
		}
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}

	return nil
}

func printUsage() {
	fmt.Println("Usage: ./bin/formatter [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/formatter -stats data/stats.json")
	fmt.Println("  ./bin/formatter -stats data/stats.json -audit data/audit.json -issues 25")
}
