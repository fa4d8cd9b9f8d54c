package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"speclogic/internal/validator"
)

// ScrapedGPUKey is the extracted counter used when scraped GPUs replace the CSV.
const ScrapedGPUKey = "GPU_scraped"

// Stats holds the counters of one run.
type Stats struct {
	RunID           string         `json:"run_id"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         time.Time      `json:"end_time"`
	DurationSeconds float64        `json:"duration_seconds"`
	Extracted       map[string]int `json:"extracted"`
	TotalExtracted  int            `json:"total_extracted"`
	Normalized      int            `json:"normalized"`
	Tagged          int            `json:"tagged"`
	Mapped          int            `json:"mapped"`
	Uploaded        int            `json:"uploaded"`
	Failed          int            `json:"failed"`
	Errors          []string       `json:"errors"`
	Warnings        []string       `json:"warnings"`

	// Audit is the pre-upload report; nil when the run stopped earlier.
	Audit *validator.Report `json:"-"`
}

// NewStats starts a run with a fresh run ID.
func NewStats() *Stats {
	return &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now().UTC(),
		Extracted: make(map[string]int),
		Errors:    []string{},
		Warnings:  []string{},
	}
}

// HasErrors reports whether any stage recorded an error.
func (s *Stats) HasErrors() bool {
	return len(s.Errors) > 0
}

func (s *Stats) warnf(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	s.Warnings = append(s.Warnings, msg)

	return msg
}

func (s *Stats) finish() {
	s.EndTime = time.Now().UTC()
	s.DurationSeconds = math.Round(s.EndTime.Sub(s.StartTime).Seconds()*100) / 100

	s.TotalExtracted = 0
	for _, n := range s.Extracted {
		s.TotalExtracted += n
	}
}

// WriteJSON writes the stats as indented JSON.
func (s *Stats) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}

	return nil
}
