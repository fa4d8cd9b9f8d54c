// Package metrics provides Prometheus metrics for pipeline runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stages.
const (
	StageExtract   = "extract"
	StageNormalize = "normalize"
	StageTag       = "tag"
	StageMap       = "map"
	StageLoad      = "load"
)

// Metrics holds the collectors of one run on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	RecordsTotal  *prometheus.CounterVec
	UploadBatches *prometheus.CounterVec
	UploadRetries prometheus.Counter
	StageDuration *prometheus.HistogramVec
}

// New registers the pipeline collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speclogic_records_total",
				Help: "Records leaving each pipeline stage",
			},
			[]string{"stage", "component_type"},
		),
		UploadBatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speclogic_upload_batches_total",
				Help: "Upload batches by outcome",
			},
			[]string{"status"},
		),
		UploadRetries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "speclogic_upload_retries_total",
				Help: "Upload batch retry attempts",
			},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "speclogic_stage_duration_seconds",
				Help:    "Time spent in each pipeline stage",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"stage"},
		),
	}
}

// Registry returns the registry holding the run collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRecords adds n records to a stage counter.
func (m *Metrics) RecordRecords(stage, componentType string, n int) {
	m.RecordsTotal.WithLabelValues(stage, componentType).Add(float64(n))
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveBatch counts an upload batch outcome.
func (m *Metrics) ObserveBatch(ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}

	m.UploadBatches.WithLabelValues(status).Inc()
}

// ObserveRetry counts an upload retry.
func (m *Metrics) ObserveRetry() {
	m.UploadRetries.Inc()
}

// WriteToTextfile writes the registry in the node exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
