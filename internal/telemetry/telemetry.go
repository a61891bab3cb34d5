// SPDX-License-Identifier: MPL-2.0

// Package telemetry records cookbook loading metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sysbot/chef/pkg/cookbook"
)

// Load outcomes.
const (
	OutcomeLoaded Outcome = "loaded"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

const namespace = "cookbook"

type (
	// Outcome is the result label of a cookbook load.
	Outcome string

	// Recorder receives loader events. Implementations must be safe for
	// concurrent use.
	Recorder interface {
		// CookbookResolved records one finished resolution.
		CookbookResolved(outcome Outcome, elapsed time.Duration)
		// FilesScanned records the number of files kept in seg after
		// filtering one overlay root.
		FilesScanned(seg cookbook.Segment, n int)
	}

	// Metrics is a Prometheus backed Recorder.
	//
	// Metrics:
	//   - cookbook_loads_total: resolutions by outcome
	//   - cookbook_load_duration_seconds: resolution latency
	//   - cookbook_files_scanned_total: files kept per segment
	Metrics struct {
		registry *prometheus.Registry

		loadsTotal   *prometheus.CounterVec
		loadDuration prometheus.Histogram
		filesScanned *prometheus.CounterVec
	}

	nopRecorder struct{}
)

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return nopRecorder{} }

func (nopRecorder) CookbookResolved(Outcome, time.Duration) {}
func (nopRecorder) FilesScanned(cookbook.Segment, int)      {}

// NewMetrics creates the loader metrics and registers them with registry. A
// nil registry gets a fresh one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_total",
				Help:      "Total number of cookbook resolutions by outcome",
			},
			[]string{"outcome"},
		),
		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "load_duration_seconds",
				Help:      "Time spent resolving a cookbook",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		filesScanned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_scanned_total",
				Help:      "Total number of cookbook files kept after filtering, by segment",
			},
			[]string{"segment"},
		),
	}

	registry.MustRegister(m.loadsTotal, m.loadDuration, m.filesScanned)
	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// CookbookResolved implements Recorder.
func (m *Metrics) CookbookResolved(outcome Outcome, elapsed time.Duration) {
	m.loadsTotal.WithLabelValues(string(outcome)).Inc()
	m.loadDuration.Observe(elapsed.Seconds())
}

// FilesScanned implements Recorder.
func (m *Metrics) FilesScanned(seg cookbook.Segment, n int) {
	m.filesScanned.WithLabelValues(seg.String()).Add(float64(n))
}

// WriteFile writes the current metric values in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
