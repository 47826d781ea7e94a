// Package metrics counts extraction and resolution outcomes of a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zwischenruf"

// Speech outcomes
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusCached = "cached"
)

// Identity outcomes
const (
	IdentityResolved     = "resolved"
	IdentityAmbiguous    = "ambiguous"
	IdentityUnresolvable = "unresolvable"
	IdentityUnnamed      = "unnamed"
)

// Metrics holds the collectors of one run on a private registry
type Metrics struct {
	registry *prometheus.Registry

	Contributions *prometheus.CounterVec
	Speeches      *prometheus.CounterVec
	Malformed     *prometheus.CounterVec
	Identities    *prometheus.CounterVec
	Duration      prometheus.Histogram
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Contributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contributions_total",
			Help:      "Contribution records extracted, by type.",
		}, []string{"type"}),
		Speeches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speeches_total",
			Help:      "Speeches processed, by status.",
		}, []string{"status"}),
		Malformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_annotations_total",
			Help:      "Bracket spans skipped as malformed, by reason.",
		}, []string{"reason"}),
		Identities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identities_total",
			Help:      "Identity resolution outcomes of contribution rows.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "speech_duration_seconds",
			Help:      "Time to extract and resolve one speech.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
	}

	m.registry.MustRegister(m.Contributions, m.Speeches, m.Malformed, m.Identities, m.Duration)
	return m
}

// ObserveSpeech records the duration of one speech
func (m *Metrics) ObserveSpeech(status string, d time.Duration) {
	m.Speeches.WithLabelValues(status).Inc()
	m.Duration.Observe(d.Seconds())
}

// Registry exposes the collectors for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in text exposition format, for the node
// exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
