// Package metrics holds the run counters of a lint pass on a private prometheus registry
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	perr "taglint/internal/platform/errors"
)

// Metrics provides observability for one lint run
type Metrics struct {
	reg *prometheus.Registry

	// Features read, by geometric kind
	Features *prometheus.CounterVec

	// Defects emitted, by class and category
	Defects *prometheus.CounterVec

	// Features skipped by the runner, by error code
	Skipped *prometheus.CounterVec

	// Wall time of a whole run
	RunDuration prometheus.Histogram
}

// New creates a Metrics instance with every series registered on its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Features: f.NewCounterVec(prometheus.CounterOpts{
			Name: "taglint_features_total",
			Help: "Features read from the input by kind",
		}, []string{"kind"}),

		Defects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "taglint_defects_total",
			Help: "Defects emitted by class and category",
		}, []string{"class", "category"}),

		Skipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "taglint_features_skipped_total",
			Help: "Features skipped because they could not be checked, by error code",
		}, []string{"code"}),

		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "taglint_run_duration_seconds",
			Help:    "Duration of a full lint run",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		}),
	}
}

// IncFeature records one feature read
func (m *Metrics) IncFeature(kind string) {
	if m != nil {
		m.Features.WithLabelValues(kind).Inc()
	}
}

// IncDefect records one defect emitted
func (m *Metrics) IncDefect(class, category string) {
	if m != nil {
		m.Defects.WithLabelValues(class, category).Inc()
	}
}

// IncSkipped records one feature skipped for err
func (m *Metrics) IncSkipped(err error) {
	if m != nil {
		m.Skipped.WithLabelValues(perr.CodeOf(err).String()).Inc()
	}
}

// ObserveRun records the total run duration
func (m *Metrics) ObserveRun(d time.Duration) {
	if m != nil {
		m.RunDuration.Observe(d.Seconds())
	}
}

// Registry exposes the private registry, e.g. for a push gateway
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteFile writes every series in text exposition format to path, for node_exporter's textfile collector
func (m *Metrics) WriteFile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "write metrics to %s", path), "metrics.write")
	}
	return nil
}
