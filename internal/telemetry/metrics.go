// Package telemetry exposes poll loop counters in Prometheus format.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the tracker's collectors on a private registry, so several
// sessions (and tests) never collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	Cycles        prometheus.Counter
	CaptureErrors prometheus.Counter
	LinesSeen     prometheus.Counter
	LinesNew      prometheus.Counter
	Events        *prometheus.CounterVec
	SaveErrors    prometheus.Counter
	CycleDuration prometheus.Histogram
	FeedProgress  prometheus.Gauge
}

// New registers a fresh set of collectors.
func New() *Metrics {
	m := &Metrics{
		Registry:      prometheus.NewRegistry(),
		Cycles:        prometheus.NewCounter(prometheus.CounterOpts{Name: "droptrack_poll_cycles_total", Help: "Number of poll cycles run"}),
		CaptureErrors: prometheus.NewCounter(prometheus.CounterOpts{Name: "droptrack_capture_errors_total", Help: "Number of polls whose capture read failed"}),
		LinesSeen:     prometheus.NewCounter(prometheus.CounterOpts{Name: "droptrack_lines_reconstructed_total", Help: "Chat lines reconstructed across all polls"}),
		LinesNew:      prometheus.NewCounter(prometheus.CounterOpts{Name: "droptrack_lines_new_total", Help: "Chat lines not seen before"}),
		Events:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "droptrack_events_total", Help: "Classified events by kind"}, []string{"kind"}),
		SaveErrors:    prometheus.NewCounter(prometheus.CounterOpts{Name: "droptrack_snapshot_save_errors_total", Help: "Failed snapshot saves"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Name: "droptrack_poll_cycle_duration_seconds", Help: "Poll cycle duration seconds", Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1}}),
		FeedProgress:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "droptrack_feed_count", Help: "Treats eaten since the last roll"}),
	}
	m.Registry.MustRegister(
		m.Cycles, m.CaptureErrors, m.LinesSeen, m.LinesNew,
		m.Events, m.SaveErrors, m.CycleDuration, m.FeedProgress,
	)
	return m
}

// ObserveCycle records one finished cycle.
func (m *Metrics) ObserveCycle(lines, fresh int, kinds []string, feedCount int, d time.Duration) {
	if m == nil {
		return
	}
	m.Cycles.Inc()
	m.LinesSeen.Add(float64(lines))
	m.LinesNew.Add(float64(fresh))
	for _, k := range kinds {
		m.Events.WithLabelValues(k).Inc()
	}
	m.FeedProgress.Set(float64(feedCount))
	m.CycleDuration.Observe(d.Seconds())
}

// CaptureFailed counts a failed capture read.
func (m *Metrics) CaptureFailed() {
	if m != nil {
		m.CaptureErrors.Inc()
	}
}

// SaveFailed counts a failed snapshot save.
func (m *Metrics) SaveFailed() {
	if m != nil {
		m.SaveErrors.Inc()
	}
}

// Handler serves the registry at /metrics.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	return mux
}
