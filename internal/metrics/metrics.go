// Package metrics exposes Prometheus collectors for passport scanning.
package metrics

import (
	"time"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/scanning"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records provider attempts, scan latency and secondary job polling.
type Metrics struct {
	// Provider attempts by provider and outcome
	Attempts *prometheus.CounterVec

	// Provider attempt latency by provider
	AttemptLatency *prometheus.HistogramVec

	// Whole scan latency by method and result
	ScanLatency *prometheus.HistogramVec

	// Polls needed per secondary job
	Polls *prometheus.HistogramVec
}

// New creates a Metrics instance registered with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_scan_provider_attempts_total",
			Help: "Total provider attempts by provider and outcome",
		}, []string{"provider", "outcome"}),

		AttemptLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passport_scan_provider_duration_seconds",
			Help:    "Duration of a single provider attempt",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"provider"}),

		ScanLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passport_scan_duration_seconds",
			Help:    "Duration of a full scan including fallback",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"method", "result"}),

		Polls: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passport_scan_job_polls",
			Help:    "Number of polls before a secondary job finished or timed out",
			Buckets: prometheus.LinearBuckets(1, 2, 8),
		}, []string{"provider"}),
	}
}

// ObserveAttempt records one provider attempt.
func (m *Metrics) ObserveAttempt(provider string, outcome scanning.Outcome, d time.Duration) {
	if m != nil {
		m.Attempts.WithLabelValues(provider, string(outcome)).Inc()
		m.AttemptLatency.WithLabelValues(provider).Observe(d.Seconds())
	}
}

// ObserveScan records a finished scan.
func (m *Metrics) ObserveScan(method string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "none"
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.ScanLatency.WithLabelValues(method, result).Observe(d.Seconds())
}

// ObservePolls records how many polls a secondary job took.
func (m *Metrics) ObservePolls(provider string, attempts int) {
	if m != nil {
		m.Polls.WithLabelValues(provider).Observe(float64(attempts))
	}
}
