// Package middleware provides cross-cutting concerns for the decision
// engine: operational metrics and collaborator decorators.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/veritasedu/conclave/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of decision volume,
// committee consensus behavior, and resolve latency.
type PrometheusMetrics struct {
	decisionsTotal   *prometheus.CounterVec
	resolveLatency   *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	scoreHistogram   *prometheus.HistogramVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		decisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admissions_decisions_total",
				Help: "Total admission decisions issued, by category and review path.",
			},
			[]string{"decision", "path"},
		),
		resolveLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "admissions_resolve_duration_seconds",
				Help:    "Latency of decision resolution, by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "path"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admissions_operations_total",
				Help: "Total engine operations performed, by outcome status.",
			},
			[]string{"operation", "status", "path"},
		),
		scoreHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "admissions_score_distribution",
				Help:    "Distribution of overall scores and winning vote scores.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"metric", "path"},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "admissions_engine_state",
				Help: "Current engine state values, such as in-flight requests.",
			},
			[]string{"metric"},
		),
	}
}

// pathLabel extracts the review path label with a stable fallback.
func pathLabel(labels map[string]string) string {
	if p, ok := labels["path"]; ok && p != "" {
		return p
	}
	return "unknown"
}

// RecordLatency implements the MetricsCollector interface by recording
// resolve latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.resolveLatency.WithLabelValues(operation, pathLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters. The "decision" metric is routed to the dedicated
// per-category counter; everything else lands on the operation counter.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	if metric == "decision" {
		decision, ok := labels["decision"]
		if !ok {
			decision = "unknown"
		}
		pm.decisionsTotal.WithLabelValues(decision, pathLabel(labels)).Add(value)
		return
	}

	status, ok := labels["status"]
	if !ok {
		status = "unknown"
	}
	pm.operationCounter.WithLabelValues(metric, status, pathLabel(labels)).Add(value)
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauges.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by observing
// values in the score distribution histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	pm.scoreHistogram.WithLabelValues(metric, pathLabel(labels)).Observe(value)
}
