// Package metrics exposes Prometheus instrumentation for upstream calls.
//
// Metrics:
//   - relay_upstream_attempts_total: every outbound attempt, by model and outcome
//   - relay_upstream_calls_total: completed Upstream Call with Retry invocations, by model and result
//   - relay_upstream_call_duration_seconds: wall time of a whole call, retries and delays included
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relay"

// Collector owns a private registry so tests can build as many as they like.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	attempts *prometheus.CounterVec
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "attempts_total",
				Help:      "Total number of outbound upstream attempts by outcome",
			},
			[]string{"model", "outcome"},
		),

		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "calls_total",
				Help:      "Total number of upstream calls by final result",
			},
			[]string{"model", "result"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "call_duration_seconds",
				Help:      "Upstream call latency in seconds, including retries",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 190},
			},
			[]string{"model"},
		),
	}

	c.registry.MustRegister(
		c.attempts,
		c.calls,
		c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// RecordAttempt counts one outbound attempt. Outcome is "success" or a failure kind.
func (c *Collector) RecordAttempt(model, outcome string) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(model, outcome).Inc()
}

// RecordCall counts one finished call and observes its duration.
func (c *Collector) RecordCall(model, result string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.calls.WithLabelValues(model, result).Inc()
	c.duration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
