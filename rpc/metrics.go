// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "boa_rpc"

// Collector is a prometheus.Collector that collects metrics about the
// calls made by API clients. A nil *Collector records nothing.
type Collector struct {
	calls    *prometheus.CounterVec
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "calls_total",
				Help:      "The number of completed calls by method and outcome.",
			}, []string{"method", "outcome"},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "attempts_total",
				Help:      "The number of HTTP round trips attempted, including retries.",
			}, []string{"method"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "call_duration_seconds",
				Help:      "The time taken by a call, including retries.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			}, []string{"method"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.calls.Describe(ch)
	c.attempts.Describe(ch)
	c.duration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.calls.Collect(ch)
	c.attempts.Collect(ch)
	c.duration.Collect(ch)
}

func (c *Collector) attempt(method string) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(method).Inc()
}

func (c *Collector) call(method string, outcome Outcome, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.calls.WithLabelValues(method, string(outcome)).Inc()
	c.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
