// Package metrics collects and exposes Prometheus metrics for lookups and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the set of observations made by the engine and the web server.
type Recorder interface {
	ObserveLookup(outcome string, elapsed time.Duration)
	RecordHTTPStatus(method string, statusCode int)
}

// Collector is the Prometheus-backed [Recorder].
type Collector struct {
	lookups       *prometheus.CounterVec
	lookupLatency prometheus.Histogram
	httpStatus    *prometheus.CounterVec
}

// NewCollector creates a [Collector] and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviweb_lookup_total",
			Help: "Metadata lookups by outcome (success, miss, unavailable, error).",
		}, []string{"outcome"}),
		lookupLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moviweb_lookup_latency_seconds",
			Help:    "Metadata lookup latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviweb_http_responses_total",
			Help: "HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
	}

	reg.MustRegister(c.lookups, c.lookupLatency, c.httpStatus)
	return c
}

// ObserveLookup counts one lookup outcome and records its latency.
func (c *Collector) ObserveLookup(outcome string, elapsed time.Duration) {
	c.lookups.WithLabelValues(outcome).Inc()
	c.lookupLatency.Observe(elapsed.Seconds())
}

// RecordHTTPStatus counts one HTTP response.
func (c *Collector) RecordHTTPStatus(method string, statusCode int) {
	c.httpStatus.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
