// Package metrics exposes Prometheus metrics for inbound HTTP traffic,
// upstream provider calls, and the result cache.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its own registry so tests can create collectors
// without colliding on the global one.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	providerTotal   *prometheus.CounterVec
	providerSeconds *prometheus.HistogramVec
	cacheTotal      *prometheus.CounterVec
}

// New constructs a collector with default histograms and counters.
func New() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gigseeker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gigseeker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	providerTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gigseeker",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Upstream provider calls by outcome.",
	}, []string{"provider", "outcome"})

	providerSeconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gigseeker",
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for upstream provider calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	cacheTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gigseeker",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Result cache lookups by outcome.",
	}, []string{"outcome"})

	for _, c := range []prometheus.Collector{
		requestDuration, requestTotal, providerTotal, providerSeconds, cacheTotal,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		providerTotal:   providerTotal,
		providerSeconds: providerSeconds,
		cacheTotal:      cacheTotal,
	}, nil
}

// Handler returns the scrape endpoint handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveProvider records one upstream call.
func (c *Collector) ObserveProvider(provider string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.providerTotal.WithLabelValues(provider, outcome).Inc()
	c.providerSeconds.WithLabelValues(provider).Observe(duration.Seconds())
}

// ObserveCache records one result cache lookup.
func (c *Collector) ObserveCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	c.cacheTotal.WithLabelValues(outcome).Inc()
}

// InstrumentHandler wraps next to record request count and latency.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
