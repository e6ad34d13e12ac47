package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/cache"
)

// Metrics provides Prometheus metrics for the dashboard API.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Report metrics
	normalizeDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec

	cache *cacheCollector
}

// NewMetrics creates metrics on a fresh registry, including Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ptrboard_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ptrboard_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		normalizeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ptrboard_normalize_duration_seconds",
				Help:    "Sheet normalization latency by result",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"result"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ptrboard_errors_total",
				Help: "Total number of API errors by code",
			},
			[]string{"code"},
		),
		cache: &cacheCollector{
			entries: prometheus.NewDesc("ptrboard_cache_entries", "Number of memoized results", nil, nil),
			hits:    prometheus.NewDesc("ptrboard_cache_hits_total", "Total number of cache hits", nil, nil),
			misses:  prometheus.NewDesc("ptrboard_cache_misses_total", "Total number of cache misses", nil, nil),
		},
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.normalizeDuration,
		m.errorsTotal,
		m.cache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing the metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WatchCache exports the statistics of c. Later calls replace the watched cache.
func (m *Metrics) WatchCache(c *cache.Cache) {
	m.cache.set(c)
}

// ObserveNormalize records one normalization run. It matches
// ptrboard.NormalizeObserver.
func (m *Metrics) ObserveNormalize(sheet string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.normalizeDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// RecordError increments the error counter for an API error code.
func (m *Metrics) RecordError(code string) {
	m.errorsTotal.WithLabelValues(code).Inc()
}

func (m *Metrics) recordRequest(route, method string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// cacheCollector reads cache.Stats at scrape time.
type cacheCollector struct {
	mu    sync.Mutex
	cache *cache.Cache

	entries *prometheus.Desc
	hits    *prometheus.Desc
	misses  *prometheus.Desc
}

func (c *cacheCollector) set(ch *cache.Cache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = ch
}

// Describe implements prometheus.Collector.
func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.hits
	ch <- c.misses
}

// Collect implements prometheus.Collector.
func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	watched := c.cache
	c.mu.Unlock()
	if watched == nil {
		return
	}

	stats := watched.Stats()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(stats.Entries))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
}
