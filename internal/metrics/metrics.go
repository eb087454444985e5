package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application metrics that are safe to scrape via Prometheus.
type Metrics struct {
	registry              *prometheus.Registry
	httpRequests          *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	upstreamFetches       *prometheus.CounterVec
	upstreamFetchDuration *prometheus.HistogramVec
}

// New creates a fresh Metrics registry with HTTP and upstream-fetch metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aquascope",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed by overview-go",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aquascope",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by overview-go",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	upstreamFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aquascope",
		Name:      "upstream_fetches_total",
		Help:      "Count of inventory/alarm fetches against the upstream API",
	}, []string{"scope", "outcome"})

	upstreamFetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aquascope",
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Duration of upstream fetches from start to finish",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"scope", "outcome"})

	registry.MustRegister(
		httpRequests,
		httpRequestDuration,
		upstreamFetches,
		upstreamFetchDuration,
	)

	return &Metrics{
		registry:              registry,
		httpRequests:          httpRequests,
		httpRequestDuration:   httpRequestDuration,
		upstreamFetches:       upstreamFetches,
		upstreamFetchDuration: upstreamFetchDuration,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

// ObserveUpstreamFetch records one load attempt against the upstream API.
func (m *Metrics) ObserveUpstreamFetch(scope string, ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	labels := prometheus.Labels{"scope": scope, "outcome": outcome}
	m.upstreamFetches.With(labels).Inc()
	m.upstreamFetchDuration.With(labels).Observe(duration.Seconds())
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
