package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gallery"

// Metrics giữ registry riêng của app, /metrics chỉ expose registry này
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	StorageOps      *prometheus.CounterVec
	StorageDuration *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
}

// New tạo và đăng ký toàn bộ metrics
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StorageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Storage provider calls by provider, operation and status",
		}, []string{"provider", "operation", "status"}),
		StorageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_operation_duration_seconds",
			Help:      "Storage provider call latency",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider", "operation"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result (hit, miss, error)",
		}, []string{"cache", "result"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.StorageOps,
		m.StorageDuration,
		m.CacheLookups,
	)
	return m
}

// Handler trả promhttp handler cho registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveHTTP ghi nhận 1 request đã xử lý xong
func (m *Metrics) ObserveHTTP(method, route, status string, took time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// ObserveStorage matches storage.Observer
func (m *Metrics) ObserveStorage(provider, operation string, took time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.StorageOps.WithLabelValues(provider, operation, status).Inc()
	m.StorageDuration.WithLabelValues(provider, operation).Observe(took.Seconds())
}

func (m *Metrics) ObserveCache(cache, result string) {
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}
