package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apillot/portfolio/pkg/router"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "portfolio").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the metrics. Default: a fresh registry with the
	// Go and process collectors.
	Registry *prometheus.Registry
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "portfolio",
		Buckets:   prometheus.DefBuckets,
	}
}

// Navigation statuses.
const (
	StatusOK         = "ok"
	StatusLoaded     = "loaded"
	StatusNotFound   = "not_found"
	StatusInvalid    = "invalid"
	StatusLoadFailed = "load_failed"
	StatusCanceled   = "canceled"
	StatusError      = "error"
)

// unmatched labels navigations that matched no route.
const unmatched = "none"

// Metrics holds the portfolio's Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	navigations        *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	lazyLoads          *prometheus.CounterVec
	lazyLoadDuration   *prometheus.HistogramVec
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

var _ router.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
		config.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		registry: config.Registry,

		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of route resolutions by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Route resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		lazyLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lazy_loads_total",
			Help:        "Total number of lazy view loads by chunk and result",
			ConstLabels: config.ConstLabels,
		}, []string{"chunk", "result"}),

		lazyLoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lazy_load_duration_seconds",
			Help:        "Lazy view load duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"chunk"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by code and method",
			ConstLabels: config.ConstLabels,
		}, []string{"code", "method"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method"}),
	}
}

// ObserveResolve records one navigation.
func (m *Metrics) ObserveResolve(route string, loaded bool, d time.Duration, err error) {
	if route == "" {
		route = unmatched
	}
	m.navigations.WithLabelValues(route, navigationStatus(loaded, err)).Inc()
	m.navigationDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveLoad records one lazy view load.
func (m *Metrics) ObserveLoad(route, chunk string, d time.Duration, err error) {
	if chunk == "" {
		chunk = route
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.lazyLoads.WithLabelValues(chunk, result).Inc()
	m.lazyLoadDuration.WithLabelValues(chunk).Observe(d.Seconds())
}

// navigationStatus maps a resolution outcome to a fixed label set. This
// keeps error messages out of label values.
func navigationStatus(loaded bool, err error) string {
	switch {
	case err == nil && loaded:
		return StatusLoaded
	case err == nil:
		return StatusOK
	case errors.Is(err, router.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, router.ErrInvalidPath):
		return StatusInvalid
	case errors.Is(err, router.ErrLoadFailed):
		return StatusLoadFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}

// Middleware instruments an HTTP handler with request metrics.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.requests,
		promhttp.InstrumentHandlerDuration(m.requestDuration, next),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
