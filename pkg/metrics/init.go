package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgebundle_layouts_total",
			Help: "Total number of layouts computed",
		},
		[]string{"strategy", "status"},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgebundle_layout_duration_seconds",
			Help:    "Layout computation time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
		[]string{"strategy"},
	)

	r.LayoutNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "edgebundle_layout_nodes",
			Help:    "Scene size in nodes per layout",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	r.LayoutEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "edgebundle_layout_edges",
			Help:    "Edges routed per layout",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	r.RoutesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgebundle_routes_total",
			Help: "Total number of edges routed, by shape",
		},
		[]string{"strategy", "shape"},
	)

	r.LayoutsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "edgebundle_layouts_in_flight",
			Help: "Current number of layouts being computed",
		},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgebundle_renders_total",
			Help: "Total number of overview renders",
		},
		[]string{"format", "status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgebundle_render_duration_seconds",
			Help:    "Overview render time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgebundle_cache_requests_total",
			Help: "Cache lookups by result",
		},
		[]string{"key_type", "result"},
	)

	r.CacheWriteBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgebundle_cache_write_bytes",
			Help:    "Size of values written to the cache",
			Buckets: []float64{1e3, 1e4, 1e5, 1e6, 1e7},
		},
		[]string{"key_type"},
	)

	r.CacheErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgebundle_cache_errors_total",
			Help: "Cache backend failures",
		},
		[]string{"key_type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgebundle_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgebundle_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "edgebundle_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}
