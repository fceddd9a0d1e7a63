package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/edgebundle/pkg/observability"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnLayoutStart implements observability.LayoutHooks.
func (r *Registry) OnLayoutStart(_ context.Context, _ string, nodes, edges int) {
	r.LayoutsInFlight.Inc()
	r.LayoutNodes.Observe(float64(nodes))
	r.LayoutEdges.Observe(float64(edges))
}

// OnLayoutComplete implements observability.LayoutHooks.
func (r *Registry) OnLayoutComplete(_ context.Context, strategy string, duration time.Duration, err error) {
	r.LayoutsInFlight.Dec()
	r.LayoutsTotal.WithLabelValues(strategy, status(err)).Inc()
	if err == nil {
		r.LayoutDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	}
}

// OnRouted implements observability.LayoutHooks.
func (r *Registry) OnRouted(_ context.Context, strategy, shape string, count int) {
	r.RoutesTotal.WithLabelValues(strategy, shape).Add(float64(count))
}

// OnRenderStart implements observability.LayoutHooks.
func (r *Registry) OnRenderStart(context.Context, string) {}

// OnRenderComplete implements observability.LayoutHooks.
func (r *Registry) OnRenderComplete(_ context.Context, format string, duration time.Duration, err error) {
	r.RendersTotal.WithLabelValues(format, status(err)).Inc()
	r.RenderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

// OnCacheError implements observability.CacheHooks.
func (r *Registry) OnCacheError(_ context.Context, keyType string, _ error) {
	r.CacheErrorsTotal.WithLabelValues(keyType).Inc()
}

// OnRequest implements observability.HTTPHooks.
func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (r *Registry) OnResponse(_ context.Context, method, route string, code int, duration time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

var (
	_ observability.LayoutHooks = (*Registry)(nil)
	_ observability.CacheHooks  = (*Registry)(nil)
	_ observability.HTTPHooks   = (*Registry)(nil)
)
