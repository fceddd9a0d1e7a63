package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/matzehuels/edgebundle/pkg/observability"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.LayoutsTotal == nil || r.RoutesTotal == nil || r.CacheRequestsTotal == nil || r.HTTPRequestsTotal == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}

	// Separate registries must not collide on registration.
	_ = NewRegistry()
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestLayoutHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnLayoutStart(ctx, "bundled", 100, 40)
	if got := gaugeValue(t, r.LayoutsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	r.OnRouted(ctx, "bundled", "hierarchical", 30)
	r.OnRouted(ctx, "bundled", "direct", 10)
	r.OnRouted(ctx, "bundled", "hierarchical", 5)
	r.OnLayoutComplete(ctx, "bundled", 20*time.Millisecond, nil)

	r.OnLayoutStart(ctx, "direct", 1, 1)
	r.OnLayoutComplete(ctx, "direct", time.Millisecond, errors.New("cancelled"))

	if got := gaugeValue(t, r.LayoutsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := counterValue(t, r.RoutesTotal, "bundled", "hierarchical"); got != 35 {
		t.Errorf("hierarchical routes = %v, want 35", got)
	}
	if got := counterValue(t, r.RoutesTotal, "bundled", "direct"); got != 10 {
		t.Errorf("direct routes = %v, want 10", got)
	}
	if got := counterValue(t, r.LayoutsTotal, "bundled", "ok"); got != 1 {
		t.Errorf("ok layouts = %v, want 1", got)
	}
	if got := counterValue(t, r.LayoutsTotal, "direct", "error"); got != 1 {
		t.Errorf("failed layouts = %v, want 1", got)
	}

	r.OnRenderStart(ctx, "svg")
	r.OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	if got := counterValue(t, r.RendersTotal, "svg", "ok"); got != 1 {
		t.Errorf("renders = %v, want 1", got)
	}
}

func TestCacheHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnCacheMiss(ctx, "layout")
	r.OnCacheSet(ctx, "layout", 2048)
	r.OnCacheHit(ctx, "layout")
	r.OnCacheHit(ctx, "layout")
	r.OnCacheError(ctx, "layout", errors.New("down"))

	if got := counterValue(t, r.CacheRequestsTotal, "layout", "hit"); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := counterValue(t, r.CacheRequestsTotal, "layout", "miss"); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := counterValue(t, r.CacheErrorsTotal, "layout"); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestHTTPHooksAndHandler(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnRequest(ctx, "POST", "/v1/layouts")
	r.OnResponse(ctx, "POST", "/v1/layouts", 201, 5*time.Millisecond)
	r.OnRequest(ctx, "POST", "/v1/layouts")
	r.OnResponse(ctx, "POST", "/v1/layouts", 400, time.Millisecond)

	if got := counterValue(t, r.HTTPRequestsTotal, "POST", "/v1/layouts", "201"); got != 1 {
		t.Errorf("201 responses = %v, want 1", got)
	}
	if got := gaugeValue(t, r.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`edgebundle_http_requests_total{method="POST",route="/v1/layouts",status="400"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()

	r := NewRegistry()
	r.Install()

	observability.Layout().OnRouted(context.Background(), "bundled", "self-loop", 3)
	observability.Cache().OnCacheHit(context.Background(), "layout")

	if got := counterValue(t, r.RoutesTotal, "bundled", "self-loop"); got != 3 {
		t.Errorf("self-loop routes = %v, want 3", got)
	}
	if got := counterValue(t, r.CacheRequestsTotal, "layout", "hit"); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
}
