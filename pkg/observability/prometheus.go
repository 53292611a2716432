package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface with client_golang collectors.
type Prometheus struct {
	layouts        prometheus.Counter
	layoutNodes    prometheus.Histogram
	layoutDuration prometheus.Histogram
	clicks         *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderBytes    *prometheus.HistogramVec
	renderDuration *prometheus.HistogramVec
	storeOps       *prometheus.CounterVec
	storeDuration  *prometheus.HistogramVec
	cacheEvents    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

var (
	_ LayoutHooks = (*Prometheus)(nil)
	_ RenderHooks = (*Prometheus)(nil)
	_ StoreHooks  = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ HTTPHooks   = (*Prometheus)(nil)
)

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	msBuckets := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	return &Prometheus{
		layouts: f.NewCounter(prometheus.CounterOpts{
			Name: "entitymap_layouts_total",
			Help: "Total number of mindmap layouts computed.",
		}),
		layoutNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "entitymap_layout_nodes",
			Help:    "Number of nodes per mindmap layout.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		layoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "entitymap_layout_duration_ms",
			Help:    "Mindmap layout latency in milliseconds.",
			Buckets: msBuckets,
		}),
		clicks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "entitymap_clicks_total",
			Help: "Resolved mindmap clicks, labelled by action and status.",
		}, []string{"action", "status"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "entitymap_renders_total",
			Help: "Rendered artifacts, labelled by format and status.",
		}, []string{"format", "status"}),
		renderBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "entitymap_render_bytes",
			Help:    "Size of rendered artifacts in bytes.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "entitymap_render_duration_ms",
			Help:    "Render latency in milliseconds.",
			Buckets: msBuckets,
		}, []string{"format"}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "entitymap_store_operations_total",
			Help: "Store operations, labelled by driver, operation and status.",
		}, []string{"driver", "op", "status"}),
		storeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "entitymap_store_duration_ms",
			Help:    "Store operation latency in milliseconds.",
			Buckets: msBuckets,
		}, []string{"driver", "op"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "entitymap_cache_events_total",
			Help: "Cache hits, misses and writes, labelled by key type.",
		}, []string{"key_type", "event"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "entitymap_client_requests_total",
			Help: "Outgoing API client requests, labelled by method and status code.",
		}, []string{"method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "entitymap_client_request_duration_ms",
			Help:    "Outgoing API client latency in milliseconds.",
			Buckets: msBuckets,
		}, []string{"method"}),
	}
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnLayout(_ context.Context, nodes, _, _ int, d time.Duration) {
	p.layouts.Inc()
	p.layoutNodes.Observe(float64(nodes))
	p.layoutDuration.Observe(ms(d))
}

func (p *Prometheus) OnClick(_ context.Context, action string, err error) {
	p.clicks.WithLabelValues(action, status(err)).Inc()
}

func (p *Prometheus) OnRender(_ context.Context, format string, size int, d time.Duration, err error) {
	p.renders.WithLabelValues(format, status(err)).Inc()
	if err == nil {
		p.renderBytes.WithLabelValues(format).Observe(float64(size))
	}
	p.renderDuration.WithLabelValues(format).Observe(ms(d))
}

func (p *Prometheus) OnStoreOp(_ context.Context, driver, op string, d time.Duration, err error) {
	p.storeOps.WithLabelValues(driver, op, status(err)).Inc()
	p.storeDuration.WithLabelValues(driver, op).Observe(ms(d))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, method, _, _ string, code int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	p.httpDuration.WithLabelValues(method).Observe(ms(d))
}

func (p *Prometheus) OnError(_ context.Context, method, _, _ string, _ error) {
	p.httpRequests.WithLabelValues(method, "error").Inc()
}

// Register installs p as every global hook.
func (p *Prometheus) Register() {
	SetLayoutHooks(p)
	SetRenderHooks(p)
	SetStoreHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}
