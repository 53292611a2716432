// Package observability provides hooks for metrics and logging.
//
// Libraries emit events through the registered hooks without depending on a
// metrics backend. The binary decides what receives them: the no-op defaults,
// the Prometheus implementation from [NewPrometheus], or a test double.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    prom := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	    observability.SetLayoutHooks(prom)
//	    observability.SetStoreHooks(prom)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... rank and arrange ...
//	observability.Layout().OnLayout(ctx, nodes, edges, maxRank, time.Since(start))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the mindmap engine.
type LayoutHooks interface {
	// OnLayout records a completed build, rank and arrange pass.
	OnLayout(ctx context.Context, nodes, edges, maxRank int, duration time.Duration)

	// OnClick records a resolved click and the action it produced.
	OnClick(ctx context.Context, action string, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events when a scene is encoded to an output format.
type RenderHooks interface {
	OnRender(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from persistence backends.
type StoreHooks interface {
	OnStoreOp(ctx context.Context, driver, op string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives artifact cache events. keyType names what was
// looked up, such as "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API client. OnError fires for
// transport failures; any response, whatever its status, goes to
// OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks ignores layout events.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayout(context.Context, int, int, int, time.Duration) {}
func (NoopLayoutHooks) OnClick(context.Context, string, error)                {}

// NoopRenderHooks ignores render events.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRender(context.Context, string, int, time.Duration, error) {}

// NoopStoreHooks ignores store events.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks ignores cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores HTTP client events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// registry is replaced as a whole on every change, so readers on hot paths
// load one pointer and never lock.
type registry struct {
	layout LayoutHooks
	render RenderHooks
	store  StoreHooks
	cache  CacheHooks
	http   HTTPHooks
}

func noopRegistry() *registry {
	return &registry{
		layout: NoopLayoutHooks{},
		render: NoopRenderHooks{},
		store:  NoopStoreHooks{},
		cache:  NoopCacheHooks{},
		http:   NoopHTTPHooks{},
	}
}

var current atomic.Pointer[registry]

func init() { current.Store(noopRegistry()) }

// update applies fn to a copy of the registry and publishes it.
func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetLayoutHooks registers layout hooks. Nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	if h != nil {
		update(func(r *registry) { r.layout = h })
	}
}

// SetRenderHooks registers render hooks. Nil is ignored.
func SetRenderHooks(h RenderHooks) {
	if h != nil {
		update(func(r *registry) { r.render = h })
	}
}

// SetStoreHooks registers store hooks. Nil is ignored.
func SetStoreHooks(h StoreHooks) {
	if h != nil {
		update(func(r *registry) { r.store = h })
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP client hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

func Layout() LayoutHooks { return current.Load().layout }
func Render() RenderHooks { return current.Load().render }
func Store() StoreHooks   { return current.Load().store }
func Cache() CacheHooks   { return current.Load().cache }
func HTTP() HTTPHooks     { return current.Load().http }

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() { current.Store(noopRegistry()) }
