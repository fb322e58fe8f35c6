// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about layout and
// render runs, cache operations and HTTP requests, without the library
// depending on a particular metrics backend.
//
// The CLI installs [LogHooks] under --verbose, which prints every event at
// debug level:
//
//	observability.NewLogHooks(logger).Install()
//
// The pipeline and the HTTP server emit events through the registry:
//
//	observability.Pipeline().OnLayoutStart(ctx, caseID, len(individuals))
//	// ... lay out ...
//	observability.Pipeline().OnLayoutComplete(ctx, caseID, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives layout and render events.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, caseID string, individuals int)
	OnLayoutComplete(ctx context.Context, caseID string, duration time.Duration, err error)

	// OnSkip records an individual or chromosome left out of a layout.
	// The chromosome is empty when a whole individual was skipped.
	OnSkip(ctx context.Context, individualID, chromosome, reason string)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is one of
// "reference", "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives API requests and their responses.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnSkip(context.Context, string, string, string)                   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds the installed hooks. Setters ignore nil.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	}
}

func (r *registry) set(fn func()) {
	r.mu.Lock()
	fn()
	r.mu.Unlock()
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooks.set(func() {
		if h != nil {
			hooks.pipeline = h
		}
	})
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooks.set(func() {
		if h != nil {
			hooks.cache = h
		}
	})
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooks.set(func() {
		if h != nil {
			hooks.http = h
		}
	})
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset reinstalls the no-op hooks.
func Reset() {
	hooks.set(func() {
		hooks.pipeline = NoopPipelineHooks{}
		hooks.cache = NoopCacheHooks{}
		hooks.http = NoopHTTPHooks{}
	})
}
