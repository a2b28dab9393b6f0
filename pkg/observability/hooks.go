// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about board updates, storage and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    logHooks := observability.NewLogHooks(logger)
//	    observability.SetDispatchHooks(logHooks)
//	    observability.SetStoreHooks(logHooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... apply transform ...
//	observability.Dispatch().OnApply(ctx, boardID, changed, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Dispatch Hooks
// =============================================================================

// DispatchHooks receives events from the board update dispatcher.
type DispatchHooks interface {
	// OnApply records one transform application. changed is false for
	// no-ops and failures.
	OnApply(ctx context.Context, boardID string, changed bool, duration time.Duration, err error)

	// OnPublish records an update event delivered to subscribers.
	OnPublish(ctx context.Context, boardID string, version int64, subscribers int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from board persistence.
type StoreHooks interface {
	// OnLoad records a board read.
	OnLoad(ctx context.Context, backend, boardID string, duration time.Duration, err error)

	// OnSave records a board write.
	OnSave(ctx context.Context, backend, boardID string, duration time.Duration, err error)

	// OnRetry records a retried storage operation.
	OnRetry(ctx context.Context, attempt int, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnHit records a cache hit.
	OnHit(ctx context.Context, backend, key string)

	// OnMiss records a cache miss.
	OnMiss(ctx context.Context, backend, key string)

	// OnSet records a cache write.
	OnSet(ctx context.Context, backend, key string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDispatchHooks is a no-op implementation of DispatchHooks.
type NoopDispatchHooks struct{}

func (NoopDispatchHooks) OnApply(context.Context, string, bool, time.Duration, error) {}
func (NoopDispatchHooks) OnPublish(context.Context, string, int64, int)               {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, string, time.Duration, error) {}
func (NoopStoreHooks) OnRetry(context.Context, int, error)                          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string, string)      {}
func (NoopCacheHooks) OnMiss(context.Context, string, string)     {}
func (NoopCacheHooks) OnSet(context.Context, string, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dispatchHooks DispatchHooks = NoopDispatchHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetDispatchHooks registers custom dispatch hooks.
// This should be called once at application startup.
func SetDispatchHooks(h DispatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dispatchHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Dispatch returns the registered dispatch hooks.
func Dispatch() DispatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dispatchHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dispatchHooks = NoopDispatchHooks{}
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
}
