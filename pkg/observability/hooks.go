// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about compositing ticks and session changes.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the engine packages
// carry no dependency on a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetSessionHooks(&mySessionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnFrame(layers, drawn, skipped, elapsed)
//
// Render hooks run on the compositing goroutine once per tick and must not
// block.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the compositing loop.
type RenderHooks interface {
	// Loop lifecycle
	OnRenderStart(kind string)
	OnRenderStop(frames uint64)

	// OnFrame records one completed tick. drawn counts layers whose frame
	// reached the surface; skipped counts layers that were not ready.
	OnFrame(layers, drawn, skipped int, duration time.Duration)

	// OnDrawError records a layer whose handle panicked or returned no frame.
	OnDrawError(sourceID string, err error)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from the collage session controller.
type SessionHooks interface {
	// OnSourceAdded records an add attempt. err is non-nil when the source
	// could not be opened and was not added.
	OnSourceAdded(ctx context.Context, sourceID, displayName string, err error)

	// OnSourceRemoved records a removal.
	OnSourceRemoved(sourceID string)

	// OnLayoutChanged records a layout switch.
	OnLayoutChanged(kind string)

	// OnAudioChanged records a change to the audio routing.
	OnAudioChanged(globallyMuted bool, audible int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(string)                 {}
func (NoopRenderHooks) OnRenderStop(uint64)                  {}
func (NoopRenderHooks) OnFrame(int, int, int, time.Duration) {}
func (NoopRenderHooks) OnDrawError(string, error)            {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSourceAdded(context.Context, string, string, error) {}
func (NoopSessionHooks) OnSourceRemoved(string)                               {}
func (NoopSessionHooks) OnLayoutChanged(string)                               {}
func (NoopSessionHooks) OnAudioChanged(bool, int)                             {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks  RenderHooks  = NoopRenderHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	hooksMu      sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any renderer starts.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup before any session is created.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	sessionHooks = NoopSessionHooks{}
}
