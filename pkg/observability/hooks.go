// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation of conversions without
// adding hard dependencies on specific observability backends. Consumers
// register hooks at startup to receive events about each pipeline stage.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline calls the hooks around each stage:
//
//	observability.Pipeline().OnParseStart(ctx, input)
//	// ... decode and index ...
//	observability.Pipeline().OnParseComplete(ctx, input, nodes, connections, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the conversion pipeline.
//
// Every Start event is followed by exactly one Complete event for the same
// stage; err is nil on success. A failed stage ends the run, so later
// stages report no events.
type PipelineHooks interface {
	// Parse events (decode the document and assign canonical indices)
	OnParseStart(ctx context.Context, input string)
	OnParseComplete(ctx context.Context, input string, nodes, connections int, duration time.Duration, err error)

	// Build events (incidence matrix, attribute arrays, identifier tables)
	OnBuildStart(ctx context.Context, nodes, connections int)
	OnBuildComplete(ctx context.Context, duration time.Duration, err error)

	// Write events (encode and store the artifact)
	OnWriteStart(ctx context.Context, output string)
	OnWriteComplete(ctx context.Context, output string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnBuildStart(context.Context, int, int)                             {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, time.Duration, error)              {}
func (NoopPipelineHooks) OnWriteStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnWriteComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. A nil h is ignored.
// This should be called once at application startup before any conversion.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
