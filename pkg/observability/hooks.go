// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about pipeline stages and sampling.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetSamplerHooks(&mySamplerHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	table, err := attrs.LoadFile(path, opts)
//	observability.Pipeline().OnLoadComplete(ctx, "attributes", len(table.Records), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the dot-density pipeline.
type PipelineHooks interface {
	// OnLoadComplete fires once per input source ("attributes", "geometry").
	OnLoadComplete(ctx context.Context, source string, records int, duration time.Duration, err error)

	// OnJoinComplete fires after attribute and geometry records are joined.
	OnJoinComplete(ctx context.Context, matched int, duration time.Duration)

	// OnSampleComplete fires after all (tract, category) pairs are sampled.
	OnSampleComplete(ctx context.Context, points int, duration time.Duration, err error)

	// OnExportComplete fires after the output file is written.
	OnExportComplete(ctx context.Context, format string, points int, duration time.Duration, err error)
}

// =============================================================================
// Sampler Hooks
// =============================================================================

// SamplerHooks receives per-pair events from the dot sampler.
type SamplerHooks interface {
	// OnExhausted records a pair that hit its rejection budget before
	// producing all requested points.
	OnExhausted(ctx context.Context, key int64, category string, produced, requested int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnJoinComplete(context.Context, int, time.Duration)                 {}
func (NoopPipelineHooks) OnSampleComplete(context.Context, int, time.Duration, error)        {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}

// NoopSamplerHooks is a no-op implementation of SamplerHooks.
type NoopSamplerHooks struct{}

func (NoopSamplerHooks) OnExhausted(context.Context, int64, string, int, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	samplerHooks  SamplerHooks  = NoopSamplerHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSamplerHooks registers custom sampler hooks.
func SetSamplerHooks(h SamplerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		samplerHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Sampler returns the registered sampler hooks.
func Sampler() SamplerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return samplerHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	samplerHooks = NoopSamplerHooks{}
}
