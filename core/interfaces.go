package core

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling worker panics
// =============================================================================

// PanicHandler is called when a worker routine panics during execution.
// This allows custom panic handling, logging, and recovery strategies.
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a worker routine panics.
	//
	// Parameters:
	// - ctx: The context the worker was running with
	// - harnessName: The name of the worker group where the panic occurred
	// - worker: The index of the worker
	// - panicInfo: The panic value recovered from the routine
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(ctx context.Context, harnessName string, worker int, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler provides a basic panic handler that logs to stdout.
type DefaultPanicHandler struct{}

// HandlePanic prints panic information to stdout.
func (h *DefaultPanicHandler) HandlePanic(ctx context.Context, harnessName string, worker int, panicInfo any, stackTrace []byte) {
	fmt.Printf("[Worker %d @ %s] Panic: %v\nStack trace:\n%s",
		worker, harnessName, panicInfo, stackTrace)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting timing and worker metrics.
// Implementations can send metrics to monitoring systems; a Prometheus
// adapter lives in observability/prometheus.
//
// All methods are optional; implementations should handle nil receivers gracefully.
// Methods should be non-blocking and fast to avoid impacting measured work.
type Metrics interface {
	// RecordCallDuration records how long a timed call took to execute.
	RecordCallDuration(name string, duration time.Duration)

	// RecordCallPanic records that a timed call panicked during execution.
	RecordCallPanic(name string, panicInfo any)

	// RecordWorkerDuration records how long a worker routine ran before
	// reaching the completed state.
	RecordWorkerDuration(harnessName string, duration time.Duration)

	// RecordWorkerFailure records that a worker routine returned an error
	// or panicked. The reason is a short classification ("error", "panic").
	RecordWorkerFailure(harnessName string, reason string)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordCallDuration is a no-op.
func (m *NilMetrics) RecordCallDuration(name string, duration time.Duration) {}

// RecordCallPanic is a no-op.
func (m *NilMetrics) RecordCallPanic(name string, panicInfo any) {}

// RecordWorkerDuration is a no-op.
func (m *NilMetrics) RecordWorkerDuration(harnessName string, duration time.Duration) {}

// RecordWorkerFailure is a no-op.
func (m *NilMetrics) RecordWorkerFailure(harnessName string, reason string) {}

// =============================================================================
// Configuration
// =============================================================================

// Labeler produces a human-readable label for a worker index.
type Labeler func(worker int) string

// HarnessConfig holds configuration options for a WorkerGroup.
// All fields are optional; nil fields fall back to defaults.
type HarnessConfig struct {
	// Logger receives per-worker progress messages. Defaults to DefaultLogger.
	Logger Logger

	// Metrics is called to record worker metrics. Defaults to NilMetrics.
	Metrics Metrics

	// PanicHandler is called when a worker routine panics. Defaults to
	// DefaultPanicHandler.
	PanicHandler PanicHandler

	// Clock supplies worker start/finish timestamps. Defaults to SystemClock.
	Clock Clock

	// Labeler names workers. Defaults to uuid-suffixed labels.
	Labeler Labeler
}

// DefaultHarnessConfig returns a config with default handlers.
func DefaultHarnessConfig() *HarnessConfig {
	return &HarnessConfig{
		Logger:       NewDefaultLogger(),
		Metrics:      &NilMetrics{},
		PanicHandler: &DefaultPanicHandler{},
		Clock:        SystemClock(),
		Labeler:      defaultLabeler,
	}
}

func (c *HarnessConfig) withDefaults() HarnessConfig {
	out := HarnessConfig{}
	if c != nil {
		out = *c
	}
	if out.Logger == nil {
		out.Logger = NewDefaultLogger()
	}
	if out.Metrics == nil {
		out.Metrics = &NilMetrics{}
	}
	if out.PanicHandler == nil {
		out.PanicHandler = &DefaultPanicHandler{}
	}
	if out.Clock == nil {
		out.Clock = SystemClock()
	}
	if out.Labeler == nil {
		out.Labeler = defaultLabeler
	}
	return out
}

// StopwatchConfig holds configuration options for a Stopwatch.
// All fields are optional; nil fields fall back to defaults.
type StopwatchConfig struct {
	// Clock supplies the start/end timestamps. Defaults to SystemClock.
	Clock Clock

	// Logger receives the one-line report per measured invocation.
	// Defaults to DefaultLogger.
	Logger Logger

	// Metrics is called with every recorded measurement. Defaults to NilMetrics.
	Metrics Metrics

	// HistoryCapacity bounds the in-memory measurement history.
	// Defaults to 100.
	HistoryCapacity int
}

// DefaultStopwatchConfig returns a config with default handlers.
func DefaultStopwatchConfig() *StopwatchConfig {
	return &StopwatchConfig{
		Clock:   SystemClock(),
		Logger:  NewDefaultLogger(),
		Metrics: &NilMetrics{},
	}
}
