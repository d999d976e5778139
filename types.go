package timedworker

import (
	"context"

	"github.com/Swind/go-timed-worker/core"
)

// Re-export commonly used types from core package for convenience.
// This allows users to import only the timedworker package for most use cases.

// Measurement is the recorded outcome of one timed invocation
type Measurement = core.Measurement

// Stopwatch measures and reports wall-clock durations of calls
type Stopwatch = core.Stopwatch

// StopwatchConfig configures a Stopwatch (clock, logger, metrics, history)
type StopwatchConfig = core.StopwatchConfig

// Call is a measurable unit of work
type Call = core.Call

// CallWithResult is a measurable unit of work producing a value
type CallWithResult[T any] = core.CallWithResult[T]

// WorkerGroup spawns a fixed set of workers and joins them at one barrier
type WorkerGroup = core.WorkerGroup

// WorkerRoutine is the shared routine each worker executes once
type WorkerRoutine = core.WorkerRoutine

// WorkerResult is the collected outcome of one worker
type WorkerResult = core.WorkerResult

// HarnessConfig configures a WorkerGroup
type HarnessConfig = core.HarnessConfig

// HarnessStats is a point-in-time snapshot of a WorkerGroup
type HarnessStats = core.HarnessStats

// GuardedCounter is a shared counter behind exactly one lock
type GuardedCounter = core.GuardedCounter

// CounterSet tracks named counters behind a single lock
type CounterSet = core.CounterSet

// TurnGate schedules turns to the least-run worker
type TurnGate = core.TurnGate

// Clock supplies measurement timestamps
type Clock = core.Clock

// Logger is the structured logging interface used across the module
type Logger = core.Logger

// Field is a structured logging key-value pair
type Field = core.Field

// ErrWorkerPanicked marks a WorkerResult whose routine panicked
var ErrWorkerPanicked = core.ErrWorkerPanicked

// Convenience constructors and helpers
var (
	NewStopwatch           = core.NewStopwatch
	NewWorkerGroup         = core.NewWorkerGroup
	NewCounterSet          = core.NewCounterSet
	NewTurnGate            = core.NewTurnGate
	NewManualClock         = core.NewManualClock
	SystemClock            = core.SystemClock
	DefaultHarnessConfig   = core.DefaultHarnessConfig
	DefaultStopwatchConfig = core.DefaultStopwatchConfig
	FailedResults          = core.FailedResults
	FirstError             = core.FirstError
	F                      = core.F
)

// Timed wraps fn so every invocation is measured on sw. The wrapped call
// returns fn's result unchanged; see core.Timed.
func Timed[T any](sw *Stopwatch, fn CallWithResult[T]) CallWithResult[T] {
	return core.Timed(sw, fn)
}

// TimedNamed is Timed with an explicit measurement name.
func TimedNamed[T any](sw *Stopwatch, name string, fn CallWithResult[T]) CallWithResult[T] {
	return core.TimedNamed(sw, name, fn)
}

// Measure runs fn once on sw and returns its result together with the
// measurement taken around it.
func Measure[T any](sw *Stopwatch, ctx context.Context, name string, fn CallWithResult[T]) (T, Measurement, error) {
	return core.Measure(sw, ctx, name, fn)
}
