package timedworker

import (
	"context"
	"sync"

	"github.com/Swind/go-timed-worker/core"
)

// =============================================================================
// Global Stopwatch Helper (Singleton)
// =============================================================================

var (
	globalStopwatch *core.Stopwatch
	globalMu        sync.Mutex
)

// InitGlobalStopwatch configures the process-wide Stopwatch used by TimeCall.
// Calling it after the global Stopwatch exists is a no-op. Initialization is
// optional: the first use installs a default Stopwatch.
func InitGlobalStopwatch(cfg *core.StopwatchConfig) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalStopwatch != nil {
		return // Already initialized
	}
	globalStopwatch = core.NewStopwatch(cfg)
}

// GlobalStopwatch returns the process-wide Stopwatch, creating a default one
// on first use.
func GlobalStopwatch() *core.Stopwatch {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalStopwatch == nil {
		globalStopwatch = core.NewStopwatch(nil)
	}
	return globalStopwatch
}

// ResetGlobalStopwatch drops the process-wide Stopwatch so the next use
// starts fresh. Mainly useful in tests.
func ResetGlobalStopwatch() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalStopwatch = nil
}

// TimeCall measures one invocation of fn on the global Stopwatch and returns
// the measurement taken around it. The error is fn's own, unchanged.
func TimeCall(ctx context.Context, name string, fn core.Call) (core.Measurement, error) {
	return GlobalStopwatch().MeasureCall(ctx, name, fn)
}

// RunWorkers spawns workers goroutines running routine, blocks until all of
// them have completed, and returns one result per worker. This is the
// recommended way to run a one-shot worker set with default configuration;
// use NewWorkerGroup directly for custom logging, metrics, or labeling.
func RunWorkers(ctx context.Context, name string, workers int, routine core.WorkerRoutine) []core.WorkerResult {
	return core.NewWorkerGroup(name, workers, routine, nil).Run(ctx)
}
