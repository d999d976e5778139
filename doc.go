// Package timedworker provides two small, composable concurrency utilities
// for Go: a timing wrapper that measures the wall-clock duration of any
// call, and a worker harness that spawns a fixed set of workers and joins
// them at a single barrier.
//
// # Quick Start
//
// Wrap a call so every invocation is measured and reported:
//
//	sw := timedworker.NewStopwatch(nil)
//	fetch := timedworker.Timed(sw, func(ctx context.Context) (int, error) {
//		// Your code here - the result is returned unchanged
//		return 42, nil
//	})
//	value, err := fetch(ctx) // one report line per invocation
//
// Spawn workers sharing one routine and wait for all of them:
//
//	var counter timedworker.GuardedCounter
//	results := timedworker.RunWorkers(ctx, "ingest", 5, func(ctx context.Context, worker int) error {
//		for i := 0; i < 1000; i++ {
//			counter.Increment()
//		}
//		return nil
//	})
//	// counter.Value() == 5000, results holds one outcome per worker
//
// # Key Concepts
//
// Stopwatch: records a Measurement (start, end, derived duration) around
// every wrapped invocation. The measurement is always reported - on
// success, on error, and on panic (panics re-propagate unchanged). The
// clock is injectable, so durations are deterministic in tests.
//
// WorkerGroup: a fixed set of workers, each running the shared routine
// exactly once. Join blocks until every worker has completed, in any order,
// and returns one WorkerResult per worker. A failing or panicking routine
// aborts only its own worker; the caller inspects the collected results and
// decides.
//
// GuardedCounter: shared mutable state behind exactly one lock, with the
// critical section scoped so the lock is released even if the section
// fails.
//
// TurnGate: condition-variable turn-taking where the worker with the fewest
// completed turns always goes next.
//
// # Observability
//
// Stopwatch and WorkerGroup report through the core.Logger and core.Metrics
// interfaces. The observability/prometheus package exports metrics to
// Prometheus collectors; the logging package adapts zerolog and logrus
// backends; the stats package summarizes recorded durations.
//
// # Example
//
//	import (
//		"context"
//
//		timedworker "github.com/Swind/go-timed-worker"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		m, err := timedworker.TimeCall(ctx, "startup", func(ctx context.Context) error {
//			return warmCaches(ctx)
//		})
//		if err != nil {
//			// duration was still measured and reported
//		}
//		_ = m.Duration
//	}
package timedworker
