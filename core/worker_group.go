package core

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
)

// maxAllowedWorkers is the maximum allowed worker count for a WorkerGroup.
// Values higher than this could lead to excessive goroutine creation and
// memory exhaustion.
const maxAllowedWorkers = 10000

// ErrWorkerPanicked marks a WorkerResult whose routine panicked. The
// recovered value is attached via fmt wrapping; unwrap with errors.Is.
var ErrWorkerPanicked = errors.New("worker panicked")

// WorkerRoutine is the unit of work executed by each worker. The worker
// index distinguishes workers sharing one routine.
type WorkerRoutine func(ctx context.Context, worker int) error

// WorkerResult is the collected outcome of one worker. A failing routine
// aborts only its own worker; the error surfaces here instead of reaching
// the harness caller as a failure.
type WorkerResult struct {
	Worker     int
	Label      string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Err        error
	Panicked   bool
}

// Failed reports whether the worker routine returned an error or panicked.
func (r WorkerResult) Failed() bool { return r.Err != nil }

// FailedResults filters results down to the workers that failed.
func FailedResults(results []WorkerResult) []WorkerResult {
	var out []WorkerResult
	for _, r := range results {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// FirstError returns the lowest-indexed worker error, or nil if every
// worker completed cleanly.
func FirstError(results []WorkerResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// WorkerGroup spawns a fixed set of workers that each execute a shared
// routine exactly once, then lets the caller block at a single join barrier
// until every worker has completed.
//
// Each worker has exactly two states, running and completed, with a single
// transition. Completion order across workers is unspecified; the only
// guarantee is that Join does not return before all of them have completed.
// Once started, a worker runs to completion or failure; there is no
// mechanism to cancel it mid-flight.
type WorkerGroup struct {
	name    string
	workers int
	routine WorkerRoutine

	logger       Logger
	metrics      Metrics
	panicHandler PanicHandler
	clock        Clock
	labeler      Labeler

	wg        sync.WaitGroup
	results   []WorkerResult
	completed atomic.Int32
	failed    atomic.Int32

	started   bool
	joined    bool
	startedMu sync.RWMutex
}

// NewWorkerGroup creates a WorkerGroup of the given size. A nil config
// selects all defaults. Panics if routine is nil or workers is out of the
// valid range [1, 10000].
func NewWorkerGroup(name string, workers int, routine WorkerRoutine, cfg *HarnessConfig) *WorkerGroup {
	if workers < 1 {
		panic("WorkerGroup: workers must be at least 1")
	}
	if workers > maxAllowedWorkers {
		panic(fmt.Sprintf("WorkerGroup: workers must not exceed %d", maxAllowedWorkers))
	}
	if routine == nil {
		panic("WorkerGroup: routine must not be nil")
	}

	resolved := cfg.withDefaults()

	return &WorkerGroup{
		name:         name,
		workers:      workers,
		routine:      routine,
		logger:       resolved.Logger,
		metrics:      resolved.Metrics,
		panicHandler: resolved.PanicHandler,
		clock:        resolved.Clock,
		labeler:      resolved.Labeler,
		results:      make([]WorkerResult, workers),
	}
}

// Start spawns every worker goroutine. Calling Start more than once is a
// no-op.
func (g *WorkerGroup) Start(ctx context.Context) {
	g.startedMu.Lock()
	defer g.startedMu.Unlock()

	if g.started {
		return
	}
	g.started = true

	if ctx == nil {
		ctx = context.Background()
	}

	g.logger.Debug("starting workers", F("harness", g.name), F("workers", g.workers))

	for i := 0; i < g.workers; i++ {
		g.wg.Add(1)
		go g.workerLoop(i, ctx)
	}
}

// Join blocks until every spawned worker has reached the completed state
// and returns one result per worker, indexed by worker. Safe to call from
// multiple goroutines; each caller gets its own copy.
func (g *WorkerGroup) Join() []WorkerResult {
	g.wg.Wait()

	g.startedMu.Lock()
	g.joined = true
	g.startedMu.Unlock()

	out := make([]WorkerResult, len(g.results))
	copy(out, g.results)
	return out
}

// Run is Start followed by Join.
func (g *WorkerGroup) Run(ctx context.Context) []WorkerResult {
	g.Start(ctx)
	return g.Join()
}

// Name returns the harness name.
func (g *WorkerGroup) Name() string { return g.name }

// WorkerCount returns the number of workers.
func (g *WorkerGroup) WorkerCount() int { return g.workers }

// CompletedCount returns how many workers have reached the completed state.
func (g *WorkerGroup) CompletedCount() int { return int(g.completed.Load()) }

// Stats returns a point-in-time snapshot of the group.
func (g *WorkerGroup) Stats() HarnessStats {
	g.startedMu.RLock()
	started := g.started
	joined := g.joined
	g.startedMu.RUnlock()

	completed := int(g.completed.Load())
	return HarnessStats{
		Name:      g.name,
		Workers:   g.workers,
		Completed: completed,
		Failed:    int(g.failed.Load()),
		Started:   started,
		Done:      joined || completed == g.workers,
	}
}

// workerLoop runs the shared routine once for one worker. Panics are
// recovered here so a failing worker never takes down its siblings or the
// process; the outcome lands in the worker's result slot. Each worker owns
// its own slot, and the join barrier publishes the writes, so no lock is
// needed around the slice.
func (g *WorkerGroup) workerLoop(worker int, ctx context.Context) {
	defer g.wg.Done()

	label := g.labeler(worker)
	startedAt := g.clock.Now()
	result := WorkerResult{Worker: worker, Label: label, StartedAt: startedAt}

	defer func() {
		if rec := recover(); rec != nil {
			result.Err = fmt.Errorf("%w: %v", ErrWorkerPanicked, rec)
			result.Panicked = true
			g.failed.Add(1)
			g.metrics.RecordWorkerFailure(g.name, "panic")
			g.panicHandler.HandlePanic(ctx, g.name, worker, rec, debug.Stack())
		}

		result.FinishedAt = g.clock.Now()
		result.Duration = result.FinishedAt.Sub(result.StartedAt)
		g.results[worker] = result
		g.completed.Add(1)
		g.metrics.RecordWorkerDuration(g.name, result.Duration)
		g.logger.Debug("worker completed",
			F("harness", g.name), F("worker", label), F("duration", result.Duration))
	}()

	if err := g.routine(ctx, worker); err != nil {
		result.Err = err
		g.failed.Add(1)
		g.metrics.RecordWorkerFailure(g.name, "error")
		g.logger.Warn("worker failed",
			F("harness", g.name), F("worker", label), F("error", err))
	}
}

func defaultLabeler(worker int) string {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Sprintf("worker-%d", worker)
	}
	return fmt.Sprintf("worker-%d-%s", worker, id)
}
