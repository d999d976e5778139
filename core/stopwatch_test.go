package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestStopwatch(clock Clock) *Stopwatch {
	return NewStopwatch(&StopwatchConfig{
		Clock:  clock,
		Logger: NewNoOpLogger(),
	})
}

// recordingMetrics captures Metrics calls for assertions.
type recordingMetrics struct {
	mu            sync.Mutex
	callDurations []time.Duration
	callPanics    int
	workerCount   int
	failures      []string
}

func (m *recordingMetrics) RecordCallDuration(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callDurations = append(m.callDurations, duration)
}

func (m *recordingMetrics) RecordCallPanic(name string, panicInfo any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callPanics++
}

func (m *recordingMetrics) RecordWorkerDuration(harnessName string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workerCount++
}

func (m *recordingMetrics) RecordWorkerFailure(harnessName string, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, reason)
}

var _ Metrics = (*recordingMetrics)(nil)

func TestTimed_ResultPassthrough(t *testing.T) {
	sw := newTestStopwatch(SystemClock())

	timed := Timed(sw, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	got, err := timed(context.Background())
	if err != nil {
		t.Fatalf("timed call failed: %v", err)
	}
	if got != 42 {
		t.Errorf("result: got = %d, want 42", got)
	}
}

func TestTimed_ErrorPassthrough(t *testing.T) {
	sw := newTestStopwatch(SystemClock())
	wantErr := errors.New("boom")

	timed := TimedNamed(sw, "failing", func(ctx context.Context) (string, error) {
		return "partial", wantErr
	})

	got, err := timed(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("error: got = %v, want %v", err, wantErr)
	}
	if got != "partial" {
		t.Errorf("result: got = %q, want %q", got, "partial")
	}

	// The measurement is still recorded on failure
	m, ok := sw.Last()
	if !ok {
		t.Fatal("no measurement recorded for failing call")
	}
	if m.Name != "failing" {
		t.Errorf("measurement name: got = %q, want %q", m.Name, "failing")
	}
	if !errors.Is(m.Err, wantErr) {
		t.Errorf("measurement error: got = %v, want %v", m.Err, wantErr)
	}
	if m.Panicked {
		t.Error("measurement marked panicked for a plain error")
	}
}

func TestTimed_ManualClockDuration(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sw := newTestStopwatch(clock)

	timed := TimedNamed(sw, "stepped", func(ctx context.Context) (struct{}, error) {
		clock.Advance(300 * time.Millisecond)
		return struct{}{}, nil
	})

	if _, err := timed(context.Background()); err != nil {
		t.Fatalf("timed call failed: %v", err)
	}

	m, ok := sw.Last()
	if !ok {
		t.Fatal("no measurement recorded")
	}
	if m.Duration != 300*time.Millisecond {
		t.Errorf("duration: got = %v, want %v", m.Duration, 300*time.Millisecond)
	}
	if m.FinishedAt.Sub(m.StartedAt) != m.Duration {
		t.Errorf("duration inconsistent with timestamps: %v vs %v",
			m.FinishedAt.Sub(m.StartedAt), m.Duration)
	}
}

func TestTimed_SleepLowerBound(t *testing.T) {
	sw := newTestStopwatch(SystemClock())
	const delay = 100 * time.Millisecond

	timed := TimedNamed(sw, "sleeper", func(ctx context.Context) (int, error) {
		time.Sleep(delay)
		return 42, nil
	})

	got, err := timed(context.Background())
	if err != nil {
		t.Fatalf("timed call failed: %v", err)
	}
	if got != 42 {
		t.Errorf("result: got = %d, want 42", got)
	}

	m, _ := sw.Last()
	if m.Duration < delay {
		t.Errorf("duration %v below the sleep of %v", m.Duration, delay)
	}
	if m.Duration > 500*time.Millisecond {
		t.Errorf("duration %v exceeds scheduling slack bound of 500ms", m.Duration)
	}
}

func TestTimed_PanicRecordedAndRepropagated(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	metrics := &recordingMetrics{}
	sw := NewStopwatch(&StopwatchConfig{
		Clock:   clock,
		Logger:  NewNoOpLogger(),
		Metrics: metrics,
	})

	timed := TimedNamed(sw, "panicker", func(ctx context.Context) (int, error) {
		clock.Advance(50 * time.Millisecond)
		panic("kaboom")
	})

	func() {
		defer func() {
			rec := recover()
			if rec == nil {
				t.Fatal("panic did not propagate to the caller")
			}
			if rec != "kaboom" {
				t.Errorf("panic value: got = %v, want kaboom", rec)
			}
		}()
		timed(context.Background())
	}()

	m, ok := sw.Last()
	if !ok {
		t.Fatal("no measurement recorded for panicking call")
	}
	if !m.Panicked {
		t.Error("measurement not marked panicked")
	}
	if m.Duration != 50*time.Millisecond {
		t.Errorf("duration: got = %v, want %v", m.Duration, 50*time.Millisecond)
	}
	if metrics.callPanics != 1 {
		t.Errorf("panic metric: got = %d, want 1", metrics.callPanics)
	}
}

func TestTimed_DurationNonNegative(t *testing.T) {
	sw := newTestStopwatch(SystemClock())

	timed := Timed(sw, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, nil
	})

	if _, err := timed(context.Background()); err != nil {
		t.Fatalf("timed call failed: %v", err)
	}

	m, _ := sw.Last()
	if m.Duration < 0 {
		t.Errorf("duration negative: %v", m.Duration)
	}
}

func namedWork(ctx context.Context) (int, error) { return 1, nil }

func TestTimed_NameResolution(t *testing.T) {
	sw := newTestStopwatch(SystemClock())

	timed := Timed(sw, namedWork)
	if _, err := timed(context.Background()); err != nil {
		t.Fatalf("timed call failed: %v", err)
	}

	m, _ := sw.Last()
	if !strings.Contains(m.Name, "namedWork") {
		t.Errorf("resolved name %q does not mention the function symbol", m.Name)
	}
}

func TestMeasure_ReturnsMeasurement(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sw := newTestStopwatch(clock)

	got, m, err := Measure(sw, context.Background(), "measured", func(ctx context.Context) (string, error) {
		clock.Advance(2 * time.Second)
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if got != "done" {
		t.Errorf("result: got = %q, want %q", got, "done")
	}
	if m.Duration != 2*time.Second {
		t.Errorf("duration: got = %v, want %v", m.Duration, 2*time.Second)
	}
	if m.Name != "measured" {
		t.Errorf("name: got = %q, want %q", m.Name, "measured")
	}
}

func TestTimedCall_ErrorOnly(t *testing.T) {
	sw := newTestStopwatch(SystemClock())
	wantErr := errors.New("io failed")

	call := sw.TimedCallNamed("io", func(ctx context.Context) error {
		return wantErr
	})

	if err := call(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("error: got = %v, want %v", err, wantErr)
	}

	m, ok := sw.Last()
	if !ok || m.Name != "io" {
		t.Errorf("measurement: got = %+v, ok=%v, want name io", m, ok)
	}
}

func TestMeasureCall_ErrorOnly(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sw := newTestStopwatch(clock)

	m, err := sw.MeasureCall(context.Background(), "step", func(ctx context.Context) error {
		clock.Advance(time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("MeasureCall failed: %v", err)
	}
	if m.Duration != time.Millisecond {
		t.Errorf("duration: got = %v, want %v", m.Duration, time.Millisecond)
	}
}

func TestStopwatch_RecentOrder(t *testing.T) {
	sw := newTestStopwatch(SystemClock())

	for _, name := range []string{"a", "b", "c"} {
		call := TimedNamed(sw, name, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, nil
		})
		if _, err := call(context.Background()); err != nil {
			t.Fatalf("call %s failed: %v", name, err)
		}
	}

	recent := sw.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("recent count: got = %d, want 3", len(recent))
	}
	wantOrder := []string{"c", "b", "a"}
	for i, want := range wantOrder {
		if recent[i].Name != want {
			t.Errorf("recent[%d]: got = %q, want %q", i, recent[i].Name, want)
		}
	}
}

func TestTimedNamed_NilFnPanics(t *testing.T) {
	sw := newTestStopwatch(SystemClock())

	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil fn")
		}
	}()
	TimedNamed[int](sw, "nil", nil)
}
