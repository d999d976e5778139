package core

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"time"
)

// Call is a unit of measurable work.
type Call func(ctx context.Context) error

// CallWithResult is a unit of measurable work producing a value.
type CallWithResult[T any] func(ctx context.Context) (T, error)

// Measurement captures one timed invocation: the timestamps taken around the
// call and the derived duration. It is recorded once at call exit and kept
// only in the bounded Stopwatch history.
type Measurement struct {
	Name       string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Panicked   bool
	Err        error
}

// Stopwatch measures the wall-clock duration of calls wrapped with Timed.
// Every measurement is reported through the configured Logger and Metrics
// and retained in a bounded in-memory history.
//
// Reporting policy: the measurement is always recorded, in a deferred block,
// whether the call succeeds, returns an error, or panics. Panics re-propagate
// to the caller unchanged after the record is taken.
type Stopwatch struct {
	clock   Clock
	logger  Logger
	metrics Metrics
	history *measurementHistory
}

// NewStopwatch creates a Stopwatch. A nil config selects all defaults.
func NewStopwatch(cfg *StopwatchConfig) *Stopwatch {
	if cfg == nil {
		cfg = DefaultStopwatchConfig()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &NilMetrics{}
	}

	return &Stopwatch{
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		history: newMeasurementHistory(cfg.HistoryCapacity),
	}
}

// Recent returns up to limit recorded measurements, most recent first.
// limit <= 0 returns everything retained.
func (sw *Stopwatch) Recent(limit int) []Measurement {
	return sw.history.Recent(limit)
}

// Last returns the most recently recorded measurement.
func (sw *Stopwatch) Last() (Measurement, bool) {
	return sw.history.Last()
}

func (sw *Stopwatch) record(m Measurement) {
	sw.history.Add(m)
	sw.metrics.RecordCallDuration(m.Name, m.Duration)

	switch {
	case m.Panicked:
		sw.metrics.RecordCallPanic(m.Name, m.Err)
		sw.logger.Error("timed call panicked",
			F("call", m.Name), F("duration", m.Duration), F("panic", m.Err))
	case m.Err != nil:
		sw.logger.Warn("timed call failed",
			F("call", m.Name), F("duration", m.Duration), F("error", m.Err))
	default:
		sw.logger.Info("timed call finished",
			F("call", m.Name), F("duration", m.Duration))
	}
}

// Timed wraps fn so that every invocation is measured on sw. The wrapped
// call returns fn's result unchanged.
//
// The name is resolved from the function symbol; use TimedNamed for an
// explicit name.
func Timed[T any](sw *Stopwatch, fn CallWithResult[T]) CallWithResult[T] {
	return TimedNamed(sw, resolveCallName(fn, ""), fn)
}

// TimedNamed is Timed with an explicit measurement name.
func TimedNamed[T any](sw *Stopwatch, name string, fn CallWithResult[T]) CallWithResult[T] {
	return timedObserved(sw, name, fn, nil)
}

// Measure runs fn once on sw and returns its result together with the
// measurement taken around it.
func Measure[T any](sw *Stopwatch, ctx context.Context, name string, fn CallWithResult[T]) (T, Measurement, error) {
	var captured Measurement
	result, err := timedObserved(sw, name, fn, func(m Measurement) {
		captured = m
	})(ctx)
	return result, captured, err
}

func timedObserved[T any](sw *Stopwatch, name string, fn CallWithResult[T], observe func(Measurement)) CallWithResult[T] {
	if sw == nil {
		panic("Stopwatch: stopwatch must not be nil")
	}
	if fn == nil {
		panic("Stopwatch: fn must not be nil")
	}
	if name == "" {
		name = "anonymous"
	}

	return func(ctx context.Context) (T, error) {
		var (
			result T
			err    error
		)

		startedAt := sw.clock.Now()

		defer func() {
			m := Measurement{
				Name:      name,
				StartedAt: startedAt,
				Err:       err,
			}

			if rec := recover(); rec != nil {
				m.Panicked = true
				m.Err = fmt.Errorf("panic: %v", rec)
				m.FinishedAt = sw.clock.Now()
				m.Duration = m.FinishedAt.Sub(m.StartedAt)
				sw.record(m)
				if observe != nil {
					observe(m)
				}
				panic(rec)
			}

			m.FinishedAt = sw.clock.Now()
			m.Duration = m.FinishedAt.Sub(m.StartedAt)
			sw.record(m)
			if observe != nil {
				observe(m)
			}
		}()

		result, err = fn(ctx)
		return result, err
	}
}

// TimedCall wraps an error-only call, resolving the name from the function
// symbol.
func (sw *Stopwatch) TimedCall(fn Call) Call {
	return sw.TimedCallNamed(resolveCallName(fn, ""), fn)
}

// TimedCallNamed wraps an error-only call under an explicit name.
func (sw *Stopwatch) TimedCallNamed(name string, fn Call) Call {
	if fn == nil {
		panic("Stopwatch: fn must not be nil")
	}
	wrapped := TimedNamed(sw, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return func(ctx context.Context) error {
		_, err := wrapped(ctx)
		return err
	}
}

// MeasureCall runs an error-only call once and returns the measurement
// taken around it.
func (sw *Stopwatch) MeasureCall(ctx context.Context, name string, fn Call) (Measurement, error) {
	if fn == nil {
		panic("Stopwatch: fn must not be nil")
	}
	_, m, err := Measure(sw, ctx, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return m, err
}

// resolveCallName derives a measurement name from the function symbol when
// no explicit name is given.
func resolveCallName(fn any, explicit string) string {
	if explicit != "" {
		return explicit
	}

	if fn == nil {
		return "anonymous"
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "anonymous"
	}

	pc := v.Pointer()
	if pc == 0 {
		return "anonymous"
	}

	symbol := runtime.FuncForPC(pc)
	if symbol == nil {
		return "anonymous"
	}

	name := symbol.Name()
	if name == "" {
		return "anonymous"
	}
	return name
}
