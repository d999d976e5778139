package prometheus

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/Swind/go-timed-worker/core"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	callDurationSeconds   *prom.HistogramVec
	callPanicTotal        *prom.CounterVec
	workerDurationSeconds *prom.HistogramVec
	workerFailureTotal    *prom.CounterVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "timedworker"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	callDurationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "call_duration_seconds",
		Help:      "Timed call duration in seconds.",
		Buckets:   buckets,
	}, []string{"call"})
	callPanicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "call_panic_total",
		Help:      "Total number of timed call panics.",
	}, []string{"call"})
	workerDurationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "worker_duration_seconds",
		Help:      "Worker routine duration in seconds.",
		Buckets:   buckets,
	}, []string{"harness"})
	workerFailureVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "worker_failure_total",
		Help:      "Total number of failed worker routines.",
	}, []string{"harness", "reason"})

	var err error
	if callDurationVec, err = registerCollector(reg, callDurationVec); err != nil {
		return nil, err
	}
	if callPanicVec, err = registerCollector(reg, callPanicVec); err != nil {
		return nil, err
	}
	if workerDurationVec, err = registerCollector(reg, workerDurationVec); err != nil {
		return nil, err
	}
	if workerFailureVec, err = registerCollector(reg, workerFailureVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		callDurationSeconds:   callDurationVec,
		callPanicTotal:        callPanicVec,
		workerDurationSeconds: workerDurationVec,
		workerFailureTotal:    workerFailureVec,
	}, nil
}

// RecordCallDuration records a timed call duration.
func (m *MetricsExporter) RecordCallDuration(name string, duration time.Duration) {
	if m == nil {
		return
	}
	m.callDurationSeconds.WithLabelValues(normalizeLabel(name, "anonymous")).Observe(duration.Seconds())
}

// RecordCallPanic records a timed call panic event.
func (m *MetricsExporter) RecordCallPanic(name string, panicInfo any) {
	if m == nil {
		return
	}
	m.callPanicTotal.WithLabelValues(normalizeLabel(name, "anonymous")).Inc()
}

// RecordWorkerDuration records a worker routine duration.
func (m *MetricsExporter) RecordWorkerDuration(harnessName string, duration time.Duration) {
	if m == nil {
		return
	}
	m.workerDurationSeconds.WithLabelValues(normalizeLabel(harnessName, "unknown")).Observe(duration.Seconds())
}

// RecordWorkerFailure records a worker failure event.
func (m *MetricsExporter) RecordWorkerFailure(harnessName string, reason string) {
	if m == nil {
		return
	}
	m.workerFailureTotal.WithLabelValues(normalizeLabel(harnessName, "unknown"), normalizeLabel(reason, "unknown")).Inc()
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
