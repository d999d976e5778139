// Package stats summarizes durations recorded by a Stopwatch or collected
// from worker results.
package stats

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Swind/go-timed-worker/core"
)

// Summary aggregates a batch of measured durations.
type Summary struct {
	Count  int
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
	Median time.Duration
	P95    time.Duration
}

// Durations extracts the durations from a batch of measurements.
func Durations(measurements []core.Measurement) []time.Duration {
	if len(measurements) == 0 {
		return nil
	}
	out := make([]time.Duration, 0, len(measurements))
	for _, m := range measurements {
		out = append(out, m.Duration)
	}
	return out
}

// WorkerDurations extracts the durations from a batch of worker results.
func WorkerDurations(results []core.WorkerResult) []time.Duration {
	if len(results) == 0 {
		return nil
	}
	out := make([]time.Duration, 0, len(results))
	for _, r := range results {
		out = append(out, r.Duration)
	}
	return out
}

// Summarize computes summary statistics over a batch of durations.
// An empty batch yields a zero Summary.
func Summarize(durations []time.Duration) Summary {
	if len(durations) == 0 {
		return Summary{}
	}

	secs := make([]float64, len(durations))
	for i, d := range durations {
		secs[i] = d.Seconds()
	}
	sort.Float64s(secs)

	out := Summary{
		Count:  len(secs),
		Min:    secondsToDuration(secs[0]),
		Max:    secondsToDuration(secs[len(secs)-1]),
		Mean:   secondsToDuration(stat.Mean(secs, nil)),
		Median: secondsToDuration(stat.Quantile(0.5, stat.Empirical, secs, nil)),
		P95:    secondsToDuration(stat.Quantile(0.95, stat.Empirical, secs, nil)),
	}

	// StdDev of a single sample is NaN; report zero spread instead
	if len(secs) > 1 {
		out.StdDev = secondsToDuration(stat.StdDev(secs, nil))
	}

	return out
}

// SummarizeMeasurements is Summarize over a Stopwatch history batch.
func SummarizeMeasurements(measurements []core.Measurement) Summary {
	return Summarize(Durations(measurements))
}

// SummarizeResults is Summarize over the results of a harness run.
func SummarizeResults(results []core.WorkerResult) Summary {
	return Summarize(WorkerDurations(results))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
