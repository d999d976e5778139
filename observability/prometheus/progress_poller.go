package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/Swind/go-timed-worker/core"
)

// HarnessSnapshotProvider provides current harness stats snapshots.
type HarnessSnapshotProvider interface {
	Stats() core.HarnessStats
}

// ProgressPoller periodically exports harness Stats() snapshots into
// Prometheus gauges, so worker progress is visible while a group is still
// running.
type ProgressPoller struct {
	interval time.Duration

	harnessesMu sync.RWMutex
	harnesses   map[string]HarnessSnapshotProvider

	harnessWorkers   *prom.GaugeVec
	harnessCompleted *prom.GaugeVec
	harnessFailed    *prom.GaugeVec
	harnessDone      *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewProgressPoller creates a progress poller and registers its collectors.
func NewProgressPoller(reg prom.Registerer, interval time.Duration) (*ProgressPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	harnessWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "timedworker",
		Name:      "harness_workers",
		Help:      "Worker count per harness.",
	}, []string{"harness"})
	harnessCompleted := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "timedworker",
		Name:      "harness_completed",
		Help:      "Completed workers per harness.",
	}, []string{"harness"})
	harnessFailed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "timedworker",
		Name:      "harness_failed",
		Help:      "Failed workers per harness.",
	}, []string{"harness"})
	harnessDone := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "timedworker",
		Name:      "harness_done",
		Help:      "Harness completion state (1=all workers completed, 0=running).",
	}, []string{"harness"})

	var err error
	if harnessWorkers, err = registerCollector(reg, harnessWorkers); err != nil {
		return nil, err
	}
	if harnessCompleted, err = registerCollector(reg, harnessCompleted); err != nil {
		return nil, err
	}
	if harnessFailed, err = registerCollector(reg, harnessFailed); err != nil {
		return nil, err
	}
	if harnessDone, err = registerCollector(reg, harnessDone); err != nil {
		return nil, err
	}

	return &ProgressPoller{
		interval:         interval,
		harnesses:        make(map[string]HarnessSnapshotProvider),
		harnessWorkers:   harnessWorkers,
		harnessCompleted: harnessCompleted,
		harnessFailed:    harnessFailed,
		harnessDone:      harnessDone,
	}, nil
}

// AddHarness adds or replaces a harness snapshot provider by name.
func (p *ProgressPoller) AddHarness(name string, provider HarnessSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "harness")
	p.harnessesMu.Lock()
	p.harnesses[name] = provider
	p.harnessesMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *ProgressPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *ProgressPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *ProgressPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *ProgressPoller) collectOnce() {
	p.harnessesMu.RLock()
	defer p.harnessesMu.RUnlock()

	for name, provider := range p.harnesses {
		stats := provider.Stats()
		p.harnessWorkers.WithLabelValues(name).Set(float64(stats.Workers))
		p.harnessCompleted.WithLabelValues(name).Set(float64(stats.Completed))
		p.harnessFailed.WithLabelValues(name).Set(float64(stats.Failed))
		if stats.Done {
			p.harnessDone.WithLabelValues(name).Set(1)
		} else {
			p.harnessDone.WithLabelValues(name).Set(0)
		}
	}
}
