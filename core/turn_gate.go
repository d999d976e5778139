package core

import "sync"

// TurnGate hands out turns to a fixed set of labeled workers so that the
// admitted worker with the fewest completed turns always goes next.
//
// Protocol: admit every worker, start them, then call Open once. A worker
// calls AwaitTurn, which blocks until the gate is open and the caller holds
// the minimum turn count, then takes the turn and closes the gate. The
// worker performs its critical section and calls EndTurn to reopen the gate
// for the rest. A worker that is done competing must call Retire, otherwise
// the others can starve waiting for it.
type TurnGate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	open   bool
	counts map[string]int64
	order  []string
	active map[string]bool
}

// NewTurnGate creates a closed TurnGate with no participants.
func NewTurnGate() *TurnGate {
	g := &TurnGate{
		counts: make(map[string]int64),
		active: make(map[string]bool),
	}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Admit registers a worker label as an active participant. Must happen
// before the worker's first AwaitTurn. Re-admitting a retired label puts it
// back into contention with its previous count.
func (g *TurnGate) Admit(label string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.counts[label]; !ok {
		g.counts[label] = 0
		g.order = append(g.order, label)
	}
	g.active[label] = true
	g.cond.Broadcast()
}

// Open releases the gate so the first turn can be taken.
func (g *TurnGate) Open() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = true
	g.cond.Broadcast()
}

// AwaitTurn blocks until the calling worker holds the next turn, then takes
// it and closes the gate. Returns the worker's turn count including this
// turn. Returns false immediately if the label is not an active participant.
func (g *TurnGate) AwaitTurn(label string) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active[label] {
		return 0, false
	}

	for !(g.open && g.minLocked() == label) {
		g.cond.Wait()
		if !g.active[label] {
			return 0, false
		}
	}

	g.counts[label]++
	g.open = false
	return g.counts[label], true
}

// EndTurn reopens the gate and wakes every waiter so the new minimum holder
// can proceed.
func (g *TurnGate) EndTurn() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = true
	g.cond.Broadcast()
}

// Retire removes a worker from contention. Remaining waiters are woken so
// the minimum is recomputed. The worker's counts survive for Snapshot.
func (g *TurnGate) Retire(label string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, label)
	g.cond.Broadcast()
}

// Turns returns how many turns the labeled worker has taken.
func (g *TurnGate) Turns(label string) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counts[label]
}

// Snapshot returns a copy of every participant's turn count, retired
// participants included.
func (g *TurnGate) Snapshot() map[string]int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]int64, len(g.counts))
	for label, count := range g.counts {
		out[label] = count
	}
	return out
}

// minLocked returns the active label with the fewest turns, earliest
// admitted first on ties. Callers must hold g.mu.
func (g *TurnGate) minLocked() string {
	best := ""
	var bestCount int64
	for _, label := range g.order {
		if !g.active[label] {
			continue
		}
		if best == "" || g.counts[label] < bestCount {
			best = label
			bestCount = g.counts[label]
		}
	}
	return best
}
