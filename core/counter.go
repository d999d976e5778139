package core

import "sync"

// GuardedCounter is a shared mutable counter protected by exactly one
// mutual-exclusion lock. Every read-modify-write happens inside the lock's
// critical section; there is no way to touch the value outside it.
type GuardedCounter struct {
	mu    sync.Mutex
	value int64
}

// Add adds delta inside the critical section and returns the new value.
func (c *GuardedCounter) Add(delta int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += delta
	return c.value
}

// Increment adds one and returns the new value.
func (c *GuardedCounter) Increment() int64 {
	return c.Add(1)
}

// Value reads the counter under the lock.
func (c *GuardedCounter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Update applies fn to the current value inside the critical section and
// returns the result. The lock is released even if fn panics.
func (c *GuardedCounter) Update(fn func(current int64) int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = fn(c.value)
	return c.value
}

// CounterSet tracks a set of named counters behind a single lock, keeping
// registration order for deterministic tie-breaks.
type CounterSet struct {
	mu     sync.Mutex
	values map[string]int64
	order  []string
}

// NewCounterSet creates an empty CounterSet.
func NewCounterSet() *CounterSet {
	return &CounterSet{values: make(map[string]int64)}
}

// Register initializes the counter for name at zero. Registering an
// existing name resets it.
func (s *CounterSet) Register(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = 0
}

// Increment adds one to a registered counter and returns the new value.
// Unknown names are ignored and return zero.
func (s *CounterSet) Increment(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[name]; !ok {
		return 0
	}
	s.values[name]++
	return s.values[name]
}

// Value returns the current count for name, zero for unknown names.
func (s *CounterSet) Value(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[name]
}

// Min returns the registered name with the smallest count. Ties go to the
// earliest registered name; the empty string means nothing is registered.
func (s *CounterSet) Min() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := ""
	var bestCount int64
	for _, name := range s.order {
		count, ok := s.values[name]
		if !ok {
			continue
		}
		if best == "" || count < bestCount {
			best = name
			bestCount = count
		}
	}
	return best
}

// Remove drops a counter from the set.
func (s *CounterSet) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns a copy of all counters.
func (s *CounterSet) Snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64, len(s.values))
	for name, count := range s.values {
		out[name] = count
	}
	return out
}
