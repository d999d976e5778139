package core

import "sync"

const defaultHistoryCapacity = 100

// measurementHistory is a fixed-capacity ring of recent measurements.
type measurementHistory struct {
	mu    sync.Mutex
	items []Measurement
	head  int
	count int
}

func newMeasurementHistory(capacity int) *measurementHistory {
	if capacity < 1 {
		capacity = defaultHistoryCapacity
	}
	return &measurementHistory{items: make([]Measurement, capacity)}
}

func (h *measurementHistory) Add(m Measurement) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.items) == 0 {
		return
	}

	h.items[h.head] = m
	h.head = (h.head + 1) % len(h.items)
	if h.count < len(h.items) {
		h.count++
	}
}

// Recent returns up to limit measurements, most recent first.
func (h *measurementHistory) Recent(limit int) []Measurement {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return nil
	}

	if limit <= 0 || limit > h.count {
		limit = h.count
	}

	out := make([]Measurement, 0, limit)
	for i := range limit {
		idx := (h.head - 1 - i + len(h.items)) % len(h.items)
		out = append(out, h.items[idx])
	}
	return out
}

func (h *measurementHistory) Last() (Measurement, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return Measurement{}, false
	}

	idx := (h.head - 1 + len(h.items)) % len(h.items)
	return h.items[idx], true
}
