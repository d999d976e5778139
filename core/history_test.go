package core

import (
	"strconv"
	"testing"
)

func TestMeasurementHistory_Empty(t *testing.T) {
	h := newMeasurementHistory(4)

	if got := h.Recent(0); got != nil {
		t.Errorf("Recent on empty history: got = %v, want nil", got)
	}
	if _, ok := h.Last(); ok {
		t.Error("Last on empty history reported ok")
	}
}

func TestMeasurementHistory_WrapsAtCapacity(t *testing.T) {
	h := newMeasurementHistory(3)

	for i := 0; i < 5; i++ {
		h.Add(Measurement{Name: strconv.Itoa(i)})
	}

	recent := h.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("retained count: got = %d, want 3", len(recent))
	}

	// Most recent first, oldest entries overwritten
	wantOrder := []string{"4", "3", "2"}
	for i, want := range wantOrder {
		if recent[i].Name != want {
			t.Errorf("recent[%d]: got = %q, want %q", i, recent[i].Name, want)
		}
	}

	last, ok := h.Last()
	if !ok || last.Name != "4" {
		t.Errorf("Last: got = %q, ok=%v, want 4", last.Name, ok)
	}
}

func TestMeasurementHistory_Limit(t *testing.T) {
	h := newMeasurementHistory(10)

	for i := 0; i < 6; i++ {
		h.Add(Measurement{Name: strconv.Itoa(i)})
	}

	recent := h.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("limited count: got = %d, want 2", len(recent))
	}
	if recent[0].Name != "5" || recent[1].Name != "4" {
		t.Errorf("limited order: got = %q, %q, want 5, 4", recent[0].Name, recent[1].Name)
	}
}

func TestMeasurementHistory_DefaultCapacity(t *testing.T) {
	h := newMeasurementHistory(0)

	if len(h.items) != defaultHistoryCapacity {
		t.Errorf("capacity: got = %d, want %d", len(h.items), defaultHistoryCapacity)
	}
}
