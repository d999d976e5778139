package core

// HarnessStats represents runtime observability state for a worker group.
type HarnessStats struct {
	Name      string
	Workers   int
	Completed int
	Failed    int
	Started   bool
	Done      bool
}
