package reveal

import "fmt"

// Dataset is one predefined rate category expressed per 100.
type Dataset struct {
	Name   string
	Per100 float64
}

// Replay keys a full re-render off a counter. Every Animate or Select bumps
// the counter, which changes Key and makes the renderer restart its entry
// transition from scratch.
type Replay struct {
	datasets []Dataset
	active   int
	counter  int
}

// NewReplay returns a replay showing the first dataset.
func NewReplay(datasets []Dataset) (*Replay, error) {
	if len(datasets) == 0 {
		return nil, ErrEmptySequence
	}
	return &Replay{datasets: append([]Dataset(nil), datasets...)}, nil
}

// Key identifies the currently displayed block.
func (r *Replay) Key() int { return r.counter }

// Animate restarts the entry transition.
func (r *Replay) Animate() int {
	r.counter++
	return r.counter
}

// Select replaces the active dataset and restarts the transition.
func (r *Replay) Select(i int) error {
	if i < 0 || i >= len(r.datasets) {
		return fmt.Errorf("select %d of %d: %w", i, len(r.datasets), ErrOutOfRange)
	}
	r.active = i
	r.counter++
	return nil
}

// Cycle selects the next dataset, wrapping around.
func (r *Replay) Cycle() {
	_ = r.Select((r.active + 1) % len(r.datasets))
}

// Active returns the index and value of the displayed dataset.
func (r *Replay) Active() (int, Dataset) {
	return r.active, r.datasets[r.active]
}

// Datasets returns a copy of the categories.
func (r *Replay) Datasets() []Dataset {
	return append([]Dataset(nil), r.datasets...)
}
