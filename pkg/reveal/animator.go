package reveal

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/freqdeck/pkg/stats"
)

// State is the lifecycle of a cumulative reveal.
type State int

const (
	Idle State = iota
	Running
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Row is one precomputed reveal step.
type Row struct {
	Label     string
	Increment float64
	Total     float64
}

// Sequence is the ordered list of rows in reveal order. The last row is the
// terminal row whose total is the grand total.
type Sequence []Row

// NewSequence builds a sequence from a source table given in reveal order.
func NewSequence(labels []string, freqs []float64) (Sequence, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptySequence
	}
	entries, err := stats.CumulativeTable(labels, freqs)
	if err != nil {
		return nil, fmt.Errorf("build sequence: %w", err)
	}
	seq := make(Sequence, len(entries))
	for i, e := range entries {
		seq[i] = Row{Label: e.Label, Increment: e.Frequency, Total: e.Cumulative}
	}
	return seq, nil
}

// Totals returns the final running totals in sequence order.
func (s Sequence) Totals() []float64 {
	out := make([]float64, len(s))
	for i, r := range s {
		out[i] = r.Total
	}
	return out
}

// Cell is the displayed value of one row.
type Cell struct {
	Label string
	Shown bool
	Value float64
}

// Animator stages the reveal of a Sequence one row per tick.
type Animator struct {
	id       int
	seq      Sequence
	interval time.Duration
	step     int
	gen      uint64
	pending  bool
}

// NewAnimator returns an idle animator. A non-positive interval selects
// DefaultInterval.
func NewAnimator(seq Sequence, interval time.Duration) (*Animator, error) {
	if len(seq) == 0 {
		return nil, ErrEmptySequence
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Animator{
		id:       nextID(),
		seq:      append(Sequence(nil), seq...),
		interval: interval,
		step:     -1,
	}, nil
}

// ID identifies this animator in Timer values.
func (a *Animator) ID() int { return a.id }

// Len returns the number of rows.
func (a *Animator) Len() int { return len(a.seq) }

// Step returns the reveal cursor, -1 when idle.
func (a *Animator) Step() int { return a.step }

// Interval returns the delay between steps.
func (a *Animator) Interval() time.Duration { return a.interval }

// Pending reports whether a timer is outstanding.
func (a *Animator) Pending() bool { return a.pending }

// State derives the lifecycle state from the step cursor.
func (a *Animator) State() State {
	switch {
	case a.step < 0:
		return Idle
	case a.step >= len(a.seq)-1:
		return Complete
	default:
		return Running
	}
}

// Start begins the reveal from Idle. It returns the timer to arm and true,
// or false when nothing must be armed: the animator was not idle, or the
// sequence has a single row and is already complete.
func (a *Animator) Start() (Timer, bool) {
	if a.State() != Idle {
		return Timer{}, false
	}
	a.step = 0
	return a.arm()
}

// Fire delivers an expired timer. Stale or unexpected timers are ignored.
// It returns the next timer to arm, if any.
func (a *Animator) Fire(t Timer) (Timer, bool) {
	if !a.pending || t.ID != a.id || t.Gen != a.gen {
		return Timer{}, false
	}
	a.pending = false
	a.step++
	return a.arm()
}

func (a *Animator) arm() (Timer, bool) {
	if a.step >= len(a.seq)-1 {
		a.pending = false
		return Timer{}, false
	}
	a.pending = true
	return Timer{ID: a.id, Gen: a.gen, Delay: a.interval}, true
}

// Reset returns to Idle from any state and invalidates any armed timer.
func (a *Animator) Reset() {
	a.step = -1
	a.pending = false
	a.gen++
}

// Display returns the value shown for every row in sequence order.
//
// Before the reveal starts only the terminal row shows its final total.
// Once running, every row reached by the step cursor shows its running total
// and the remaining rows are blank.
func (a *Animator) Display() []Cell {
	cells := make([]Cell, len(a.seq))
	for i, r := range a.seq {
		cells[i].Label = r.Label
	}
	if a.step < 0 {
		last := len(a.seq) - 1
		cells[last].Shown = true
		cells[last].Value = a.seq[last].Total
		return cells
	}
	var acc float64
	for i := 0; i <= a.step && i < len(a.seq); i++ {
		acc += a.seq[i].Increment
		cells[i].Shown = true
		cells[i].Value = acc
	}
	return cells
}

// Sequence returns a copy of the rows.
func (a *Animator) Sequence() Sequence {
	return append(Sequence(nil), a.seq...)
}
