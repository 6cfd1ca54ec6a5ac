package reveal

import (
	"math"
	"time"
)

// PercentState is the lifecycle of a percentage reveal.
type PercentState int

const (
	NotStarted PercentState = iota
	Started
)

func (s PercentState) String() string {
	if s == Started {
		return "started"
	}
	return "not started"
}

// Percent is one precomputed percentage.
type Percent struct {
	Label string
	Value float64
}

// PercentReveal shows a fixed set of percentages after a single delay.
// Starting is one-way; there is no user-facing reset.
type PercentReveal struct {
	id       int
	values   []Percent
	delay    time.Duration
	state    PercentState
	revealed bool
	pending  bool
	gen      uint64
}

// NewPercentReveal returns a reveal that has not started. A non-positive
// delay selects DefaultPercentDelay.
func NewPercentReveal(values []Percent, delay time.Duration) (*PercentReveal, error) {
	if len(values) == 0 {
		return nil, ErrEmptySequence
	}
	if delay <= 0 {
		delay = DefaultPercentDelay
	}
	return &PercentReveal{
		id:     nextID(),
		values: append([]Percent(nil), values...),
		delay:  delay,
	}, nil
}

// ID identifies this reveal in Timer values.
func (p *PercentReveal) ID() int { return p.id }

// State returns NotStarted or Started.
func (p *PercentReveal) State() PercentState { return p.state }

// Revealed reports whether the delayed reveal has fired.
func (p *PercentReveal) Revealed() bool { return p.revealed }

// Pending reports whether the reveal timer is outstanding.
func (p *PercentReveal) Pending() bool { return p.pending }

// Start transitions once to Started and returns the delay to arm.
func (p *PercentReveal) Start() (Timer, bool) {
	if p.state == Started {
		return Timer{}, false
	}
	p.state = Started
	p.pending = true
	return Timer{ID: p.id, Gen: p.gen, Delay: p.delay}, true
}

// Fire delivers the expired timer and reveals the values.
func (p *PercentReveal) Fire(t Timer) bool {
	if !p.pending || t.ID != p.id || t.Gen != p.gen {
		return false
	}
	p.pending = false
	p.revealed = true
	return true
}

// Reset is used on teardown when the slide is left.
func (p *PercentReveal) Reset() {
	p.state = NotStarted
	p.revealed = false
	p.pending = false
	p.gen++
}

// Values returns the labelled percentages. Values read as zero until revealed.
func (p *PercentReveal) Values() []Percent {
	out := make([]Percent, len(p.values))
	for i, v := range p.values {
		out[i].Label = v.Label
		if p.revealed {
			out[i].Value = v.Value
		}
	}
	return out
}

// Width scales value i linearly onto a track: 0-100 percent maps to 0-track.
func (p *PercentReveal) Width(i int, track float64) float64 {
	if !p.revealed || i < 0 || i >= len(p.values) {
		return 0
	}
	return TrackWidth(p.values[i].Value, track)
}

// TrackWidth maps a percentage onto a track width, clamped to [0, track].
func TrackWidth(pct, track float64) float64 {
	pct = math.Max(0, math.Min(100, pct))
	return pct * track / 100
}
