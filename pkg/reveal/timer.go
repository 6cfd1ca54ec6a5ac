// Package reveal implements the timed reveal state machines used by the
// animated lecture slides.
//
// Animators never start goroutines or timers themselves. Start and Fire hand
// back a Timer describing the single delay the caller must arm; the caller
// delivers it back through Fire when it expires. Each Timer carries the
// animator id and a generation, so a timer armed before Reset is recognised
// as stale and dropped. This keeps every state change on the caller's event
// loop.
package reveal

import (
	"errors"
	"sync/atomic"
	"time"
)

// DefaultInterval is the delay between two reveal steps.
const DefaultInterval = 2000 * time.Millisecond

// DefaultPercentDelay is the delay before the percentage reveal shows values.
const DefaultPercentDelay = 800 * time.Millisecond

var (
	// ErrEmptySequence is returned when a reveal has nothing to show.
	ErrEmptySequence = errors.New("reveal sequence is empty")
	// ErrNotIdle is returned by Play when the animator already started.
	ErrNotIdle = errors.New("animator is not idle")
	// ErrOutOfRange is returned when a replay category does not exist.
	ErrOutOfRange = errors.New("category index out of range")
)

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// Timer is a single armed delay. It is a value; arming and cancelling the
// real clock is the caller's concern.
type Timer struct {
	ID    int
	Gen   uint64
	Delay time.Duration
}
