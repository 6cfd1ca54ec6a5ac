package reveal

import (
	"context"
	"time"
)

// StepFunc observes the animator after every state change.
type StepFunc func(state State, step int, cells []Cell)

// Play drives an idle animator to completion with a real clock. It is the
// single scheduling loop for headless use: one time.Timer is held for the
// whole run and re-armed only while Fire reports a next step. Cancelling ctx
// resets the animator and releases the timer.
func Play(ctx context.Context, a *Animator, onStep StepFunc) error {
	if a.State() != Idle {
		return ErrNotIdle
	}
	if onStep == nil {
		onStep = func(State, int, []Cell) {}
	}

	t, armed := a.Start()
	onStep(a.State(), a.Step(), a.Display())
	if !armed {
		return nil
	}

	timer := time.NewTimer(t.Delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Reset()
			return ctx.Err()
		case <-timer.C:
			next, more := a.Fire(t)
			onStep(a.State(), a.Step(), a.Display())
			if !more {
				return nil
			}
			t = next
			timer.Reset(next.Delay)
		}
	}
}
