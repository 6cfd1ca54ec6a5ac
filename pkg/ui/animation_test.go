package ui

import (
	"testing"
	"time"

	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/reveal"
)

func slideStateFor(t *testing.T, slide int) *slideState {
	t.Helper()
	d, err := lecture.Default()
	if err != nil {
		t.Fatal(err)
	}
	st, err := newSlideState(d.Slides[slide], 7, time.Millisecond, time.Millisecond)
	if err != nil {
		t.Fatalf("newSlideState: %v", err)
	}
	return st
}

func TestNewSlideStateCollectsReveals(t *testing.T) {
	tests := []struct {
		slide          int
		cum, pct, rate int
		empty          bool
	}{
		{0, 0, 0, 0, true},
		{2, 1, 0, 0, false},
		{3, 0, 1, 0, false},
		{4, 0, 0, 1, false},
		{5, 0, 0, 0, true},
	}
	for _, tt := range tests {
		st := slideStateFor(t, tt.slide)
		if len(st.cumulative) != tt.cum || len(st.percent) != tt.pct || len(st.rates) != tt.rate {
			t.Errorf("slide %d: got %d/%d/%d machines", tt.slide+1, len(st.cumulative), len(st.percent), len(st.rates))
		}
		if st.empty() != tt.empty {
			t.Errorf("slide %d: empty = %v", tt.slide+1, st.empty())
		}
	}
}

func TestFireIgnoresUnknownTimers(t *testing.T) {
	st := slideStateFor(t, 2)
	if cmd := st.fire(reveal.Timer{ID: -1}); cmd != nil {
		t.Error("unknown timer should be dropped")
	}
	if st.cumulative[0].State() != reveal.Idle {
		t.Error("unknown timer changed state")
	}
}

func TestAnimateArmsOneTimerPerMachine(t *testing.T) {
	st := slideStateFor(t, 2)
	if cmds := st.animate(time.Millisecond); len(cmds) != 1 {
		t.Fatalf("animate armed %d timers, want 1", len(cmds))
	}
	if cmds := st.animate(time.Millisecond); len(cmds) != 0 {
		t.Errorf("second animate armed %d timers", len(cmds))
	}
	st.reset()
	if st.cumulative[0].State() != reveal.Idle || st.cumulative[0].Pending() {
		t.Error("reset should return to idle with nothing pending")
	}
}

func TestTransitionFrames(t *testing.T) {
	st := slideStateFor(t, 4)
	rs := st.rates[0]
	st.cycle(time.Millisecond)
	if rs.progress() != 0 {
		t.Fatalf("transition should restart at 0, got %v", rs.progress())
	}

	stale := transitionFrameMsg{Epoch: st.epoch, Index: 0, Key: rs.key - 1}
	if cmd := st.advance(stale, time.Millisecond); cmd != nil || rs.frame != 0 {
		t.Error("frame for an old key advanced the transition")
	}
	other := transitionFrameMsg{Epoch: st.epoch + 1, Index: 0, Key: rs.key}
	if cmd := st.advance(other, time.Millisecond); cmd != nil || rs.frame != 0 {
		t.Error("frame from another slide entry advanced the transition")
	}

	msg := transitionFrameMsg{Epoch: st.epoch, Index: 0, Key: rs.key}
	for i := 1; i < transitionFrames; i++ {
		if cmd := st.advance(msg, time.Millisecond); cmd == nil {
			t.Fatalf("frame %d should schedule the next", i)
		}
	}
	if cmd := st.advance(msg, time.Millisecond); cmd != nil {
		t.Error("last frame should not schedule another")
	}
	if rs.progress() != 1 {
		t.Errorf("progress = %v, want 1", rs.progress())
	}

	// A newer key makes the drawn transition stale until restarted.
	rs.replay.Animate()
	if rs.progress() != 0 {
		t.Error("progress should read 0 for an unstarted key")
	}
}

func TestTeardownInvalidatesTimers(t *testing.T) {
	st := slideStateFor(t, 3)
	st.animate(time.Millisecond)
	p := st.percent[0]
	if !p.Pending() {
		t.Fatal("percent reveal should be pending")
	}
	st.teardown()
	if p.Pending() || p.State() != reveal.NotStarted {
		t.Error("teardown should reset the percent reveal")
	}
}
