package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/freqdeck/pkg/debug"
	"github.com/vanderheijden86/freqdeck/pkg/deck"
	"github.com/vanderheijden86/freqdeck/pkg/lecture"
	"github.com/vanderheijden86/freqdeck/pkg/reveal"
)

// transitionFrames is the number of frames a rate bar takes to grow in.
const transitionFrames = 12

// RevealTickMsg delivers an expired reveal timer back to the model.
type RevealTickMsg struct {
	Timer reveal.Timer
}

// transitionFrameMsg advances the entry transition of one rate block. Frames
// from an older slide entry or an older replay key are dropped.
type transitionFrameMsg struct {
	Epoch int
	Index int
	Key   int
}

// revealTickCmd arms t on the event loop.
func revealTickCmd(t reveal.Timer) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return RevealTickMsg{Timer: t}
	})
}

func transitionFrameCmd(d time.Duration, epoch, index, key int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return transitionFrameMsg{Epoch: epoch, Index: index, Key: key}
	})
}

// rateState is a replay plus the progress of its entry transition.
type rateState struct {
	replay *reveal.Replay
	key    int
	frame  int
}

// progress returns the fraction of the transition drawn so far.
func (r *rateState) progress() float64 {
	if r.key != r.replay.Key() {
		return 0
	}
	return float64(r.frame) / transitionFrames
}

// slideState holds the live reveal machines of the active slide, in the
// order the blocks are walked.
type slideState struct {
	epoch      int
	cumulative []*reveal.Animator
	percent    []*reveal.PercentReveal
	rates      []*rateState
}

// newSlideState builds fresh machines for every reveal block of s.
func newSlideState(s deck.Slide, epoch int, interval, percentDelay time.Duration) (*slideState, error) {
	st := &slideState{epoch: epoch}
	var err error
	lecture.Walk(s.Body, func(b lecture.Block) {
		if err != nil {
			return
		}
		switch v := b.(type) {
		case lecture.Cumulative:
			var a *reveal.Animator
			a, err = reveal.NewAnimator(v.Sequence, interval)
			st.cumulative = append(st.cumulative, a)
		case lecture.PercentBlock:
			var p *reveal.PercentReveal
			p, err = reveal.NewPercentReveal(v.Values, percentDelay)
			st.percent = append(st.percent, p)
		case lecture.RateBlock:
			var r *reveal.Replay
			r, err = reveal.NewReplay(v.Datasets)
			// Drawn complete on entry; a replays from zero.
			st.rates = append(st.rates, &rateState{replay: r, frame: transitionFrames})
		}
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// empty reports whether the slide has nothing to animate.
func (s *slideState) empty() bool {
	return len(s.cumulative) == 0 && len(s.percent) == 0 && len(s.rates) == 0
}

// animate starts every reveal on the slide and returns the timers to arm.
// Running or finished cumulative reveals and started percent reveals are
// left alone; rate blocks replay their transition.
func (s *slideState) animate(frame time.Duration) []tea.Cmd {
	var cmds []tea.Cmd
	for _, a := range s.cumulative {
		if t, ok := a.Start(); ok {
			cmds = append(cmds, revealTickCmd(t))
		}
	}
	for _, p := range s.percent {
		if t, ok := p.Start(); ok {
			cmds = append(cmds, revealTickCmd(t))
		}
	}
	for i, r := range s.rates {
		r.replay.Animate()
		cmds = append(cmds, s.restartTransition(i, frame))
	}
	return cmds
}

// reset returns cumulative reveals to idle. Percent reveals have no reset.
func (s *slideState) reset() {
	for _, a := range s.cumulative {
		a.Reset()
	}
}

// cycle moves every rate block to its next category.
func (s *slideState) cycle(frame time.Duration) []tea.Cmd {
	var cmds []tea.Cmd
	for i, r := range s.rates {
		r.replay.Cycle()
		cmds = append(cmds, s.restartTransition(i, frame))
	}
	return cmds
}

func (s *slideState) restartTransition(i int, frame time.Duration) tea.Cmd {
	r := s.rates[i]
	r.key = r.replay.Key()
	r.frame = 0
	return transitionFrameCmd(frame, s.epoch, i, r.key)
}

// fire routes an expired timer to the machine that armed it. Timers for
// machines that no longer exist, or were reset since, are dropped.
func (s *slideState) fire(t reveal.Timer) tea.Cmd {
	for _, a := range s.cumulative {
		if a.ID() != t.ID {
			continue
		}
		if next, ok := a.Fire(t); ok {
			return revealTickCmd(next)
		}
		return nil
	}
	for _, p := range s.percent {
		if p.ID() == t.ID {
			p.Fire(t)
			return nil
		}
	}
	debug.Log("reveal: dropped timer for animator %d", t.ID)
	return nil
}

// advance draws the next transition frame.
func (s *slideState) advance(msg transitionFrameMsg, frame time.Duration) tea.Cmd {
	if msg.Epoch != s.epoch || msg.Index < 0 || msg.Index >= len(s.rates) {
		return nil
	}
	r := s.rates[msg.Index]
	if msg.Key != r.replay.Key() || r.key != msg.Key || r.frame >= transitionFrames {
		return nil
	}
	r.frame++
	if r.frame >= transitionFrames {
		return nil
	}
	return transitionFrameCmd(frame, s.epoch, msg.Index, msg.Key)
}

// teardown resets every machine so timers still in flight are ignored.
func (s *slideState) teardown() {
	for _, a := range s.cumulative {
		a.Reset()
	}
	for _, p := range s.percent {
		p.Reset()
	}
}
