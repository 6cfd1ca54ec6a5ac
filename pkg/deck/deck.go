// Package deck owns the ordered slide list and the single slide cursor.
//
// The controller is a plain value owned by the presentation layer. Rendering
// code receives a View snapshot and never mutates the cursor directly.
package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a jump targets an index outside the deck.
	ErrOutOfRange = errors.New("slide index out of range")
	// ErrEmptyDeck is returned when a controller is built without slides.
	ErrEmptyDeck = errors.New("deck has no slides")
)

// RangeError carries the rejected index alongside ErrOutOfRange.
type RangeError struct {
	Index int
	Count int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("slide %d not in [0, %d]: %v", e.Index, e.Count-1, ErrOutOfRange)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Block is one renderable piece of a slide body. The deck never looks inside.
type Block interface {
	Kind() string
}

// Slide is a single page of the deck.
type Slide struct {
	Title    string
	Subtitle string
	Body     []Block
}

// Option configures a Controller.
type Option func(*Controller)

// WithWrapAround selects the navigation policy at the deck boundaries.
// With wrap-around enabled Next on the last slide returns to the first and
// Previous on the first slide moves to the last. Without it both are no-ops
// at their respective boundary.
func WithWrapAround(wrap bool) Option {
	return func(c *Controller) {
		c.wrap = wrap
	}
}

// WithStart places the cursor on the given slide. Out-of-range values are
// rejected by New.
func WithStart(index int) Option {
	return func(c *Controller) {
		c.cursor = index
	}
}

// Controller is the deck state machine.
type Controller struct {
	slides []Slide
	cursor int
	wrap   bool
}

// New creates a controller over a copy of slides.
func New(slides []Slide, opts ...Option) (*Controller, error) {
	if len(slides) == 0 {
		return nil, ErrEmptyDeck
	}
	c := &Controller{slides: append([]Slide(nil), slides...)}
	for _, opt := range opts {
		opt(c)
	}
	if c.cursor < 0 || c.cursor >= len(c.slides) {
		return nil, &RangeError{Index: c.cursor, Count: len(c.slides)}
	}
	return c, nil
}

// Len returns the number of slides.
func (c *Controller) Len() int { return len(c.slides) }

// Cursor returns the index of the active slide.
func (c *Controller) Cursor() int { return c.cursor }

// WrapAround reports the active boundary policy.
func (c *Controller) WrapAround() bool { return c.wrap }

// SetWrapAround switches the boundary policy. The cursor is untouched.
func (c *Controller) SetWrapAround(wrap bool) { c.wrap = wrap }

// ActiveSlide returns the slide under the cursor.
func (c *Controller) ActiveSlide() Slide { return c.slides[c.cursor] }

// Slides returns a copy of the slide list.
func (c *Controller) Slides() []Slide {
	return append([]Slide(nil), c.slides...)
}

// CanNext reports whether the next control is enabled.
func (c *Controller) CanNext() bool {
	return c.wrap || c.cursor < len(c.slides)-1
}

// CanPrevious reports whether the previous control is enabled.
func (c *Controller) CanPrevious() bool {
	return c.wrap || c.cursor > 0
}

// Next advances the cursor. It returns true when the cursor moved.
func (c *Controller) Next() bool {
	if !c.CanNext() {
		return false
	}
	prev := c.cursor
	c.cursor = (c.cursor + 1) % len(c.slides)
	return c.cursor != prev
}

// Previous moves the cursor back. It returns true when the cursor moved.
func (c *Controller) Previous() bool {
	if !c.CanPrevious() {
		return false
	}
	prev := c.cursor
	n := len(c.slides)
	c.cursor = (c.cursor - 1 + n) % n
	return c.cursor != prev
}

// JumpTo moves the cursor to index. Invalid indexes leave the cursor alone.
func (c *Controller) JumpTo(index int) error {
	if index < 0 || index >= len(c.slides) {
		return &RangeError{Index: index, Count: len(c.slides)}
	}
	c.cursor = index
	return nil
}

// View is an immutable snapshot of the deck for rendering.
type View struct {
	Slide       Slide
	Cursor      int
	Count       int
	CanNext     bool
	CanPrevious bool
}

// View returns the current rendering snapshot.
func (c *Controller) View() View {
	return View{
		Slide:       c.ActiveSlide(),
		Cursor:      c.cursor,
		Count:       len(c.slides),
		CanNext:     c.CanNext(),
		CanPrevious: c.CanPrevious(),
	}
}

// Position returns the 1-based "n of N" label used in the header.
func (v View) Position() string {
	return fmt.Sprintf("Slide %d of %d", v.Cursor+1, v.Count)
}
