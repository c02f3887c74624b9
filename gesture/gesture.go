// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gesture implements the recognition of multi finger swipe and
pinch gestures.

Clients describe the gestures they are interested in with Swipe and
Pinch descriptors and register them with a Recognizer. The input source
reports the begin, updates and end of a finger sequence to the
Recognizer, which reports the lifecycle of every matching descriptor
through its hooks.
*/
package gesture

import (
	"errors"
	"image"

	"inputroute.org/f32"
)

// Axis of a swipe.
type Axis uint8

// SwipeDirection is the direction a Swipe must move in.
type SwipeDirection uint8

// PinchDirection is the direction a Pinch must scale in.
type PinchDirection uint8

const (
	AxisNone Axis = iota
	Horizontal
	Vertical
)

const (
	SwipeUp SwipeDirection = iota
	SwipeDown
	SwipeLeft
	SwipeRight
)

const (
	PinchContracting PinchDirection = iota
	PinchExpanding
)

// DefaultMinimumScaleDelta is the scale change a Pinch must reach
// when its MinimumScaleDelta is zero.
const DefaultMinimumScaleDelta = 0.2

var (
	// ErrRegistered is returned when registering a descriptor that
	// is already registered.
	ErrRegistered = errors.New("gesture: already registered")
	// ErrDestroyed is returned when registering a destroyed descriptor.
	ErrDestroyed = errors.New("gesture: descriptor destroyed")
)

// Hooks are the lifecycle callbacks of a descriptor. Nil hooks are
// skipped.
type Hooks struct {
	// Started is called when a finger sequence matching the
	// descriptor begins.
	Started func()
	// Progress reports how close the gesture is to its threshold,
	// in [0, 1].
	Progress func(progress float32)
	// Triggered is called when the sequence ends past the
	// threshold.
	Triggered func()
	// Cancelled is called when the descriptor stops matching, the
	// sequence is aborted or ends below the threshold.
	Cancelled func()
}

// bounds are the optional finger count limits of a descriptor.
type bounds struct {
	minFingers, maxFingers       int
	minFingersSet, maxFingersSet bool
}

// Swipe describes a swipe gesture.
type Swipe struct {
	Hooks
	// DeltaProgress reports the movement accumulated since the start
	// of the sequence.
	DeltaProgress func(delta f32.Point)
	Direction     SwipeDirection

	bounds
	minX, maxX, minY, maxY             float32
	minXSet, maxXSet, minYSet, maxYSet bool
	minDelta                           f32.Point
	minDeltaSet                        bool

	rec  *Recognizer
	dead bool
}

// Pinch describes a pinch gesture.
type Pinch struct {
	Hooks
	Direction PinchDirection
	// MinimumScaleDelta is the change of scale needed to trigger. Zero
	// selects DefaultMinimumScaleDelta.
	MinimumScaleDelta float32

	bounds

	rec  *Recognizer
	dead bool
}

// SetMinimumFingerCount makes the descriptor match only sequences of
// at least n fingers.
func (b *bounds) SetMinimumFingerCount(n int) {
	b.minFingers = n
	b.minFingersSet = true
}

// SetMaximumFingerCount makes the descriptor match only sequences of
// at most n fingers.
func (b *bounds) SetMaximumFingerCount(n int) {
	b.maxFingers = n
	b.maxFingersSet = true
}

// MinimumFingerCount returns the minimum finger count and whether it
// is set.
func (b *bounds) MinimumFingerCount() (int, bool) {
	return b.minFingers, b.minFingersSet
}

// MaximumFingerCount returns the maximum finger count and whether it
// is set.
func (b *bounds) MaximumFingerCount() (int, bool) {
	return b.maxFingers, b.maxFingersSet
}

func (b *bounds) acceptsFingers(n int) bool {
	if b.minFingersSet && b.minFingers > n {
		return false
	}
	if b.maxFingersSet && b.maxFingers < n {
		return false
	}
	return true
}

// SetMinimumX restricts the start position to x or further right.
func (s *Swipe) SetMinimumX(x float32) { s.minX, s.minXSet = x, true }

// SetMaximumX restricts the start position to x or further left.
func (s *Swipe) SetMaximumX(x float32) { s.maxX, s.maxXSet = x, true }

// SetMinimumY restricts the start position to y or further down.
func (s *Swipe) SetMinimumY(y float32) { s.minY, s.minYSet = y, true }

// SetMaximumY restricts the start position to y or further up.
func (s *Swipe) SetMaximumY(y float32) { s.maxY, s.maxYSet = y, true }

// SetStartGeometry restricts the start position to r, edges included.
func (s *Swipe) SetStartGeometry(r image.Rectangle) {
	r = r.Canon()
	s.SetMinimumX(float32(r.Min.X))
	s.SetMinimumY(float32(r.Min.Y))
	s.SetMaximumX(float32(r.Max.X))
	s.SetMaximumY(float32(r.Max.Y))
}

// SetMinimumDelta sets the movement needed to trigger. Only the
// component along the swipe direction is used.
func (s *Swipe) SetMinimumDelta(d f32.Point) {
	s.minDelta = d
	s.minDeltaSet = true
}

// MinimumDelta returns the trigger movement and whether it is set.
func (s *Swipe) MinimumDelta() (f32.Point, bool) {
	return s.minDelta, s.minDeltaSet
}

// bordered reports whether all four start bounds are set. Such swipes
// start at a screen border and survive direction changes.
func (s *Swipe) bordered() bool {
	return s.minXSet && s.maxXSet && s.minYSet && s.maxYSet
}

func (s *Swipe) acceptsStart(p f32.Point) bool {
	switch {
	case s.minXSet && s.minX > p.X:
		return false
	case s.maxXSet && s.maxX < p.X:
		return false
	case s.minYSet && s.minY > p.Y:
		return false
	case s.maxYSet && s.maxY < p.Y:
		return false
	}
	return true
}

func (s *Swipe) axis() Axis {
	switch s.Direction {
	case SwipeUp, SwipeDown:
		return Vertical
	default:
		return Horizontal
	}
}

// ProgressFor returns the progress of a sequence that accumulated delta.
func (s *Swipe) ProgressFor(delta f32.Point) float32 {
	if !s.minDeltaSet || s.minDelta == (f32.Point{}) {
		return 1
	}
	var have, want float32
	switch s.axis() {
	case Vertical:
		have, want = abs(delta.Y), abs(s.minDelta.Y)
	default:
		have, want = abs(delta.X), abs(s.minDelta.X)
	}
	if want == 0 {
		return 1
	}
	return min(have/want, 1)
}

// Destroy unregisters s, cancelling it if active. After Destroy no hook
// of s is called again.
func (s *Swipe) Destroy() {
	if s.rec != nil {
		s.rec.UnregisterSwipe(s)
	}
	s.dead = true
}

// Destroy unregisters p, cancelling it if active. After Destroy no hook
// of p is called again.
func (p *Pinch) Destroy() {
	if p.rec != nil {
		p.rec.UnregisterPinch(p)
	}
	p.dead = true
}

func (p *Pinch) minimumScaleDelta() float32 {
	if p.MinimumScaleDelta > 0 {
		return p.MinimumScaleDelta
	}
	return DefaultMinimumScaleDelta
}

// ProgressFor returns the progress of a sequence at the given scale.
func (p *Pinch) ProgressFor(scale float32) float32 {
	return clamp(abs(scale-1)/p.minimumScaleDelta(), 0, 1)
}

func (h *Hooks) started(dead bool) {
	if !dead && h.Started != nil {
		h.Started()
	}
}

func (h *Hooks) progress(dead bool, v float32) {
	if !dead && h.Progress != nil {
		h.Progress(v)
	}
}

func (h *Hooks) triggered(dead bool) {
	if !dead && h.Triggered != nil {
		h.Triggered()
	}
}

func (h *Hooks) cancelled(dead bool) {
	if !dead && h.Cancelled != nil {
		h.Cancelled()
	}
}

func (a Axis) String() string {
	switch a {
	case AxisNone:
		return "None"
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	default:
		panic("invalid Axis")
	}
}

func (d SwipeDirection) String() string {
	switch d {
	case SwipeUp:
		return "Up"
	case SwipeDown:
		return "Down"
	case SwipeLeft:
		return "Left"
	case SwipeRight:
		return "Right"
	default:
		panic("invalid SwipeDirection")
	}
}

func (d PinchDirection) String() string {
	switch d {
	case PinchContracting:
		return "Contracting"
	case PinchExpanding:
		return "Expanding"
	default:
		panic("invalid PinchDirection")
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
