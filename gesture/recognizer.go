// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"golang.org/x/exp/slices"

	"inputroute.org/f32"
)

// Default tuning of the Recognizer.
const (
	DefaultLockThreshold = 5
	DefaultPasses        = 2
)

// Recognizer matches finger sequences against registered descriptors.
// Swipes and pinches are mutually exclusive: a sequence of one kind
// can't start while descriptors of either kind are active.
//
// The zero value is ready to use. A Recognizer must only be used from
// one goroutine.
type Recognizer struct {
	// LockThreshold is the accumulated movement at which the swipe
	// axis is committed. Zero selects DefaultLockThreshold.
	LockThreshold float32
	// Passes is the number of rounds used to eliminate swipes and
	// pinches moving in the wrong direction. Zero selects
	// DefaultPasses.
	Passes int

	swipes        []*Swipe
	activeSwipes  []*Swipe
	pinches       []*Pinch
	activePinches []*Pinch
	// settlingSwipes and settlingPinches are the descriptors of an
	// ending sequence whose hooks have not run yet.
	settlingSwipes  []*Swipe
	settlingPinches []*Pinch

	fingers   int
	delta     f32.Point
	scale     float32
	axis      Axis
	ambiguous bool
}

// RegisterSwipe adds s to the descriptors matched by r.
func (r *Recognizer) RegisterSwipe(s *Swipe) error {
	switch {
	case s.dead:
		return ErrDestroyed
	case s.rec != nil:
		return ErrRegistered
	}
	s.rec = r
	r.swipes = append(r.swipes, s)
	return nil
}

// UnregisterSwipe removes s, cancelling it if it is active.
func (r *Recognizer) UnregisterSwipe(s *Swipe) {
	if s.rec != r {
		return
	}
	s.rec = nil
	r.swipes = remove(r.swipes, s)
	if i := slices.Index(r.activeSwipes, s); i >= 0 {
		r.activeSwipes = slices.Delete(r.activeSwipes, i, i+1)
		s.cancelled(s.dead)
	}
	if i := slices.Index(r.settlingSwipes, s); i >= 0 {
		r.settlingSwipes = slices.Delete(r.settlingSwipes, i, i+1)
		s.cancelled(s.dead)
	}
}

// RegisterPinch adds p to the descriptors matched by r.
func (r *Recognizer) RegisterPinch(p *Pinch) error {
	switch {
	case p.dead:
		return ErrDestroyed
	case p.rec != nil:
		return ErrRegistered
	}
	p.rec = r
	r.pinches = append(r.pinches, p)
	return nil
}

// UnregisterPinch removes p, cancelling it if it is active.
func (r *Recognizer) UnregisterPinch(p *Pinch) {
	if p.rec != r {
		return
	}
	p.rec = nil
	r.pinches = remove(r.pinches, p)
	if i := slices.Index(r.activePinches, p); i >= 0 {
		r.activePinches = slices.Delete(r.activePinches, i, i+1)
		p.cancelled(p.dead)
	}
	if i := slices.Index(r.settlingPinches, p); i >= 0 {
		r.settlingPinches = slices.Delete(r.settlingPinches, i, i+1)
		p.cancelled(p.dead)
	}
}

// Active reports whether any descriptor is active.
func (r *Recognizer) Active() bool {
	return len(r.activeSwipes) > 0 || len(r.activePinches) > 0
}

// Fingers returns the finger count of the current sequence.
func (r *Recognizer) Fingers() int {
	return r.fingers
}

// StartSwipe starts a swipe sequence of n fingers and returns the
// number of descriptors started.
func (r *Recognizer) StartSwipe(n int) int {
	return r.startSwipe(n, f32.Point{}, false)
}

// StartSwipeAt starts a single finger swipe at pos, matching the start
// geometry of the descriptors.
func (r *Recognizer) StartSwipeAt(pos f32.Point) int {
	return r.startSwipe(1, pos, true)
}

func (r *Recognizer) startSwipe(n int, pos f32.Point, withPos bool) int {
	r.fingers = n
	if r.Active() {
		return 0
	}
	count := 0
	for _, s := range slices.Clone(r.swipes) {
		if s.rec != r || !s.acceptsFingers(n) {
			continue
		}
		if withPos && !s.acceptsStart(pos) {
			continue
		}
		if r.axis != AxisNone && s.axis() != r.axis {
			continue
		}
		r.activeSwipes = append(r.activeSwipes, s)
		count++
		s.started(s.dead)
	}
	return count
}

// UpdateSwipe adds delta to the movement of the current swipe.
func (r *Recognizer) UpdateSwipe(delta f32.Point) {
	if r.ambiguous {
		return
	}
	r.delta = r.delta.Add(delta)
	d := r.delta.Abs()
	axis := r.axis
	if axis == AxisNone {
		switch {
		case d.X == 0 && d.Y == 0:
			return
		case d.X == d.Y:
			// A perfect diagonal matches no direction.
			r.ambiguous = true
			r.cancelSwipes()
			return
		case d.X > d.Y:
			axis = Horizontal
		default:
			axis = Vertical
		}
		if d.X >= r.lockThreshold() || d.Y >= r.lockThreshold() {
			r.axis = axis
		}
	}
	dir := r.direction(axis)
	for i := 0; i < r.passes(); i++ {
		if len(r.activeSwipes) == 0 {
			r.startSwipe(r.fingers, f32.Point{}, false)
		}
		for _, s := range slices.Clone(r.activeSwipes) {
			if s.Direction == dir || s.bordered() {
				continue
			}
			if j := slices.Index(r.activeSwipes, s); j >= 0 {
				r.activeSwipes = slices.Delete(r.activeSwipes, j, j+1)
				s.cancelled(s.dead)
			}
		}
	}
	total := r.delta
	for _, s := range slices.Clone(r.activeSwipes) {
		if !slices.Contains(r.activeSwipes, s) {
			continue
		}
		s.progress(s.dead, s.ProgressFor(total))
		if !s.dead && s.DeltaProgress != nil {
			s.DeltaProgress(total)
		}
	}
}

func (r *Recognizer) direction(axis Axis) SwipeDirection {
	if axis == Vertical {
		if r.delta.Y < 0 {
			return SwipeUp
		}
		return SwipeDown
	}
	if r.delta.X < 0 {
		return SwipeLeft
	}
	return SwipeRight
}

// EndSwipe ends the current swipe. Active descriptors whose threshold
// was reached trigger, the others are cancelled.
func (r *Recognizer) EndSwipe() {
	delta := r.delta
	active := r.activeSwipes
	r.activeSwipes = nil
	r.reset()
	r.settleSwipes(active, func(s *Swipe) {
		if s.ProgressFor(delta) >= 1 {
			s.triggered(s.dead)
		} else {
			s.cancelled(s.dead)
		}
	})
}

// CancelSwipe aborts the current sequence, cancelling every active
// descriptor.
func (r *Recognizer) CancelSwipe() {
	r.cancelAll()
}

// StartPinch starts a pinch sequence of n fingers and returns the
// number of descriptors started.
func (r *Recognizer) StartPinch(n int) int {
	r.fingers = n
	r.scale = 1
	if r.Active() {
		return 0
	}
	count := 0
	for _, p := range slices.Clone(r.pinches) {
		if p.rec != r || !p.acceptsFingers(n) {
			continue
		}
		r.activePinches = append(r.activePinches, p)
		count++
		p.started(p.dead)
	}
	return count
}

// UpdatePinch sets the scale of the current pinch relative to its
// start. The rotation and movement of the center are not matched.
func (r *Recognizer) UpdatePinch(scale, angle float32, delta f32.Point) {
	r.scale = scale
	dir := PinchExpanding
	if scale < 1 {
		dir = PinchContracting
	}
	for i := 0; i < r.passes(); i++ {
		if len(r.activePinches) == 0 {
			r.StartPinch(r.fingers)
			r.scale = scale
		}
		for _, p := range slices.Clone(r.activePinches) {
			if p.Direction == dir {
				continue
			}
			if j := slices.Index(r.activePinches, p); j >= 0 {
				r.activePinches = slices.Delete(r.activePinches, j, j+1)
				p.cancelled(p.dead)
			}
		}
	}
	for _, p := range slices.Clone(r.activePinches) {
		if slices.Contains(r.activePinches, p) {
			p.progress(p.dead, p.ProgressFor(scale))
		}
	}
}

// EndPinch ends the current pinch. Active descriptors whose threshold
// was reached trigger, the others are cancelled.
func (r *Recognizer) EndPinch() {
	scale := r.scale
	active := r.activePinches
	r.activePinches = nil
	r.activeSwipes = nil
	r.reset()
	r.settlePinches(active, func(p *Pinch) {
		if p.ProgressFor(scale) >= 1 {
			p.triggered(p.dead)
		} else {
			p.cancelled(p.dead)
		}
	})
}

// CancelPinch aborts the current sequence, cancelling every active
// descriptor.
func (r *Recognizer) CancelPinch() {
	r.cancelAll()
}

func (r *Recognizer) cancelSwipes() {
	active := r.activeSwipes
	r.activeSwipes = nil
	r.settleSwipes(active, func(s *Swipe) { s.cancelled(s.dead) })
}

func (r *Recognizer) cancelAll() {
	swipes, pinches := r.activeSwipes, r.activePinches
	r.activeSwipes, r.activePinches = nil, nil
	r.reset()
	r.settleSwipes(swipes, func(s *Swipe) { s.cancelled(s.dead) })
	r.settlePinches(pinches, func(p *Pinch) { p.cancelled(p.dead) })
}

// settleSwipes calls settle for each of swipes in order. A swipe
// unregistered by the hook of an earlier one is cancelled by
// UnregisterSwipe and skipped.
func (r *Recognizer) settleSwipes(swipes []*Swipe, settle func(s *Swipe)) {
	r.settlingSwipes = append(r.settlingSwipes, swipes...)
	for len(r.settlingSwipes) > 0 {
		s := r.settlingSwipes[0]
		r.settlingSwipes = r.settlingSwipes[1:]
		settle(s)
	}
}

func (r *Recognizer) settlePinches(pinches []*Pinch, settle func(p *Pinch)) {
	r.settlingPinches = append(r.settlingPinches, pinches...)
	for len(r.settlingPinches) > 0 {
		p := r.settlingPinches[0]
		r.settlingPinches = r.settlingPinches[1:]
		settle(p)
	}
}

func (r *Recognizer) reset() {
	r.fingers = 0
	r.delta = f32.Point{}
	r.scale = 1
	r.axis = AxisNone
	r.ambiguous = false
}

func (r *Recognizer) lockThreshold() float32 {
	if r.LockThreshold > 0 {
		return r.LockThreshold
	}
	return DefaultLockThreshold
}

func (r *Recognizer) passes() int {
	if r.Passes > 0 {
		return r.Passes
	}
	return DefaultPasses
}

func remove[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}
