// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/pointer"
	"inputroute.org/win"
)

type pointerRedirect struct {
	r   *Router
	dev device
	pos f32.Point
	// pressed holds the codes of the pressed buttons.
	pressed map[uint32]bool
	// moving is set while a motion is processed. Motions arriving
	// meanwhile, such as warps from focus changes, are queued.
	moving bool
	queued []event.Event
	// seatFocus is the window the seat sends pointer events to.
	seatFocus win.Handle
	// swiping and pinching track touchpad gestures forwarded to the
	// seat.
	swiping, pinching bool
	constraints       constraintState
}

func newPointer(r *Router) *pointerRedirect {
	p := &pointerRedirect{
		r:       r,
		pressed: make(map[uint32]bool),
	}
	p.dev = device{r: r, class: p, name: "pointer"}
	p.constraints.enabled = true
	return p
}

func (p *pointerRedirect) position() (f32.Point, bool) {
	return p.pos, true
}

func (p *pointerRedirect) focusUpdatesBlocked() bool {
	switch {
	case p.r.seat.DragPointer():
		return true
	case p.r.touch.count > 0:
		return true
	case p.r.selection.active():
		return true
	case len(p.pressed) > 0:
		return true
	case p.r.alive(p.r.space.MoveResize()):
		return true
	}
	return false
}

func (p *pointerRedirect) focusUpdate(old, now win.Handle) {
	p.breakConstraints(old)
	w, ok := p.r.resolve(now)
	if !ok || w.Kind() == win.KindInternal || !p.dev.decoration.None() {
		// The seat has no client to send to while the pointer is
		// over nothing, a decoration or a compositor window.
		p.setSeatFocus(win.Handle{})
		return
	}
	p.setSeatFocus(now)
	p.updateConstraints()
}

func (p *pointerRedirect) decorationChanged(old, now win.Handle) {
	if _, d, ok := p.r.decorationOf(old); ok {
		d.PointerLeave()
	}
	if w, d, ok := p.r.decorationOf(now); ok {
		d.PointerEnter(relative(w, p.pos))
	}
}

func (p *pointerRedirect) internalChanged(old, now win.Handle) {
	if _, s, ok := p.r.surface(old); ok {
		s.PointerLeave()
	}
	if w, s, ok := p.r.surface(now); ok {
		s.PointerEnter(relative(w, p.pos))
	}
}

func (p *pointerRedirect) focusLost(h win.Handle) {
	p.constraints.reset()
	if p.seatFocus == h {
		p.setSeatFocus(win.Handle{})
	}
}

func (p *pointerRedirect) setSeatFocus(h win.Handle) {
	p.seatFocus = h
	p.r.seat.SetPointerFocus(h, p.pos)
}

// buttons returns the set of pressed buttons.
func (p *pointerRedirect) buttons() pointer.Buttons {
	var b pointer.Buttons
	for code := range p.pressed {
		b |= pointer.ButtonFromCode(code)
	}
	return b
}

// processMotion moves the pointer for a relative or absolute motion
// event.
func (p *pointerRedirect) processMotion(e event.Event) {
	if p.moving {
		p.queued = append(p.queued, e)
		return
	}
	p.moving = true
	switch e := e.(type) {
	case pointer.MotionEvent:
		p.updatePosition(p.pos.Add(e.Delta))
	case pointer.MotionAbsoluteEvent:
		p.updatePosition(e.Position)
	}
	p.dev.update()
	p.r.dispatch(e)
	p.r.seat.PointerFrame()
	p.moving = false
	if len(p.queued) > 0 {
		next := p.queued[0]
		p.queued = p.queued[1:]
		p.processMotion(next)
	}
}

func (p *pointerRedirect) processButton(e pointer.ButtonEvent) {
	if e.State == pointer.Pressed {
		// The focus is checked before the press reaches the filters.
		p.dev.update()
		p.pressed[e.Button] = true
	} else {
		delete(p.pressed, e.Button)
	}
	p.r.dispatch(e)
	if e.State == pointer.Released {
		p.dev.update()
	}
	p.r.seat.PointerFrame()
}

func (p *pointerRedirect) processAxis(e pointer.AxisEvent) {
	p.dev.update()
	p.r.dispatch(e)
	p.r.seat.PointerFrame()
}

func (p *pointerRedirect) processGesture(e event.Event) {
	switch e.(type) {
	case pointer.SwipeBeginEvent:
		p.swiping = true
	case pointer.PinchBeginEvent:
		p.pinching = true
	default:
		p.dev.update()
	}
	switch e.(type) {
	case pointer.SwipeEndEvent, pointer.SwipeCancelEvent:
		p.swiping = false
	case pointer.PinchEndEvent, pointer.PinchCancelEvent:
		p.pinching = false
	}
	p.r.dispatch(e)
}

// updatePosition moves the pointer towards pos, keeping it on the
// outputs and inside an active confinement.
func (p *pointerRedirect) updatePosition(pos f32.Point) {
	if p.constraints.locked {
		return
	}
	pos = p.r.clampToOutputs(pos, p.pos)
	pos = p.confine(pos)
	if pos == p.pos {
		return
	}
	if !p.r.onOutputs(pos) {
		return
	}
	p.pos = pos
}

// warp moves the pointer to the global position pos as if the device
// had moved there.
func (p *pointerRedirect) warp(pos f32.Point) {
	p.processMotion(pointer.MotionAbsoluteEvent{
		Base:     event.Base{Time: p.r.time},
		Position: pos,
	})
}

// reset leaves every target, for example when an interactive
// selection starts.
func (p *pointerRedirect) reset() {
	if !p.dev.internal.None() {
		old := p.dev.internal
		p.dev.internal = win.Handle{}
		p.internalChanged(old, win.Handle{})
	}
	if !p.dev.decoration.None() {
		old := p.dev.decoration
		p.dev.decoration = win.Handle{}
		p.decorationChanged(old, win.Handle{})
	}
	p.releaseFocus()
}

// releaseFocus breaks the constraints of the focus and clears it.
func (p *pointerRedirect) releaseFocus() {
	p.breakConstraints(p.dev.focus)
	p.dev.unsetFocus()
	p.setSeatFocus(win.Handle{})
}

// clampToOutputs keeps pos on the outputs. A position off every output
// is clamped to the bounding box of the outputs, then, if still off
// screen, to the output nearest to old.
func (r *Router) clampToOutputs(pos, old f32.Point) f32.Point {
	outputs := r.space.Outputs()
	if len(outputs) == 0 || r.onOutputs(pos) {
		return pos
	}
	var bounds f32.Rectangle
	for i, o := range outputs {
		if i == 0 {
			bounds = f32.FRect(o)
		} else {
			bounds = bounds.Union(f32.FRect(o))
		}
	}
	pos = bounds.Clamp(pos)
	if r.onOutputs(pos) {
		return pos
	}
	nearest := f32.FRect(outputs[0])
	dist := nearest.Distance(old)
	for _, o := range outputs[1:] {
		if d := f32.FRect(o).Distance(old); d < dist {
			nearest, dist = f32.FRect(o), d
		}
	}
	return nearest.Clamp(pos)
}

// onOutputs reports whether pos is on an output. Without outputs every
// position is.
func (r *Router) onOutputs(pos f32.Point) bool {
	outputs := r.space.Outputs()
	if len(outputs) == 0 {
		return true
	}
	for _, o := range outputs {
		if f32.FRect(o).Contains(pos) {
			return true
		}
	}
	return false
}

// nearestOutputCenter returns the center of the output nearest to pos.
func (r *Router) nearestOutputCenter(pos f32.Point) (f32.Point, bool) {
	outputs := r.space.Outputs()
	if len(outputs) == 0 {
		return f32.Point{}, false
	}
	nearest := f32.FRect(outputs[0])
	for _, o := range outputs[1:] {
		if f32.FRect(o).Distance(pos) < nearest.Distance(pos) {
			nearest = f32.FRect(o)
		}
	}
	return nearest.Min.Add(nearest.Size().Div(2)), true
}
