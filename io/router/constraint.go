// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"inputroute.org/f32"
	"inputroute.org/region"
	"inputroute.org/win"
)

// constraintState is the pointer confinement and lock state of the
// pointer focus.
type constraintState struct {
	enabled  bool
	confined bool
	locked   bool
	// hint is the last cursor position hint of the lock, relative to
	// the client origin.
	hint    f32.Point
	hasHint bool
}

func (c *constraintState) reset() {
	c.confined = false
	c.locked = false
	c.hasHint = false
}

// constraintRegion returns the global area a constraint holds the
// pointer in: the input area of w, intersected with the requested
// region unless that is infinite or empty.
func constraintRegion(w win.Window, r region.Region, infinite bool) region.Region {
	area := win.InputArea(w)
	if !infinite && !r.Empty() {
		area = area.Intersect(r.Translate(w.Client().Min))
	}
	return area
}

// canConstrain reports whether h may constrain the pointer.
func (p *pointerRedirect) canConstrain(h win.Handle) bool {
	return p.constraints.enabled && h == p.r.space.Active()
}

// updateConstraints establishes or releases the confinement and lock
// of the pointer focus.
func (p *pointerRedirect) updateConstraints() {
	h := p.dev.focus
	if h.None() || h != p.seatFocus {
		return
	}
	w, ok := p.r.resolve(h)
	if !ok {
		return
	}
	c, ok := w.(win.Constrained)
	if !ok {
		p.constraints.reset()
		return
	}
	can := p.canConstrain(h)
	if p.updateConfinement(w, c.ConfinedPointer(), can) {
		// A confined pointer is never locked.
		return
	}
	p.updateLock(w, c.LockedPointer(), can)
}

func (p *pointerRedirect) updateConfinement(w win.Window, cf win.ConfinedPointer, can bool) bool {
	if cf == nil {
		p.constraints.confined = false
		return false
	}
	if cf.Confined() {
		r, infinite := cf.Region()
		if !can || !constraintRegion(w, r, infinite).ContainsPoint(p.pos) {
			cf.SetConfined(false)
			p.constraints.confined = false
			p.r.logger.Debug().Msg("pointer unconfined")
			return false
		}
		p.constraints.confined = true
		return true
	}
	if !can {
		return false
	}
	r, infinite := cf.Region()
	if !constraintRegion(w, r, infinite).ContainsPoint(p.pos) {
		return false
	}
	cf.SetConfined(true)
	p.constraints.confined = true
	p.r.logger.Debug().Msg("pointer confined")
	return true
}

func (p *pointerRedirect) updateLock(w win.Window, lk win.LockedPointer, can bool) {
	if lk == nil {
		if p.constraints.locked {
			// The client destroyed the lock.
			p.constraints.locked = false
			p.applyHint(w)
		}
		return
	}
	if hint, ok := lk.CursorHint(); ok {
		p.constraints.hint, p.constraints.hasHint = hint, true
	}
	if lk.Locked() {
		if !can {
			lk.SetLocked(false)
			p.constraints.locked = false
			p.r.logger.Debug().Msg("pointer unlocked")
			p.applyHint(w)
		}
		return
	}
	if !can {
		return
	}
	r, infinite := lk.Region()
	if !constraintRegion(w, r, infinite).ContainsPoint(p.pos) {
		return
	}
	lk.SetLocked(true)
	p.constraints.locked = true
	p.r.logger.Debug().Msg("pointer locked")
}

// applyHint moves the pointer to the cursor hint of a released lock.
// A hint is applied at most once.
func (p *pointerRedirect) applyHint(w win.Window) {
	hint, ok := p.constraints.hint, p.constraints.hasHint
	p.constraints.hasHint = false
	if !ok || hint.X < 0 || hint.Y < 0 {
		return
	}
	p.warp(f32.FPt(w.Client().Min).Add(hint))
}

// breakConstraints releases the constraints of h without applying a
// cursor hint.
func (p *pointerRedirect) breakConstraints(h win.Handle) {
	defer p.constraints.reset()
	w, ok := p.r.resolve(h)
	if !ok {
		return
	}
	c, ok := w.(win.Constrained)
	if !ok {
		return
	}
	if cf := c.ConfinedPointer(); cf != nil && cf.Confined() {
		cf.SetConfined(false)
	}
	if lk := c.LockedPointer(); lk != nil && lk.Locked() {
		lk.SetLocked(false)
	}
}

// confine returns the position nearest to pos, sliding along one axis
// at a time, that stays inside the confinement of the focus. If no
// such position exists the pointer stays where it is.
func (p *pointerRedirect) confine(pos f32.Point) f32.Point {
	if !p.constraints.confined {
		return pos
	}
	w, ok := p.r.resolve(p.dev.focus)
	if !ok {
		return pos
	}
	c, ok := w.(win.Constrained)
	if !ok {
		return pos
	}
	cf := c.ConfinedPointer()
	if cf == nil {
		return pos
	}
	r, infinite := cf.Region()
	area := constraintRegion(w, r, infinite)
	switch {
	case area.ContainsPoint(pos):
		return pos
	case area.ContainsPoint(f32.Pt(p.pos.X, pos.Y)):
		return f32.Pt(p.pos.X, pos.Y)
	case area.ContainsPoint(f32.Pt(pos.X, p.pos.Y)):
		return f32.Pt(pos.X, p.pos.Y)
	}
	return p.pos
}
