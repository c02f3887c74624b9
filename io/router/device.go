// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"inputroute.org/f32"
	"inputroute.org/win"
)

// deviceClass is the device specific part of a device.
type deviceClass interface {
	// position returns the global device position, if the device
	// has one.
	position() (f32.Point, bool)
	focusUpdatesBlocked() bool
	// focusUpdate moves the focus from old to now. old may no longer
	// resolve. old equals now when only the decoration or internal
	// window part of the focus changed.
	focusUpdate(old, now win.Handle)
	decorationChanged(old, now win.Handle)
	internalChanged(old, now win.Handle)
	// focusLost is called when the focused window is destroyed.
	focusLost(h win.Handle)
}

// device tracks the window under a device and the window focused by
// it. All handles are weak: they are resolved on use and forgotten
// when their window is removed.
type device struct {
	r     *Router
	class deviceClass
	name  string

	hit, focus win.Handle
	// decoration is set to the focus when the device is over its
	// decoration.
	decoration win.Handle
	// internal is set to the focus when it is an internal window.
	internal win.Handle
}

// update recomputes the hit and focus targets. It reports false if
// focus updates are blocked.
func (d *device) update() bool {
	if d.class.focusUpdatesBlocked() {
		return false
	}
	var hit, deco, internal win.Handle
	pos, valid := d.class.position()
	if valid {
		if hit = d.r.internalAt(pos); hit.None() {
			hit = d.r.windowAt(pos)
		}
	}
	if w, ok := d.r.resolve(hit); ok {
		switch {
		case w.Kind() == win.KindInternal:
			internal = hit
		case win.OnDecoration(w, pos):
			deco = hit
		}
	}
	d.hit = hit
	changed := false
	if internal != d.internal {
		old := d.internal
		d.internal = internal
		d.class.internalChanged(old, internal)
		changed = true
	}
	if deco != d.decoration {
		old := d.decoration
		d.decoration = deco
		d.class.decorationChanged(old, deco)
		changed = true
	}
	if !d.r.alive(d.focus) {
		d.focus = win.Handle{}
	}
	if hit != d.focus || changed {
		old := d.focus
		d.focus = hit
		d.r.logger.Debug().
			Str("device", d.name).
			Stringer("from", old).
			Stringer("to", hit).
			Bool("decoration", !deco.None()).
			Msg("focus changed")
		d.class.focusUpdate(old, hit)
	}
	return true
}

// unsetFocus drops every target without notifying the class.
func (d *device) unsetFocus() {
	d.hit = win.Handle{}
	d.focus = win.Handle{}
	d.decoration = win.Handle{}
	d.internal = win.Handle{}
}

// forget drops the references to the removed window h.
func (d *device) forget(h win.Handle) {
	if d.hit == h {
		d.hit = win.Handle{}
	}
	if d.decoration == h {
		d.decoration = win.Handle{}
	}
	if d.internal == h {
		d.internal = win.Handle{}
	}
	if d.focus == h {
		d.focus = win.Handle{}
		d.class.focusLost(h)
	}
}

// relative returns pos relative to the frame of w.
func relative(w win.Window, pos f32.Point) f32.Point {
	return pos.Sub(f32.FPt(w.Frame().Min))
}

// internalAt returns the topmost internal window taking input at pos.
func (r *Router) internalAt(pos f32.Point) win.Handle {
	if r.space.ScreenLocked() {
		return win.Handle{}
	}
	for _, h := range r.space.Stack() {
		w, ok := r.resolve(h)
		if !ok || w.Kind() != win.KindInternal {
			continue
		}
		if w.Flags()&(win.FlagHidden|win.FlagMinimized|win.FlagOutputOnly) != 0 {
			continue
		}
		if !f32.FRect(w.Frame()).Contains(pos) {
			continue
		}
		// An empty mask takes input everywhere.
		if mask, infinite := w.InputRegion(); !infinite && !mask.Empty() && !win.AcceptsInput(w, pos) {
			continue
		}
		return h
	}
	return win.Handle{}
}

// windowAt returns the topmost window taking input at pos. While the
// screen is locked only lock screen and input method windows are
// considered; otherwise a grabbing effect hides every window.
func (r *Router) windowAt(pos f32.Point) win.Handle {
	locked := r.space.ScreenLocked()
	if !locked && r.space.EffectsGrab() {
		return win.Handle{}
	}
	for _, h := range r.space.Stack() {
		w, ok := r.resolve(h)
		if !ok {
			continue
		}
		switch w.Kind() {
		case win.KindInternal:
			continue
		case win.KindLockScreen, win.KindInputMethod:
		default:
			if locked {
				continue
			}
		}
		if w.Flags()&(win.FlagMinimized|win.FlagHidden|win.FlagOffDesktop|win.FlagPending) != 0 {
			continue
		}
		if !f32.FRect(w.Frame()).Contains(pos) {
			continue
		}
		if win.OnDecoration(w, pos) || win.AcceptsInput(w, pos) {
			return h
		}
	}
	return win.Handle{}
}

func (r *Router) resolve(h win.Handle) (win.Window, bool) {
	return r.space.Windows().Resolve(h)
}

func (r *Router) alive(h win.Handle) bool {
	return r.space.Windows().Alive(h)
}

// surface returns the Surface of the internal window h.
func (r *Router) surface(h win.Handle) (win.Window, win.Surface, bool) {
	w, ok := r.resolve(h)
	if !ok {
		return nil, nil, false
	}
	s, ok := w.(win.Surface)
	return w, s, ok
}

// decorationOf returns the decoration of h.
func (r *Router) decorationOf(h win.Handle) (win.Window, win.Surface, bool) {
	w, ok := r.resolve(h)
	if !ok {
		return nil, nil, false
	}
	d := w.Decoration()
	return w, d, d != nil
}
