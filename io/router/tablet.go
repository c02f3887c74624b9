// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"inputroute.org/f32"
	"inputroute.org/io/tablet"
	"inputroute.org/win"
)

type tabletRedirect struct {
	r   *Router
	dev device
	pos f32.Point
	// near is set while a tool is in proximity.
	near bool
	// tip is set while a tool touches the tablet.
	tip bool
}

func newTablet(r *Router) *tabletRedirect {
	t := &tabletRedirect{r: r}
	t.dev = device{r: r, class: t, name: "tablet"}
	return t
}

// position is only valid while a tool is in proximity.
func (t *tabletRedirect) position() (f32.Point, bool) {
	return t.pos, t.near
}

func (t *tabletRedirect) focusUpdatesBlocked() bool {
	return t.tip
}

func (t *tabletRedirect) focusUpdate(old, now win.Handle) {
	w, ok := t.r.resolve(now)
	if !ok || w.Kind() == win.KindInternal || !t.dev.decoration.None() {
		t.r.seat.SetTabletFocus(win.Handle{}, t.pos)
		return
	}
	t.r.seat.SetTabletFocus(now, t.pos)
}

func (t *tabletRedirect) decorationChanged(old, now win.Handle) {}

func (t *tabletRedirect) internalChanged(old, now win.Handle) {}

func (t *tabletRedirect) focusLost(h win.Handle) {
	t.r.seat.SetTabletFocus(win.Handle{}, t.pos)
}

// acceptsTablet reports whether the tablet focus takes tablet events.
// Other windows see the tool as a pointer.
func (t *tabletRedirect) acceptsTablet() bool {
	w, ok := t.r.resolve(t.dev.focus)
	if !ok {
		return false
	}
	c, ok := w.(win.TabletClient)
	return ok && c.AcceptsTablet()
}

func (t *tabletRedirect) processTool(e tablet.ToolEvent) {
	t.pos = t.r.mapPosition(e.Device, e.Position)
	switch e.Kind {
	case tablet.ToolProximity:
		t.near = e.Near
	case tablet.ToolTip:
		// The focus is evaluated before the tip goes down and after it
		// goes up.
		if e.Tip {
			t.dev.update()
		}
		t.tip = e.Tip
	}
	if e.Kind != tablet.ToolTip {
		t.dev.update()
	}
	t.r.dispatch(e)
	if e.Kind == tablet.ToolTip && !e.Tip {
		t.dev.update()
	}
}

func (t *tabletRedirect) processPad(e tablet.PadEvent) {
	t.r.dispatch(e)
}
