// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/touch"
	"inputroute.org/win"
)

type touchRedirect struct {
	r   *Router
	dev device
	// pos is the global position of the most recent touch point.
	pos f32.Point
	// count is the number of touch points down.
	count int
	// updated is set once the focus was evaluated for the current
	// touch event. Only the first touch point moves the focus.
	updated bool
	ids     touch.IDMap
	// decorationID and internalID are the touch points pressed on a
	// decoration or an internal window, or -1.
	decorationID int32
	internalID   int32
}

func newTouch(r *Router) *touchRedirect {
	t := &touchRedirect{
		r:            r,
		decorationID: -1,
		internalID:   -1,
	}
	t.dev = device{r: r, class: t, name: "touch"}
	return t
}

// position is only valid while a touch point is down.
func (t *touchRedirect) position() (f32.Point, bool) {
	return t.pos, t.count > 0
}

func (t *touchRedirect) focusUpdatesBlocked() bool {
	if t.updated {
		return true
	}
	t.updated = true
	if t.r.seat.DragTouch() {
		return true
	}
	return t.count > 1
}

func (t *touchRedirect) focusUpdate(old, now win.Handle) {
	w, ok := t.r.resolve(now)
	if !ok || w.Kind() == win.KindInternal || !t.dev.decoration.None() {
		t.r.seat.SetTouchFocus(win.Handle{}, t.pos)
		return
	}
	t.r.seat.SetTouchFocus(now, t.pos)
}

// Decorations and internal windows receive touches through the
// filters.
func (t *touchRedirect) decorationChanged(old, now win.Handle) {}

func (t *touchRedirect) internalChanged(old, now win.Handle) {}

func (t *touchRedirect) focusLost(h win.Handle) {
	t.r.seat.SetTouchFocus(win.Handle{}, t.pos)
}

func (t *touchRedirect) processDown(e touch.DownEvent) {
	t.pos = t.r.mapPosition(e.Device, e.Position)
	t.updated = false
	t.count++
	if t.count == 1 {
		t.dev.update()
	}
	t.r.dispatch(e)
	t.updated = false
}

func (t *touchRedirect) processMotion(e touch.MotionEvent) {
	t.pos = t.r.mapPosition(e.Device, e.Position)
	t.updated = false
	t.r.dispatch(e)
	t.updated = false
}

func (t *touchRedirect) processUp(e touch.UpEvent) {
	t.updated = false
	t.r.dispatch(e)
	if t.count > 0 {
		t.count--
	}
	t.updated = false
	if t.count == 0 {
		t.dev.update()
	}
}

// processCancel aborts the touch sequence of the device.
func (t *touchRedirect) processCancel(e touch.CancelEvent) {
	t.r.dispatch(e)
	t.cancel()
	t.count = 0
	t.updated = false
	t.dev.update()
}

// cancel aborts the protocol touch sequence and forgets every mapped
// touch point.
func (t *touchRedirect) cancel() {
	t.r.seat.TouchCancel()
	t.ids.Cancel()
	t.decorationID = -1
	t.internalID = -1
}

// mapPosition maps the normalized position pos of dev onto its output.
func (r *Router) mapPosition(dev *event.Device, pos f32.Point) f32.Point {
	var area f32.Rectangle
	switch outputs := r.space.Outputs(); {
	case dev != nil && !dev.Output.Empty():
		area = f32.FRect(dev.Output)
	case len(outputs) > 0:
		area = f32.FRect(outputs[0])
	}
	return area.Min.Add(f32.Pt(pos.X*area.Dx(), pos.Y*area.Dy()))
}
