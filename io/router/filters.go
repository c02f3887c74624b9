// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"time"

	"golang.org/x/exp/slices"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/tablet"
	"inputroute.org/io/touch"
	"inputroute.org/shortcut"
	"inputroute.org/win"
)

// dpmsFilter swallows all input while the outputs are off. The first
// user input turns them back on.
type dpmsFilter struct {
	r      *Router
	waking bool
}

func (f *dpmsFilter) Filter(e event.Event) bool {
	switch e := e.(type) {
	case key.Event:
		if e.State == key.Press {
			f.wake()
		}
	case pointer.MotionEvent, pointer.MotionAbsoluteEvent, pointer.ButtonEvent, pointer.AxisEvent,
		touch.DownEvent, tablet.ToolEvent:
		f.wake()
	}
	return true
}

// wake turns the outputs on and removes the filter once the current
// dispatch is over.
func (f *dpmsFilter) wake() {
	if f.waking {
		return
	}
	f.waking = true
	f.r.loop.Post(func() {
		f.waking = false
		f.r.logger.Info().Msg("waking up outputs")
		f.r.session.OutputsOn()
		f.r.Uninstall(f)
	})
}

// vtFilter switches virtual terminals on Ctrl+Alt+Fn.
type vtFilter struct {
	r *Router
}

func (f *vtFilter) Filter(e event.Event) bool {
	k, ok := e.(key.Event)
	if !ok || k.State != key.Press || !k.Modifiers.Contain(key.ModCtrl|key.ModAlt) {
		return false
	}
	n := key.FunctionNumber(k.Name)
	if n == 0 {
		return false
	}
	f.r.logger.Info().Int("vt", n).Msg("switching terminal")
	f.r.session.SwitchVT(n)
	return true
}

// terminateFilter ends the session on Ctrl+Alt+Backspace.
type terminateFilter struct {
	r *Router
}

func (f *terminateFilter) Filter(e event.Event) bool {
	k, ok := e.(key.Event)
	if !ok || k.State != key.Press || k.Name != key.NameDeleteBackward {
		return false
	}
	if k.Modifiers != key.ModCtrl|key.ModAlt {
		return false
	}
	f.r.logger.Warn().Msg("terminating server")
	f.r.session.Terminate()
	return true
}

// dndFilter moves drags and drops them on release.
type dndFilter struct {
	r *Router
}

func (f *dndFilter) Filter(e event.Event) bool {
	r := f.r
	switch e := e.(type) {
	case pointer.MotionEvent, pointer.MotionAbsoluteEvent:
		if !r.seat.DragPointer() {
			return false
		}
		pos := r.pointer.pos
		r.seat.SetTimestamp(r.time)
		r.seat.PointerMotion(pos)
		r.seat.DragMotion(r.windowAt(pos), pos)
	case pointer.ButtonEvent:
		if !r.seat.DragPointer() {
			return false
		}
		r.seat.SetTimestamp(r.time)
		r.seat.PointerButton(e.Button, e.State)
		if e.State == pointer.Released && len(r.pointer.pressed) == 0 {
			r.seat.DragDrop()
			r.DragEnded()
		}
	case pointer.AxisEvent:
		return r.seat.DragPointer()
	case touch.DownEvent:
		return r.seat.DragTouch()
	case touch.MotionEvent:
		if !r.seat.DragTouch() {
			return false
		}
		r.seat.DragMotion(r.windowAt(r.touch.pos), r.touch.pos)
	case touch.UpEvent:
		if !r.seat.DragTouch() {
			return false
		}
		r.forward.Filter(e)
		r.seat.DragDrop()
		r.DragEnded()
	default:
		return false
	}
	return true
}

// lockScreenFilter keeps input away from everything but the lock
// screen and input methods while the screen is locked.
type lockScreenFilter struct {
	r *Router
}

func (f *lockScreenFilter) Filter(e event.Event) bool {
	r := f.r
	if !r.space.ScreenLocked() {
		return false
	}
	var target win.Handle
	switch e.(type) {
	case pointer.MotionEvent, pointer.MotionAbsoluteEvent, pointer.ButtonEvent, pointer.AxisEvent, pointer.FrameEvent:
		target = r.pointer.dev.focus
	case key.Event:
		target = r.keyboard.focus
	case touch.DownEvent, touch.MotionEvent, touch.UpEvent, touch.FrameEvent:
		target = r.touch.dev.focus
	case tablet.SwitchEvent:
		return false
	default:
		return true
	}
	if w, ok := r.resolve(target); ok {
		switch w.Kind() {
		case win.KindLockScreen, win.KindInputMethod:
			r.forward.Filter(e)
		}
	}
	return true
}

// popupFilter dismisses grabbing popups on presses outside of them and
// sends keys to the topmost popup.
type popupFilter struct {
	r *Router
}

func (f *popupFilter) Filter(e event.Event) bool {
	r := f.r
	popups := r.space.Popups()
	if len(popups) == 0 {
		return false
	}
	switch e := e.(type) {
	case pointer.ButtonEvent:
		if e.State != pointer.Pressed {
			return false
		}
		return f.dismiss(popups, r.pointer.dev.focus, !r.pointer.dev.decoration.None())
	case touch.DownEvent:
		return f.dismiss(popups, r.touch.dev.focus, !r.touch.dev.decoration.None())
	case key.Event:
		r.keyboard.setFocus(popups[0])
		r.forward.Filter(e)
		return true
	}
	return false
}

func (f *popupFilter) dismiss(popups []win.Handle, h win.Handle, decoration bool) bool {
	if slices.Contains(popups, h) && !decoration {
		return false
	}
	f.r.logger.Debug().Int("popups", len(popups)).Msg("dismissing popups")
	f.r.space.ClosePopups()
	f.r.keyboard.update()
	return true
}

// effectsFilter hands input to a compositor effect grabbing it.
type effectsFilter struct {
	r *Router
}

func (f *effectsFilter) Filter(e event.Event) bool {
	if !f.r.space.EffectsGrab() {
		return false
	}
	switch e.(type) {
	case tablet.SwitchEvent, key.ModifiersEvent:
		return false
	}
	return f.r.space.EffectsInput(e)
}

// moveResizeFilter drives an interactive move or resize.
type moveResizeFilter struct {
	r *Router
	// touchID is the touch point moving the window, or -1.
	touchID int32
	touched bool
}

func (f *moveResizeFilter) Filter(e event.Event) bool {
	r := f.r
	if !r.alive(r.space.MoveResize()) {
		f.touched = false
		return false
	}
	switch e := e.(type) {
	case pointer.MotionEvent, pointer.MotionAbsoluteEvent:
		r.space.UpdateMoveResize(r.pointer.pos)
	case pointer.ButtonEvent:
		if e.State == pointer.Released && len(r.pointer.pressed) == 0 {
			f.finish()
		}
	case key.Event:
		if e.State == key.Press && e.Name == key.NameEscape {
			r.space.CancelMoveResize()
			r.MoveResizeFinished()
		}
	case touch.DownEvent:
		if !f.touched {
			f.touched, f.touchID = true, e.ID
		}
	case touch.MotionEvent:
		if f.touched && e.ID == f.touchID {
			r.space.UpdateMoveResize(r.touch.pos)
		}
	case touch.UpEvent:
		if f.touched && e.ID == f.touchID {
			f.touched = false
			f.finish()
		}
	case pointer.AxisEvent, pointer.FrameEvent:
	default:
		return false
	}
	return true
}

func (f *moveResizeFilter) finish() {
	f.r.space.FinishMoveResize()
	f.r.MoveResizeFinished()
}

// touchDownInterval is the longest delay between the touch points of
// a touch screen swipe.
const touchDownInterval = 250 * time.Millisecond

// shortcutFilter triggers global shortcuts and feeds gestures to the
// shortcut recognizers. Touch screen swipes are detected here: enough
// touch points going down in quick succession, or a single touch point
// starting in an edge area.
type shortcutFilter struct {
	r       *Router
	fingers int
	points  map[int32]f32.Point
	// lastDown is the time of the latest touch down.
	lastDown time.Duration
	// taken is set while a multi finger swipe owns the touch points.
	taken bool
	// cancelled is set when the current touch points can no longer
	// form a swipe.
	cancelled bool
	// edge is set while a single finger edge swipe is in progress.
	edge   bool
	edgeID int32
}

func newShortcutFilter(r *Router) *shortcutFilter {
	n := r.opts.TouchscreenFingers
	if n == 0 {
		n = 3
	}
	return &shortcutFilter{r: r, fingers: n, points: make(map[int32]f32.Point)}
}

func (f *shortcutFilter) Filter(e event.Event) bool {
	sc := f.r.shortcuts
	if sc == nil {
		return false
	}
	mods := f.r.keyboard.modifiers()
	switch e := e.(type) {
	case key.Event:
		if e.State == key.Press {
			return sc.ProcessKey(e.Modifiers, e.Name)
		}
		return sc.ProcessKeyRelease(e.Modifiers, e.Name)
	case pointer.ButtonEvent:
		if e.State == pointer.Pressed {
			return sc.ProcessButton(mods, f.r.pointer.buttons())
		}
	case pointer.AxisEvent:
		return sc.ProcessAxis(mods, e.Direction())
	case pointer.SwipeBeginEvent:
		sc.ProcessSwipeStart(shortcut.Touchpad, e.Fingers)
	case pointer.SwipeUpdateEvent:
		sc.ProcessSwipeUpdate(shortcut.Touchpad, e.Delta)
	case pointer.SwipeEndEvent:
		sc.ProcessSwipeEnd(shortcut.Touchpad)
	case pointer.SwipeCancelEvent:
		sc.ProcessSwipeCancel(shortcut.Touchpad)
	case pointer.PinchBeginEvent:
		sc.ProcessPinchStart(e.Fingers)
	case pointer.PinchUpdateEvent:
		sc.ProcessPinchUpdate(e.Scale, e.Rotation, e.Delta)
	case pointer.PinchEndEvent:
		sc.ProcessPinchEnd()
	case pointer.PinchCancelEvent:
		sc.ProcessPinchCancel()
	case touch.DownEvent:
		return f.touchDown(sc, e)
	case touch.MotionEvent:
		return f.touchMotion(sc, e)
	case touch.UpEvent:
		return f.touchUp(sc, e)
	case touch.CancelEvent:
		if f.taken || f.edge {
			sc.ProcessSwipeCancel(shortcut.Touchscreen)
		}
		f.reset()
	}
	// Touchpad gestures also reach the clients.
	return false
}

func (f *shortcutFilter) touchDown(sc Shortcuts, e touch.DownEvent) bool {
	if f.taken || f.edge {
		return true
	}
	pos := f.r.touch.pos
	if len(f.points) == 0 && sc.ProcessSwipeStartAt(pos) > 0 {
		f.edge, f.edgeID = true, e.ID
		f.points[e.ID] = pos
		return true
	}
	f.points[e.ID] = pos
	if len(f.points) == 1 {
		f.lastDown = e.Time
		return false
	}
	if e.Time-f.lastDown > touchDownInterval {
		f.cancelled = true
		return false
	}
	f.lastDown = e.Time
	if len(f.points) < f.fingers || f.cancelled {
		return false
	}
	f.taken = true
	f.r.logger.Debug().Int("fingers", len(f.points)).Msg("touch screen swipe")
	// The clients lose the touch points to the swipe.
	f.r.touch.cancel()
	sc.ProcessSwipeStart(shortcut.Touchscreen, len(f.points))
	return true
}

func (f *shortcutFilter) touchMotion(sc Shortcuts, e touch.MotionEvent) bool {
	pos := f.r.touch.pos
	old, ok := f.points[e.ID]
	if ok {
		f.points[e.ID] = pos
	}
	switch {
	case f.edge:
		if ok && e.ID == f.edgeID {
			sc.ProcessSwipeUpdate(shortcut.Touchscreen, pos.Sub(old))
		}
		return true
	case !f.taken:
		return false
	case f.cancelled || !ok:
		return true
	}
	// Every finger contributes its share of the motion.
	sc.ProcessSwipeUpdate(shortcut.Touchscreen, pos.Sub(old).Div(float32(len(f.points))))
	return true
}

func (f *shortcutFilter) touchUp(sc Shortcuts, e touch.UpEvent) bool {
	delete(f.points, e.ID)
	switch {
	case f.edge:
		if e.ID == f.edgeID {
			f.edge = false
			sc.ProcessSwipeEnd(shortcut.Touchscreen)
		}
		return true
	case f.taken:
		if !f.cancelled {
			sc.ProcessSwipeEnd(shortcut.Touchscreen)
			f.cancelled = true
		}
		if len(f.points) == 0 {
			f.taken, f.cancelled = false, false
		}
		return true
	}
	if len(f.points) == 0 {
		f.cancelled = false
	}
	return false
}

func (f *shortcutFilter) reset() {
	for id := range f.points {
		delete(f.points, id)
	}
	f.taken, f.cancelled, f.edge = false, false, false
}

// decorationFilter sends pointer, touch and tablet input over a
// decoration to it.
type decorationFilter struct {
	r *Router
}

func (f *decorationFilter) Filter(e event.Event) bool {
	r := f.r
	switch e := e.(type) {
	case pointer.MotionEvent, pointer.MotionAbsoluteEvent:
		w, d, ok := r.decorationOf(r.pointer.dev.decoration)
		if !ok {
			return false
		}
		d.PointerMove(relative(w, r.pointer.pos))
		return true
	case pointer.ButtonEvent:
		w, d, ok := r.decorationOf(r.pointer.dev.decoration)
		if !ok {
			return false
		}
		if e.State == pointer.Pressed {
			r.activate(r.pointer.dev.decoration)
		}
		d.Input(e, relative(w, r.pointer.pos))
		return true
	case pointer.AxisEvent:
		w, d, ok := r.decorationOf(r.pointer.dev.decoration)
		if !ok {
			return false
		}
		d.Input(e, relative(w, r.pointer.pos))
		return true
	case touch.DownEvent:
		if r.touch.decorationID != -1 {
			return false
		}
		h := r.touch.dev.decoration
		w, d, ok := r.decorationOf(h)
		if !ok {
			return false
		}
		r.touch.decorationID = e.ID
		r.activate(h)
		d.Input(e, relative(w, r.touch.pos))
		return true
	case touch.MotionEvent:
		return f.touch(e, e.ID, false)
	case touch.UpEvent:
		return f.touch(e, e.ID, true)
	case tablet.ToolEvent:
		w, d, ok := r.decorationOf(r.tablet.dev.decoration)
		if !ok {
			return false
		}
		d.Input(e, relative(w, r.tablet.pos))
		return true
	}
	return false
}

func (f *decorationFilter) touch(e event.Event, id int32, up bool) bool {
	r := f.r
	if id != r.touch.decorationID {
		return false
	}
	if up {
		r.touch.decorationID = -1
	}
	if w, d, ok := r.decorationOf(r.touch.dev.decoration); ok {
		d.Input(e, relative(w, r.touch.pos))
	}
	return true
}

// internalFilter sends input to internal windows.
type internalFilter struct {
	r *Router
}

func (f *internalFilter) Filter(e event.Event) bool {
	r := f.r
	switch e := e.(type) {
	case pointer.MotionEvent, pointer.MotionAbsoluteEvent:
		w, s, ok := r.surface(r.pointer.dev.internal)
		if !ok {
			return false
		}
		s.PointerMove(relative(w, r.pointer.pos))
		return true
	case pointer.ButtonEvent, pointer.AxisEvent:
		w, s, ok := r.surface(r.pointer.dev.internal)
		if !ok {
			return false
		}
		s.Input(e, relative(w, r.pointer.pos))
		return true
	case key.Event:
		// Internal windows take keys while they are active.
		h := r.space.Active()
		w, s, ok := r.surface(h)
		if !ok || w.Kind() != win.KindInternal {
			return false
		}
		return s.Input(e, f32.Point{})
	case touch.DownEvent:
		if r.touch.internalID != -1 {
			return false
		}
		w, s, ok := r.surface(r.touch.dev.internal)
		if !ok {
			return false
		}
		r.touch.internalID = e.ID
		s.Input(e, relative(w, r.touch.pos))
		return true
	case touch.MotionEvent:
		return f.touch(e, e.ID, false)
	case touch.UpEvent:
		return f.touch(e, e.ID, true)
	}
	return false
}

func (f *internalFilter) touch(e event.Event, id int32, up bool) bool {
	r := f.r
	if id != r.touch.internalID {
		return false
	}
	if up {
		r.touch.internalID = -1
	}
	if w, s, ok := r.surface(r.touch.dev.internal); ok {
		s.Input(e, relative(w, r.touch.pos))
	}
	return true
}

// windowActionFilter activates windows on click and starts moving them
// on Meta and left button.
type windowActionFilter struct {
	r *Router
}

func (f *windowActionFilter) Filter(e event.Event) bool {
	r := f.r
	switch e := e.(type) {
	case pointer.ButtonEvent:
		if e.State != pointer.Pressed {
			return false
		}
		h := r.pointer.dev.focus
		if !f.managed(h) {
			return false
		}
		if e.Button == pointer.BtnLeft && r.keyboard.modifiers() == key.ModSuper {
			r.activate(h)
			r.logger.Debug().Stringer("window", h).Msg("move started")
			r.space.StartMoveResize(h)
			r.MoveResizeStarted()
			return true
		}
		r.activate(h)
	case touch.DownEvent:
		if h := r.touch.dev.focus; f.managed(h) {
			r.activate(h)
		}
	case tablet.ToolEvent:
		if h := r.tablet.dev.focus; e.Kind == tablet.ToolTip && e.Tip && f.managed(h) {
			r.activate(h)
		}
	}
	return false
}

func (f *windowActionFilter) managed(h win.Handle) bool {
	w, ok := f.r.resolve(h)
	return ok && w.Kind() == win.KindNormal
}

// activate makes h the active window unless it already is.
func (r *Router) activate(h win.Handle) {
	if h.None() || h == r.space.Active() {
		return
	}
	r.space.Activate(h)
	r.ActiveWindowChanged()
}

// forwardFilter sends events to the protocol seat.
type forwardFilter struct {
	r *Router
}

func (f *forwardFilter) Filter(e event.Event) bool {
	r := f.r
	if b, ok := e.(event.Based); ok {
		r.seat.SetTimestamp(b.EventBase().Time)
	}
	switch e := e.(type) {
	case pointer.MotionEvent:
		r.seat.PointerMotion(r.pointer.pos)
		r.seat.RelativeMotion(e.Delta, e.Unaccelerated)
	case pointer.MotionAbsoluteEvent:
		r.seat.PointerMotion(r.pointer.pos)
	case pointer.ButtonEvent:
		r.seat.PointerButton(e.Button, e.State)
	case pointer.AxisEvent:
		r.seat.PointerAxis(e)
	case pointer.FrameEvent:
		r.seat.PointerFrame()
	case pointer.SwipeBeginEvent, pointer.SwipeUpdateEvent, pointer.SwipeEndEvent, pointer.SwipeCancelEvent,
		pointer.PinchBeginEvent, pointer.PinchUpdateEvent, pointer.PinchEndEvent, pointer.PinchCancelEvent:
		r.seat.PointerGesture(e)
	case key.Event:
		r.seat.Key(e.Code, e.State)
	case touch.DownEvent:
		id := r.seat.TouchDown(r.touch.pos)
		r.touch.ids.Insert(e.ID, id)
	case touch.MotionEvent:
		if id, ok := r.touch.ids.Lookup(e.ID); ok {
			r.seat.TouchMotion(id, r.touch.pos)
		}
	case touch.UpEvent:
		if id, ok := r.touch.ids.Lookup(e.ID); ok {
			r.seat.TouchUp(id)
			r.touch.ids.Remove(e.ID)
		}
	case touch.FrameEvent:
		r.seat.TouchFrame()
	case tablet.ToolEvent:
		if !r.tablet.acceptsTablet() {
			return false
		}
		r.seat.TabletTool(e, r.tablet.pos)
	case tablet.PadEvent:
		r.seat.TabletPad(e)
	default:
		return false
	}
	return true
}

// fakeTabletFilter moves the pointer with tablet tools whose focus
// doesn't take tablet events.
type fakeTabletFilter struct {
	r *Router
}

func (f *fakeTabletFilter) Filter(e event.Event) bool {
	t, ok := e.(tablet.ToolEvent)
	if !ok {
		return false
	}
	r := f.r
	switch t.Kind {
	case tablet.ToolProximity:
		if !t.Near {
			break
		}
		fallthrough
	case tablet.ToolAxis:
		r.Process(pointer.MotionAbsoluteEvent{Base: t.Base, Position: r.tablet.pos})
	case tablet.ToolTip:
		state := pointer.Released
		if t.Tip {
			state = pointer.Pressed
		}
		r.Process(pointer.ButtonEvent{Base: t.Base, Button: pointer.BtnLeft, State: state})
	}
	return true
}

// cursorSpy hides the cursor while touch input is used.
type cursorSpy struct {
	hidden bool
}

func (s *cursorSpy) Spy(e event.Event) {
	switch e.(type) {
	case touch.DownEvent:
		s.hidden = true
	case pointer.MotionEvent, pointer.MotionAbsoluteEvent, pointer.ButtonEvent, pointer.AxisEvent:
		s.hidden = false
	}
}
