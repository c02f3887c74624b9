// SPDX-License-Identifier: Unlicense OR MIT

/*
Package router routes input events from devices to the windows of a
compositor.

Every event first updates the device state of its class: the pointer
position and the window under it, touch points, tablet tools or the
keyboard modifiers. Then the event is shown to the spies and passed
through the filter chain. The first filter consuming the event ends its
dispatch; the last built-in filter forwards the event to the protocol
seat.

The built-in filters run in this order: outputs wake up (installed only
while the outputs are off), virtual terminal switching, server
termination, drag and drop, screen lock, popups, interactive selection,
effects, interactive move and resize, global shortcuts, decorations,
internal windows, window activation, filters added with Install, seat
forwarding and tablet emulation.

A Router is not safe for concurrent use. Work that must not run in the
middle of a dispatch is posted to a Loop.
*/
package router

import (
	"fmt"
	"image"
	"time"

	"github.com/kataras/go-events"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/tablet"
	"inputroute.org/io/touch"
	"inputroute.org/shortcut"
	"inputroute.org/win"
)

// Router routes the input of one seat.
type Router struct {
	space     win.Space
	seat      win.Seat
	session   win.Session
	shortcuts Shortcuts
	loop      Loop
	queue     *Queue
	logger    zerolog.Logger
	opts      Options

	filters chain[Filter]
	spies   chain[Spy]
	// time is the timestamp of the latest event.
	time time.Duration

	pointer  *pointerRedirect
	touch    *touchRedirect
	tablet   *tabletRedirect
	keyboard *keyboardRedirect

	selection  selection
	dpms       *dpmsFilter
	forward    *forwardFilter
	cursor     *cursorSpy
	devices    map[*event.Device]struct{}
	tabletMode bool
	emitter    events.EventEmmiter
	depth      int
}

// Options configure a Router.
type Options struct {
	// Session switches terminals and powers outputs. Nil disables the
	// session filters.
	Session win.Session
	// Shortcuts receives keys, buttons, scroll steps and gestures
	// for global shortcuts. Nil disables global shortcuts.
	Shortcuts Shortcuts
	// Loop runs deferred work. Nil selects a Queue run at the start of
	// the next event.
	Loop Loop
	// DisableConstraints starts the Router with pointer constraints
	// disabled.
	DisableConstraints bool
	// DisableWarping makes Warp a no-op.
	DisableWarping bool
	// TouchscreenFingers is the number of fingers that turn touch
	// points into a touch screen swipe. Zero selects 3.
	TouchscreenFingers int
	Logger             *zerolog.Logger
}

// Shortcuts is the interface of global shortcut matching used by the
// shortcut filter. It is implemented by *shortcut.Dispatcher.
type Shortcuts interface {
	ProcessKey(mods key.Modifiers, name key.Name) bool
	ProcessKeyRelease(mods key.Modifiers, name key.Name) bool
	ProcessButton(mods key.Modifiers, buttons pointer.Buttons) bool
	ProcessAxis(mods key.Modifiers, dir pointer.Direction) bool
	ProcessSwipeStart(dev shortcut.Device, fingers int) int
	ProcessSwipeStartAt(pos f32.Point) int
	ProcessSwipeUpdate(dev shortcut.Device, delta f32.Point)
	ProcessSwipeCancel(dev shortcut.Device)
	ProcessSwipeEnd(dev shortcut.Device)
	ProcessPinchStart(fingers int) int
	ProcessPinchUpdate(scale, angle float32, delta f32.Point)
	ProcessPinchCancel()
	ProcessPinchEnd()
}

// Class is a class of devices with a position.
type Class uint8

const (
	ClassPointer Class = iota
	ClassTouch
	ClassTablet
)

// EventTabletModeSwitch is emitted with a bool argument when the
// presence of tablet mode switches changes.
const EventTabletModeSwitch events.EventName = "tablet_mode_switch_changed"

// New returns a Router for the windows of space and the seat.
func New(space win.Space, seat win.Seat, opts Options) *Router {
	r := &Router{
		space:     space,
		seat:      seat,
		session:   opts.Session,
		shortcuts: opts.Shortcuts,
		loop:      opts.Loop,
		opts:      opts,
		logger:    log.With().Str("module", "router").Logger(),
		devices:   make(map[*event.Device]struct{}),
		emitter:   events.New(),
	}
	if opts.Logger != nil {
		r.logger = *opts.Logger
	}
	if r.loop == nil {
		r.queue = new(Queue)
		r.loop = r.queue
	}
	r.pointer = newPointer(r)
	r.pointer.constraints.enabled = !opts.DisableConstraints
	r.touch = newTouch(r)
	r.tablet = newTablet(r)
	r.keyboard = newKeyboard(r)
	r.setupFilters()
	space.Windows().OnRemoved(r.windowRemoved)
	return r
}

func (r *Router) setupFilters() {
	r.dpms = &dpmsFilter{r: r}
	r.forward = &forwardFilter{r: r}
	if r.session != nil {
		r.filters.items = append(r.filters.items,
			&vtFilter{r: r},
			&terminateFilter{r: r},
		)
	}
	r.filters.items = append(r.filters.items,
		&dndFilter{r: r},
		&lockScreenFilter{r: r},
		&popupFilter{r: r},
		&selectionFilter{r: r},
		&effectsFilter{r: r},
		&moveResizeFilter{r: r},
		newShortcutFilter(r),
		&decorationFilter{r: r},
		&internalFilter{r: r},
		&windowActionFilter{r: r},
		r.forward,
		&fakeTabletFilter{r: r},
	)
	// Installed filters go before seat forwarding.
	r.filters.tail = 2
	r.cursor = &cursorSpy{}
	r.spies.items = append(r.spies.items, r.cursor)
}

// Process routes e.
func (r *Router) Process(e event.Event) {
	if r.depth == 0 {
		r.Idle()
		r.checkOutputs()
	}
	r.depth++
	defer func() { r.depth-- }()
	if b, ok := e.(event.Based); ok {
		r.time = b.EventBase().Time
	}
	switch e := e.(type) {
	case pointer.MotionEvent:
		r.pointer.processMotion(e)
	case pointer.MotionAbsoluteEvent:
		r.pointer.processMotion(e)
	case pointer.ButtonEvent:
		r.pointer.processButton(e)
	case pointer.AxisEvent:
		r.pointer.processAxis(e)
	case pointer.FrameEvent:
		r.dispatch(e)
	case pointer.SwipeBeginEvent, pointer.SwipeUpdateEvent, pointer.SwipeEndEvent, pointer.SwipeCancelEvent,
		pointer.PinchBeginEvent, pointer.PinchUpdateEvent, pointer.PinchEndEvent, pointer.PinchCancelEvent:
		r.pointer.processGesture(e)
	case key.Event:
		r.keyboard.processKey(e)
	case key.ModifiersEvent:
		r.keyboard.processModifiers(e)
	case touch.DownEvent:
		r.touch.processDown(e)
	case touch.MotionEvent:
		r.touch.processMotion(e)
	case touch.UpEvent:
		r.touch.processUp(e)
	case touch.CancelEvent:
		r.touch.processCancel(e)
	case touch.FrameEvent:
		r.dispatch(e)
	case tablet.ToolEvent:
		r.tablet.processTool(e)
	case tablet.PadEvent:
		r.tablet.processPad(e)
	case tablet.SwitchEvent:
		r.dispatch(e)
	default:
		r.logger.Warn().Str("event", fmt.Sprintf("%T", e)).Msg("unsupported event")
	}
}

// ProcessFake routes an event synthesized by a client of the
// compositor rather than produced by a device.
func (r *Router) ProcessFake(e event.Event) {
	r.logger.Debug().Str("event", fmt.Sprintf("%T", e)).Msg("fake input")
	r.Process(e)
}

// dispatch shows e to the spies and passes it through the filters.
// It reports whether a filter consumed e.
func (r *Router) dispatch(e event.Event) bool {
	spies := r.spies.begin()
	for _, s := range spies {
		s.Spy(e)
	}
	r.spies.end()
	filters := r.filters.begin()
	defer r.filters.end()
	for _, f := range filters {
		if f.Filter(e) {
			return true
		}
	}
	return false
}

// Idle runs the work deferred to the internal Queue. It is a no-op
// when Options.Loop was set.
func (r *Router) Idle() {
	if r.queue != nil {
		r.queue.Run()
	}
}

// checkOutputs installs the wake up filter while the outputs are off.
func (r *Router) checkOutputs() {
	if r.session == nil || !r.session.OutputsOff() || r.filters.installed(r.dpms) {
		return
	}
	r.logger.Info().Msg("outputs off, waiting for input")
	r.InstallFirst(r.dpms)
}

// Install adds f to the filter chain, after the built-in filters and
// before seat forwarding.
func (r *Router) Install(f Filter) error {
	return r.filters.request(opAppend, f)
}

// InstallFirst adds f in front of every other filter.
func (r *Router) InstallFirst(f Filter) error {
	return r.filters.request(opPrepend, f)
}

// Uninstall removes f from the filter chain.
func (r *Router) Uninstall(f Filter) {
	r.filters.request(opRemove, f)
}

// InstallSpy adds s to the end of the spy chain.
func (r *Router) InstallSpy(s Spy) error {
	return r.spies.request(opAppend, s)
}

// UninstallSpy removes s from the spy chain.
func (r *Router) UninstallSpy(s Spy) {
	r.spies.request(opRemove, s)
}

// AddDevice reports a new input device.
func (r *Router) AddDevice(d *event.Device) {
	r.devices[d] = struct{}{}
	r.logger.Info().Stringer("device", d).Msg("device added")
	r.updateTabletMode()
}

// RemoveDevice reports the removal of an input device.
func (r *Router) RemoveDevice(d *event.Device) {
	delete(r.devices, d)
	r.logger.Info().Stringer("device", d).Msg("device removed")
	r.updateTabletMode()
}

func (r *Router) updateTabletMode() {
	has := false
	for d := range r.devices {
		if d.Has(event.CapSwitch) && d.TabletModeSwitch {
			has = true
			break
		}
	}
	if has == r.tabletMode {
		return
	}
	r.tabletMode = has
	r.emitter.Emit(EventTabletModeSwitch, has)
}

// OnTabletModeSwitchChanged calls f whenever HasTabletModeSwitch
// changes.
func (r *Router) OnTabletModeSwitchChanged(f func(present bool)) {
	r.emitter.On(EventTabletModeSwitch, func(payload ...interface{}) {
		f(payload[0].(bool))
	})
}

// HasTabletModeSwitch reports whether a device has a tablet mode
// switch.
func (r *Router) HasTabletModeSwitch() bool {
	return r.tabletMode
}

func (r *Router) device(c Class) *device {
	switch c {
	case ClassPointer:
		return &r.pointer.dev
	case ClassTouch:
		return &r.touch.dev
	case ClassTablet:
		return &r.tablet.dev
	default:
		panic("invalid Class")
	}
}

// Hit returns the window under the device of class c.
func (r *Router) Hit(c Class) win.Handle {
	d := r.device(c)
	if !r.alive(d.hit) {
		return win.Handle{}
	}
	return d.hit
}

// Focus returns the window focused by the device of class c.
func (r *Router) Focus(c Class) win.Handle {
	d := r.device(c)
	if !r.alive(d.focus) {
		return win.Handle{}
	}
	return d.focus
}

// OnDecoration reports whether the device of class c is over the
// decoration of its focus.
func (r *Router) OnDecoration(c Class) bool {
	return r.alive(r.device(c).decoration)
}

// Position returns the global pointer position.
func (r *Router) Position() f32.Point {
	return r.pointer.pos
}

// Buttons returns the pressed pointer buttons.
func (r *Router) Buttons() pointer.Buttons {
	return r.pointer.buttons()
}

// ButtonState returns the state of the button with the linux code.
func (r *Router) ButtonState(code uint32) pointer.State {
	if r.pointer.pressed[code] {
		return pointer.Pressed
	}
	return pointer.Released
}

// Modifiers returns the keyboard modifiers relevant for shortcuts.
func (r *Router) Modifiers() key.Modifiers {
	return r.keyboard.modifiers()
}

// CursorHidden reports whether the cursor is hidden because touch
// input was used after the pointer.
func (r *Router) CursorHidden() bool {
	return r.cursor.hidden
}

// SupportsWarping reports whether Warp moves the pointer.
func (r *Router) SupportsWarping() bool {
	return !r.opts.DisableWarping
}

// Warp moves the pointer to the global position pos.
func (r *Router) Warp(pos f32.Point) {
	if !r.SupportsWarping() {
		return
	}
	r.pointer.warp(pos)
}

// SetConstraintsEnabled enables or disables pointer confinement and
// locking. Disabling releases active constraints.
func (r *Router) SetConstraintsEnabled(enabled bool) {
	if r.pointer.constraints.enabled == enabled {
		return
	}
	r.pointer.constraints.enabled = enabled
	r.pointer.updateConstraints()
}

// IsConstrained reports whether the pointer is confined or locked.
func (r *Router) IsConstrained() bool {
	c := r.pointer.constraints
	return c.confined || c.locked
}

// IsLocked reports whether the pointer is locked.
func (r *Router) IsLocked() bool {
	return r.pointer.constraints.locked
}

// ConstraintsChanged reports that the constraint requests of h were
// created, changed or destroyed.
func (r *Router) ConstraintsChanged(h win.Handle) {
	if h == r.pointer.dev.focus {
		r.pointer.updateConstraints()
	}
}

// ActiveWindowChanged reports a change of the active window.
func (r *Router) ActiveWindowChanged() {
	r.keyboard.update()
	r.pointer.updateConstraints()
}

// Update recomputes the targets of every device, for example after the
// window stack changed.
func (r *Router) Update() {
	r.pointer.dev.update()
	r.touch.dev.update()
	r.tablet.dev.update()
	r.keyboard.update()
}

// ScreenLockChanged reports that the screen was locked or unlocked.
// Gestures and touch sequences in progress are cancelled.
func (r *Router) ScreenLockChanged() {
	r.logger.Info().Bool("locked", r.space.ScreenLocked()).Msg("screen lock changed")
	if r.pointer.swiping {
		r.pointer.swiping = false
		r.seat.PointerGesture(pointer.SwipeCancelEvent{Base: event.Base{Time: r.time}})
		if r.shortcuts != nil {
			r.shortcuts.ProcessSwipeCancel(shortcut.Touchpad)
		}
	}
	if r.pointer.pinching {
		r.pointer.pinching = false
		r.seat.PointerGesture(pointer.PinchCancelEvent{Base: event.Base{Time: r.time}})
		if r.shortcuts != nil {
			r.shortcuts.ProcessPinchCancel()
		}
	}
	if r.touch.count > 0 {
		r.touch.cancel()
	}
	r.Update()
}

// DragEnded reports the end of a drag and drop operation.
func (r *Router) DragEnded() {
	r.pointer.setSeatFocus(win.Handle{})
	r.pointer.dev.unsetFocus()
	r.pointer.dev.update()
}

// MoveResizeStarted reports the start of an interactive move or
// resize. The pointer leaves its focus until the move finishes.
func (r *Router) MoveResizeStarted() {
	r.pointer.releaseFocus()
}

// MoveResizeFinished reports the end of an interactive move or
// resize.
func (r *Router) MoveResizeFinished() {
	r.pointer.dev.update()
}

// OutputsChanged reports a change of the output layout. A pointer left
// off every output moves to the center of the nearest one.
func (r *Router) OutputsChanged() {
	if r.onOutputs(r.pointer.pos) {
		return
	}
	if c, ok := r.nearestOutputCenter(r.pointer.pos); ok {
		r.pointer.warp(c)
	}
}

// IsSelectingWindow reports whether an interactive selection is in
// progress.
func (r *Router) IsSelectingWindow() bool {
	return r.selection.active()
}

// StartInteractiveWindowSelection lets the user pick a window. f is
// called with the picked window, or the zero Handle if the selection
// was cancelled or another selection is in progress.
func (r *Router) StartInteractiveWindowSelection(f func(h win.Handle)) {
	if r.selection.active() {
		f(win.Handle{})
		return
	}
	r.selection = selection{window: f}
	r.startSelection()
}

// StartInteractivePositionSelection lets the user pick a position. f is
// called with the position, or (-1, -1) and false if the selection was
// cancelled or another selection is in progress.
func (r *Router) StartInteractivePositionSelection(f func(pos image.Point, ok bool)) {
	if r.selection.active() {
		f(image.Pt(-1, -1), false)
		return
	}
	r.selection = selection{position: f}
	r.startSelection()
}

func (r *Router) startSelection() {
	r.logger.Debug().Msg("interactive selection started")
	r.pointer.reset()
	r.keyboard.setFocus(win.Handle{})
}

func (r *Router) windowRemoved(h win.Handle) {
	r.pointer.dev.forget(h)
	r.touch.dev.forget(h)
	r.tablet.dev.forget(h)
	r.keyboard.forget(h)
	// The window under the devices is recomputed once the removal
	// completed.
	r.loop.Post(r.Update)
}
