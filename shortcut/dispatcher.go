// SPDX-License-Identifier: Unlicense OR MIT

package shortcut

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"inputroute.org/f32"
	"inputroute.org/gesture"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
)

// Dispatcher holds the shortcut bindings and the gesture recognizers
// of touchpads and touch screens. It must only be used from one
// goroutine.
type Dispatcher struct {
	// Arbiter, if set, is consulted before the key bindings. Local
	// bindings are skipped for combinations it consumed.
	Arbiter Arbiter

	keys        []binding[key.Combination]
	buttons     []binding[Button]
	axes        []binding[Axis]
	swipes      []gestureBinding[Swipe, *gesture.Swipe]
	pinches     []gestureBinding[Pinch, *gesture.Pinch]
	edges       []gestureBinding[Edge, *gesture.Swipe]
	touchpad    gesture.Recognizer
	touchscreen gesture.Recognizer
	scaleDelta  float32
	logger      zerolog.Logger
}

// Options tune a Dispatcher.
type Options struct {
	// LockThreshold and Passes tune both recognizers. Zero selects
	// the gesture package defaults.
	LockThreshold float32
	Passes        int
	// MinimumScaleDelta is used for pinch bindings. Zero selects
	// gesture.DefaultMinimumScaleDelta.
	MinimumScaleDelta float32
	Logger            *zerolog.Logger
}

type binding[T comparable] struct {
	trigger T
	action  *Action
}

type gestureBinding[T comparable, D any] struct {
	trigger T
	action  *Action
	desc    D
}

// NewDispatcher returns a Dispatcher without bindings.
func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		logger: log.With().Str("module", "shortcut").Logger(),
	}
	if opts.Logger != nil {
		d.logger = *opts.Logger
	}
	for _, r := range []*gesture.Recognizer{&d.touchpad, &d.touchscreen} {
		r.LockThreshold = opts.LockThreshold
		r.Passes = opts.Passes
	}
	d.scaleDelta = opts.MinimumScaleDelta
	return d
}

// RegisterKey binds a key combination.
func (d *Dispatcher) RegisterKey(c key.Combination, a *Action) error {
	return register(d, &d.keys, c, a)
}

// RegisterButton binds a modifier and pointer button combination.
func (d *Dispatcher) RegisterButton(b Button, a *Action) error {
	return register(d, &d.buttons, b, a)
}

// RegisterAxis binds a modifier and scroll direction combination.
// Axis bindings without modifiers never fire.
func (d *Dispatcher) RegisterAxis(x Axis, a *Action) error {
	return register(d, &d.axes, x, a)
}

type trigger interface {
	comparable
	String() string
}

func register[T trigger](d *Dispatcher, list *[]binding[T], t T, a *Action) error {
	if a == nil {
		return ErrNoAction
	}
	for _, b := range *list {
		if b.trigger == t {
			d.logger.Warn().Stringer("trigger", t).Str("action", a.Name).Msg("duplicate shortcut")
			return ErrDuplicate
		}
	}
	*list = append(*list, binding[T]{trigger: t, action: a})
	d.logger.Debug().Stringer("trigger", t).Str("action", a.Name).Msg("shortcut registered")
	return nil
}

// RegisterTouchpadSwipe binds a touchpad swipe of exactly fingers
// fingers.
func (d *Dispatcher) RegisterTouchpadSwipe(dir gesture.SwipeDirection, fingers int, a *Action) error {
	return d.registerSwipe(Swipe{Device: Touchpad, Direction: dir, Fingers: fingers}, a)
}

// RegisterTouchscreenSwipe binds a touch screen swipe of exactly
// fingers fingers.
func (d *Dispatcher) RegisterTouchscreenSwipe(dir gesture.SwipeDirection, fingers int, a *Action) error {
	return d.registerSwipe(Swipe{Device: Touchscreen, Direction: dir, Fingers: fingers}, a)
}

func (d *Dispatcher) registerSwipe(t Swipe, a *Action) error {
	if a == nil {
		return ErrNoAction
	}
	if t.Fingers < 1 {
		return ErrFingers
	}
	for _, b := range d.swipes {
		if b.trigger == t {
			d.logger.Warn().Stringer("trigger", t).Str("action", a.Name).Msg("duplicate swipe")
			return ErrDuplicate
		}
	}
	s := &gesture.Swipe{Direction: t.Direction}
	s.SetMinimumFingerCount(t.Fingers)
	s.SetMaximumFingerCount(t.Fingers)
	d.hook(&s.Hooks, t, a)
	if err := d.recognizer(t.Device).RegisterSwipe(s); err != nil {
		return err
	}
	d.swipes = append(d.swipes, gestureBinding[Swipe, *gesture.Swipe]{trigger: t, action: a, desc: s})
	return nil
}

// RegisterTouchpadPinch binds a touchpad pinch of exactly fingers
// fingers.
func (d *Dispatcher) RegisterTouchpadPinch(dir gesture.PinchDirection, fingers int, a *Action) error {
	if a == nil {
		return ErrNoAction
	}
	if fingers < 2 {
		return ErrFingers
	}
	t := Pinch{Direction: dir, Fingers: fingers}
	for _, b := range d.pinches {
		if b.trigger == t {
			d.logger.Warn().Stringer("trigger", t).Str("action", a.Name).Msg("duplicate pinch")
			return ErrDuplicate
		}
	}
	p := &gesture.Pinch{Direction: dir, MinimumScaleDelta: d.scaleDelta}
	p.SetMinimumFingerCount(fingers)
	p.SetMaximumFingerCount(fingers)
	d.hook(&p.Hooks, t, a)
	if err := d.touchpad.RegisterPinch(p); err != nil {
		return err
	}
	d.pinches = append(d.pinches, gestureBinding[Pinch, *gesture.Pinch]{trigger: t, action: a, desc: p})
	return nil
}

// RegisterEdgeSwipe binds a single finger touch screen swipe starting
// inside area, such as a swipe in from a screen edge.
func (d *Dispatcher) RegisterEdgeSwipe(e Edge, a *Action) error {
	if a == nil {
		return ErrNoAction
	}
	for _, b := range d.edges {
		if b.trigger == e {
			return ErrDuplicate
		}
	}
	s := &gesture.Swipe{Direction: e.Direction}
	s.SetMinimumFingerCount(1)
	s.SetMaximumFingerCount(1)
	s.SetStartGeometry(e.Area)
	if e.Distance > 0 {
		switch e.Direction {
		case gesture.SwipeLeft, gesture.SwipeRight:
			s.SetMinimumDelta(f32.Pt(e.Distance, 0))
		default:
			s.SetMinimumDelta(f32.Pt(0, e.Distance))
		}
	}
	d.hook(&s.Hooks, e, a)
	if err := d.touchscreen.RegisterSwipe(s); err != nil {
		return err
	}
	d.edges = append(d.edges, gestureBinding[Edge, *gesture.Swipe]{trigger: e, action: a, desc: s})
	return nil
}

func (d *Dispatcher) hook(h *gesture.Hooks, t interface{ String() string }, a *Action) {
	h.Triggered = func() {
		d.logger.Debug().Stringer("trigger", t).Str("action", a.Name).Msg("gesture triggered")
		a.Do()
	}
	if a.Progress != nil {
		h.Progress = a.Progress
		// A cancelled gesture reports no progress.
		h.Cancelled = func() { a.Progress(0) }
	}
}

// Unregister removes every binding of a. Active gestures of a are
// cancelled.
func (d *Dispatcher) Unregister(a *Action) {
	d.keys = slices.DeleteFunc(d.keys, func(b binding[key.Combination]) bool { return b.action == a })
	d.buttons = slices.DeleteFunc(d.buttons, func(b binding[Button]) bool { return b.action == a })
	d.axes = slices.DeleteFunc(d.axes, func(b binding[Axis]) bool { return b.action == a })
	d.swipes = slices.DeleteFunc(d.swipes, func(b gestureBinding[Swipe, *gesture.Swipe]) bool {
		if b.action != a {
			return false
		}
		b.desc.Destroy()
		return true
	})
	d.pinches = slices.DeleteFunc(d.pinches, func(b gestureBinding[Pinch, *gesture.Pinch]) bool {
		if b.action != a {
			return false
		}
		b.desc.Destroy()
		return true
	})
	d.edges = slices.DeleteFunc(d.edges, func(b gestureBinding[Edge, *gesture.Swipe]) bool {
		if b.action != a {
			return false
		}
		b.desc.Destroy()
		return true
	})
}

// ProcessKey handles the press of name while mods are held and
// reports whether a shortcut consumed it.
func (d *Dispatcher) ProcessKey(mods key.Modifiers, name key.Name) bool {
	if name == "" {
		return false
	}
	if d.Arbiter != nil && d.arbitrate(d.Arbiter.KeyPressed, mods, name) {
		return true
	}
	c := key.Combination{Modifiers: mods, Name: name}
	if a := find(d.keys, c); a != nil {
		d.logger.Debug().Stringer("trigger", c).Str("action", a.Name).Msg("shortcut triggered")
		a.Do()
		return true
	}
	return false
}

// ProcessKeyRelease reports whether the release of name was consumed.
func (d *Dispatcher) ProcessKeyRelease(mods key.Modifiers, name key.Name) bool {
	if d.Arbiter == nil || name == "" {
		return false
	}
	return d.arbitrate(d.Arbiter.KeyReleased, mods, name)
}

// arbitrate asks the service about a combination. Shift+Tab is
// reported as Backtab by some keymaps and as Tab by others, so both
// spellings are tried.
func (d *Dispatcher) arbitrate(check func(key.Combination) bool, mods key.Modifiers, name key.Name) bool {
	if check(key.Combination{Modifiers: mods, Name: name}) {
		return true
	}
	switch {
	case name == key.NameBacktab:
		return check(key.Combination{Modifiers: mods | key.ModShift, Name: key.NameTab}) ||
			check(key.Combination{Modifiers: mods, Name: key.NameTab})
	case name == key.NameTab && mods.Contain(key.ModShift):
		return check(key.Combination{Modifiers: mods, Name: key.NameBacktab})
	}
	return false
}

// ProcessButton handles a button press while mods and buttons are
// held.
func (d *Dispatcher) ProcessButton(mods key.Modifiers, buttons pointer.Buttons) bool {
	if a := find(d.buttons, Button{Modifiers: mods, Buttons: buttons}); a != nil {
		a.Do()
		return true
	}
	return false
}

// ProcessAxis handles a scroll step while mods are held.
func (d *Dispatcher) ProcessAxis(mods key.Modifiers, dir pointer.Direction) bool {
	if mods == 0 {
		return false
	}
	if a := find(d.axes, Axis{Modifiers: mods, Direction: dir}); a != nil {
		a.Do()
		return true
	}
	return false
}

func find[T comparable](list []binding[T], t T) *Action {
	for _, b := range list {
		if b.trigger == t {
			return b.action
		}
	}
	return nil
}

func (d *Dispatcher) recognizer(dev Device) *gesture.Recognizer {
	if dev == Touchscreen {
		return &d.touchscreen
	}
	return &d.touchpad
}

// ProcessSwipeStart begins a swipe of fingers fingers and returns the
// number of matching bindings.
func (d *Dispatcher) ProcessSwipeStart(dev Device, fingers int) int {
	return d.recognizer(dev).StartSwipe(fingers)
}

// ProcessSwipeStartAt begins a single finger touch screen swipe at the
// global position pos and returns the number of matching edge
// bindings.
func (d *Dispatcher) ProcessSwipeStartAt(pos f32.Point) int {
	return d.touchscreen.StartSwipeAt(pos)
}

// ProcessSwipeUpdate adds delta to the swipe of dev.
func (d *Dispatcher) ProcessSwipeUpdate(dev Device, delta f32.Point) {
	d.recognizer(dev).UpdateSwipe(delta)
}

// ProcessSwipeCancel aborts the swipe of dev without triggering.
func (d *Dispatcher) ProcessSwipeCancel(dev Device) {
	d.recognizer(dev).CancelSwipe()
}

// ProcessSwipeEnd ends the swipe of dev, triggering the actions whose
// threshold was reached.
func (d *Dispatcher) ProcessSwipeEnd(dev Device) {
	d.recognizer(dev).EndSwipe()
}

// ProcessPinchStart begins a touchpad pinch.
func (d *Dispatcher) ProcessPinchStart(fingers int) int {
	return d.touchpad.StartPinch(fingers)
}

// ProcessPinchUpdate sets the scale of the touchpad pinch.
func (d *Dispatcher) ProcessPinchUpdate(scale, angle float32, delta f32.Point) {
	d.touchpad.UpdatePinch(scale, angle, delta)
}

// ProcessPinchCancel aborts the touchpad pinch.
func (d *Dispatcher) ProcessPinchCancel() {
	d.touchpad.CancelPinch()
}

// ProcessPinchEnd ends the touchpad pinch.
func (d *Dispatcher) ProcessPinchEnd() {
	d.touchpad.EndPinch()
}
