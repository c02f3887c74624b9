// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"errors"
	"image"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/shortcut"
	"inputroute.org/win"
	"inputroute.org/win/memspace"
)

type testEnv struct {
	space   *memspace.Space
	seat    *memspace.Seat
	session *memspace.Session
	r       *Router
}

func newTestEnv(opts Options) *testEnv {
	e := &testEnv{
		space:   memspace.New(image.Rect(0, 0, 1920, 1080)),
		seat:    memspace.NewSeat(),
		session: new(memspace.Session),
	}
	nop := zerolog.Nop()
	opts.Logger = &nop
	opts.Session = e.session
	e.r = New(e.space, e.seat, opts)
	return e
}

func (e *testEnv) add(name string, r image.Rectangle, kind win.Kind) (win.Handle, *memspace.Window) {
	w := memspace.NewWindow(name, r)
	w.WindowKind = kind
	return e.space.Add(w), w
}

func (e *testEnv) moveTo(x, y float32) {
	e.r.Process(pointer.MotionAbsoluteEvent{Position: f32.Pt(x, y)})
}

func (e *testEnv) move(dx, dy float32) {
	d := f32.Pt(dx, dy)
	e.r.Process(pointer.MotionEvent{Delta: d, Unaccelerated: d})
}

func (e *testEnv) button(code uint32, s pointer.State) {
	e.r.Process(pointer.ButtonEvent{Button: code, State: s})
}

func (e *testEnv) click(code uint32) {
	e.button(code, pointer.Pressed)
	e.button(code, pointer.Released)
}

func (e *testEnv) key(code uint32, s key.State) {
	e.r.Process(key.Event{Code: code, State: s})
}

func TestFilterChain(t *testing.T) {
	e := newTestEnv(Options{})
	var got []string
	record := func(name string, consume bool) Filter {
		return FilterFunc(func(event.Event) bool {
			got = append(got, name)
			return consume
		})
	}
	first, second, third := record("first", false), record("second", true), record("third", false)
	for _, f := range []Filter{first, second, third} {
		if err := e.r.Install(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.r.Install(first); !errors.Is(err, ErrInstalled) {
		t.Errorf("second install: got %v", err)
	}
	e.r.InstallSpy(SpyFunc(func(event.Event) { got = append(got, "spy") }))

	e.moveTo(10, 10)
	if want := []string{"spy", "first", "second"}; !slices.Equal(got, want) {
		t.Errorf("dispatch order %v, want %v", got, want)
	}
	if len(e.seat.Motions) != 0 {
		t.Error("consumed motion reached the seat")
	}
	got = nil
	e.r.Uninstall(second)
	e.moveTo(20, 20)
	if want := []string{"spy", "first", "third"}; !slices.Equal(got, want) {
		t.Errorf("dispatch order %v, want %v", got, want)
	}
	if len(e.seat.Motions) != 1 {
		t.Errorf("seat got %d motions, want 1", len(e.seat.Motions))
	}
}

func TestInstallDuringDispatch(t *testing.T) {
	e := newTestEnv(Options{})
	var calls []string
	b := FilterFunc(func(event.Event) bool {
		calls = append(calls, "b")
		return false
	})
	var a Filter
	a = FilterFunc(func(event.Event) bool {
		calls = append(calls, "a")
		e.r.Uninstall(a)
		e.r.Install(b)
		return false
	})
	e.r.Install(a)
	e.moveTo(1, 1)
	if !slices.Equal(calls, []string{"a"}) {
		t.Fatalf("first event: %v", calls)
	}
	e.moveTo(2, 2)
	if !slices.Equal(calls, []string{"a", "b"}) {
		t.Errorf("second event: %v", calls)
	}
}

func TestOutputsWakeUp(t *testing.T) {
	e := newTestEnv(Options{})
	e.session.Off = true
	e.moveTo(10, 10)
	if len(e.seat.Motions) != 0 {
		t.Error("input reached the seat while the outputs are off")
	}
	if e.session.WakeUps != 0 {
		t.Error("outputs woken during dispatch")
	}
	e.moveTo(20, 20)
	if e.session.WakeUps != 1 || e.session.Off {
		t.Errorf("wake ups = %d, off = %v", e.session.WakeUps, e.session.Off)
	}
	if len(e.seat.Motions) != 1 {
		t.Errorf("seat got %d motions after wake up, want 1", len(e.seat.Motions))
	}
}

func TestSessionKeys(t *testing.T) {
	e := newTestEnv(Options{})
	e.key(key.CodeLeftCtrl, key.Press)
	e.key(key.CodeLeftAlt, key.Press)
	e.key(60, key.Press) // F2
	if e.session.VT != 2 {
		t.Errorf("VT = %d, want 2", e.session.VT)
	}
	if len(e.seat.Keys) != 2 {
		t.Errorf("seat got %d keys, want the modifiers only", len(e.seat.Keys))
	}
	e.key(key.CodeBackspace, key.Press)
	if !e.session.Terminated {
		t.Error("Ctrl+Alt+Backspace didn't terminate")
	}
}

func TestModifiers(t *testing.T) {
	e := newTestEnv(Options{})
	e.key(key.CodeLeftShift, key.Press)
	if got := e.r.Modifiers(); got != key.ModShift {
		t.Errorf("Modifiers = %v", got)
	}
	e.r.Process(key.ModifiersEvent{Latched: key.ModCtrl, Locked: key.ModAlt})
	if got := e.r.Modifiers(); got != key.ModShift|key.ModCtrl {
		t.Errorf("Modifiers = %v, locked modifiers must be ignored", got)
	}
	if e.seat.Mods.Latched != key.ModCtrl {
		t.Error("modifier state not forwarded")
	}
	e.key(key.CodeLeftShift, key.Release)
	if got := e.r.Modifiers(); got != key.ModCtrl {
		t.Errorf("Modifiers = %v after release", got)
	}
}

func TestKeyboardFocus(t *testing.T) {
	e := newTestEnv(Options{})
	a, _ := e.add("a", image.Rect(0, 0, 100, 100), win.KindNormal)
	e.space.Activate(a)
	e.r.ActiveWindowChanged()
	if e.seat.KeyboardFocus != a {
		t.Errorf("keyboard focus %v, want %v", e.seat.KeyboardFocus, a)
	}

	i, iw := e.add("osd", image.Rect(0, 0, 10, 10), win.KindInternal)
	e.space.Activate(i)
	e.r.ActiveWindowChanged()
	if !e.seat.KeyboardFocus.None() {
		t.Error("internal window got the seat keyboard focus")
	}
	e.key(30, key.Press)
	if len(iw.Inputs) != 1 {
		t.Errorf("internal window got %d keys, want 1", len(iw.Inputs))
	}

	l, _ := e.add("lock", image.Rect(0, 0, 1920, 1080), win.KindLockScreen)
	e.space.Locked = true
	e.r.ScreenLockChanged()
	if e.seat.KeyboardFocus != l {
		t.Errorf("keyboard focus %v, want the lock screen", e.seat.KeyboardFocus)
	}
}

func TestGlobalShortcut(t *testing.T) {
	d := shortcut.NewDispatcher(shortcut.Options{})
	var n int
	d.RegisterKey(key.Combination{Modifiers: key.ModCtrl, Name: "Q"}, &shortcut.Action{Name: "quit", Do: func() { n++ }})
	e := newTestEnv(Options{Shortcuts: d})
	e.key(key.CodeLeftCtrl, key.Press)
	e.key(16, key.Press) // Q
	if n != 1 {
		t.Fatalf("shortcut ran %d times", n)
	}
	for _, k := range e.seat.Keys {
		if k.Code == 16 && k.State == key.Press {
			t.Error("shortcut key reached the seat")
		}
	}
}

func TestTabletModeSwitch(t *testing.T) {
	e := newTestEnv(Options{})
	var got []bool
	e.r.OnTabletModeSwitchChanged(func(present bool) { got = append(got, present) })
	kbd := event.NewDevice("keyboard", event.CapKeyboard)
	sw := event.NewDevice("switch", event.CapSwitch)
	sw.TabletModeSwitch = true
	e.r.AddDevice(kbd)
	e.r.AddDevice(sw)
	if !e.r.HasTabletModeSwitch() {
		t.Error("tablet mode switch not detected")
	}
	e.r.RemoveDevice(sw)
	e.r.RemoveDevice(kbd)
	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("notifications %v, want [true false]", got)
	}
}

func TestScreenLockCancelsGestures(t *testing.T) {
	e := newTestEnv(Options{})
	e.r.Process(pointer.SwipeBeginEvent{Fingers: 3})
	e.space.Locked = true
	e.r.ScreenLockChanged()
	if len(e.seat.Gestures) != 2 {
		t.Fatalf("seat got %d gesture events, want 2", len(e.seat.Gestures))
	}
	if _, ok := e.seat.Gestures[1].(pointer.SwipeCancelEvent); !ok {
		t.Errorf("last gesture event is %T", e.seat.Gestures[1])
	}
}

func TestEffectsGrab(t *testing.T) {
	e := newTestEnv(Options{})
	e.space.Effects = true
	e.moveTo(5, 5)
	e.key(30, key.Press)
	if len(e.space.EffectsEvents) != 2 {
		t.Errorf("effects got %d events, want 2", len(e.space.EffectsEvents))
	}
	if len(e.seat.Motions) != 0 || len(e.seat.Keys) != 0 {
		t.Error("grabbed input reached the seat")
	}
}
