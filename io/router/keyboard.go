// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"inputroute.org/io/key"
	"inputroute.org/win"
)

type keyboardRedirect struct {
	r *Router
	// pressed holds the codes of the pressed keys.
	pressed map[uint32]bool
	// held are the modifiers of the pressed modifier keys.
	held key.Modifiers
	// state is the last modifier state reported by a keymap.
	state key.ModifiersEvent
	focus win.Handle
}

func newKeyboard(r *Router) *keyboardRedirect {
	return &keyboardRedirect{r: r, pressed: make(map[uint32]bool)}
}

// modifiers returns the modifiers relevant for shortcuts. Locked
// modifiers such as caps lock are ignored.
func (k *keyboardRedirect) modifiers() key.Modifiers {
	return k.held | k.state.Depressed | k.state.Latched
}

func (k *keyboardRedirect) processKey(e key.Event) {
	if e.Name == "" {
		e.Name = key.NameOf(e.Code)
	}
	switch e.State {
	case key.Press:
		k.pressed[e.Code] = true
	case key.Release:
		delete(k.pressed, e.Code)
	}
	k.held = 0
	for code := range k.pressed {
		k.held |= key.ModifierOf(code)
	}
	e.Modifiers = k.modifiers()
	k.update()
	k.r.dispatch(e)
}

func (k *keyboardRedirect) processModifiers(e key.ModifiersEvent) {
	k.state = e
	k.r.seat.Modifiers(e)
}

// target returns the window that should hold the keyboard focus: the
// topmost lock screen while locked, the active window otherwise.
// Internal windows take keys through the filters.
func (k *keyboardRedirect) target() win.Handle {
	if k.r.space.ScreenLocked() {
		for _, h := range k.r.space.Stack() {
			if w, ok := k.r.resolve(h); ok && w.Kind() == win.KindLockScreen {
				return h
			}
		}
		return win.Handle{}
	}
	h := k.r.space.Active()
	w, ok := k.r.resolve(h)
	if !ok || w.Kind() == win.KindInternal {
		return win.Handle{}
	}
	return h
}

// update moves the seat keyboard focus to the target window.
func (k *keyboardRedirect) update() {
	k.setFocus(k.target())
}

func (k *keyboardRedirect) setFocus(h win.Handle) {
	if h == k.focus && (h.None() || k.r.alive(h)) {
		return
	}
	k.focus = h
	k.r.seat.SetKeyboardFocus(h)
}

func (k *keyboardRedirect) forget(h win.Handle) {
	if k.focus == h {
		k.focus = win.Handle{}
		k.r.seat.SetKeyboardFocus(win.Handle{})
	}
}
