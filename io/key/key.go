// SPDX-License-Identifier: Unlicense OR MIT

// Package key implements keyboard events and key combinations.
package key

import (
	"strings"

	"inputroute.org/io/event"
)

// An Event is generated when a key is pressed or released.
type Event struct {
	event.Base
	// Code is the linux input event code of the key.
	Code uint32
	// Name of the key, derived from Code when the source left it empty.
	Name Name
	// Modifiers is the set of active modifiers when the key was pressed.
	// The router fills it in from its own modifier state.
	Modifiers Modifiers
	// State is the state of the key when the event was fired.
	State State
}

// ModifiersEvent reports a change of the modifier state as computed
// by a keymap outside the router.
type ModifiersEvent struct {
	event.Base
	Depressed, Latched, Locked Modifiers
	Group                      uint32
}

// A FocusEvent is sent to a window when it gains or loses keyboard
// focus.
type FocusEvent struct {
	Focus bool
}

// State is the state of a key during an event.
type State uint8

const (
	// Press is the state of a pressed key.
	Press State = iota
	// Release is the state of a key that has been released.
	Release
)

// Modifiers
type Modifiers uint32

const (
	// ModCtrl is the ctrl modifier key.
	ModCtrl Modifiers = 1 << iota
	// ModShift is the shift modifier key.
	ModShift
	// ModAlt is the alt modifier key.
	ModAlt
	// ModSuper is the "logo" modifier key, often
	// represented by a Windows logo.
	ModSuper
)

// Name is the identifier for a keyboard key. Letters use their
// upper case form.
type Name string

const (
	// Names for special keys.
	NameLeftArrow      Name = "Left"
	NameRightArrow     Name = "Right"
	NameUpArrow        Name = "Up"
	NameDownArrow      Name = "Down"
	NameReturn         Name = "Return"
	NameEnter          Name = "Enter"
	NameEscape         Name = "Escape"
	NameHome           Name = "Home"
	NameEnd            Name = "End"
	NameDeleteBackward Name = "Backspace"
	NameDeleteForward  Name = "Delete"
	NamePageUp         Name = "PgUp"
	NamePageDown       Name = "PgDown"
	NameInsert         Name = "Insert"
	NameTab            Name = "Tab"
	NameBacktab        Name = "Backtab"
	NameSpace          Name = "Space"
	NameCtrl           Name = "Ctrl"
	NameShift          Name = "Shift"
	NameAlt            Name = "Alt"
	NameSuper          Name = "Meta"
	NamePrint          Name = "Print"
	NamePause          Name = "Pause"
	NamePower          Name = "Power"
	NameF1             Name = "F1"
	NameF2             Name = "F2"
	NameF3             Name = "F3"
	NameF4             Name = "F4"
	NameF5             Name = "F5"
	NameF6             Name = "F6"
	NameF7             Name = "F7"
	NameF8             Name = "F8"
	NameF9             Name = "F9"
	NameF10            Name = "F10"
	NameF11            Name = "F11"
	NameF12            Name = "F12"
)

// Contain reports whether m contains all modifiers
// in m2.
func (m Modifiers) Contain(m2 Modifiers) bool {
	return m&m2 == m2
}

func (m Modifiers) String() string {
	var strs []string
	if m.Contain(ModSuper) {
		strs = append(strs, string(NameSuper))
	}
	if m.Contain(ModCtrl) {
		strs = append(strs, string(NameCtrl))
	}
	if m.Contain(ModAlt) {
		strs = append(strs, string(NameAlt))
	}
	if m.Contain(ModShift) {
		strs = append(strs, string(NameShift))
	}
	return strings.Join(strs, "+")
}

func (s State) String() string {
	switch s {
	case Press:
		return "Press"
	case Release:
		return "Release"
	default:
		panic("invalid State")
	}
}

func (Event) ImplementsEvent()          {}
func (ModifiersEvent) ImplementsEvent() {}
func (FocusEvent) ImplementsEvent()     {}
