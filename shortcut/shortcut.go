// SPDX-License-Identifier: Unlicense OR MIT

/*
Package shortcut matches global shortcuts: modifier and key
combinations, modifier and pointer button combinations, modifier and
scroll directions, and multi finger swipe and pinch gestures.

Keyboard, button and axis triggers fire exactly one Action, and each
trigger can be bound once. Gesture triggers are registered as gesture
descriptors with one Recognizer per device kind.
*/
package shortcut

import (
	"errors"
	"fmt"
	"image"

	"inputroute.org/gesture"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
)

// Device is the kind of device a gesture is performed on.
type Device uint8

const (
	Touchpad Device = iota
	Touchscreen
)

// Action is what a shortcut invokes. Actions are compared by identity.
type Action struct {
	Name string
	// Do is called when the shortcut fires.
	Do func()
	// Progress, if set, reports the progress of gesture shortcuts.
	Progress func(progress float32)
}

// Button is a modifier and pointer button trigger.
type Button struct {
	Modifiers key.Modifiers
	Buttons   pointer.Buttons
}

// Axis is a modifier and scroll direction trigger.
type Axis struct {
	Modifiers key.Modifiers
	Direction pointer.Direction
}

// Swipe is a multi finger swipe trigger.
type Swipe struct {
	Device    Device
	Direction gesture.SwipeDirection
	Fingers   int
}

// Pinch is a touchpad pinch trigger.
type Pinch struct {
	Direction gesture.PinchDirection
	Fingers   int
}

// Edge is a single finger touch screen swipe starting in Area.
type Edge struct {
	Area      image.Rectangle
	Direction gesture.SwipeDirection
	// Distance is the travel along Direction needed to trigger. With
	// zero Distance the swipe triggers when the finger is lifted.
	Distance float32
}

// Arbiter is an out of process shortcut service. It reports whether it
// consumed a combination.
type Arbiter interface {
	KeyPressed(c key.Combination) bool
	KeyReleased(c key.Combination) bool
}

var (
	// ErrDuplicate is returned when binding a trigger twice.
	ErrDuplicate = errors.New("shortcut: trigger already bound")
	// ErrNoAction is returned when binding a nil Action.
	ErrNoAction = errors.New("shortcut: nil action")
	// ErrFingers is returned for gesture triggers without fingers.
	ErrFingers = errors.New("shortcut: invalid finger count")
)

func (d Device) String() string {
	switch d {
	case Touchpad:
		return "Touchpad"
	case Touchscreen:
		return "Touchscreen"
	default:
		panic("invalid Device")
	}
}

func (b Button) String() string {
	return join(b.Modifiers, b.Buttons.String())
}

func (a Axis) String() string {
	return join(a.Modifiers, "Wheel"+a.Direction.String())
}

func (s Swipe) String() string {
	return fmt.Sprintf("%v-%d-%v", s.Device, s.Fingers, s.Direction)
}

func (p Pinch) String() string {
	return fmt.Sprintf("Pinch-%d-%v", p.Fingers, p.Direction)
}

func (e Edge) String() string {
	return fmt.Sprintf("Edge-%v-%v", e.Area, e.Direction)
}

func join(m key.Modifiers, s string) string {
	if m == 0 {
		return s
	}
	return m.String() + "+" + s
}
