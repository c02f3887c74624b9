// SPDX-License-Identifier: Unlicense OR MIT

// Package pointer contains the events of relative and absolute pointing
// devices and of touchpad gestures.
package pointer

import (
	"strings"

	"inputroute.org/f32"
	"inputroute.org/io/event"
)

// ButtonEvent is generated when a pointer button changes state.
type ButtonEvent struct {
	event.Base
	// Button is the linux input event code of the button, such
	// as BTN_LEFT.
	Button uint32
	State  State
}

// MotionEvent is a relative pointer movement.
type MotionEvent struct {
	event.Base
	// Delta is the accelerated movement.
	Delta f32.Point
	// Unaccelerated is the raw movement reported by the device.
	Unaccelerated f32.Point
}

// MotionAbsoluteEvent moves the pointer to a position in the global
// coordinate space of the output layout.
type MotionAbsoluteEvent struct {
	event.Base
	Position f32.Point
}

// AxisEvent is a scroll event.
type AxisEvent struct {
	event.Base
	Orientation Orientation
	Delta       float32
	// Discrete is the number of wheel clicks, or zero for
	// continuous sources.
	Discrete int32
	Source   AxisSource
}

// FrameEvent groups the preceding events of one hardware report.
type FrameEvent struct {
	event.Base
}

// SwipeBeginEvent starts a multi finger swipe on a touchpad.
type SwipeBeginEvent struct {
	event.Base
	Fingers int
}

// SwipeUpdateEvent is the movement of a touchpad swipe since the
// previous update.
type SwipeUpdateEvent struct {
	event.Base
	Delta f32.Point
}

type SwipeEndEvent struct {
	event.Base
}

type SwipeCancelEvent struct {
	event.Base
}

// PinchBeginEvent starts a multi finger pinch on a touchpad.
type PinchBeginEvent struct {
	event.Base
	Fingers int
}

// PinchUpdateEvent carries the absolute scale relative to the start
// of the pinch, the rotation since the previous update in degrees and
// the movement of the logical center.
type PinchUpdateEvent struct {
	event.Base
	Scale    float32
	Rotation float32
	Delta    f32.Point
}

type PinchEndEvent struct {
	event.Base
}

type PinchCancelEvent struct {
	event.Base
}

// State of a button.
type State uint8

// Orientation of a scroll axis.
type Orientation uint8

// AxisSource describes the physical origin of scroll events.
type AxisSource uint8

// Direction of a scroll step.
type Direction uint8

// Buttons is a set of mouse buttons
type Buttons uint8

const (
	Released State = iota
	Pressed
)

const (
	Vertical Orientation = iota
	Horizontal
)

const (
	SourceUnknown AxisSource = iota
	SourceWheel
	SourceFinger
	SourceContinuous
	SourceWheelTilt
)

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

const (
	// ButtonPrimary is the primary button, usually the left button for a
	// right-handed user.
	ButtonPrimary Buttons = 1 << iota
	// ButtonSecondary is the secondary button, usually the right button for a
	// right-handed user.
	ButtonSecondary
	// ButtonTertiary is the tertiary button, usually the middle button.
	ButtonTertiary
	ButtonBack
	ButtonForward
	ButtonSide
	ButtonExtra
	ButtonTask
)

// Linux input event codes of mouse buttons.
const (
	BtnLeft    uint32 = 0x110
	BtnRight   uint32 = 0x111
	BtnMiddle  uint32 = 0x112
	BtnSide    uint32 = 0x113
	BtnExtra   uint32 = 0x114
	BtnForward uint32 = 0x115
	BtnBack    uint32 = 0x116
	BtnTask    uint32 = 0x117
)

var buttonCodes = [...]struct {
	code uint32
	b    Buttons
}{
	{BtnLeft, ButtonPrimary},
	{BtnRight, ButtonSecondary},
	{BtnMiddle, ButtonTertiary},
	{BtnBack, ButtonBack},
	{BtnForward, ButtonForward},
	{BtnSide, ButtonSide},
	{BtnExtra, ButtonExtra},
	{BtnTask, ButtonTask},
}

// ButtonFromCode maps a linux button code to Buttons. Unknown codes map
// to the empty set.
func ButtonFromCode(code uint32) Buttons {
	for _, bc := range buttonCodes {
		if bc.code == code {
			return bc.b
		}
	}
	return 0
}

// Code returns the linux code of the single button b, or zero.
func (b Buttons) Code() uint32 {
	for _, bc := range buttonCodes {
		if bc.b == b {
			return bc.code
		}
	}
	return 0
}

// Direction returns the direction a scroll delta moves in.
func (e AxisEvent) Direction() Direction {
	switch {
	case e.Orientation == Vertical && e.Delta < 0:
		return DirectionUp
	case e.Orientation == Vertical:
		return DirectionDown
	case e.Delta < 0:
		return DirectionLeft
	default:
		return DirectionRight
	}
}

// Contain reports whether the set b contains
// all of the buttons.
func (b Buttons) Contain(buttons Buttons) bool {
	return b&buttons == buttons
}

func (b Buttons) String() string {
	var strs []string
	if b.Contain(ButtonPrimary) {
		strs = append(strs, "ButtonPrimary")
	}
	if b.Contain(ButtonSecondary) {
		strs = append(strs, "ButtonSecondary")
	}
	if b.Contain(ButtonTertiary) {
		strs = append(strs, "ButtonTertiary")
	}
	if b.Contain(ButtonBack) {
		strs = append(strs, "ButtonBack")
	}
	if b.Contain(ButtonForward) {
		strs = append(strs, "ButtonForward")
	}
	if b.Contain(ButtonSide) {
		strs = append(strs, "ButtonSide")
	}
	if b.Contain(ButtonExtra) {
		strs = append(strs, "ButtonExtra")
	}
	if b.Contain(ButtonTask) {
		strs = append(strs, "ButtonTask")
	}
	return strings.Join(strs, "|")
}

func (s State) String() string {
	switch s {
	case Released:
		return "Released"
	case Pressed:
		return "Pressed"
	default:
		panic("invalid State")
	}
}

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "Vertical"
	case Horizontal:
		return "Horizontal"
	default:
		panic("invalid Orientation")
	}
}

func (s AxisSource) String() string {
	switch s {
	case SourceUnknown:
		return "Unknown"
	case SourceWheel:
		return "Wheel"
	case SourceFinger:
		return "Finger"
	case SourceContinuous:
		return "Continuous"
	case SourceWheelTilt:
		return "WheelTilt"
	default:
		panic("unknown source")
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "Up"
	case DirectionDown:
		return "Down"
	case DirectionLeft:
		return "Left"
	case DirectionRight:
		return "Right"
	default:
		panic("invalid Direction")
	}
}

func (ButtonEvent) ImplementsEvent()         {}
func (MotionEvent) ImplementsEvent()         {}
func (MotionAbsoluteEvent) ImplementsEvent() {}
func (AxisEvent) ImplementsEvent()           {}
func (FrameEvent) ImplementsEvent()          {}
func (SwipeBeginEvent) ImplementsEvent()     {}
func (SwipeUpdateEvent) ImplementsEvent()    {}
func (SwipeEndEvent) ImplementsEvent()       {}
func (SwipeCancelEvent) ImplementsEvent()    {}
func (PinchBeginEvent) ImplementsEvent()     {}
func (PinchUpdateEvent) ImplementsEvent()    {}
func (PinchEndEvent) ImplementsEvent()       {}
func (PinchCancelEvent) ImplementsEvent()    {}
