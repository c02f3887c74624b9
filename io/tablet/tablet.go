// SPDX-License-Identifier: Unlicense OR MIT

// Package tablet contains the events of drawing tablets, their pads and
// of switches.
package tablet

import (
	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/pointer"
)

// ToolEvent reports a change of a tablet tool. Position is normalized
// to [0, 1] over the device's output.
type ToolEvent struct {
	event.Base
	Kind     ToolKind
	Tool     uint64
	Position f32.Point
	Pressure float32
	// Tip is whether the tool touches the tablet surface.
	Tip bool
	// Near is whether the tool is in proximity of the tablet.
	Near bool
	// Button and State are set for ToolButton events.
	Button uint32
	State  pointer.State
}

// PadEvent reports a button, ring or strip change of a tablet pad.
type PadEvent struct {
	event.Base
	Kind   PadKind
	Button uint32
	State  pointer.State
	// Number is the ring or strip index.
	Number int
	// Position is the ring angle in degrees or the normalized strip
	// position.
	Position float32
}

// SwitchEvent reports the state of a switch.
type SwitchEvent struct {
	event.Base
	Switch Switch
	On     bool
}

type ToolKind uint8

type PadKind uint8

type Switch uint8

const (
	ToolProximity ToolKind = iota
	ToolAxis
	ToolTip
	ToolButton
)

const (
	PadButton PadKind = iota
	PadRing
	PadStrip
)

const (
	SwitchLid Switch = iota
	SwitchTabletMode
)

func (k ToolKind) String() string {
	switch k {
	case ToolProximity:
		return "Proximity"
	case ToolAxis:
		return "Axis"
	case ToolTip:
		return "Tip"
	case ToolButton:
		return "Button"
	default:
		panic("invalid ToolKind")
	}
}

func (s Switch) String() string {
	switch s {
	case SwitchLid:
		return "Lid"
	case SwitchTabletMode:
		return "TabletMode"
	default:
		panic("invalid Switch")
	}
}

func (ToolEvent) ImplementsEvent()   {}
func (PadEvent) ImplementsEvent()    {}
func (SwitchEvent) ImplementsEvent() {}
