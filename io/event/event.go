// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains the types shared by all input events.
package event

import (
	"image"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}

// Capability describes what kind of events a Device produces.
type Capability uint16

const (
	CapPointer Capability = 1 << iota
	CapKeyboard
	CapTouch
	CapTablet
	CapTabletPad
	CapSwitch
	// CapGesture is set for touchpads reporting swipe and pinch
	// gestures.
	CapGesture
)

// Device is a source of input events. Devices are owned by the
// backend; events and the router only refer to them.
type Device struct {
	ID   uuid.UUID
	Name string
	Caps Capability
	// Output is the area of the output layout that absolute touch and
	// tablet positions map to. The empty rectangle selects the first
	// output.
	Output image.Rectangle
	// TabletModeSwitch is set for switch devices reporting tablet mode.
	TabletModeSwitch bool
}

// Base is embedded by every event.
type Base struct {
	Device *Device
	// Time is when the event was generated, relative to an
	// undefined monotonic base.
	Time time.Duration
}

// Based is implemented by events embedding Base.
type Based interface {
	Event
	EventBase() Base
}

// NewDevice returns a Device with a fresh random ID.
func NewDevice(name string, caps Capability) *Device {
	return &Device{ID: uuid.New(), Name: name, Caps: caps}
}

// Has reports whether d has all the capabilities in c.
func (d *Device) Has(c Capability) bool {
	return d != nil && d.Caps&c == c
}

func (d *Device) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.Name + " (" + d.Caps.String() + ")"
}

// EventBase returns b. It lets the router reach the device and time of
// any event.
func (b Base) EventBase() Base {
	return b
}

// Msec returns the event time in milliseconds.
func (b Base) Msec() uint32 {
	return uint32(b.Time.Milliseconds())
}

// Meta returns the Base of e, or the zero Base if e doesn't embed one.
func Meta(e Event) Base {
	if b, ok := e.(Based); ok {
		return b.EventBase()
	}
	return Base{}
}

func (c Capability) String() string {
	var buf strings.Builder
	for cc := Capability(1); cc > 0 && cc <= c; cc <<= 1 {
		if c&cc > 0 {
			if buf.Len() > 0 {
				buf.WriteByte('|')
			}
			buf.WriteString(cc.string())
		}
	}
	return buf.String()
}

func (c Capability) string() string {
	switch c {
	case CapPointer:
		return "Pointer"
	case CapKeyboard:
		return "Keyboard"
	case CapTouch:
		return "Touch"
	case CapTablet:
		return "Tablet"
	case CapTabletPad:
		return "TabletPad"
	case CapSwitch:
		return "Switch"
	case CapGesture:
		return "Gesture"
	default:
		panic("unknown Capability")
	}
}
