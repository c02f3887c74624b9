// SPDX-License-Identifier: Unlicense OR MIT

// Package touch contains touch screen events and the mapping between
// backend and protocol touch point identifiers.
package touch

import (
	"inputroute.org/f32"
	"inputroute.org/io/event"
)

// DownEvent is generated when a finger touches the screen. ID is the
// backend touch point identifier, reused once the point is lifted.
// Position is normalized to [0, 1] over the device's output.
type DownEvent struct {
	event.Base
	ID       int32
	Position f32.Point
}

type MotionEvent struct {
	event.Base
	ID       int32
	Position f32.Point
}

type UpEvent struct {
	event.Base
	ID int32
}

// CancelEvent aborts every active touch point of the device.
type CancelEvent struct {
	event.Base
}

type FrameEvent struct {
	event.Base
}

func (DownEvent) ImplementsEvent()   {}
func (MotionEvent) ImplementsEvent() {}
func (UpEvent) ImplementsEvent()     {}
func (CancelEvent) ImplementsEvent() {}
func (FrameEvent) ImplementsEvent()  {}
