// SPDX-License-Identifier: Unlicense OR MIT

package win

import (
	"image"
	"time"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/tablet"
)

// Space is the window manager's view of the windows.
type Space interface {
	Windows() *Registry
	// Stack returns the windows in stacking order, topmost first.
	Stack() []Handle
	// Active returns the window holding the keyboard focus.
	Active() Handle
	// Activate makes h the active window.
	Activate(h Handle)
	ScreenLocked() bool
	// Outputs returns the output geometries in global coordinates.
	Outputs() []image.Rectangle

	// StartMoveResize begins an interactive move of h.
	StartMoveResize(h Handle)
	// MoveResize returns the window being interactively moved or
	// resized.
	MoveResize() Handle
	UpdateMoveResize(pos f32.Point)
	FinishMoveResize()
	CancelMoveResize()

	// Popups returns the popups holding an input grab, topmost
	// first.
	Popups() []Handle
	// ClosePopups dismisses every grabbing popup.
	ClosePopups()

	// EffectsGrab reports whether a compositor effect claims all
	// input.
	EffectsGrab() bool
	// EffectsInput delivers e to the grabbing effect and reports
	// whether it was consumed.
	EffectsInput(e event.Event) bool
}

// Seat is the protocol side of input: the focus and events clients
// see.
type Seat interface {
	SetTimestamp(t time.Duration)

	// SetPointerFocus sends pointer enter and leave. The zero Handle
	// clears the focus.
	SetPointerFocus(h Handle, pos f32.Point)
	PointerMotion(pos f32.Point)
	RelativeMotion(delta, unaccelerated f32.Point)
	PointerButton(code uint32, state pointer.State)
	PointerAxis(e pointer.AxisEvent)
	PointerFrame()
	// PointerGesture forwards a touchpad swipe or pinch event to the
	// pointer focus.
	PointerGesture(e event.Event)

	SetKeyboardFocus(h Handle)
	Key(code uint32, state key.State)
	Modifiers(e key.ModifiersEvent)

	SetTouchFocus(h Handle, pos f32.Point)
	// TouchDown starts a touch point and returns its protocol id.
	TouchDown(pos f32.Point) int32
	TouchMotion(id int32, pos f32.Point)
	TouchUp(id int32)
	TouchCancel()
	TouchFrame()

	SetTabletFocus(h Handle, pos f32.Point)
	TabletTool(e tablet.ToolEvent, pos f32.Point)
	TabletPad(e tablet.PadEvent)

	// DragPointer reports whether a pointer driven drag and drop is
	// in progress.
	DragPointer() bool
	// DragTouch reports whether a touch driven drag and drop is in
	// progress.
	DragTouch() bool
	// DragMotion moves the drag to pos over h.
	DragMotion(h Handle, pos f32.Point)
	// DragDrop ends the drag over its current target.
	DragDrop()
}

// Session controls the login session and outputs.
type Session interface {
	SwitchVT(n int)
	Terminate()
	// OutputsOff reports whether the outputs are powered down.
	OutputsOff() bool
	OutputsOn()
}
