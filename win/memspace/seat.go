// SPDX-License-Identifier: Unlicense OR MIT

package memspace

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/tablet"
	"inputroute.org/win"
)

// Button is a recorded pointer button.
type Button struct {
	Code  uint32
	State pointer.State
}

// Key is a recorded key.
type Key struct {
	Code  uint32
	State key.State
}

// Seat records the protocol side of input.
type Seat struct {
	Time time.Duration

	PointerFocus  win.Handle
	PointerPos    f32.Point
	FocusChanges  int
	Motions       []f32.Point
	Relative      []f32.Point
	Buttons       []Button
	Axes          []pointer.AxisEvent
	Frames        int
	Gestures      []event.Event
	KeyboardFocus win.Handle
	Keys          []Key
	Mods          key.ModifiersEvent

	TouchFocus win.Handle
	// Touches maps live protocol touch ids to their positions.
	Touches      map[int32]f32.Point
	TouchUps     []int32
	TouchCancels int
	nextTouch    int32

	TabletFocus win.Handle
	Tools       []tablet.ToolEvent
	Pads        []tablet.PadEvent

	// PointerDragging and TouchDragging are reported by DragPointer
	// and DragTouch.
	PointerDragging bool
	TouchDragging   bool
	DragTarget      win.Handle
	DragPos         f32.Point
	Drops           int

	logger zerolog.Logger
}

// Session records session requests.
type Session struct {
	VT         int
	Terminated bool
	// Off is reported by OutputsOff and cleared by OutputsOn.
	Off     bool
	WakeUps int
}

func NewSeat() *Seat {
	return &Seat{
		Touches: make(map[int32]f32.Point),
		logger:  log.With().Str("module", "seat").Logger(),
	}
}

func (s *Seat) SetTimestamp(t time.Duration) { s.Time = t }

func (s *Seat) SetPointerFocus(h win.Handle, pos f32.Point) {
	if h != s.PointerFocus {
		s.FocusChanges++
		s.logger.Debug().Str("focus", h.String()).Msg("pointer focus")
	}
	s.PointerFocus = h
	s.PointerPos = pos
}

func (s *Seat) PointerMotion(pos f32.Point) {
	s.PointerPos = pos
	s.Motions = append(s.Motions, pos)
}

func (s *Seat) RelativeMotion(delta, unaccelerated f32.Point) {
	s.Relative = append(s.Relative, unaccelerated)
}

func (s *Seat) PointerButton(code uint32, state pointer.State) {
	s.Buttons = append(s.Buttons, Button{code, state})
}

func (s *Seat) PointerAxis(e pointer.AxisEvent) { s.Axes = append(s.Axes, e) }

func (s *Seat) PointerFrame() { s.Frames++ }

func (s *Seat) PointerGesture(e event.Event) { s.Gestures = append(s.Gestures, e) }

func (s *Seat) SetKeyboardFocus(h win.Handle) { s.KeyboardFocus = h }

func (s *Seat) Key(code uint32, state key.State) { s.Keys = append(s.Keys, Key{code, state}) }

func (s *Seat) Modifiers(e key.ModifiersEvent) { s.Mods = e }

func (s *Seat) SetTouchFocus(h win.Handle, pos f32.Point) { s.TouchFocus = h }

func (s *Seat) TouchDown(pos f32.Point) int32 {
	id := s.nextTouch
	s.nextTouch++
	s.Touches[id] = pos
	return id
}

func (s *Seat) TouchMotion(id int32, pos f32.Point) {
	if _, ok := s.Touches[id]; ok {
		s.Touches[id] = pos
	}
}

func (s *Seat) TouchUp(id int32) {
	delete(s.Touches, id)
	s.TouchUps = append(s.TouchUps, id)
}

func (s *Seat) TouchCancel() {
	for id := range s.Touches {
		delete(s.Touches, id)
	}
	s.TouchCancels++
}

func (s *Seat) TouchFrame() {}

func (s *Seat) SetTabletFocus(h win.Handle, pos f32.Point) { s.TabletFocus = h }

func (s *Seat) TabletTool(e tablet.ToolEvent, pos f32.Point) { s.Tools = append(s.Tools, e) }

func (s *Seat) TabletPad(e tablet.PadEvent) { s.Pads = append(s.Pads, e) }

func (s *Seat) DragPointer() bool { return s.PointerDragging }

func (s *Seat) DragTouch() bool { return s.TouchDragging }

func (s *Seat) DragMotion(h win.Handle, pos f32.Point) {
	s.DragTarget = h
	s.DragPos = pos
}

func (s *Seat) DragDrop() {
	s.Drops++
	s.PointerDragging = false
	s.TouchDragging = false
}

func (s *Session) SwitchVT(n int) { s.VT = n }

func (s *Session) Terminate() { s.Terminated = true }

func (s *Session) OutputsOff() bool { return s.Off }

func (s *Session) OutputsOn() {
	s.Off = false
	s.WakeUps++
}
