// SPDX-License-Identifier: Unlicense OR MIT

package memspace

import (
	"image"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/region"
	"inputroute.org/win"
)

// Window is a window with plain data fields. Internal windows receive
// their input through the embedded Surface.
type Window struct {
	Surface
	Name          string
	FrameRect     image.Rectangle
	ClientRect    image.Rectangle
	InputMask     region.Region
	InfiniteInput bool
	WindowKind    win.Kind
	State         win.Flags
	Deco          *Surface
	Confine       *ConfinedPointer
	Lock          *LockedPointer
	// Tablet is reported by AcceptsTablet.
	Tablet bool
}

// Surface records the input it receives.
type Surface struct {
	Entered, Left int
	Moves         []f32.Point
	Inputs        []event.Event
	// Consume is returned by Input.
	Consume bool
	// Inside is set between enter and leave.
	Inside bool
}

// ConfinedPointer is a confinement request.
type ConfinedPointer struct {
	Area     region.Region
	Infinite bool
	Active   bool
}

// LockedPointer is a lock request.
type LockedPointer struct {
	Area     region.Region
	Infinite bool
	Active   bool
	Hint     f32.Point
	HasHint  bool
}

// NewWindow returns a normal window with an infinite input region and
// no decoration.
func NewWindow(name string, r image.Rectangle) *Window {
	return &Window{Name: name, FrameRect: r, ClientRect: r, InfiniteInput: true}
}

// Decorate adds a decoration of the given border width around the
// client area.
func (w *Window) Decorate(border int) *Window {
	w.FrameRect = w.ClientRect.Inset(-border)
	w.Deco = new(Surface)
	return w
}

func (w *Window) Frame() image.Rectangle { return w.FrameRect }

func (w *Window) Client() image.Rectangle { return w.ClientRect }

func (w *Window) InputRegion() (region.Region, bool) { return w.InputMask, w.InfiniteInput }

func (w *Window) Kind() win.Kind { return w.WindowKind }

func (w *Window) Flags() win.Flags { return w.State }

func (w *Window) Decoration() win.Surface {
	if w.Deco == nil {
		return nil
	}
	return w.Deco
}

func (w *Window) ConfinedPointer() win.ConfinedPointer {
	if w.Confine == nil {
		return nil
	}
	return w.Confine
}

func (w *Window) LockedPointer() win.LockedPointer {
	if w.Lock == nil {
		return nil
	}
	return w.Lock
}

func (w *Window) AcceptsTablet() bool { return w.Tablet }

func (w *Window) String() string {
	return w.Name
}

func (s *Surface) PointerEnter(pos f32.Point) {
	s.Entered++
	s.Inside = true
	s.Moves = append(s.Moves, pos)
}

func (s *Surface) PointerMove(pos f32.Point) {
	s.Moves = append(s.Moves, pos)
}

func (s *Surface) PointerLeave() {
	s.Left++
	s.Inside = false
}

func (s *Surface) Input(e event.Event, pos f32.Point) bool {
	s.Inputs = append(s.Inputs, e)
	return s.Consume
}

func (c *ConfinedPointer) Region() (region.Region, bool) { return c.Area, c.Infinite }
func (c *ConfinedPointer) Confined() bool                { return c.Active }
func (c *ConfinedPointer) SetConfined(v bool)            { c.Active = v }

func (l *LockedPointer) Region() (region.Region, bool) { return l.Area, l.Infinite }
func (l *LockedPointer) Locked() bool                  { return l.Active }
func (l *LockedPointer) SetLocked(v bool)              { l.Active = v }
func (l *LockedPointer) CursorHint() (f32.Point, bool) { return l.Hint, l.HasHint }
