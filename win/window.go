// SPDX-License-Identifier: Unlicense OR MIT

// Package win describes the windows, the window stack and the protocol
// seat that input is routed to.
package win

import (
	"image"
	"strings"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/region"
)

// Window is a surface in the window stack.
type Window interface {
	// Frame returns the window geometry including decorations, in
	// global coordinates.
	Frame() image.Rectangle
	// Client returns the geometry of the client area, in global
	// coordinates.
	Client() image.Rectangle
	// InputRegion returns the part of the client area accepting
	// input, relative to the client origin. An infinite region
	// accepts input everywhere in the frame.
	InputRegion() (r region.Region, infinite bool)
	Kind() Kind
	Flags() Flags
	// Decoration returns the server side decoration, or nil.
	Decoration() Surface
}

// Surface receives the input of decorations and internal windows.
// Positions are relative to the frame of the owning window.
type Surface interface {
	PointerEnter(pos f32.Point)
	PointerMove(pos f32.Point)
	PointerLeave()
	// Input delivers a pointer, touch or key event and reports
	// whether the surface consumed it.
	Input(e event.Event, pos f32.Point) bool
}

// Constrained is implemented by windows that may have pointer
// constraint objects.
type Constrained interface {
	// ConfinedPointer returns the confinement requested for the
	// window's surface, or nil.
	ConfinedPointer() ConfinedPointer
	// LockedPointer returns the lock requested for the window's
	// surface, or nil.
	LockedPointer() LockedPointer
}

// TabletClient is implemented by windows whose clients may take
// tablet events. Tablet tools act as pointers for other windows.
type TabletClient interface {
	AcceptsTablet() bool
}

// ConfinedPointer is a protocol request to keep the pointer inside a
// region of a surface.
type ConfinedPointer interface {
	// Region returns the requested area relative to the client
	// origin. An infinite region is the whole surface.
	Region() (r region.Region, infinite bool)
	Confined() bool
	SetConfined(bool)
}

// LockedPointer is a protocol request to freeze the pointer while it
// is inside a region of a surface.
type LockedPointer interface {
	Region() (r region.Region, infinite bool)
	Locked() bool
	SetLocked(bool)
	// CursorHint returns where the client expects the pointer to be,
	// relative to the client origin, once the lock is released.
	CursorHint() (f32.Point, bool)
}

// Kind classifies windows for hit testing.
type Kind uint8

// Flags describe the state of a window.
type Flags uint16

const (
	// KindNormal is a window managed by the window manager.
	KindNormal Kind = iota
	// KindUnmanaged is an override redirect window.
	KindUnmanaged
	// KindInternal is a surface drawn by the compositor itself.
	KindInternal
	// KindLockScreen is the screen locker.
	KindLockScreen
	// KindInputMethod is an input method panel.
	KindInputMethod
	// KindPopup is a popup holding a grab.
	KindPopup
)

const (
	FlagMinimized Flags = 1 << iota
	FlagHidden
	// FlagOffDesktop is set for windows not on the current virtual
	// desktop or activity.
	FlagOffDesktop
	// FlagPending is set for windows not yet ready for painting.
	FlagPending
	// FlagOutputOnly is set for internal windows that never take
	// input.
	FlagOutputOnly
)

// Contain reports whether f contains all of f2.
func (f Flags) Contain(f2 Flags) bool {
	return f&f2 == f2
}

// AcceptsInput reports whether w takes input at the global position
// pos.
func AcceptsInput(w Window, pos f32.Point) bool {
	r, infinite := w.InputRegion()
	if infinite {
		return true
	}
	return r.Translate(w.Client().Min).ContainsPoint(pos)
}

// InputArea returns the global area of w accepting input. An infinite
// input region is clipped to the client area.
func InputArea(w Window) region.Region {
	r, infinite := w.InputRegion()
	client := w.Client()
	if infinite {
		return region.New(client)
	}
	return r.Translate(client.Min).IntersectRect(client)
}

// OnDecoration reports whether the global position pos is on the
// decoration of w rather than its client area.
func OnDecoration(w Window, pos f32.Point) bool {
	if w.Decoration() == nil {
		return false
	}
	return f32.FRect(w.Frame()).Contains(pos) && !f32.FRect(w.Client()).Contains(pos)
}

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "Normal"
	case KindUnmanaged:
		return "Unmanaged"
	case KindInternal:
		return "Internal"
	case KindLockScreen:
		return "LockScreen"
	case KindInputMethod:
		return "InputMethod"
	case KindPopup:
		return "Popup"
	default:
		panic("invalid Kind")
	}
}

func (f Flags) String() string {
	var strs []string
	if f.Contain(FlagMinimized) {
		strs = append(strs, "Minimized")
	}
	if f.Contain(FlagHidden) {
		strs = append(strs, "Hidden")
	}
	if f.Contain(FlagOffDesktop) {
		strs = append(strs, "OffDesktop")
	}
	if f.Contain(FlagPending) {
		strs = append(strs, "Pending")
	}
	if f.Contain(FlagOutputOnly) {
		strs = append(strs, "OutputOnly")
	}
	return strings.Join(strs, "|")
}
