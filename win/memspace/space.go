// SPDX-License-Identifier: Unlicense OR MIT

/*
Package memspace implements the window stack, protocol seat and session
in memory. It records what it is asked to do, for tests and for
running the router without a compositor.
*/
package memspace

import (
	"image"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/win"
)

// Space is a window stack.
type Space struct {
	// Locked is reported by ScreenLocked.
	Locked bool
	// OutputRects is reported by Outputs.
	OutputRects []image.Rectangle
	// Effects is reported by EffectsGrab.
	Effects bool
	// EffectsEvents records the input delivered to effects.
	EffectsEvents []event.Event
	// MoveResizePositions records the interactive move positions.
	MoveResizePositions []f32.Point
	MoveResizeFinished  int
	MoveResizeCancelled int
	PopupsClosed        int

	reg        *win.Registry
	stack      []win.Handle // bottom to top
	active     win.Handle
	moveResize win.Handle
	popups     []win.Handle
	logger     zerolog.Logger
}

// New returns an empty Space with the given outputs.
func New(outputs ...image.Rectangle) *Space {
	s := &Space{
		OutputRects: outputs,
		reg:         win.NewRegistry(),
		logger:      log.With().Str("module", "memspace").Logger(),
	}
	s.reg.OnRemoved(s.forget)
	return s
}

// Add places w on top of the stack.
func (s *Space) Add(w *Window) win.Handle {
	h := s.reg.Add(w)
	s.stack = append(s.stack, h)
	s.logger.Debug().Str("window", w.Name).Str("handle", h.String()).Msg("window added")
	return h
}

// Remove destroys the window of h.
func (s *Space) Remove(h win.Handle) {
	s.reg.Remove(h)
}

func (s *Space) forget(h win.Handle) {
	s.stack = deleteHandle(s.stack, h)
	s.popups = deleteHandle(s.popups, h)
	if s.active == h {
		s.active = win.Handle{}
	}
	if s.moveResize == h {
		s.moveResize = win.Handle{}
	}
	s.logger.Debug().Str("handle", h.String()).Msg("window removed")
}

// Raise moves h to the top of the stack.
func (s *Space) Raise(h win.Handle) {
	if i := slices.Index(s.stack, h); i >= 0 {
		s.stack = append(slices.Delete(s.stack, i, i+1), h)
	}
}

// Window returns the window of h.
func (s *Space) Window(h win.Handle) *Window {
	w, ok := s.reg.Resolve(h)
	if !ok {
		return nil
	}
	return w.(*Window)
}

// StartMoveResize begins an interactive move of h.
func (s *Space) StartMoveResize(h win.Handle) {
	s.moveResize = h
}

// OpenPopup registers h as a grabbing popup.
func (s *Space) OpenPopup(h win.Handle) {
	s.popups = append(s.popups, h)
}

func (s *Space) Windows() *win.Registry { return s.reg }

func (s *Space) Stack() []win.Handle {
	out := make([]win.Handle, len(s.stack))
	for i, h := range s.stack {
		out[len(s.stack)-1-i] = h
	}
	return out
}

func (s *Space) Active() win.Handle { return s.active }

func (s *Space) Activate(h win.Handle) {
	if !s.reg.Alive(h) {
		return
	}
	s.active = h
	s.Raise(h)
}

func (s *Space) ScreenLocked() bool { return s.Locked }

func (s *Space) Outputs() []image.Rectangle { return s.OutputRects }

func (s *Space) MoveResize() win.Handle { return s.moveResize }

func (s *Space) UpdateMoveResize(pos f32.Point) {
	s.MoveResizePositions = append(s.MoveResizePositions, pos)
}

func (s *Space) FinishMoveResize() {
	s.moveResize = win.Handle{}
	s.MoveResizeFinished++
}

func (s *Space) CancelMoveResize() {
	s.moveResize = win.Handle{}
	s.MoveResizeCancelled++
}

func (s *Space) Popups() []win.Handle {
	out := make([]win.Handle, len(s.popups))
	for i, h := range s.popups {
		out[len(s.popups)-1-i] = h
	}
	return out
}

func (s *Space) ClosePopups() {
	s.popups = nil
	s.PopupsClosed++
}

func (s *Space) EffectsGrab() bool { return s.Effects }

func (s *Space) EffectsInput(e event.Event) bool {
	s.EffectsEvents = append(s.EffectsEvents, e)
	return true
}

func deleteHandle(hs []win.Handle, h win.Handle) []win.Handle {
	if i := slices.Index(hs, h); i >= 0 {
		return slices.Delete(hs, i, i+1)
	}
	return hs
}
