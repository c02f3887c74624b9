// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"image"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/tablet"
	"inputroute.org/io/touch"
	"inputroute.org/win"
)

// selection is an interactive window or position selection. At most
// one of the callbacks is set.
type selection struct {
	window   func(h win.Handle)
	position func(pos image.Point, ok bool)
}

func (s selection) active() bool {
	return s.window != nil || s.position != nil
}

// selectionFilter takes all input while a selection is in progress.
// The left button, Return, Enter and Space pick the pointer position;
// Escape and the right button cancel.
type selectionFilter struct {
	r *Router
	// touches counts the touch points down during the selection.
	touches int
}

// keyboard steps of the pointer.
const (
	selectionStep     = 10
	selectionFineStep = 1
)

func (f *selectionFilter) Filter(e event.Event) bool {
	r := f.r
	if !r.selection.active() {
		return false
	}
	switch e := e.(type) {
	case pointer.ButtonEvent:
		if e.State == pointer.Released && len(r.pointer.pressed) == 0 {
			if e.Button == pointer.BtnRight {
				f.cancel()
			} else {
				f.accept(r.pointer.pos)
			}
		}
	case key.Event:
		if e.State == key.Press {
			f.key(e)
		}
	case touch.DownEvent:
		f.touches++
	case touch.UpEvent:
		if f.touches > 0 {
			f.touches--
		}
		if f.touches == 0 {
			f.accept(r.touch.pos)
		}
	case touch.CancelEvent:
		f.touches = 0
	case pointer.MotionEvent, pointer.MotionAbsoluteEvent, pointer.AxisEvent,
		touch.MotionEvent, tablet.ToolEvent, tablet.PadEvent:
	default:
		return false
	}
	return true
}

func (f *selectionFilter) key(e key.Event) {
	step := float32(selectionStep)
	if e.Modifiers.Contain(key.ModCtrl) {
		step = selectionFineStep
	}
	var d f32.Point
	switch e.Name {
	case key.NameEscape:
		f.cancel()
		return
	case key.NameReturn, key.NameEnter, key.NameSpace:
		f.accept(f.r.pointer.pos)
		return
	case key.NameLeftArrow:
		d.X = -step
	case key.NameRightArrow:
		d.X = step
	case key.NameUpArrow:
		d.Y = -step
	case key.NameDownArrow:
		d.Y = step
	default:
		return
	}
	f.r.Warp(f.r.pointer.pos.Add(d))
}

func (f *selectionFilter) accept(pos f32.Point) {
	s := f.finish()
	switch {
	case s.window != nil:
		h := f.r.windowAt(pos)
		f.r.logger.Debug().Stringer("window", h).Msg("window selected")
		s.window(h)
	case s.position != nil:
		f.r.logger.Debug().Interface("position", pos).Msg("position selected")
		s.position(pos.Round(), true)
	}
}

func (f *selectionFilter) cancel() {
	s := f.finish()
	f.r.logger.Debug().Msg("selection cancelled")
	switch {
	case s.window != nil:
		s.window(win.Handle{})
	case s.position != nil:
		s.position(image.Pt(-1, -1), false)
	}
}

// finish ends the selection and returns it. The devices are updated
// before the callback runs so that it may start another selection.
func (f *selectionFilter) finish() selection {
	s := f.r.selection
	f.r.selection = selection{}
	f.touches = 0
	f.r.keyboard.update()
	f.r.pointer.dev.update()
	return s
}
