// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux

package evdev

import (
	"time"

	evdev "github.com/gvalkov/golang-evdev"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/tablet"
	"inputroute.org/io/touch"
)

// wheelStep is the scroll distance of one wheel click.
const wheelStep = 15

// absRange is the range of an absolute axis.
type absRange struct {
	min, max int32
}

func (r absRange) normalize(v int32) float32 {
	if r.max <= r.min {
		return 0
	}
	return float32(v-r.min) / float32(r.max-r.min)
}

// slot is a multitouch protocol B slot.
type slot struct {
	active bool
	// down and up are set for a touch point starting or ending in
	// the current report.
	down, up bool
	moved    bool
	x, y     int32
}

type toolState struct {
	near, tip     bool
	x, y          int32
	pressure      int32
	nearChanged   bool
	tipChanged    bool
	axisChanged   bool
	pendingButton []tablet.ToolEvent
}

// converter turns the raw events of one device into router events.
// Events are collected until a SYN_REPORT completes the report.
type converter struct {
	dev *event.Device

	absX, absY, pressure absRange
	mtX, mtY             absRange

	out []event.Event
	now time.Duration

	rel    f32.Point
	wheel  int32
	hwheel int32

	slots   []slot
	current int
	touched bool

	tool toolState
	// dropped is set after SYN_DROPPED until the next SYN_REPORT.
	dropped bool
}

func newConverter(dev *event.Device) *converter {
	return &converter{dev: dev}
}

func (c *converter) base() event.Base {
	return event.Base{Device: c.dev, Time: c.now}
}

func (c *converter) slot() *slot {
	for c.current >= len(c.slots) {
		c.slots = append(c.slots, slot{})
	}
	return &c.slots[c.current]
}

// convert feeds a raw event to c and returns the router events of a
// completed report.
func (c *converter) convert(ev evdev.InputEvent) []event.Event {
	c.now = time.Duration(ev.Time.Nano())
	if c.dropped && !(ev.Type == evdev.EV_SYN && ev.Code == evdev.SYN_REPORT) {
		return nil
	}
	switch ev.Type {
	case evdev.EV_SYN:
		switch ev.Code {
		case evdev.SYN_REPORT:
			if c.dropped {
				c.dropped = false
				return nil
			}
			return c.flush()
		case evdev.SYN_DROPPED:
			c.dropped = true
			c.reset()
		}
	case evdev.EV_KEY:
		c.key(ev.Code, ev.Value)
	case evdev.EV_REL:
		c.relative(ev.Code, ev.Value)
	case evdev.EV_ABS:
		c.absolute(ev.Code, ev.Value)
	case evdev.EV_SW:
		c.toggle(ev.Code, ev.Value)
	}
	return nil
}

// reset drops the partial report.
func (c *converter) reset() {
	c.out = c.out[:0]
	c.rel = f32.Point{}
	c.wheel, c.hwheel = 0, 0
	for i := range c.slots {
		s := &c.slots[i]
		s.down, s.up, s.moved = false, false, false
	}
	c.tool.nearChanged, c.tool.tipChanged, c.tool.axisChanged = false, false, false
	c.tool.pendingButton = nil
}

func (c *converter) key(code uint16, value int32) {
	// Autorepeat is generated by the keymap, not the device.
	if value == 2 {
		return
	}
	s := pointer.Released
	if value != 0 {
		s = pointer.Pressed
	}
	switch {
	case c.dev.Has(event.CapTablet) && (code == evdev.BTN_TOOL_PEN || code == evdev.BTN_TOOL_RUBBER):
		c.tool.near = value != 0
		c.tool.nearChanged = true
	case c.dev.Has(event.CapTablet) && code == evdev.BTN_TOUCH:
		c.tool.tip = value != 0
		c.tool.tipChanged = true
	case c.dev.Has(event.CapTablet) && (code == evdev.BTN_STYLUS || code == evdev.BTN_STYLUS2):
		c.tool.pendingButton = append(c.tool.pendingButton, tablet.ToolEvent{Kind: tablet.ToolButton, Button: uint32(code), State: s})
	case code == evdev.BTN_TOUCH || (code >= evdev.BTN_TOOL_PEN && code <= evdev.BTN_TOOL_QUINTTAP):
		// Touch contact is tracked through the slots.
	case uint32(code) >= pointer.BtnLeft && uint32(code) <= pointer.BtnTask:
		c.out = append(c.out, pointer.ButtonEvent{Base: c.base(), Button: uint32(code), State: s})
	case code < evdev.BTN_MISC || code >= evdev.KEY_OK:
		ks := key.Release
		if s == pointer.Pressed {
			ks = key.Press
		}
		c.out = append(c.out, key.Event{Base: c.base(), Code: uint32(code), State: ks})
	}
}

func (c *converter) relative(code uint16, value int32) {
	switch code {
	case evdev.REL_X:
		c.rel.X += float32(value)
	case evdev.REL_Y:
		c.rel.Y += float32(value)
	case evdev.REL_WHEEL:
		c.wheel += value
	case evdev.REL_HWHEEL:
		c.hwheel += value
	}
}

func (c *converter) absolute(code uint16, value int32) {
	switch code {
	case evdev.ABS_MT_SLOT:
		c.current = int(value)
	case evdev.ABS_MT_TRACKING_ID:
		s := c.slot()
		if value < 0 {
			if s.active {
				s.up = true
			}
			s.active = false
		} else {
			s.active, s.down = true, true
		}
		c.touched = true
	case evdev.ABS_MT_POSITION_X:
		s := c.slot()
		s.x, s.moved = value, true
		c.touched = true
	case evdev.ABS_MT_POSITION_Y:
		s := c.slot()
		s.y, s.moved = value, true
		c.touched = true
	case evdev.ABS_X:
		c.tool.x, c.tool.axisChanged = value, true
	case evdev.ABS_Y:
		c.tool.y, c.tool.axisChanged = value, true
	case evdev.ABS_PRESSURE:
		c.tool.pressure, c.tool.axisChanged = value, true
	}
}

func (c *converter) toggle(code uint16, value int32) {
	var sw tablet.Switch
	switch code {
	case evdev.SW_LID:
		sw = tablet.SwitchLid
	case evdev.SW_TABLET_MODE:
		sw = tablet.SwitchTabletMode
	default:
		return
	}
	c.out = append(c.out, tablet.SwitchEvent{Base: c.base(), Switch: sw, On: value != 0})
}

// flush completes a report.
func (c *converter) flush() []event.Event {
	if c.rel != (f32.Point{}) {
		c.out = append(c.out, pointer.MotionEvent{Base: c.base(), Delta: c.rel, Unaccelerated: c.rel})
		c.rel = f32.Point{}
	}
	if c.wheel != 0 {
		// Positive wheel values scroll up.
		c.out = append(c.out, pointer.AxisEvent{
			Base: c.base(), Orientation: pointer.Vertical,
			Delta: float32(-c.wheel * wheelStep), Discrete: -c.wheel, Source: pointer.SourceWheel,
		})
		c.wheel = 0
	}
	if c.hwheel != 0 {
		c.out = append(c.out, pointer.AxisEvent{
			Base: c.base(), Orientation: pointer.Horizontal,
			Delta: float32(c.hwheel * wheelStep), Discrete: c.hwheel, Source: pointer.SourceWheel,
		})
		c.hwheel = 0
	}
	pointerEvents := len(c.out) > 0 && c.dev.Has(event.CapPointer)
	if c.touched {
		c.flushTouch()
	}
	if c.dev.Has(event.CapTablet) {
		c.flushTool()
	}
	if pointerEvents {
		c.out = append(c.out, pointer.FrameEvent{Base: c.base()})
	}
	if len(c.out) == 0 {
		return nil
	}
	out := c.out
	c.out = nil
	return out
}

func (c *converter) flushTouch() {
	c.touched = false
	n := 0
	for i := range c.slots {
		s := &c.slots[i]
		id := int32(i)
		pos := f32.Pt(c.mtX.normalize(s.x), c.mtY.normalize(s.y))
		switch {
		case s.up:
			c.out = append(c.out, touch.UpEvent{Base: c.base(), ID: id})
			n++
		case s.down:
			c.out = append(c.out, touch.DownEvent{Base: c.base(), ID: id, Position: pos})
			n++
		case s.active && s.moved:
			c.out = append(c.out, touch.MotionEvent{Base: c.base(), ID: id, Position: pos})
			n++
		}
		s.down, s.up, s.moved = false, false, false
	}
	if n > 0 {
		c.out = append(c.out, touch.FrameEvent{Base: c.base()})
	}
}

func (c *converter) flushTool() {
	t := &c.tool
	e := tablet.ToolEvent{
		Base:     c.base(),
		Position: f32.Pt(c.absX.normalize(t.x), c.absY.normalize(t.y)),
		Pressure: c.pressure.normalize(t.pressure),
		Tip:      t.tip,
		Near:     t.near,
	}
	if t.nearChanged && t.near {
		e.Kind = tablet.ToolProximity
		c.out = append(c.out, e)
	}
	switch {
	case t.tipChanged:
		e.Kind = tablet.ToolTip
		c.out = append(c.out, e)
	case t.axisChanged && t.near && !t.nearChanged:
		e.Kind = tablet.ToolAxis
		c.out = append(c.out, e)
	}
	for _, b := range t.pendingButton {
		b.Base, b.Position, b.Pressure, b.Tip, b.Near = e.Base, e.Position, e.Pressure, e.Tip, e.Near
		c.out = append(c.out, b)
	}
	if t.nearChanged && !t.near {
		e.Kind = tablet.ToolProximity
		c.out = append(c.out, e)
	}
	t.nearChanged, t.tipChanged, t.axisChanged = false, false, false
	t.pendingButton = nil
}
