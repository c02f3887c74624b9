// SPDX-License-Identifier: Unlicense OR MIT

/*
Package replay reads recorded or hand written input from JSON lines.

Every line is an object with a "type" and an optional time "t" in
milliseconds:

	{"type":"window","name":"editor","rect":[0,0,800,600],"decoration":4}
	{"type":"activate","name":"editor"}
	{"type":"motion","dx":1,"dy":2,"t":12}
	{"type":"button","button":"left","state":"pressed","t":20}
	{"type":"key","code":30,"state":"released","t":30}
	{"type":"touch_down","id":0,"x":0.5,"y":0.5}

Window, activate, raise, remove, popup and lock records change the
window stack of a memspace.Space. Every other record is an input event.
Empty lines and lines starting with # are skipped.
*/
package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/tablet"
	"inputroute.org/io/touch"
	"inputroute.org/region"
	"inputroute.org/win"
)

// Record is one decoded line.
type Record struct {
	Line int
	// Event is the input event of the line, or nil for records
	// changing the window stack.
	Event event.Event
	// Op, Name and Window describe the other records.
	Op     string
	Name   string
	Window *WindowSpec
	// On is the state of lock records.
	On bool
}

// WindowSpec describes a window to add.
type WindowSpec struct {
	Rect       image.Rectangle
	Kind       win.Kind
	Decoration int
	Input      region.Region
	Tablet     bool
}

// ErrSyntax is returned for lines that don't parse.
var ErrSyntax = errors.New("replay: syntax error")

// Decoder reads Records from a stream.
type Decoder struct {
	sc     *bufio.Scanner
	line   int
	device *event.Device
	// Realtime makes Next wait until the time of each event has
	// passed, relative to the first event.
	Realtime bool
	start    time.Time
	first    time.Duration
	started  bool
}

// NewDecoder returns a Decoder reading from r. Events are attributed
// to dev.
func NewDecoder(r io.Reader, dev *event.Device) *Decoder {
	return &Decoder{sc: bufio.NewScanner(r), device: dev}
}

// Next returns the next record, or io.EOF at the end of the stream.
func (d *Decoder) Next(ctx context.Context) (Record, error) {
	for d.sc.Scan() {
		d.line++
		line := strings.TrimSpace(d.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := Parse(line, d.device)
		if err != nil {
			return Record{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		rec.Line = d.line
		if d.Realtime && rec.Event != nil {
			if err := d.wait(ctx, event.Meta(rec.Event).Time); err != nil {
				return Record{}, err
			}
		}
		return rec, nil
	}
	if err := d.sc.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

func (d *Decoder) wait(ctx context.Context, t time.Duration) error {
	if !d.started {
		d.started = true
		d.start = time.Now()
		d.first = t
		return nil
	}
	delay := time.Until(d.start.Add(t - d.first))
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Parse decodes a single line.
func Parse(line string, dev *event.Device) (Record, error) {
	if !gjson.Valid(line) {
		return Record{}, fmt.Errorf("%w: invalid JSON", ErrSyntax)
	}
	v := gjson.Parse(line)
	typ := v.Get("type").String()
	base := event.Base{
		Device: dev,
		Time:   time.Duration(v.Get("t").Float() * float64(time.Millisecond)),
	}
	var rec Record
	switch typ {
	case "window":
		spec, err := parseWindow(v)
		if err != nil {
			return Record{}, err
		}
		rec.Window = spec
		fallthrough
	case "activate", "raise", "remove", "popup":
		rec.Op = typ
		rec.Name = v.Get("name").String()
		if rec.Name == "" {
			return Record{}, fmt.Errorf("%w: %s without name", ErrSyntax, typ)
		}
		return rec, nil
	case "lock":
		rec.Op = typ
		rec.On = v.Get("on").Bool()
		return rec, nil
	}
	e, err := parseEvent(typ, v, base)
	if err != nil {
		return Record{}, err
	}
	rec.Event = e
	return rec, nil
}

func parseEvent(typ string, v gjson.Result, base event.Base) (event.Event, error) {
	switch typ {
	case "motion":
		d := point(v, "dx", "dy")
		u := d
		if v.Get("ux").Exists() || v.Get("uy").Exists() {
			u = point(v, "ux", "uy")
		}
		return pointer.MotionEvent{Base: base, Delta: d, Unaccelerated: u}, nil
	case "motion_absolute":
		return pointer.MotionAbsoluteEvent{Base: base, Position: point(v, "x", "y")}, nil
	case "button":
		code, err := buttonCode(v.Get("button"))
		if err != nil {
			return nil, err
		}
		s, err := state(v)
		if err != nil {
			return nil, err
		}
		return pointer.ButtonEvent{Base: base, Button: code, State: s}, nil
	case "axis":
		e := pointer.AxisEvent{
			Base:     base,
			Delta:    float32(v.Get("delta").Float()),
			Discrete: int32(v.Get("discrete").Int()),
			Source:   pointer.SourceWheel,
		}
		switch o := v.Get("orientation").String(); o {
		case "", "vertical":
			e.Orientation = pointer.Vertical
		case "horizontal":
			e.Orientation = pointer.Horizontal
		default:
			return nil, fmt.Errorf("%w: orientation %q", ErrSyntax, o)
		}
		return e, nil
	case "frame":
		return pointer.FrameEvent{Base: base}, nil
	case "swipe_begin":
		return pointer.SwipeBeginEvent{Base: base, Fingers: int(v.Get("fingers").Int())}, nil
	case "swipe_update":
		return pointer.SwipeUpdateEvent{Base: base, Delta: point(v, "dx", "dy")}, nil
	case "swipe_end":
		if v.Get("cancelled").Bool() {
			return pointer.SwipeCancelEvent{Base: base}, nil
		}
		return pointer.SwipeEndEvent{Base: base}, nil
	case "pinch_begin":
		return pointer.PinchBeginEvent{Base: base, Fingers: int(v.Get("fingers").Int())}, nil
	case "pinch_update":
		return pointer.PinchUpdateEvent{
			Base:     base,
			Scale:    float32(v.Get("scale").Float()),
			Rotation: float32(v.Get("rotation").Float()),
			Delta:    point(v, "dx", "dy"),
		}, nil
	case "pinch_end":
		if v.Get("cancelled").Bool() {
			return pointer.PinchCancelEvent{Base: base}, nil
		}
		return pointer.PinchEndEvent{Base: base}, nil
	case "key":
		s, err := state(v)
		if err != nil {
			return nil, err
		}
		code := v.Get("code")
		if !code.Exists() {
			return nil, fmt.Errorf("%w: key without code", ErrSyntax)
		}
		ks := key.Release
		if s == pointer.Pressed {
			ks = key.Press
		}
		return key.Event{Base: base, Code: uint32(code.Uint()), State: ks}, nil
	case "modifiers":
		return key.ModifiersEvent{
			Base:      base,
			Depressed: key.Modifiers(v.Get("depressed").Uint()),
			Latched:   key.Modifiers(v.Get("latched").Uint()),
			Locked:    key.Modifiers(v.Get("locked").Uint()),
		}, nil
	case "touch_down":
		return touch.DownEvent{Base: base, ID: int32(v.Get("id").Int()), Position: point(v, "x", "y")}, nil
	case "touch_motion":
		return touch.MotionEvent{Base: base, ID: int32(v.Get("id").Int()), Position: point(v, "x", "y")}, nil
	case "touch_up":
		return touch.UpEvent{Base: base, ID: int32(v.Get("id").Int())}, nil
	case "touch_cancel":
		return touch.CancelEvent{Base: base}, nil
	case "touch_frame":
		return touch.FrameEvent{Base: base}, nil
	case "tool":
		e := tablet.ToolEvent{
			Base:     base,
			Tool:     v.Get("tool").Uint(),
			Position: point(v, "x", "y"),
			Pressure: float32(v.Get("pressure").Float()),
			Tip:      v.Get("tip").Bool(),
			Near:     !v.Get("near").Exists() || v.Get("near").Bool(),
		}
		switch k := v.Get("kind").String(); k {
		case "proximity":
			e.Kind = tablet.ToolProximity
		case "", "axis":
			e.Kind = tablet.ToolAxis
		case "tip":
			e.Kind = tablet.ToolTip
		case "button":
			e.Kind = tablet.ToolButton
			e.Button = uint32(v.Get("button").Uint())
			s, err := state(v)
			if err != nil {
				return nil, err
			}
			e.State = s
		default:
			return nil, fmt.Errorf("%w: tool kind %q", ErrSyntax, k)
		}
		return e, nil
	case "switch":
		e := tablet.SwitchEvent{Base: base, On: v.Get("on").Bool()}
		switch s := v.Get("switch").String(); s {
		case "lid":
			e.Switch = tablet.SwitchLid
		case "tablet_mode":
			e.Switch = tablet.SwitchTabletMode
		default:
			return nil, fmt.Errorf("%w: switch %q", ErrSyntax, s)
		}
		return e, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrSyntax)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrSyntax, typ)
	}
}

func parseWindow(v gjson.Result) (*WindowSpec, error) {
	r, err := rect(v.Get("rect"))
	if err != nil {
		return nil, err
	}
	spec := &WindowSpec{
		Rect:       r,
		Decoration: int(v.Get("decoration").Int()),
		Tablet:     v.Get("tablet").Bool(),
	}
	if k := v.Get("kind").String(); k != "" {
		kind, ok := parseKind(k)
		if !ok {
			return nil, fmt.Errorf("%w: window kind %q", ErrSyntax, k)
		}
		spec.Kind = kind
	}
	for _, in := range v.Get("input").Array() {
		r, err := rect(in)
		if err != nil {
			return nil, err
		}
		spec.Input = spec.Input.Add(r)
	}
	return spec, nil
}

func parseKind(s string) (win.Kind, bool) {
	s = strings.ReplaceAll(s, "_", "")
	for k := win.KindNormal; k <= win.KindPopup; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, true
		}
	}
	return 0, false
}

func rect(v gjson.Result) (image.Rectangle, error) {
	a := v.Array()
	if len(a) != 4 {
		return image.Rectangle{}, fmt.Errorf("%w: rectangle %s", ErrSyntax, v.Raw)
	}
	return image.Rect(int(a[0].Int()), int(a[1].Int()), int(a[2].Int()), int(a[3].Int())), nil
}

func point(v gjson.Result, x, y string) f32.Point {
	return f32.Pt(float32(v.Get(x).Float()), float32(v.Get(y).Float()))
}

func state(v gjson.Result) (pointer.State, error) {
	switch s := v.Get("state").String(); s {
	case "pressed", "press":
		return pointer.Pressed, nil
	case "released", "release":
		return pointer.Released, nil
	default:
		return 0, fmt.Errorf("%w: state %q", ErrSyntax, s)
	}
}

func buttonCode(v gjson.Result) (uint32, error) {
	if v.Type == gjson.Number {
		return uint32(v.Uint()), nil
	}
	switch s := v.String(); s {
	case "left":
		return pointer.BtnLeft, nil
	case "right":
		return pointer.BtnRight, nil
	case "middle":
		return pointer.BtnMiddle, nil
	case "side":
		return pointer.BtnSide, nil
	case "extra":
		return pointer.BtnExtra, nil
	case "forward":
		return pointer.BtnForward, nil
	case "back":
		return pointer.BtnBack, nil
	case "task":
		return pointer.BtnTask, nil
	default:
		return 0, fmt.Errorf("%w: button %q", ErrSyntax, s)
	}
}
