// SPDX-License-Identifier: Unlicense OR MIT

package replay

import (
	"context"
	"errors"
	"image"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"inputroute.org/f32"
	"inputroute.org/io/event"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/router"
	"inputroute.org/io/tablet"
	"inputroute.org/io/touch"
	"inputroute.org/win"
	"inputroute.org/win/memspace"
)

func TestParse(t *testing.T) {
	dev := event.NewDevice("replay", event.CapPointer|event.CapKeyboard)
	tests := []struct {
		line string
		want event.Event
	}{
		{`{"type":"motion","dx":1,"dy":2,"t":12}`, pointer.MotionEvent{
			Base:  event.Base{Device: dev, Time: 12 * time.Millisecond},
			Delta: f32.Pt(1, 2), Unaccelerated: f32.Pt(1, 2),
		}},
		{`{"type":"motion_absolute","x":10,"y":20}`, pointer.MotionAbsoluteEvent{Base: event.Base{Device: dev}, Position: f32.Pt(10, 20)}},
		{`{"type":"button","button":"right","state":"pressed"}`, pointer.ButtonEvent{Base: event.Base{Device: dev}, Button: pointer.BtnRight, State: pointer.Pressed}},
		{`{"type":"button","button":274,"state":"released"}`, pointer.ButtonEvent{Base: event.Base{Device: dev}, Button: pointer.BtnMiddle, State: pointer.Released}},
		{`{"type":"axis","orientation":"horizontal","delta":-15,"discrete":-1}`, pointer.AxisEvent{
			Base: event.Base{Device: dev}, Orientation: pointer.Horizontal, Delta: -15, Discrete: -1, Source: pointer.SourceWheel,
		}},
		{`{"type":"key","code":30,"state":"pressed"}`, key.Event{Base: event.Base{Device: dev}, Code: 30, State: key.Press}},
		{`{"type":"key","code":30,"state":"released"}`, key.Event{Base: event.Base{Device: dev}, Code: 30, State: key.Release}},
		{`{"type":"swipe_end","cancelled":true}`, pointer.SwipeCancelEvent{Base: event.Base{Device: dev}}},
		{`{"type":"touch_down","id":3,"x":0.5,"y":0.25}`, touch.DownEvent{Base: event.Base{Device: dev}, ID: 3, Position: f32.Pt(0.5, 0.25)}},
		{`{"type":"switch","switch":"tablet_mode","on":true}`, tablet.SwitchEvent{Base: event.Base{Device: dev}, Switch: tablet.SwitchTabletMode, On: true}},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			rec, err := Parse(tc.line, dev)
			if err != nil {
				t.Fatal(err)
			}
			if rec.Event != tc.want {
				t.Errorf("got %#v, want %#v", rec.Event, tc.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, line := range []string{
		`{"type":"motion"`,
		`{"dx":1}`,
		`{"type":"teleport"}`,
		`{"type":"button","button":"nose","state":"pressed"}`,
		`{"type":"key","state":"pressed"}`,
		`{"type":"window","rect":[0,0,10]}`,
		`{"type":"window","name":"a","rect":[0,0,10,10],"kind":"dialog"}`,
		`{"type":"activate"}`,
	} {
		if _, err := Parse(line, nil); !errors.Is(err, ErrSyntax) {
			t.Errorf("%s: got %v, want ErrSyntax", line, err)
		}
	}
}

func TestParseWindow(t *testing.T) {
	rec, err := Parse(`{"type":"window","name":"lock","rect":[0,0,100,50],"kind":"lock_screen","input":[[0,0,10,10]]}`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Op != "window" || rec.Name != "lock" {
		t.Fatalf("record %+v", rec)
	}
	w := rec.Window
	if w.Rect != image.Rect(0, 0, 100, 50) || w.Kind != win.KindLockScreen || w.Input.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("window %+v", w)
	}
}

const session = `
# two windows, the editor on top
{"type":"window","name":"term","rect":[0,0,400,400]}
{"type":"window","name":"editor","rect":[200,200,800,600],"decoration":4}
{"type":"activate","name":"editor"}

{"type":"motion_absolute","x":300,"y":300,"t":1}
{"type":"button","button":"left","state":"pressed","t":2}
{"type":"button","button":"left","state":"released","t":3}
{"type":"key","code":30,"state":"pressed","t":4}
{"type":"key","code":30,"state":"released","t":5}
{"type":"motion","dx":-200,"dy":-200,"t":6}
`

func newPlayer() (*Player, *memspace.Space, *memspace.Seat) {
	nop := zerolog.Nop()
	space := memspace.New(image.Rect(0, 0, 1920, 1080))
	seat := memspace.NewSeat()
	r := router.New(space, seat, router.Options{Logger: &nop})
	return NewPlayer(space, r, &nop), space, seat
}

func TestPlay(t *testing.T) {
	p, space, seat := newPlayer()
	dev := event.NewDevice("replay", event.CapPointer|event.CapKeyboard)
	if err := p.Play(context.Background(), strings.NewReader(session), dev); err != nil {
		t.Fatal(err)
	}
	editor, ok := p.Window("editor")
	if !ok {
		t.Fatal("editor not created")
	}
	term, _ := p.Window("term")
	if space.Active() != editor || seat.KeyboardFocus != editor {
		t.Errorf("active %v, keyboard focus %v, want %v", space.Active(), seat.KeyboardFocus, editor)
	}
	if len(seat.Buttons) != 2 || len(seat.Keys) != 2 {
		t.Errorf("seat got %d buttons and %d keys", len(seat.Buttons), len(seat.Keys))
	}
	if seat.PointerFocus != term {
		t.Errorf("pointer focus %v, want %v", seat.PointerFocus, term)
	}
	if seat.Time != 6*time.Millisecond {
		t.Errorf("seat time %v", seat.Time)
	}
}

func TestPlayRemove(t *testing.T) {
	p, _, seat := newPlayer()
	err := p.Play(context.Background(), strings.NewReader(`
{"type":"window","name":"a","rect":[0,0,100,100]}
{"type":"motion_absolute","x":50,"y":50}
{"type":"remove","name":"a"}
{"type":"motion","dx":1,"dy":0}
`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !seat.PointerFocus.None() {
		t.Errorf("pointer focus %v after removal", seat.PointerFocus)
	}
	if err := p.Apply(Record{Line: 9, Op: "activate", Name: "a"}); !errors.Is(err, ErrUnknownWindow) {
		t.Errorf("activating a removed window: %v", err)
	}
}

func TestPlayLock(t *testing.T) {
	p, space, seat := newPlayer()
	err := p.Play(context.Background(), strings.NewReader(`
{"type":"window","name":"a","rect":[0,0,1920,1080]}
{"type":"window","name":"locker","rect":[0,0,1920,1080],"kind":"lockscreen"}
{"type":"lock","on":true}
`), nil)
	if err != nil {
		t.Fatal(err)
	}
	locker, _ := p.Window("locker")
	if !space.Locked || seat.KeyboardFocus != locker {
		t.Errorf("locked %v, keyboard focus %v", space.Locked, seat.KeyboardFocus)
	}
}

func TestFeed(t *testing.T) {
	dec := NewDecoder(strings.NewReader(session), nil)
	ch := make(chan Record, 16)
	if err := Feed(context.Background(), dec, ch); err != nil {
		t.Fatal(err)
	}
	close(ch)
	var lines []int
	for rec := range ch {
		lines = append(lines, rec.Line)
	}
	if len(lines) != 9 || lines[0] != 3 {
		t.Errorf("lines %v", lines)
	}
}

func TestDecoderErrorLine(t *testing.T) {
	dec := NewDecoder(strings.NewReader("{\"type\":\"frame\"}\n{\"type\":\"bogus\"}\n"), nil)
	if _, err := dec.Next(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err := dec.Next(context.Background())
	if !errors.Is(err, ErrSyntax) || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("got %v", err)
	}
	if _, err := dec.Next(context.Background()); err != io.EOF {
		t.Errorf("got %v, want EOF", err)
	}
}

func TestRealtimeCancel(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`{"type":"frame","t":0}
{"type":"frame","t":60000}
`), nil)
	dec.Realtime = true
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := dec.Next(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if _, err := dec.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
