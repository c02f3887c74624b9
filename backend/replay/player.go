// SPDX-License-Identifier: Unlicense OR MIT

package replay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inputroute.org/io/event"
	"inputroute.org/io/router"
	"inputroute.org/win"
	"inputroute.org/win/memspace"
)

// Player applies Records to a Space and a Router. Windows are named by
// the records that create them.
type Player struct {
	space   *memspace.Space
	r       *router.Router
	windows map[string]win.Handle
	logger  zerolog.Logger
}

// ErrUnknownWindow is returned for records naming a window that
// doesn't exist.
var ErrUnknownWindow = errors.New("replay: unknown window")

// NewPlayer returns a Player feeding r with the windows of space.
func NewPlayer(space *memspace.Space, r *router.Router, logger *zerolog.Logger) *Player {
	p := &Player{
		space:   space,
		r:       r,
		windows: make(map[string]win.Handle),
		logger:  log.With().Str("module", "replay").Logger(),
	}
	if logger != nil {
		p.logger = *logger
	}
	return p
}

// Window returns the handle of the named window.
func (p *Player) Window(name string) (win.Handle, bool) {
	h, ok := p.windows[name]
	return h, ok && p.space.Windows().Alive(h)
}

// Apply applies rec. Input events go through Router.ProcessFake.
func (p *Player) Apply(rec Record) error {
	if rec.Event != nil {
		p.r.ProcessFake(rec.Event)
		return nil
	}
	if rec.Op == "lock" {
		p.space.Locked = rec.On
		p.r.ScreenLockChanged()
		return nil
	}
	if rec.Window != nil {
		if _, ok := p.Window(rec.Name); ok {
			return fmt.Errorf("line %d: window %q exists", rec.Line, rec.Name)
		}
		w := memspace.NewWindow(rec.Name, rec.Window.Rect)
		w.WindowKind = rec.Window.Kind
		w.Tablet = rec.Window.Tablet
		if !rec.Window.Input.Empty() {
			w.InputMask = rec.Window.Input
			w.InfiniteInput = false
		}
		if rec.Window.Decoration > 0 {
			w.Decorate(rec.Window.Decoration)
		}
		p.windows[rec.Name] = p.space.Add(w)
		p.r.Update()
		return nil
	}
	h, ok := p.Window(rec.Name)
	if !ok {
		return fmt.Errorf("line %d: %w %q", rec.Line, ErrUnknownWindow, rec.Name)
	}
	switch rec.Op {
	case "activate":
		p.space.Activate(h)
		p.r.ActiveWindowChanged()
	case "raise":
		p.space.Raise(h)
		p.r.Update()
	case "remove":
		delete(p.windows, rec.Name)
		p.space.Remove(h)
	case "popup":
		p.space.OpenPopup(h)
	}
	return nil
}

// Play decodes and applies every record of rd. It stops at the first
// error.
func (p *Player) Play(ctx context.Context, rd io.Reader, dev *event.Device) error {
	dec := NewDecoder(rd, dev)
	for {
		rec, err := dec.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := p.Apply(rec); err != nil {
			return err
		}
	}
}

// Feed decodes rd and sends the records to ch until the end of the
// stream or the cancellation of ctx. It runs on its own goroutine while
// another goroutine applies the records.
func Feed(ctx context.Context, dec *Decoder, ch chan<- Record) error {
	for {
		rec, err := dec.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		select {
		case ch <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
