// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inputroute.org/backend/replay"
	"inputroute.org/io/event"
	"inputroute.org/io/router"
	"inputroute.org/shortcut"
)

// host is the single goroutine owning the router. Backends hand it
// events, replay records and functions through channels.
type host struct {
	ctx     context.Context
	r       *router.Router
	player  *replay.Player
	queue   *router.Queue
	events  <-chan event.Event
	records <-chan replay.Record
	tasks   chan func()
	logger  zerolog.Logger
}

func newHost(ctx context.Context) *host {
	return &host{
		ctx:    ctx,
		queue:  new(router.Queue),
		tasks:  make(chan func()),
		logger: log.With().Str("module", "host").Logger(),
	}
}

// post runs f on the host goroutine. It is safe to call from any other
// goroutine.
func (h *host) post(f func()) {
	select {
	case h.tasks <- f:
	case <-h.ctx.Done():
	}
}

// run dispatches until done delivers the result of the backends or the
// context is cancelled.
func (h *host) run(done <-chan error) error {
	for {
		select {
		case e := <-h.events:
			h.r.Process(e)
		case rec := <-h.records:
			if err := h.player.Apply(rec); err != nil {
				return err
			}
		case f := <-h.tasks:
			f()
		case err := <-done:
			h.queue.Run()
			return err
		case <-h.ctx.Done():
			// Prefer the error that cancelled the group.
			select {
			case err := <-done:
				return err
			case <-time.After(time.Second):
				return h.ctx.Err()
			}
		}
		h.queue.Run()
	}
}

// resolve returns the Action of a configured shortcut. Actions with a
// command start it without waiting for it.
func (h *host) resolve(name string, command []string) *shortcut.Action {
	return &shortcut.Action{
		Name: name,
		Do: func() {
			h.logger.Info().Str("action", name).Msg("shortcut")
			if len(command) == 0 {
				return
			}
			cmd := exec.Command(command[0], command[1:]...)
			if err := cmd.Start(); err != nil {
				h.logger.Warn().Err(err).Str("action", name).Msg("command failed")
				return
			}
			go cmd.Wait()
		},
		Progress: func(p float32) {
			h.logger.Debug().Str("action", name).Float32("progress", p).Msg("gesture progress")
		},
	}
}
