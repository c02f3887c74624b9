// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"context"

	"golang.org/x/sync/errgroup"

	"inputroute.org/backend/evdev"
	"inputroute.org/config"
	"inputroute.org/io/event"
)

func startEvdev(ctx context.Context, g *errgroup.Group, cfg *config.Config, h *host) error {
	b := evdev.New(evdev.Options{Glob: cfg.Devices.Glob, Grab: cfg.Devices.Grab})
	b.OnDeviceAdded(func(d *event.Device) {
		h.post(func() { h.r.AddDevice(d) })
	})
	b.OnDeviceRemoved(func(d *event.Device) {
		h.post(func() { h.r.RemoveDevice(d) })
	})
	h.events = b.Events()
	g.Go(func() error {
		return b.Run(ctx)
	})
	return nil
}
