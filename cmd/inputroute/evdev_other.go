// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux

package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"inputroute.org/config"
)

func startEvdev(ctx context.Context, g *errgroup.Group, cfg *config.Config, h *host) error {
	return errors.New("-evdev is only supported on linux")
}
