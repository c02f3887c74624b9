// SPDX-License-Identifier: Unlicense OR MIT

// Package dbusaccel implements a shortcut.Arbiter backed by a global
// shortcut service on the D-Bus session bus.
//
// The service is asked through the methods KeyPressed and KeyReleased
// of its interface. Both take the combination as a string such as
// "Meta+Shift+Tab" and return whether the service consumed it.
package dbusaccel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inputroute.org/io/key"
)

// DefaultTimeout bounds each method call.
const DefaultTimeout = 100 * time.Millisecond

// Arbiter asks a D-Bus service about key combinations. Failed calls
// count as not consumed.
type Arbiter struct {
	obj     dbus.BusObject
	iface   string
	timeout time.Duration
	logger  zerolog.Logger
}

type Options struct {
	Destination string
	// Path defaults to "/".
	Path string
	// Interface defaults to Destination.
	Interface string
	Timeout   time.Duration
	Logger    *zerolog.Logger
}

var ErrNoDestination = errors.New("dbusaccel: no destination")

// Dial connects to the session bus.
func Dial(opts Options) (*Arbiter, error) {
	if opts.Destination == "" {
		return nil, ErrNoDestination
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbusaccel: %w", err)
	}
	path := opts.Path
	if path == "" {
		path = "/"
	}
	if !dbus.ObjectPath(path).IsValid() {
		return nil, fmt.Errorf("dbusaccel: invalid object path %q", path)
	}
	return New(conn.Object(opts.Destination, dbus.ObjectPath(path)), opts), nil
}

// New returns an Arbiter calling obj.
func New(obj dbus.BusObject, opts Options) *Arbiter {
	a := &Arbiter{
		obj:     obj,
		iface:   opts.Interface,
		timeout: opts.Timeout,
		logger:  log.With().Str("module", "dbusaccel").Logger(),
	}
	if a.iface == "" {
		a.iface = opts.Destination
	}
	if a.timeout == 0 {
		a.timeout = DefaultTimeout
	}
	if opts.Logger != nil {
		a.logger = *opts.Logger
	}
	return a
}

func (a *Arbiter) KeyPressed(c key.Combination) bool {
	return a.call("KeyPressed", c)
}

func (a *Arbiter) KeyReleased(c key.Combination) bool {
	return a.call("KeyReleased", c)
}

func (a *Arbiter) call(method string, c key.Combination) bool {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	var handled bool
	err := a.obj.CallWithContext(ctx, a.iface+"."+method, 0, c.String()).Store(&handled)
	if err != nil {
		a.logger.Warn().Err(err).Str("method", method).Stringer("combination", c).Msg("shortcut service call failed")
		return false
	}
	return handled
}
