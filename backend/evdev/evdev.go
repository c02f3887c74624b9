// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux

/*
Package evdev reads input events from linux event devices.

Input devices are discovered through udev, filtered by a glob pattern
on their device node, classified by their capabilities and read on
their own goroutine. The converted events of all devices are delivered
on a single channel, to be routed by the goroutine owning the router.
Touchpads are skipped: their gestures need a library such as libinput
to be recognized.
*/
package evdev

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/jochenvg/go-udev"
	"github.com/kataras/go-events"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inputroute.org/io/event"
)

const (
	// EventDeviceAdded and EventDeviceRemoved are emitted with the
	// *event.Device as argument, from the goroutine that found the
	// change.
	EventDeviceAdded   events.EventName = "device_added"
	EventDeviceRemoved events.EventName = "device_removed"
)

// DefaultGlob matches every event device.
const DefaultGlob = "/dev/input/event*"

const subsystem = "input"

type Options struct {
	// Glob filters the device nodes reported by udev.
	Glob string
	// Grab takes exclusive access of the devices.
	Grab bool
	// Buffer is the capacity of the events channel.
	Buffer int
	Logger *zerolog.Logger
}

// Backend reads a set of event devices.
type Backend struct {
	opts    Options
	udev    udev.Udev
	logger  zerolog.Logger
	emitter events.EventEmmiter
	events  chan event.Event

	mu      sync.Mutex
	devices map[string]*device
	wg      sync.WaitGroup
}

type device struct {
	path string
	in   *evdev.InputDevice
	dev  *event.Device
	conv *converter
	// gone is set when udev reported the removal of the device.
	gone bool
}

// New returns a Backend without devices. Call Run or Scan to open them.
func New(opts Options) *Backend {
	if opts.Glob == "" {
		opts.Glob = DefaultGlob
	}
	if opts.Buffer == 0 {
		opts.Buffer = 64
	}
	b := &Backend{
		opts:    opts,
		logger:  log.With().Str("module", "evdev").Logger(),
		emitter: events.New(),
		events:  make(chan event.Event, opts.Buffer),
		devices: make(map[string]*device),
	}
	if opts.Logger != nil {
		b.logger = *opts.Logger
	}
	return b
}

// Events returns the channel of converted events.
func (b *Backend) Events() <-chan event.Event {
	return b.events
}

func (b *Backend) OnDeviceAdded(f func(d *event.Device)) {
	b.emitter.On(EventDeviceAdded, func(payload ...interface{}) {
		f(payload[0].(*event.Device))
	})
}

func (b *Backend) OnDeviceRemoved(f func(d *event.Device)) {
	b.emitter.On(EventDeviceRemoved, func(payload ...interface{}) {
		f(payload[0].(*event.Device))
	})
}

// Run opens the present devices and follows udev hotplug events until
// ctx is done. It closes every device before returning.
func (b *Backend) Run(ctx context.Context) error {
	defer b.Close()
	m := b.udev.NewMonitorFromNetlink("udev")
	if m == nil {
		return errors.New("evdev: udev monitor unavailable")
	}
	if err := m.FilterAddMatchSubsystem(subsystem); err != nil {
		return fmt.Errorf("evdev: udev monitor: %w", err)
	}
	// The monitor starts before the scan so no device is missed.
	hotplug, errs, err := m.DeviceChan(ctx)
	if err != nil {
		return fmt.Errorf("evdev: udev monitor: %w", err)
	}
	if err := b.Scan(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-hotplug:
			if !ok {
				return nil
			}
			switch d.Action() {
			case "add":
				b.add(ctx, d)
			case "remove":
				b.drop(d.Devnode())
			}
		case err := <-errs:
			b.logger.Warn().Err(err).Msg("udev monitor")
		}
	}
}

// Scan opens the input devices known to udev that are not open yet.
// Readers run until ctx is done or the device disappears.
func (b *Backend) Scan(ctx context.Context) error {
	e := b.udev.NewEnumerate()
	if err := e.AddMatchSubsystem(subsystem); err != nil {
		return fmt.Errorf("evdev: %w", err)
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return fmt.Errorf("evdev: %w", err)
	}
	devs, err := e.Devices()
	if err != nil {
		return fmt.Errorf("evdev: %w", err)
	}
	for _, d := range devs {
		b.add(ctx, d)
	}
	return nil
}

func (b *Backend) add(ctx context.Context, u *udev.Device) {
	path := u.Devnode()
	if !matchDevnode(b.opts.Glob, path) {
		return
	}
	if u.PropertyValue("ID_INPUT_TOUCHPAD") == "1" {
		b.logger.Debug().Str("path", path).Msg("skipping touchpad")
		return
	}
	b.mu.Lock()
	_, open := b.devices[path]
	b.mu.Unlock()
	if open {
		return
	}
	d, err := b.open(path)
	if err != nil {
		b.logger.Warn().Err(err).Str("path", path).Msg("skipping device")
		return
	}
	if d == nil {
		return
	}
	b.mu.Lock()
	b.devices[path] = d
	b.mu.Unlock()
	b.logger.Info().Str("path", path).Stringer("device", d.dev).Msg("device added")
	b.emitter.Emit(EventDeviceAdded, d.dev)
	b.wg.Add(1)
	go b.read(ctx, d)
}

// drop closes the device at path. Its reader then removes it.
func (b *Backend) drop(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.devices[path]; ok {
		d.gone = true
		d.in.File.Close()
	}
}

// matchDevnode reports whether the device node path matches glob.
func matchDevnode(glob, path string) bool {
	if path == "" {
		return false
	}
	ok, err := filepath.Match(glob, path)
	return err == nil && ok
}

// open returns nil for devices without supported capabilities.
func (b *Backend) open(path string) (*device, error) {
	in, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	caps, tabletMode := classify(in.CapabilitiesFlat)
	if caps == 0 {
		in.File.Close()
		return nil, nil
	}
	dev := event.NewDevice(in.Name, caps)
	dev.TabletModeSwitch = tabletMode
	conv := newConverter(dev)
	fd := in.File.Fd()
	if err := useMonotonicClock(fd); err != nil {
		b.logger.Debug().Err(err).Str("path", path).Msg("monotonic clock unavailable")
	}
	ranges := []struct {
		code int
		r    *absRange
	}{
		{evdev.ABS_X, &conv.absX},
		{evdev.ABS_Y, &conv.absY},
		{evdev.ABS_PRESSURE, &conv.pressure},
		{evdev.ABS_MT_POSITION_X, &conv.mtX},
		{evdev.ABS_MT_POSITION_Y, &conv.mtY},
	}
	for _, rr := range ranges {
		if !has(in.CapabilitiesFlat, evdev.EV_ABS, rr.code) {
			continue
		}
		r, err := readAbs(fd, rr.code)
		if err != nil {
			in.File.Close()
			return nil, fmt.Errorf("evdev: axis %d: %w", rr.code, err)
		}
		*rr.r = r
	}
	if b.opts.Grab {
		if err := in.Grab(); err != nil {
			in.File.Close()
			return nil, fmt.Errorf("evdev: grab: %w", err)
		}
	}
	return &device{path: path, in: in, dev: dev, conv: conv}, nil
}

func (b *Backend) read(ctx context.Context, d *device) {
	defer b.wg.Done()
	defer b.remove(d)
	for {
		raw, err := d.in.Read()
		if err != nil {
			b.mu.Lock()
			gone := d.gone
			b.mu.Unlock()
			if ctx.Err() == nil && !gone {
				b.logger.Warn().Err(err).Str("path", d.path).Msg("read failed")
			}
			return
		}
		for _, ev := range raw {
			for _, e := range d.conv.convert(ev) {
				select {
				case b.events <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (b *Backend) remove(d *device) {
	b.mu.Lock()
	delete(b.devices, d.path)
	b.mu.Unlock()
	if b.opts.Grab {
		d.in.Release()
	}
	d.in.File.Close()
	b.logger.Info().Str("path", d.path).Msg("device removed")
	b.emitter.Emit(EventDeviceRemoved, d.dev)
}

// Close closes every device and waits for the readers to stop.
func (b *Backend) Close() {
	b.mu.Lock()
	for _, d := range b.devices {
		d.in.File.Close()
	}
	b.mu.Unlock()
	b.wg.Wait()
}

// classify derives the capabilities of a device from its event codes.
func classify(caps map[int][]int) (event.Capability, bool) {
	var c event.Capability
	touchpad := has(caps, evdev.EV_KEY, evdev.BTN_TOOL_FINGER)
	switch {
	case has(caps, evdev.EV_ABS, evdev.ABS_MT_POSITION_X) && !touchpad:
		c |= event.CapTouch
	case has(caps, evdev.EV_ABS, evdev.ABS_X) && has(caps, evdev.EV_KEY, evdev.BTN_TOOL_PEN):
		c |= event.CapTablet
	case has(caps, evdev.EV_REL, evdev.REL_X) && has(caps, evdev.EV_REL, evdev.REL_Y):
		c |= event.CapPointer
	}
	if has(caps, evdev.EV_KEY, evdev.KEY_A) || has(caps, evdev.EV_KEY, evdev.KEY_POWER) {
		c |= event.CapKeyboard
	}
	tabletMode := has(caps, evdev.EV_SW, evdev.SW_TABLET_MODE)
	if tabletMode || has(caps, evdev.EV_SW, evdev.SW_LID) {
		c |= event.CapSwitch
	}
	return c, tabletMode
}

func has(caps map[int][]int, typ, code int) bool {
	for _, c := range caps[typ] {
		if c == code {
			return true
		}
	}
	return false
}
