// SPDX-License-Identifier: Unlicense OR MIT

/*
Package config reads the TOML configuration of the input router.

A configuration looks like this:

	[log]
	level = "info"

	[gestures]
	lock_threshold = 15
	touchscreen_fingers = 3

	[pointer]
	constraints = true
	warping = true

	[[shortcut]]
	trigger = "Meta+E"
	action = "launcher"

	[[swipe]]
	device = "touchpad"
	direction = "up"
	fingers = 4
	action = "overview"

Unknown keys are reported as errors.
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"inputroute.org/gesture"
	"inputroute.org/io/key"
	"inputroute.org/io/pointer"
	"inputroute.org/io/router"
	"inputroute.org/shortcut"
)

// Config is the decoded configuration file.
type Config struct {
	Log       Log        `toml:"log"`
	Gestures  Gestures   `toml:"gestures"`
	Pointer   Pointer    `toml:"pointer"`
	Devices   Devices    `toml:"devices"`
	Arbiter   Arbiter    `toml:"arbiter"`
	Shortcuts []Shortcut `toml:"shortcut"`
	Swipes    []Swipe    `toml:"swipe"`
	Pinches   []Pinch    `toml:"pinch"`
}

type Log struct {
	Level string `toml:"level"`
}

// Gestures tune the gesture recognizers.
type Gestures struct {
	LockThreshold      float32 `toml:"lock_threshold"`
	Passes             int     `toml:"passes"`
	PinchMinScaleDelta float32 `toml:"pinch_min_scale_delta"`
	TouchscreenFingers int     `toml:"touchscreen_fingers"`
}

type Pointer struct {
	Constraints bool `toml:"constraints"`
	Warping     bool `toml:"warping"`
}

// Devices selects the evdev devices to read.
type Devices struct {
	Glob string `toml:"glob"`
	// Grab takes the devices away from other readers.
	Grab bool `toml:"grab"`
}

// Arbiter configures the D-Bus shortcut service consulted before the
// local key bindings. An empty Destination disables it.
type Arbiter struct {
	Destination string `toml:"destination"`
	Path        string `toml:"path"`
	Interface   string `toml:"interface"`
}

// Shortcut binds a key, button or scroll trigger such as "Meta+E",
// "Meta+Button:Right" or "Alt+Wheel:Up".
type Shortcut struct {
	Trigger string `toml:"trigger"`
	Action  string `toml:"action"`
	// Command, if set, is run when the shortcut fires.
	Command []string `toml:"command,omitempty"`
}

// Swipe binds a multi finger swipe.
type Swipe struct {
	Device    string   `toml:"device"`
	Direction string   `toml:"direction"`
	Fingers   int      `toml:"fingers"`
	Action    string   `toml:"action"`
	Command   []string `toml:"command,omitempty"`
}

// Pinch binds a touchpad pinch.
type Pinch struct {
	Direction string   `toml:"direction"`
	Fingers   int      `toml:"fingers"`
	Action    string   `toml:"action"`
	Command   []string `toml:"command,omitempty"`
}

var (
	// ErrUnknownKey is returned for configuration keys that don't
	// exist.
	ErrUnknownKey = errors.New("config: unknown key")
	// ErrInvalid is returned for values that don't parse.
	ErrInvalid = errors.New("config: invalid value")
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info"},
		Gestures: Gestures{
			LockThreshold:      gesture.DefaultLockThreshold,
			Passes:             gesture.DefaultPasses,
			PinchMinScaleDelta: gesture.DefaultMinimumScaleDelta,
			TouchscreenFingers: 3,
		},
		Pointer: Pointer{Constraints: true, Warping: true},
		Devices: Devices{Glob: "/dev/input/event*"},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, checkUndecoded(md)
}

// Parse decodes a configuration from s over the defaults.
func Parse(s string) (*Config, error) {
	c := Default()
	md, err := toml.Decode(s, c)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	strs := make([]string, len(keys))
	for i, k := range keys {
		strs[i] = k.String()
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(strs, ", "))
}

// Write writes c to path in TOML format.
func (c *Config) Write(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Level returns the configured log level.
func (c *Config) Level() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return l, nil
}

// RouterOptions returns the router options of c. The caller sets the
// session, shortcuts and loop.
func (c *Config) RouterOptions() router.Options {
	return router.Options{
		DisableConstraints: !c.Pointer.Constraints,
		DisableWarping:     !c.Pointer.Warping,
		TouchscreenFingers: c.Gestures.TouchscreenFingers,
	}
}

// DispatcherOptions returns the shortcut dispatcher options of c.
func (c *Config) DispatcherOptions() shortcut.Options {
	return shortcut.Options{
		LockThreshold:     c.Gestures.LockThreshold,
		Passes:            c.Gestures.Passes,
		MinimumScaleDelta: c.Gestures.PinchMinScaleDelta,
	}
}

// Resolver returns the Action for a configured action name and
// command.
type Resolver func(name string, command []string) *shortcut.Action

// Bind registers the shortcuts, swipes and pinches of c with d. It
// stops at the first invalid or duplicate binding.
func (c *Config) Bind(d *shortcut.Dispatcher, resolve Resolver) error {
	for _, s := range c.Shortcuts {
		if err := bindTrigger(d, s.Trigger, resolve(s.Action, s.Command)); err != nil {
			return fmt.Errorf("shortcut %q: %w", s.Trigger, err)
		}
	}
	for _, s := range c.Swipes {
		dir, err := ParseSwipeDirection(s.Direction)
		if err != nil {
			return err
		}
		a := resolve(s.Action, s.Command)
		switch strings.ToLower(s.Device) {
		case "", "touchpad":
			err = d.RegisterTouchpadSwipe(dir, s.Fingers, a)
		case "touchscreen":
			err = d.RegisterTouchscreenSwipe(dir, s.Fingers, a)
		default:
			err = fmt.Errorf("%w: device %q", ErrInvalid, s.Device)
		}
		if err != nil {
			return fmt.Errorf("swipe %s %d: %w", s.Direction, s.Fingers, err)
		}
	}
	for _, p := range c.Pinches {
		dir, err := ParsePinchDirection(p.Direction)
		if err != nil {
			return err
		}
		if err := d.RegisterTouchpadPinch(dir, p.Fingers, resolve(p.Action, p.Command)); err != nil {
			return fmt.Errorf("pinch %s %d: %w", p.Direction, p.Fingers, err)
		}
	}
	return nil
}

func bindTrigger(d *shortcut.Dispatcher, trigger string, a *shortcut.Action) error {
	mods, last, err := splitTrigger(trigger)
	if err != nil {
		return err
	}
	switch kind, arg, _ := strings.Cut(last, ":"); strings.ToLower(kind) {
	case "button":
		b, err := ParseButton(arg)
		if err != nil {
			return err
		}
		return d.RegisterButton(shortcut.Button{Modifiers: mods, Buttons: b}, a)
	case "wheel":
		dir, err := ParseDirection(arg)
		if err != nil {
			return err
		}
		return d.RegisterAxis(shortcut.Axis{Modifiers: mods, Direction: dir}, a)
	}
	comb, err := key.ParseCombination(trigger)
	if err != nil {
		return err
	}
	return d.RegisterKey(comb, a)
}

// splitTrigger splits the modifiers from the last element of a
// trigger.
func splitTrigger(trigger string) (key.Modifiers, string, error) {
	i := strings.LastIndex(trigger, "+")
	if i == -1 || strings.HasSuffix(trigger, "++") {
		return 0, trigger, nil
	}
	c, err := key.ParseCombination(trigger[:i] + "+X")
	if err != nil {
		return 0, "", err
	}
	return c.Modifiers, trigger[i+1:], nil
}

// ParseButton parses "left", "right", "middle", "back", "forward",
// "side", "extra" or "task".
func ParseButton(s string) (pointer.Buttons, error) {
	switch strings.ToLower(s) {
	case "left":
		return pointer.ButtonPrimary, nil
	case "right":
		return pointer.ButtonSecondary, nil
	case "middle":
		return pointer.ButtonTertiary, nil
	case "back":
		return pointer.ButtonBack, nil
	case "forward":
		return pointer.ButtonForward, nil
	case "side":
		return pointer.ButtonSide, nil
	case "extra":
		return pointer.ButtonExtra, nil
	case "task":
		return pointer.ButtonTask, nil
	}
	return 0, fmt.Errorf("%w: button %q", ErrInvalid, s)
}

// ParseDirection parses a scroll direction.
func ParseDirection(s string) (pointer.Direction, error) {
	for _, d := range []pointer.Direction{pointer.DirectionUp, pointer.DirectionDown, pointer.DirectionLeft, pointer.DirectionRight} {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: direction %q", ErrInvalid, s)
}

// ParseSwipeDirection parses "up", "down", "left" or "right".
func ParseSwipeDirection(s string) (gesture.SwipeDirection, error) {
	for _, d := range []gesture.SwipeDirection{gesture.SwipeUp, gesture.SwipeDown, gesture.SwipeLeft, gesture.SwipeRight} {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: swipe direction %q", ErrInvalid, s)
}

// ParsePinchDirection parses "contracting" or "expanding".
func ParsePinchDirection(s string) (gesture.PinchDirection, error) {
	for _, d := range []gesture.PinchDirection{gesture.PinchContracting, gesture.PinchExpanding} {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: pinch direction %q", ErrInvalid, s)
}
