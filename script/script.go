// SPDX-License-Identifier: Unlicense OR MIT

/*
Package script binds global shortcuts from Lua scripts.

A script registers its shortcuts with these functions:

	register_shortcut("Meta+E", function() log("launcher") end)
	register_button("Meta", "right", function() end)
	register_swipe("touchpad", "up", 4, function() end, function(p) end)
	register_pinch("contracting", 4, function() end)
	log("loaded")

The optional last function of the gesture registrations receives the
gesture progress. Callbacks run synchronously on the goroutine that
dispatches input.
*/
package script

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"inputroute.org/config"
	"inputroute.org/io/key"
	"inputroute.org/shortcut"
)

// Runtime is a Lua state whose registrations go to a shortcut
// Dispatcher. It is not safe for concurrent use.
type Runtime struct {
	L       *lua.LState
	d       *shortcut.Dispatcher
	actions []*shortcut.Action
	logger  zerolog.Logger
}

type Options struct {
	Logger *zerolog.Logger
}

// New returns a Runtime with the base, table, string and math
// libraries.
func New(d *shortcut.Dispatcher, opts Options) *Runtime {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	// Scripts only load code through the runtime.
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
	r := &Runtime{
		L:      L,
		d:      d,
		logger: log.With().Str("module", "script").Logger(),
	}
	if opts.Logger != nil {
		r.logger = *opts.Logger
	}
	L.SetGlobal("register_shortcut", L.NewFunction(r.registerShortcut))
	L.SetGlobal("register_button", L.NewFunction(r.registerButton))
	L.SetGlobal("register_swipe", L.NewFunction(r.registerSwipe))
	L.SetGlobal("register_pinch", L.NewFunction(r.registerPinch))
	L.SetGlobal("log", L.NewFunction(r.log))
	return r
}

// DoFile runs the script at path.
func (r *Runtime) DoFile(path string) error {
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// DoString runs the script src.
func (r *Runtime) DoString(src string) error {
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Actions returns the actions registered so far.
func (r *Runtime) Actions() []*shortcut.Action {
	return r.actions
}

// Close unregisters every action of the scripts and closes the Lua
// state.
func (r *Runtime) Close() {
	for _, a := range r.actions {
		r.d.Unregister(a)
	}
	r.actions = nil
	r.L.Close()
}

func (r *Runtime) action(name string, fn, progress *lua.LFunction) *shortcut.Action {
	a := &shortcut.Action{
		Name: name,
		Do:   func() { r.call(name, fn) },
	}
	if progress != nil {
		a.Progress = func(p float32) { r.call(name, progress, lua.LNumber(p)) }
	}
	return a
}

func (r *Runtime) call(name string, fn *lua.LFunction, args ...lua.LValue) {
	err := r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		r.logger.Warn().Err(err).Str("action", name).Msg("script callback failed")
	}
}

// bind registers a with reg, raising a Lua error on failure.
func (r *Runtime) bind(L *lua.LState, a *shortcut.Action, reg func(*shortcut.Action) error) {
	if err := reg(a); err != nil {
		L.RaiseError("%s: %v", a.Name, err)
		return
	}
	r.actions = append(r.actions, a)
	r.logger.Debug().Str("action", a.Name).Msg("registered")
}

func (r *Runtime) registerShortcut(L *lua.LState) int {
	trigger := L.CheckString(1)
	fn := L.CheckFunction(2)
	c, err := key.ParseCombination(trigger)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	r.bind(L, r.action(trigger, fn, nil), func(a *shortcut.Action) error {
		return r.d.RegisterKey(c, a)
	})
	return 0
}

func (r *Runtime) registerButton(L *lua.LState) int {
	mods, err := parseModifiers(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	b, err := config.ParseButton(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	fn := L.CheckFunction(3)
	trigger := shortcut.Button{Modifiers: mods, Buttons: b}
	r.bind(L, r.action(trigger.String(), fn, nil), func(a *shortcut.Action) error {
		return r.d.RegisterButton(trigger, a)
	})
	return 0
}

func (r *Runtime) registerSwipe(L *lua.LState) int {
	device := L.CheckString(1)
	dir, err := config.ParseSwipeDirection(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	fingers := L.CheckInt(3)
	fn := L.CheckFunction(4)
	progress := L.OptFunction(5, nil)
	var dev shortcut.Device
	switch strings.ToLower(device) {
	case "touchpad":
		dev = shortcut.Touchpad
	case "touchscreen":
		dev = shortcut.Touchscreen
	default:
		L.ArgError(1, "unknown device "+device)
		return 0
	}
	trigger := shortcut.Swipe{Device: dev, Direction: dir, Fingers: fingers}
	r.bind(L, r.action(trigger.String(), fn, progress), func(a *shortcut.Action) error {
		if dev == shortcut.Touchpad {
			return r.d.RegisterTouchpadSwipe(dir, fingers, a)
		}
		return r.d.RegisterTouchscreenSwipe(dir, fingers, a)
	})
	return 0
}

func (r *Runtime) registerPinch(L *lua.LState) int {
	dir, err := config.ParsePinchDirection(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	fingers := L.CheckInt(2)
	fn := L.CheckFunction(3)
	progress := L.OptFunction(4, nil)
	trigger := shortcut.Pinch{Direction: dir, Fingers: fingers}
	r.bind(L, r.action(trigger.String(), fn, progress), func(a *shortcut.Action) error {
		return r.d.RegisterTouchpadPinch(dir, fingers, a)
	})
	return 0
}

func (r *Runtime) log(L *lua.LState) int {
	r.logger.Info().Msg(L.CheckString(1))
	return 0
}

// parseModifiers parses a list of modifiers such as "Ctrl+Alt". The
// empty string means no modifiers.
func parseModifiers(s string) (key.Modifiers, error) {
	if s == "" {
		return 0, nil
	}
	c, err := key.ParseCombination(s + "+X")
	if err != nil {
		return 0, err
	}
	return c.Modifiers, nil
}
