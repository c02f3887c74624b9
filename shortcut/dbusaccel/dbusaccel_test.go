// SPDX-License-Identifier: Unlicense OR MIT

package dbusaccel

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"inputroute.org/io/key"
	"inputroute.org/shortcut"
)

// object answers method calls from a table of combinations. Other
// BusObject methods are not used.
type object struct {
	dbus.BusObject
	consume map[string]bool
	fail    error
	methods []string
	args    []string
}

func (o *object) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	o.methods = append(o.methods, method)
	o.args = append(o.args, args[0].(string))
	if o.fail != nil {
		return &dbus.Call{Err: o.fail}
	}
	return &dbus.Call{Body: []interface{}{o.consume[args[0].(string)]}}
}

func newArbiter(o *object) *Arbiter {
	nop := zerolog.Nop()
	return New(o, Options{Destination: "org.example.Accel", Logger: &nop})
}

func TestKeyPressed(t *testing.T) {
	o := &object{consume: map[string]bool{"Alt+Tab": true}}
	a := newArbiter(o)
	if !a.KeyPressed(key.Combination{Modifiers: key.ModAlt, Name: key.NameTab}) {
		t.Error("consumed combination reported unhandled")
	}
	if a.KeyReleased(key.Combination{Modifiers: key.ModCtrl, Name: "C"}) {
		t.Error("unknown combination reported handled")
	}
	want := []string{"org.example.Accel.KeyPressed", "org.example.Accel.KeyReleased"}
	if len(o.methods) != 2 || o.methods[0] != want[0] || o.methods[1] != want[1] {
		t.Errorf("methods %v, want %v", o.methods, want)
	}
}

func TestCallFailure(t *testing.T) {
	o := &object{fail: errors.New("no such service")}
	if newArbiter(o).KeyPressed(key.Combination{Name: key.NameF2}) {
		t.Error("failed call reported handled")
	}
}

func TestDispatcherArbiter(t *testing.T) {
	o := &object{consume: map[string]bool{"Alt+Shift+Tab": true}}
	d := shortcut.NewDispatcher(shortcut.Options{})
	d.Arbiter = newArbiter(o)
	if !d.ProcessKey(key.ModAlt|key.ModShift, key.NameBacktab) {
		t.Error("backtab not resolved by the service")
	}
	if len(o.args) == 0 || o.args[len(o.args)-1] != "Alt+Shift+Tab" {
		t.Errorf("service asked for %v", o.args)
	}
}

func TestDialWithoutDestination(t *testing.T) {
	if _, err := Dial(Options{}); !errors.Is(err, ErrNoDestination) {
		t.Errorf("got %v", err)
	}
}
