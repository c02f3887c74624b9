// SPDX-License-Identifier: Unlicense OR MIT

package win

import (
	"fmt"

	"github.com/kataras/go-events"
)

// Handle is a weak reference to a window in a Registry. The zero Handle
// refers to no window. A Handle outlives its window: once the window is
// removed, resolving the Handle fails, even if the slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

// Registry stores windows in generation checked slots. The zero value
// is not usable; use NewRegistry.
type Registry struct {
	slots   []slot
	free    []uint32
	emitter events.EventEmmiter
}

type slot struct {
	gen uint32
	w   Window
}

// Event names emitted by a Registry. Listeners receive the Handle as
// their single argument.
const (
	EventAdded   events.EventName = "window_added"
	EventRemoved events.EventName = "window_removed"
)

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{emitter: events.New()}
}

// None reports whether h refers to no window.
func (h Handle) None() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	if h.None() {
		return "none"
	}
	return fmt.Sprintf("%d.%d", h.index, h.gen)
}

// Add stores w and returns its Handle.
func (r *Registry) Add(w Window) Handle {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}
	s := &r.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.w = w
	h := Handle{index: idx, gen: s.gen}
	r.emitter.Emit(EventAdded, h)
	return h
}

// Remove drops the window of h and notifies listeners. It reports
// whether h was live.
func (r *Registry) Remove(h Handle) bool {
	if _, ok := r.Resolve(h); !ok {
		return false
	}
	s := &r.slots[h.index]
	s.w = nil
	// Bump the generation now so that listeners can no longer
	// resolve h.
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	r.free = append(r.free, h.index)
	r.emitter.Emit(EventRemoved, h)
	return true
}

// Resolve returns the window of h, if it is still alive.
func (r *Registry) Resolve(h Handle) (Window, bool) {
	if h.None() || int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[h.index]
	if s.gen != h.gen || s.w == nil {
		return nil, false
	}
	return s.w, true
}

// Alive reports whether h resolves.
func (r *Registry) Alive(h Handle) bool {
	_, ok := r.Resolve(h)
	return ok
}

// Find returns the Handle of w, or the zero Handle.
func (r *Registry) Find(w Window) Handle {
	for i, s := range r.slots {
		if s.w != nil && s.w == w {
			return Handle{index: uint32(i), gen: s.gen}
		}
	}
	return Handle{}
}

// Len returns the number of live windows.
func (r *Registry) Len() int {
	return len(r.slots) - len(r.free)
}

// OnRemoved calls f with the Handle of every window removed from now on.
func (r *Registry) OnRemoved(f func(h Handle)) {
	r.emitter.On(EventRemoved, func(payload ...interface{}) {
		f(payload[0].(Handle))
	})
}

// OnAdded calls f with the Handle of every window added from now on.
func (r *Registry) OnAdded(f func(h Handle)) {
	r.emitter.On(EventAdded, func(payload ...interface{}) {
		f(payload[0].(Handle))
	})
}
