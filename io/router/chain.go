// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"errors"

	"golang.org/x/exp/slices"

	"inputroute.org/io/event"
)

// Filter intercepts events on their way to the seat. Filter reports
// whether it consumed e, which ends the dispatch of e.
//
// Filters are compared by identity and must be comparable; pointer
// types are typical.
type Filter interface {
	Filter(e event.Event) bool
}

// Spy observes every event before the filters run. Spies can't consume
// events.
type Spy interface {
	Spy(e event.Event)
}

// ErrInstalled is returned when installing a filter or spy twice.
var ErrInstalled = errors.New("router: already installed")

type funcFilter struct {
	f func(e event.Event) bool
}

type funcSpy struct {
	f func(e event.Event)
}

// FilterFunc returns a Filter calling f. Every call returns a distinct
// Filter.
func FilterFunc(f func(e event.Event) bool) Filter {
	return &funcFilter{f: f}
}

// SpyFunc returns a Spy calling f.
func SpyFunc(f func(e event.Event)) Spy {
	return &funcSpy{f: f}
}

func (f *funcFilter) Filter(e event.Event) bool { return f.f(e) }

func (s *funcSpy) Spy(e event.Event) { s.f(e) }

// chain is an ordered list of filters or spies. Changes requested
// while the chain is dispatching are queued and applied once the
// outermost dispatch completes.
type chain[T comparable] struct {
	items []T
	// tail is the number of trailing items that stay behind appended
	// items.
	tail    int
	pending []change[T]
	busy    int
}

type change[T comparable] struct {
	op op
	v  T
}

type op uint8

const (
	opAppend op = iota
	opPrepend
	opRemove
)

// installed reports whether v is in the chain once the pending changes
// are applied.
func (c *chain[T]) installed(v T) bool {
	in := slices.Contains(c.items, v)
	for _, p := range c.pending {
		if p.v == v {
			in = p.op != opRemove
		}
	}
	return in
}

func (c *chain[T]) request(o op, v T) error {
	switch in := c.installed(v); {
	case o == opRemove && !in:
		return nil
	case o != opRemove && in:
		return ErrInstalled
	}
	if c.busy > 0 {
		c.pending = append(c.pending, change[T]{op: o, v: v})
		return nil
	}
	c.apply(o, v)
	return nil
}

func (c *chain[T]) apply(o op, v T) {
	switch o {
	case opAppend:
		c.items = slices.Insert(c.items, len(c.items)-c.tail, v)
	case opPrepend:
		c.items = slices.Insert(c.items, 0, v)
	case opRemove:
		i := slices.Index(c.items, v)
		if i < 0 {
			return
		}
		if i >= len(c.items)-c.tail {
			c.tail--
		}
		c.items = slices.Delete(c.items, i, i+1)
	}
}

// begin marks the start of a dispatch and returns the items to
// iterate.
func (c *chain[T]) begin() []T {
	c.busy++
	return c.items
}

// end marks the end of a dispatch, applying queued changes when it
// was the outermost one.
func (c *chain[T]) end() {
	c.busy--
	if c.busy > 0 {
		return
	}
	for len(c.pending) > 0 {
		p := c.pending[0]
		c.pending = c.pending[1:]
		c.apply(p.op, p.v)
	}
	c.pending = nil
}
