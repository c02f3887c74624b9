// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"
)

func TestChainTail(t *testing.T) {
	c := chain[int]{items: []int{1, 2, 9}, tail: 1}
	c.request(opAppend, 3)
	c.request(opPrepend, 0)
	if want := []int{0, 1, 2, 3, 9}; !slices.Equal(c.items, want) {
		t.Fatalf("items = %v, want %v", c.items, want)
	}
	if err := c.request(opAppend, 3); !errors.Is(err, ErrInstalled) {
		t.Errorf("second append: got %v", err)
	}
	if err := c.request(opPrepend, 9); !errors.Is(err, ErrInstalled) {
		t.Errorf("prepend of a tail item: got %v", err)
	}
	// Removing a tail item shrinks the tail.
	c.request(opRemove, 9)
	c.request(opAppend, 4)
	if want := []int{0, 1, 2, 3, 4}; !slices.Equal(c.items, want) {
		t.Errorf("items = %v, want %v", c.items, want)
	}
	if err := c.request(opRemove, 42); err != nil {
		t.Errorf("removing a missing item: %v", err)
	}
}

func TestChainPending(t *testing.T) {
	c := chain[int]{items: []int{1}}
	items := c.begin()
	c.request(opAppend, 2)
	c.request(opRemove, 1)
	if !c.installed(2) || c.installed(1) {
		t.Error("installed must account for pending changes")
	}
	if err := c.request(opAppend, 2); !errors.Is(err, ErrInstalled) {
		t.Errorf("pending item installed twice: %v", err)
	}
	// A nested dispatch doesn't apply the changes.
	c.begin()
	c.end()
	if !slices.Equal(c.items, []int{1}) || !slices.Equal(items, []int{1}) {
		t.Fatalf("items changed during dispatch: %v", c.items)
	}
	c.end()
	if !slices.Equal(c.items, []int{2}) {
		t.Errorf("items = %v, want [2]", c.items)
	}
}
