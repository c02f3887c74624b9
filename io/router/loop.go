// SPDX-License-Identifier: Unlicense OR MIT

package router

// Loop runs functions on a later iteration of the host event loop,
// outside of any event dispatch.
type Loop interface {
	Post(f func())
}

// Queue is a Loop whose functions run when Run is called.
type Queue struct {
	funcs []func()
}

func (q *Queue) Post(f func()) {
	q.funcs = append(q.funcs, f)
}

// Run calls the posted functions in order, including those posted by
// the functions themselves.
func (q *Queue) Run() {
	for len(q.funcs) > 0 {
		funcs := q.funcs
		q.funcs = nil
		for _, f := range funcs {
			f()
		}
	}
}

// Len returns the number of pending functions.
func (q *Queue) Len() int {
	return len(q.funcs)
}
