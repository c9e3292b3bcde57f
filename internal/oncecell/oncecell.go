// Package oncecell provides a write-once, read-many cell built on a single
// atomic state word.
//
// The cell moves through three states: uninitialized, busy (a writer is
// publishing), and initialized. Readers never block; a reader that observes
// the busy state simply reports the cell as unset. This is the primitive
// behind the late-bound container handle: the cell is allocated and handed
// out before the value it will eventually hold exists.
package oncecell

import (
	"runtime"
	"sync/atomic"
)

const (
	stateUninit uint32 = iota
	stateBusy
	stateInit
)

// Cell is a thread-safe cell that can be written exactly once.
// The zero value is an empty, usable cell.
type Cell[T any] struct {
	state atomic.Uint32
	value T
}

// New returns an empty cell.
func New[T any]() *Cell[T] {
	return &Cell[T]{}
}

// Set stores value if the cell has never been written. It reports whether
// this call performed the write; every call after the first returns false
// and leaves the stored value untouched.
func (c *Cell[T]) Set(value T) bool {
	if !c.state.CompareAndSwap(stateUninit, stateBusy) {
		return false
	}
	c.value = value
	c.state.Store(stateInit)
	return true
}

// Get returns the stored value. The second result is false until a write
// has completed; Get never waits for an in-flight Set.
func (c *Cell[T]) Get() (T, bool) {
	if c.state.Load() != stateInit {
		var zero T
		return zero, false
	}
	return c.value, true
}

// GetOrInit returns the stored value, running init to produce it if the
// cell is still empty. When multiple callers race, exactly one runs init;
// the others yield until the winner has published and then return the same
// value.
func (c *Cell[T]) GetOrInit(init func() T) T {
	for {
		switch c.state.Load() {
		case stateInit:
			return c.value
		case stateUninit:
			if c.state.CompareAndSwap(stateUninit, stateBusy) {
				c.value = init()
				c.state.Store(stateInit)
				return c.value
			}
		default:
			// Another caller is writing; let it finish.
			runtime.Gosched()
		}
	}
}
