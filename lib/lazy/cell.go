// Package lazy provides write-once cells for values derived on first use.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Result is a materialized value together with the error met while producing it.
// Value is meaningful even when Err is non-nil: it holds the best-effort outcome.
type Result[T any] struct {
	Value T
	Err   error
}

// Cell holds a value which is produced at most once.
//
// The first Load runs the producer; concurrent callers block until it finishes
// and then observe the same value. Store overrides the value and marks the cell
// as materialized, so a later Load never runs the producer.
// The zero value is an empty cell ready for use.
type Cell[T any] struct {
	done  atomic.Bool
	mu    sync.RWMutex
	value T
}

func (c *Cell[T]) Load(produce func() T) T {
	if c.done.Load() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.value
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Someone else may have won while we were waiting for the lock.
	if !c.done.Load() {
		c.value = produce()
		c.done.Store(true)
	}
	return c.value
}

func (c *Cell[T]) Store(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.done.Store(true)
}

func (c *Cell[T]) Materialized() bool { return c.done.Load() }
