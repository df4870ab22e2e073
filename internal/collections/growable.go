// Package collections provides the low-level containers backing the resource
// libraries: an amortized-doubling backing array, a min-heap of free indices,
// a sparse slot allocator and an order-preserving dense stack.
//
// None of the containers are safe for concurrent use.
package collections

import "errors"

var (
	// ErrEmptyContainer is returned when popping or peeking an empty heap or
	// stack.
	ErrEmptyContainer = errors.New("container is empty")
	// ErrOutOfRange is returned for indices outside a container's live
	// bounds.
	ErrOutOfRange = errors.New("index out of range")
	// ErrAccessViolation is returned when reading, writing or freeing a slot
	// that isn't currently reserved. The index may be numerically valid but
	// logically freed.
	ErrAccessViolation = errors.New("access to unreserved slot")
)

// Option configures a container at construction.
type Option func(*options)

type options struct {
	references bool
}

// WithReferences marks the stored type as holding references (pointers,
// strings, slices, maps, ...). Vacated slots are then zeroed so the container
// doesn't keep dead values reachable.
func WithReferences() Option {
	return func(o *options) { o.references = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Growable is a backing array that doubles its capacity whenever it's indexed
// past the end. It has no notion of length; that's left to its users.
type Growable[T any] struct {
	items []T
}

// NewGrowable returns a Growable with capacity 1.
func NewGrowable[T any]() *Growable[T] {
	return &Growable[T]{items: make([]T, 1)}
}

// At returns a pointer to slot i, growing the backing array until i fits.
// The pointer is invalidated by any later growth. Negative indices panic.
func (g *Growable[T]) At(i int) *T {
	if i < 0 {
		panic("collections: negative index")
	}
	if len(g.items) == 0 {
		g.items = make([]T, 1)
	}
	if i >= len(g.items) {
		capacity := len(g.items)
		for i >= capacity {
			capacity *= 2
		}
		grown := make([]T, capacity)
		copy(grown, g.items)
		g.items = grown
	}
	return &g.items[i]
}

// Cap returns the current capacity.
func (g *Growable[T]) Cap() int {
	return len(g.items)
}

// Clear zeroes every slot, keeping the capacity.
func (g *Growable[T]) Clear() {
	clear(g.items)
}

// slice views slots [i, i+n) without growing; i+n must not exceed Cap.
func (g *Growable[T]) slice(i, n int) []T {
	return g.items[i : i+n : i+n]
}
