// Package library provides a registry of named resources. Each resource gets a
// stable integer id that is never reused, while its position in the dense
// backing store may move as other resources are removed.
package library

import (
	"errors"
	"fmt"
	"iter"

	"github.com/irfansharif/meshstore/internal/collections"
)

var (
	// ErrNotFound is returned for unknown names or ids.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyPresent is returned when adding a name that's already taken.
	ErrAlreadyPresent = errors.New("already present")
)

// AdjustFunc rewrites a surviving value after the removal of another. It's
// called once for every resource whose dense position changed, in order, with
// the removed value and the survivor's current value, and returns the
// survivor's replacement.
type AdjustFunc[T any] func(removed, survivor T) T

type record[T any] struct {
	id    int
	name  string
	value T
}

// Library is a name- and id-addressable registry over a dense stack. Ids are
// handed out monotonically; callers may cache them indefinitely.
type Library[T any] struct {
	kind      string // used in error messages, e.g. "mesh"
	records   *collections.Stack[record[T]]
	indexByID map[int]int
	idByName  map[string]int
	nextID    int
}

// New returns an empty library. kind names the stored resources in error
// messages.
func New[T any](kind string) *Library[T] {
	if kind == "" {
		kind = "resource"
	}
	return &Library[T]{
		kind:      kind,
		records:   collections.NewStack[record[T]](collections.WithReferences()),
		indexByID: make(map[int]int),
		idByName:  make(map[string]int),
	}
}

// Len returns the number of resources.
func (l *Library[T]) Len() int {
	return l.records.Len()
}

// Add registers value under name and returns its id.
func (l *Library[T]) Add(name string, value T) (int, error) {
	if _, ok := l.idByName[name]; ok {
		return 0, fmt.Errorf("%w: %s %q", ErrAlreadyPresent, l.kind, name)
	}

	id := l.nextID
	l.nextID++
	l.indexByID[id] = l.records.Push(record[T]{id: id, name: name, value: value})
	l.idByName[name] = id
	return id, nil
}

// Contains reports whether a resource is registered under name.
func (l *Library[T]) Contains(name string) bool {
	_, ok := l.idByName[name]
	return ok
}

// ID returns the id of the resource registered under name.
func (l *Library[T]) ID(name string) (int, error) {
	id, ok := l.idByName[name]
	if !ok {
		return 0, l.notFoundName(name)
	}
	return id, nil
}

// TryID is ID reporting absence as false.
func (l *Library[T]) TryID(name string) (int, bool) {
	id, ok := l.idByName[name]
	return id, ok
}

// Get returns the resource registered under name.
func (l *Library[T]) Get(name string) (T, error) {
	v, ok := l.TryGet(name)
	if !ok {
		return v, l.notFoundName(name)
	}
	return v, nil
}

// TryGet is Get reporting absence as false.
func (l *Library[T]) TryGet(name string) (T, bool) {
	id, ok := l.idByName[name]
	if !ok {
		var zero T
		return zero, false
	}
	return l.TryGetByID(id)
}

// GetByID returns the resource with the given id.
func (l *Library[T]) GetByID(id int) (T, error) {
	v, ok := l.TryGetByID(id)
	if !ok {
		return v, l.notFoundID(id)
	}
	return v, nil
}

// TryGetByID is GetByID reporting absence as false.
func (l *Library[T]) TryGetByID(id int) (T, bool) {
	index, ok := l.indexByID[id]
	if !ok {
		var zero T
		return zero, false
	}
	rec, err := l.records.Get(index)
	if err != nil {
		// indexByID and records are kept in lockstep.
		panic(fmt.Sprintf("library: %s id %d points at %d: %v", l.kind, id, index, err))
	}
	return rec.value, true
}

// Remove unregisters the resource under name and returns it. Every resource
// that was positioned after it shifts down one slot; if adjust is non-nil each
// of them is also rewritten through it.
func (l *Library[T]) Remove(name string, adjust AdjustFunc[T]) (T, error) {
	id, ok := l.idByName[name]
	if !ok {
		var zero T
		return zero, l.notFoundName(name)
	}
	return l.remove(id, adjust), nil
}

// RemoveByID is Remove addressed by id.
func (l *Library[T]) RemoveByID(id int, adjust AdjustFunc[T]) (T, error) {
	if _, ok := l.indexByID[id]; !ok {
		var zero T
		return zero, l.notFoundID(id)
	}
	return l.remove(id, adjust), nil
}

func (l *Library[T]) remove(id int, adjust AdjustFunc[T]) T {
	index := l.indexByID[id]
	removed, err := l.records.Remove(index)
	if err != nil {
		panic(fmt.Sprintf("library: %s id %d points at %d: %v", l.kind, id, index, err))
	}
	delete(l.indexByID, id)
	delete(l.idByName, removed.name)

	survivors := l.records.Span()
	for i := index; i < len(survivors); i++ {
		rec := &survivors[i]
		l.indexByID[rec.id] = i
		if adjust != nil {
			rec.value = adjust(removed.value, rec.value)
		}
	}
	return removed.value
}

// All iterates over the resources in dense order. The sequence is lazy and
// reads live state: mutating the library during iteration is undefined.
func (l *Library[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, rec := range l.records.All() {
			if !yield(rec.value) {
				return
			}
		}
	}
}

// Names iterates over name and value pairs in dense order.
func (l *Library[T]) Names() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, rec := range l.records.All() {
			if !yield(rec.name, rec.value) {
				return
			}
		}
	}
}

func (l *Library[T]) notFoundName(name string) error {
	return fmt.Errorf("%w: no %s named %q", ErrNotFound, l.kind, name)
}

func (l *Library[T]) notFoundID(id int) error {
	return fmt.Errorf("%w: no %s with id %d", ErrNotFound, l.kind, id)
}
