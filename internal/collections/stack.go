package collections

import (
	"fmt"
	"iter"
	"slices"
)

// Stack is an order-preserving dense array: live elements occupy the prefix
// [0, Len()) in the order the caller put them. Push is amortized O(1); Insert
// and Remove shift the tail to keep the relative order of every other element.
//
// Pointers returned by At, and slices returned by Span, are invalidated by any
// mutation that grows the backing array.
type Stack[T any] struct {
	items  *Growable[T]
	length int
	opts   options
}

// NewStack returns an empty stack.
func NewStack[T any](opts ...Option) *Stack[T] {
	return &Stack[T]{items: NewGrowable[T](), opts: buildOptions(opts)}
}

// Len returns the number of live elements.
func (s *Stack[T]) Len() int {
	return s.length
}

// Cap returns the capacity of the backing array.
func (s *Stack[T]) Cap() int {
	return s.items.Cap()
}

// Push appends v and returns its index.
func (s *Stack[T]) Push(v T) int {
	index := s.length
	*s.items.At(index) = v
	s.length++
	return index
}

// PushAll appends vs in order and returns the index of the first one.
func (s *Stack[T]) PushAll(vs []T) int {
	index := s.length
	if len(vs) > 0 {
		s.items.At(index + len(vs) - 1)
		copy(s.items.slice(index, len(vs)), vs)
	}
	s.length += len(vs)
	return index
}

// Insert places v at index, shifting [index, Len()) up by one. index may equal
// Len(), which appends.
func (s *Stack[T]) Insert(v T, index int) error {
	if index < 0 || index > s.length {
		return fmt.Errorf("insert at %d (length %d): %w", index, s.length, ErrOutOfRange)
	}
	s.items.At(s.length) // grow first so the shift stays within one backing array
	live := s.items.slice(0, s.length+1)
	copy(live[index+1:], live[index:s.length])
	live[index] = v
	s.length++
	return nil
}

// Remove deletes and returns the element at index, shifting
// [index+1, Len()) down by one.
func (s *Stack[T]) Remove(index int) (T, error) {
	if err := s.checkIndex(index); err != nil {
		var zero T
		return zero, fmt.Errorf("remove: %w", err)
	}
	live := s.items.slice(0, s.length)
	v := live[index]
	copy(live[index:], live[index+1:])
	s.length--
	s.vacate(s.length)
	return v, nil
}

// Pop removes and returns the last element.
func (s *Stack[T]) Pop() (T, error) {
	if s.length == 0 {
		var zero T
		return zero, fmt.Errorf("pop: %w", ErrEmptyContainer)
	}
	s.length--
	v := *s.items.At(s.length)
	s.vacate(s.length)
	return v, nil
}

// TryPop is Pop reporting emptiness as false.
func (s *Stack[T]) TryPop() (T, bool) {
	v, err := s.Pop()
	return v, err == nil
}

// Peek returns the last element without removing it.
func (s *Stack[T]) Peek() (T, error) {
	if s.length == 0 {
		var zero T
		return zero, fmt.Errorf("peek: %w", ErrEmptyContainer)
	}
	return *s.items.At(s.length - 1), nil
}

// TryPeek is Peek reporting emptiness as false.
func (s *Stack[T]) TryPeek() (T, bool) {
	v, err := s.Peek()
	return v, err == nil
}

// At returns a pointer to the live element at index.
func (s *Stack[T]) At(index int) (*T, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	return s.items.At(index), nil
}

// Get returns the live element at index.
func (s *Stack[T]) Get(index int) (T, error) {
	p, err := s.At(index)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Span returns a view of every live element. Writing through it is allowed
// but growing it isn't: its capacity ends at Len().
func (s *Stack[T]) Span() []T {
	if s.length == 0 {
		return nil
	}
	return s.items.slice(0, s.length)
}

// SpanRange returns a view of count live elements starting at index.
func (s *Stack[T]) SpanRange(index, count int) ([]T, error) {
	if index < 0 || count < 0 || index+count > s.length {
		return nil, fmt.Errorf("span [%d, %d) (length %d): %w", index, index+count, s.length, ErrOutOfRange)
	}
	return s.items.slice(index, count), nil
}

// Sort sorts the live elements in place. Slots past Len() aren't touched.
func (s *Stack[T]) Sort(cmp func(a, b T) int) {
	if s.length < 2 {
		return
	}
	slices.SortFunc(s.items.slice(0, s.length), cmp)
}

// All iterates over the live elements in order. Mutating the stack during
// iteration is undefined.
func (s *Stack[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.length; i++ {
			if !yield(i, *s.items.At(i)) {
				return
			}
		}
	}
}

// Clear drops every element.
func (s *Stack[T]) Clear() {
	if s.opts.references {
		s.items.Clear()
	}
	s.length = 0
}

func (s *Stack[T]) checkIndex(index int) error {
	if index < 0 || index >= s.length {
		return fmt.Errorf("index %d (length %d): %w", index, s.length, ErrOutOfRange)
	}
	return nil
}

// vacate zeroes a slot that just fell out of the live range.
func (s *Stack[T]) vacate(index int) {
	if s.opts.references {
		var zero T
		*s.items.At(index) = zero
	}
}
