package collections

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Slots is a sparse store of integer-addressed values. Alloc always reuses the
// smallest freed index before extending the high-water mark, so the range of
// live indices stays as dense as churn allows. Iteration order and density
// don't otherwise matter; use it for opaque handles.
//
// Every index is exactly one of: reserved (holds a live value), free (sitting
// in the heap), or untouched (at or above the high-water mark).
type Slots[T any] struct {
	values    *Growable[T]
	reserved  *roaring.Bitmap
	free      *IndexHeap
	highWater int
	opts      options
}

// NewSlots returns an empty slot allocator.
func NewSlots[T any](opts ...Option) *Slots[T] {
	return &Slots[T]{
		values:   NewGrowable[T](),
		reserved: roaring.New(),
		free:     NewIndexHeap(),
		opts:     buildOptions(opts),
	}
}

// Len returns the number of reserved slots.
func (s *Slots[T]) Len() int {
	return s.highWater - s.free.Len()
}

// NextIndex returns the index the next Alloc will hand out.
func (s *Slots[T]) NextIndex() int {
	if n, err := s.free.Peek(); err == nil {
		return n
	}
	return s.highWater
}

// Alloc reserves a slot and returns its index. The slot holds whatever value
// was last stored there (the zero value for fresh or reference-clearing
// slots).
func (s *Slots[T]) Alloc() int {
	index, err := s.free.Pop()
	if err != nil {
		index = s.highWater
		s.highWater++
	}
	s.values.At(index) // make sure the backing array covers index
	s.reserved.Add(uint32(index))
	return index
}

// AllocValue reserves a slot holding v and returns its index.
func (s *Slots[T]) AllocValue(v T) int {
	index := s.Alloc()
	*s.values.At(index) = v
	return index
}

// Free releases a reserved slot, making its index available to Alloc.
func (s *Slots[T]) Free(index int) error {
	if !s.IsReserved(index) {
		return fmt.Errorf("free slot %d: %w", index, ErrAccessViolation)
	}
	if s.opts.references {
		var zero T
		*s.values.At(index) = zero
	}
	s.reserved.Remove(uint32(index))
	s.free.Push(index)
	return nil
}

// IsReserved reports whether index currently holds a live value.
func (s *Slots[T]) IsReserved(index int) bool {
	return index >= 0 && index < s.highWater && s.reserved.Contains(uint32(index))
}

// Get returns the value in a reserved slot.
func (s *Slots[T]) Get(index int) (T, error) {
	if !s.IsReserved(index) {
		var zero T
		return zero, fmt.Errorf("read slot %d: %w", index, ErrAccessViolation)
	}
	return *s.values.At(index), nil
}

// Set overwrites the value in a reserved slot.
func (s *Slots[T]) Set(index int, v T) error {
	if !s.IsReserved(index) {
		return fmt.Errorf("write slot %d: %w", index, ErrAccessViolation)
	}
	*s.values.At(index) = v
	return nil
}

// Ref returns a pointer to the value in a reserved slot. The pointer is
// invalidated by the next Alloc that grows the backing array.
func (s *Slots[T]) Ref(index int) (*T, error) {
	if !s.IsReserved(index) {
		return nil, fmt.Errorf("reference slot %d: %w", index, ErrAccessViolation)
	}
	return s.values.At(index), nil
}

// Clear frees every slot and resets the high-water mark.
func (s *Slots[T]) Clear() {
	s.highWater = 0
	s.free.Clear()
	s.reserved.Clear()
	if s.opts.references {
		s.values.Clear()
	}
}
