package collections

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stackOf(vs ...int) *Stack[int] {
	s := NewStack[int]()
	s.PushAll(vs)
	return s
}

func TestStack_PushAndSpan(t *testing.T) {
	s := NewStack[int]()
	assert.Nil(t, s.Span())

	assert.Equal(t, 0, s.Push(10))
	assert.Equal(t, 1, s.Push(20))
	assert.Equal(t, 2, s.PushAll([]int{30, 40}))
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []int{10, 20, 30, 40}, s.Span())
	assert.Len(t, s.Span(), s.Len())

	assert.Equal(t, 4, s.PushAll(nil))
	assert.Equal(t, 4, s.Len())
}

func TestStack_PushThenRemoveRestores(t *testing.T) {
	s := stackOf(1, 2, 3)
	before := slices.Clone(s.Span())

	i := s.Push(99)
	v, err := s.Remove(i)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
	assert.Equal(t, before, s.Span())
}

func TestStack_RemovePreservesOrder(t *testing.T) {
	s := stackOf(1, 2, 3, 4, 5)

	v, err := s.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, []int{1, 3, 4, 5}, s.Span())

	v, err = s.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = s.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, []int{3, 4}, s.Span())
}

func TestStack_RemoveOutOfRange(t *testing.T) {
	s := stackOf(1, 2)
	for _, i := range []int{-1, 2, 10} {
		_, err := s.Remove(i)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", i)
	}
	assert.Equal(t, []int{1, 2}, s.Span())
}

func TestStack_Insert(t *testing.T) {
	s := stackOf(1, 3)
	require.NoError(t, s.Insert(2, 1))
	require.NoError(t, s.Insert(0, 0))
	require.NoError(t, s.Insert(4, 4))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s.Span())

	assert.ErrorIs(t, s.Insert(9, 6), ErrOutOfRange)
	assert.ErrorIs(t, s.Insert(9, -1), ErrOutOfRange)
}

func TestStack_PopPeek(t *testing.T) {
	s := NewStack[int]()

	_, err := s.Pop()
	assert.ErrorIs(t, err, ErrEmptyContainer)
	_, err = s.Peek()
	assert.ErrorIs(t, err, ErrEmptyContainer)
	_, ok := s.TryPop()
	assert.False(t, ok)
	_, ok = s.TryPeek()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)

	v, ok := s.TryPeek()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, err = s.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, ok = s.TryPop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 0, s.Len())
}

func TestStack_AtAndGet(t *testing.T) {
	s := stackOf(5, 6)
	p, err := s.At(1)
	require.NoError(t, err)
	*p = 7

	v, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = s.At(2)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestStack_SpanRange(t *testing.T) {
	s := stackOf(1, 2, 3, 4)

	span, err := s.SpanRange(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, span)

	span, err = s.SpanRange(4, 0)
	require.NoError(t, err)
	assert.Empty(t, span)

	_, err = s.SpanRange(3, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.SpanRange(-1, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestStack_SortLiveRangeOnly(t *testing.T) {
	s := stackOf(4, 1, 3, 2, 0)
	_, err := s.Pop() // 0 stays behind in the backing array
	require.NoError(t, err)

	s.Sort(cmp.Compare[int])
	assert.Equal(t, []int{1, 2, 3, 4}, s.Span())
	assert.Equal(t, 0, *s.items.At(4))
}

func TestStack_WithReferencesZeroesVacated(t *testing.T) {
	s := NewStack[*int](WithReferences())
	a, b := 1, 2
	s.Push(&a)
	s.Push(&b)

	_, err := s.Remove(0)
	require.NoError(t, err)
	assert.Nil(t, *s.items.At(1))

	_, err = s.Pop()
	require.NoError(t, err)
	assert.Nil(t, *s.items.At(0))
}

func TestStack_AllAndClear(t *testing.T) {
	s := stackOf(3, 2, 1)

	var idx, vals []int
	for i, v := range s.All() {
		idx = append(idx, i)
		vals = append(vals, v)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []int{3, 2, 1}, vals)

	for i := range s.All() {
		if i == 1 {
			break
		}
	}

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Span())
}
