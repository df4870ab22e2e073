package collections

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkHeapOrder asserts that every parent is <= both of its children.
func checkHeapOrder(t *testing.T, h *IndexHeap) {
	t.Helper()
	for i := heapRoot + 1; i < h.next; i++ {
		parent := *h.tree.At(i >> 1)
		child := *h.tree.At(i)
		require.LessOrEqualf(t, parent, child, "heap order violated at %d", i)
	}
}

func TestIndexHeap_Empty(t *testing.T) {
	h := NewIndexHeap()
	assert.Equal(t, 0, h.Len())

	_, err := h.Peek()
	assert.ErrorIs(t, err, ErrEmptyContainer)

	_, err = h.Pop()
	assert.ErrorIs(t, err, ErrEmptyContainer)
}

func TestIndexHeap_PopsInOrder(t *testing.T) {
	h := NewIndexHeap()
	for _, n := range []int{5, 3, 9, 1, 4, 1, 8} {
		h.Push(n)
		checkHeapOrder(t, h)
	}

	top, err := h.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, top)

	var got []int
	for h.Len() > 0 {
		n, err := h.Pop()
		require.NoError(t, err)
		checkHeapOrder(t, h)
		got = append(got, n)
	}
	assert.Equal(t, []int{1, 1, 3, 4, 5, 8, 9}, got)
}

func TestIndexHeap_RandomInterleaving(t *testing.T) {
	rng := rand.New(rand.NewSource(4711))
	h := NewIndexHeap()
	var model []int

	for i := 0; i < 2000; i++ {
		if len(model) == 0 || rng.Intn(3) > 0 {
			n := rng.Intn(100)
			h.Push(n)
			model = append(model, n)
		} else {
			sort.Ints(model)
			n, err := h.Pop()
			require.NoError(t, err)
			require.Equal(t, model[0], n)
			model = model[1:]
		}
		checkHeapOrder(t, h)
		require.Equal(t, len(model), h.Len())
	}
}

func TestIndexHeap_Clear(t *testing.T) {
	h := NewIndexHeap()
	h.Push(2)
	h.Push(1)
	h.Clear()
	assert.Equal(t, 0, h.Len())

	h.Push(3)
	n, err := h.Pop()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
