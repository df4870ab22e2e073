package collections

import "fmt"

const heapRoot = 1

// IndexHeap is a binary min-heap of ints. It's used to hand out the smallest
// freed index first, keeping allocated ranges dense.
//
// The tree is stored 1-indexed: the children of i are 2i and 2i+1.
type IndexHeap struct {
	tree *Growable[int]
	next int // one past the last occupied tree slot
}

// NewIndexHeap returns an empty heap.
func NewIndexHeap() *IndexHeap {
	return &IndexHeap{tree: NewGrowable[int](), next: heapRoot}
}

// Len returns the number of elements in the heap.
func (h *IndexHeap) Len() int {
	return h.next - heapRoot
}

// Push adds n to the heap.
func (h *IndexHeap) Push(n int) {
	index := h.next
	h.next++

	for index > heapRoot {
		parentIndex := index >> 1
		parent := *h.tree.At(parentIndex)
		if n >= parent {
			break
		}
		*h.tree.At(index) = parent
		index = parentIndex
	}
	*h.tree.At(index) = n
}

// Peek returns the smallest element without removing it.
func (h *IndexHeap) Peek() (int, error) {
	if h.Len() == 0 {
		return 0, fmt.Errorf("peek: %w", ErrEmptyContainer)
	}
	return *h.tree.At(heapRoot), nil
}

// Pop removes and returns the smallest element.
func (h *IndexHeap) Pop() (int, error) {
	if h.Len() == 0 {
		return 0, fmt.Errorf("pop: %w", ErrEmptyContainer)
	}

	result := *h.tree.At(heapRoot)
	h.next--
	if h.next == heapRoot {
		return result, nil
	}

	// Sift the last element down from the root.
	last := *h.tree.At(h.next)
	index := heapRoot
	for {
		left := index << 1
		if left >= h.next {
			break // no children
		}
		smaller := left
		if right := left | 1; right < h.next && *h.tree.At(right) < *h.tree.At(left) {
			smaller = right
		}
		child := *h.tree.At(smaller)
		if child >= last {
			break
		}
		*h.tree.At(index) = child
		index = smaller
	}
	*h.tree.At(index) = last
	return result, nil
}

// Clear empties the heap.
func (h *IndexHeap) Clear() {
	h.next = heapRoot
}
