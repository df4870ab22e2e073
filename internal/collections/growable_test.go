package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowable_Doubling(t *testing.T) {
	g := NewGrowable[int]()
	assert.Equal(t, 1, g.Cap())

	*g.At(0) = 7
	assert.Equal(t, 1, g.Cap())

	*g.At(1) = 8
	assert.Equal(t, 2, g.Cap())

	*g.At(5) = 9
	assert.Equal(t, 8, g.Cap())

	// Earlier values survive growth.
	assert.Equal(t, 7, *g.At(0))
	assert.Equal(t, 8, *g.At(1))
	assert.Equal(t, 9, *g.At(5))
	assert.Equal(t, 0, *g.At(3))
}

func TestGrowable_ZeroValue(t *testing.T) {
	var g Growable[string]
	*g.At(2) = "x"
	assert.Equal(t, 4, g.Cap())
	assert.Equal(t, "x", *g.At(2))
}

func TestGrowable_NegativeIndexPanics(t *testing.T) {
	g := NewGrowable[int]()
	assert.Panics(t, func() { g.At(-1) })
}

func TestGrowable_Clear(t *testing.T) {
	g := NewGrowable[int]()
	*g.At(3) = 1
	g.Clear()
	assert.Equal(t, 4, g.Cap())
	assert.Equal(t, 0, *g.At(3))
}
