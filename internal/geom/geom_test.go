package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffineCompose(t *testing.T) {
	scale := MakeAffine(2, 0, 0, 0, 3, 0)
	shift := Translate(1, -1)

	// Mul applies the right-hand transform first.
	p := shift.Mul(scale).MulPoint(MakePoint(1, 1))
	assert.Equal(t, MakePoint(3, 2), p)

	assert.Equal(t, MakePoint(5, 7), Identity.MulPoint(MakePoint(5, 7)))
}

func TestScaleAbout(t *testing.T) {
	c := MakePoint(10, 10)
	tr := ScaleAbout(c, 2)
	assert.Equal(t, c, tr.MulPoint(c))
	assert.Equal(t, MakePoint(12, 10), tr.MulPoint(MakePoint(11, 10)))
}

func TestBounds(t *testing.T) {
	b, err := Bounds([]Point{{1, 5}, {-2, 3}, {4, -1}})
	require.NoError(t, err)
	assert.Equal(t, MakeBox(-2, -1, 6, 6), b)
	assert.Equal(t, MakePoint(1, 2), b.Center())
	assert.True(t, b.Contains(MakePoint(4, 5)))
	assert.False(t, b.Contains(MakePoint(4.1, 5)))

	_, err = Bounds(nil)
	assert.Error(t, err)
	_, err = Bounds([]Point{{math.Inf(1), 0}})
	assert.Error(t, err)
}

func TestPolar(t *testing.T) {
	p := Polar(MakePoint(1, 1), 2, math.Pi/2)
	assert.InDelta(t, 1, p.X, 1e-9)
	assert.InDelta(t, 3, p.Y, 1e-9)
}

func TestMatrix4(t *testing.T) {
	m := MakeAffine(1, 2, 3, 4, 5, 6).Matrix4()
	assert.Equal(t, [16]float32{1, 4, 0, 0, 2, 5, 0, 0, 0, 0, 1, 0, 3, 6, 0, 1}, m)
}
