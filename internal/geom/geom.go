// Package geom provides the 2D primitives used to build and place meshes:
// - Points and vector arithmetic
// - Axis-aligned boxes and bounds
// - Affine transform composition
package geom

import (
	"fmt"
	"math"
)

// Point represents a 2D point or vector in Cartesian coordinates.
type Point struct {
	X float64
	Y float64
}

// Box represents an axis-aligned rectangle.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Affine represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

func MakePoint(x, y float64) Point               { return Point{X: x, Y: y} }
func MakeBox(x, y, w, h float64) Box             { return Box{X: x, Y: y, W: w, H: h} }
func MakeAffine(a, b, c, d, e, f float64) Affine { return Affine{A: a, B: b, C: c, D: d, E: e, F: f} }

// Identity is the transform that maps every point to itself.
var Identity = MakeAffine(1, 0, 0, 0, 1, 0)

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Polar returns the point at distance r from c along angle theta (radians).
func Polar(c Point, r, theta float64) Point {
	return Point{c.X + r*math.Cos(theta), c.Y + r*math.Sin(theta)}
}

// Contains reports whether p lies inside b, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Center returns the midpoint of b.
func (b Box) Center() Point {
	return Point{b.X + 0.5*b.W, b.Y + 0.5*b.H}
}

// Bounds returns the smallest box containing every point.
func Bounds(points []Point) (Box, error) {
	if len(points) == 0 {
		return Box{}, fmt.Errorf("no points to bound")
	}

	xmin, xmax := math.MaxFloat64, -math.MaxFloat64
	ymin, ymax := math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		xmin = math.Min(xmin, p.X)
		xmax = math.Max(xmax, p.X)
		ymin = math.Min(ymin, p.Y)
		ymax = math.Max(ymax, p.Y)
	}
	if math.IsInf(xmin, 0) || math.IsInf(xmax, 0) || math.IsInf(ymin, 0) || math.IsInf(ymax, 0) {
		return Box{}, fmt.Errorf("bounds contain infinite values: x[%f,%f] y[%f,%f]", xmin, xmax, ymin, ymax)
	}
	return MakeBox(xmin, ymin, xmax-xmin, ymax-ymin), nil
}

// MulPoint applies the affine transform to a point.
func (t Affine) MulPoint(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Mul composes two affine transforms (applies u then t).
func (t Affine) Mul(u Affine) Affine {
	return MakeAffine(
		t.A*u.A+t.B*u.D,
		t.A*u.B+t.B*u.E,
		t.A*u.C+t.B*u.F+t.C,
		t.D*u.A+t.E*u.D,
		t.D*u.B+t.E*u.E,
		t.D*u.C+t.E*u.F+t.F,
	)
}

// ScaleAbout scales by s around the point c.
func ScaleAbout(c Point, s float64) Affine {
	return MakeAffine(1, 0, c.X, 0, 1, c.Y).
		Mul(MakeAffine(s, 0, 0, 0, s, 0)).
		Mul(MakeAffine(1, 0, -c.X, 0, 1, -c.Y))
}

// Translate moves points by (dx, dy).
func Translate(dx, dy float64) Affine {
	return MakeAffine(1, 0, dx, 0, 1, dy)
}

// Matrix4 converts an affine transform to a column-major 4x4 matrix, the
// layout GL uniforms expect.
func (t Affine) Matrix4() [16]float32 {
	return [16]float32{
		float32(t.A), float32(t.D), 0, 0,
		float32(t.B), float32(t.E), 0, 0,
		0, 0, 1, 0,
		float32(t.C), float32(t.F), 0, 1,
	}
}
