// Package meshgen procedurally generates flat, coloured meshes for loading
// into a mesh store.
//
// Every vertex is 24 bytes: a vec2 position followed by a vec4 RGBA colour,
// all little-endian float32s. Outlines are triangulated with earcut.
package meshgen

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/irfansharif/meshstore/internal/geom"
	"github.com/irfansharif/meshstore/internal/meshfile"
)

const (
	positionSize = 2 * 4
	colourSize   = 4 * 4

	// VertexSize is the byte size of a generated vertex.
	VertexSize = positionSize + colourSize
)

// AttributeSizes describes the generated vertex layout.
func AttributeSizes() []int { return []int{positionSize, colourSize} }

// Kind selects the outline of a generated shape.
type Kind int

const (
	Polygon Kind = iota // regular convex polygon
	Star                // alternating outer and inner points
	Ring                // polygon with a concentric polygonal hole
	numKinds
)

func (k Kind) String() string {
	switch k {
	case Polygon:
		return "polygon"
	case Star:
		return "star"
	case Ring:
		return "ring"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Shape fully determines a generated mesh.
type Shape struct {
	Kind    Kind
	Center  geom.Point
	Radius  float64
	Sides   int     // points for stars
	Inner   float64 // inner radius as a fraction of Radius, for stars and rings
	Angle   float64 // rotation in radians
	Palette Palette
}

// Outline returns the shape's outer boundary and, for rings, its hole.
func (s Shape) Outline() (outline, hole []geom.Point) {
	step := 2 * math.Pi / float64(s.Sides)
	switch s.Kind {
	case Star:
		for i := 0; i < s.Sides; i++ {
			theta := s.Angle + float64(i)*step
			outline = append(outline,
				geom.Polar(s.Center, s.Radius, theta),
				geom.Polar(s.Center, s.Radius*s.Inner, theta+step/2))
		}
	default:
		for i := 0; i < s.Sides; i++ {
			outline = append(outline, geom.Polar(s.Center, s.Radius, s.Angle+float64(i)*step))
		}
		if s.Kind == Ring {
			for i := 0; i < s.Sides; i++ {
				hole = append(hole, geom.Polar(s.Center, s.Radius*s.Inner, s.Angle+float64(i)*step))
			}
		}
	}
	return outline, hole
}

// Mesh triangulates the shape. Outer vertices take the rim colour, inner
// vertices the core colour.
func (s Shape) Mesh() (*meshfile.Mesh, error) {
	if s.Sides < 3 {
		return nil, fmt.Errorf("%s needs at least 3 sides, got %d", s.Kind, s.Sides)
	}

	outline, hole := s.Outline()
	var indices []uint32
	var err error
	if hole != nil {
		indices, err = triangulate(outline, hole)
	} else {
		indices, err = triangulate(outline)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Kind, err)
	}

	points := append(outline, hole...)
	vertices := make([]byte, 0, len(points)*VertexSize)
	for i, p := range points {
		c := s.Palette.Rim
		if (s.Kind == Star && i%2 == 1) || i >= len(outline) {
			c = s.Palette.Core
		}
		vertices = appendVertex(vertices, p, c)
	}

	return &meshfile.Mesh{
		VertexCount:    len(points),
		AttributeSizes: AttributeSizes(),
		Vertices:       vertices,
		Indices:        indices,
	}, nil
}

func appendVertex(buf []byte, p geom.Point, c colorful.Color) []byte {
	for _, f := range [6]float64{p.X, p.Y, c.R, c.G, c.B, 1} {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(f)))
	}
	return buf
}

// Generator produces a deterministic sequence of shapes for a given seed,
// each fitting inside its canvas.
type Generator struct {
	rng    *rand.Rand
	canvas geom.Box
	next   int
}

// NewGenerator returns a generator placing shapes within canvas.
func NewGenerator(seed int64, canvas geom.Box) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		canvas: canvas,
	}
}

// Shape returns the next random shape.
func (g *Generator) Shape() Shape {
	maxRadius := 0.15 * math.Min(g.canvas.W, g.canvas.H)
	radius := maxRadius * (0.3 + 0.7*g.rng.Float64())

	s := Shape{
		Kind:   Kind(g.rng.Intn(int(numKinds))),
		Radius: radius,
		Angle:  g.rng.Float64() * 2 * math.Pi,
		Inner:  0.35 + 0.3*g.rng.Float64(),
		Center: geom.MakePoint(
			g.canvas.X+radius+g.rng.Float64()*math.Max(g.canvas.W-2*radius, 0),
			g.canvas.Y+radius+g.rng.Float64()*math.Max(g.canvas.H-2*radius, 0),
		),
		Palette: RandomPalette(g.rng),
	}
	switch s.Kind {
	case Star:
		s.Sides = 4 + g.rng.Intn(6)
	default:
		s.Sides = 3 + g.rng.Intn(10)
	}
	return s
}

// Next generates the next mesh along with a unique name for it.
func (g *Generator) Next() (string, *meshfile.Mesh, error) {
	s := g.Shape()
	m, err := s.Mesh()
	if err != nil {
		return "", nil, err
	}
	name := fmt.Sprintf("%s-%04d", s.Kind, g.next)
	g.next++
	return name, m, nil
}
