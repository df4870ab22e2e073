package meshgen

import (
	"fmt"

	"github.com/rclancey/earcut"

	"github.com/irfansharif/meshstore/internal/geom"
)

// triangulate returns triangle indices into the concatenation of outline and
// holes. The order the outline is wound in doesn't matter.
func triangulate(outline []geom.Point, holes ...[]geom.Point) ([]uint32, error) {
	if len(outline) < 3 {
		return nil, fmt.Errorf("degenerate polygon (%d vertices < 3)", len(outline))
	}

	// Flat coordinate array required by earcut: [x0, y0, x1, y1, ...].
	n := len(outline)
	for _, h := range holes {
		n += len(h)
	}
	coords := make([]float64, 0, n*2)
	for _, p := range outline {
		coords = append(coords, p.X, p.Y)
	}
	var holeIndices []int
	for _, h := range holes {
		holeIndices = append(holeIndices, len(coords)/2)
		for _, p := range h {
			coords = append(coords, p.X, p.Y)
		}
	}

	triangleIndices, err := earcut.Earcut(coords, holeIndices, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulating %d-vertex polygon: %w", n, err)
	}
	if len(triangleIndices)%3 != 0 {
		return nil, fmt.Errorf("invalid triangle count (indices: %d, not divisible by 3)", len(triangleIndices))
	}

	indices := make([]uint32, len(triangleIndices))
	for i, idx := range triangleIndices {
		indices[i] = uint32(idx)
	}
	return indices, nil
}
