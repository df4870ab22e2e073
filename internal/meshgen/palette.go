package meshgen

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the colours a single shape is painted with: its rim and its
// core.
type Palette struct {
	Rim, Core colorful.Color
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RandomPalette returns a palette using HSV generation. The core shares the
// rim's hue but is lighter and less saturated.
func RandomPalette(r *rand.Rand) Palette {
	hue := r.Float64() * 360
	sat := r.Float64()*0.5 + 0.4
	val := r.Float64()*0.4 + 0.4

	return Palette{
		Rim:  colorful.Hsv(hue, sat, val),
		Core: colorful.Hsv(hue, clamp(sat-0.3, 0, 1), clamp(val+0.3, 0, 1)),
	}
}
