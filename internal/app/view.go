package app

import (
	"github.com/irfansharif/meshstore/internal/geom"
)

const (
	minZoom = 0.1
	maxZoom = 8.0
)

// View manages the current view state including zoom, pan, and viewport.
type View struct {
	Zoom          float64
	PanX, PanY    float64
	Width, Height int
}

// NewView creates a new view state with default values.
func NewView(width, height int) *View {
	return &View{
		Zoom:   1.0,
		Width:  width,
		Height: height,
	}
}

// SetZoom sets the zoom level, clamping to valid range.
func (vs *View) SetZoom(zoom float64) {
	vs.Zoom = min(max(zoom, minZoom), maxZoom)
}

// SetPan sets the pan position to the given coordinates.
func (vs *View) SetPan(x, y float64) {
	vs.PanX = x
	vs.PanY = y
}

// SetViewport updates the viewport dimensions.
func (vs *View) SetViewport(width, height int) {
	vs.Width = width
	vs.Height = height
}

// Reset restores zoom 1 with no pan.
func (vs *View) Reset() {
	vs.Zoom = 1.0
	vs.PanX, vs.PanY = 0, 0
}

// Canvas returns the viewport as a box in canvas coordinates at zoom 1.
func (vs *View) Canvas() geom.Box {
	return geom.MakeBox(0, 0, float64(vs.Width), float64(vs.Height))
}

// ToCanvas maps a framebuffer position to canvas coordinates, inverting the
// zoom about the viewport center and the pan that follows it.
func (vs *View) ToCanvas(p geom.Point) geom.Point {
	cx, cy := float64(vs.Width)/2, float64(vs.Height)/2
	return geom.MakePoint(
		(p.X-cx*(1-vs.Zoom)-vs.PanX)/vs.Zoom,
		(p.Y-cy*(1-vs.Zoom)-vs.PanY)/vs.Zoom,
	)
}

// ZoomAt multiplies the zoom by factor while keeping the canvas point under
// the framebuffer position p fixed.
func (vs *View) ZoomAt(p geom.Point, factor float64) {
	anchor := vs.ToCanvas(p)
	vs.SetZoom(vs.Zoom * factor)
	cx, cy := float64(vs.Width)/2, float64(vs.Height)/2
	vs.PanX = p.X - cx*(1-vs.Zoom) - anchor.X*vs.Zoom
	vs.PanY = p.Y - cy*(1-vs.Zoom) - anchor.Y*vs.Zoom
}
