package gpu

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/irfansharif/meshstore/internal/geom"
	"github.com/irfansharif/meshstore/internal/memory"
	"github.com/irfansharif/meshstore/internal/meshgen"
)

// Stats tracks rendering performance metrics.
type Stats struct {
	LastDrawTimeUs float64 // time spent in last Draw() call in microseconds
	DrawCalls      int     // meshes drawn in the last frame
	Skipped        int     // meshes with a vertex layout the renderer can't draw
}

// Renderer draws every mesh in a store with one indexed call per mesh, sourced
// directly from the store's arenas. It expects meshgen's vertex layout.
type Renderer struct {
	store   *memory.MeshStore
	vao     uint32
	shaders *ShaderManager

	w, h             int
	zoom, panX, panY float64
	stats            Stats
	warned           bool
}

// NewRenderer binds a vertex array object over the store's arenas. The arenas
// must have been allocated by a Device.
func NewRenderer(store *memory.MeshStore) (*Renderer, error) {
	vertices, ok := store.VertexArena().(*Buffer)
	if !ok {
		return nil, fmt.Errorf("gpu: vertex arena is a %T, not a GL buffer", store.VertexArena())
	}
	indices, ok := store.IndexArena().(*Buffer)
	if !ok {
		return nil, fmt.Errorf("gpu: index arena is a %T, not a GL buffer", store.IndexArena())
	}

	shaders, err := NewShaderManager()
	if err != nil {
		return nil, err
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vertices.ID())
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, indices.ID()) // captured by the VAO

	// Configure vertex attributes
	// - Attribute 0: position (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, meshgen.VertexSize, gl.PtrOffset(0))
	// - Attribute 1: color (vec4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, meshgen.VertexSize, gl.PtrOffset(8))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if err := glError("configuring vertex array"); err != nil {
		gl.DeleteVertexArrays(1, &vao)
		shaders.Delete()
		return nil, err
	}

	return &Renderer{store: store, vao: vao, shaders: shaders, zoom: 1}, nil
}

// SetView sets the framebuffer size along with the zoom and pan applied in
// screen space.
func (r *Renderer) SetView(w, h int, zoom, panX, panY float64) {
	r.w, r.h = w, h
	r.zoom = zoom
	r.panX, r.panY = panX, panY
}

// Draw issues one DrawElementsBaseVertex per drawable mesh.
func (r *Renderer) Draw() {
	startTime := time.Now()

	r.shaders.SetTransform(r.transform().Matrix4())

	cmds, skipped := r.store.DrawCommands(meshgen.VertexSize)
	if skipped > 0 && !r.warned {
		log.Printf("WARNING: skipping %d meshes without a %dB vertex layout", skipped, meshgen.VertexSize)
		r.warned = true
	}

	gl.BindVertexArray(r.vao)
	for _, cmd := range cmds {
		if cmd.Count == 0 {
			continue
		}
		gl.DrawElementsBaseVertex(gl.TRIANGLES, int32(cmd.Count), gl.UNSIGNED_INT,
			gl.PtrOffset(int(cmd.FirstIndex)*memory.IndexSize), cmd.BaseVertex)
	}
	gl.BindVertexArray(0)

	r.stats = Stats{
		LastDrawTimeUs: float64(time.Since(startTime).Microseconds()),
		DrawCalls:      len(cmds),
		Skipped:        skipped,
	}
}

// Stats returns the current performance statistics.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Delete releases the vertex array and program. The arenas belong to the store.
func (r *Renderer) Delete() {
	gl.DeleteVertexArrays(1, &r.vao)
	r.shaders.Delete()
}

// transform maps world coordinates (pixels, y down) to GL NDC, applying zoom
// around the viewport center and then pan.
func (r *Renderer) transform() geom.Affine {
	if r.w <= 0 || r.h <= 0 {
		return geom.Identity
	}
	center := geom.MakePoint(float64(r.w)/2, float64(r.h)/2)
	screenToNDC := geom.MakeAffine(
		2.0/float64(r.w), 0, -1,
		0, -2.0/float64(r.h), 1,
	)
	return screenToNDC.
		Mul(geom.Translate(r.panX, r.panY)).
		Mul(geom.ScaleAbout(center, r.zoom))
}
