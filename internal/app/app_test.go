package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfansharif/meshstore/internal/geom"
	"github.com/irfansharif/meshstore/internal/memory"
	"github.com/irfansharif/meshstore/internal/meshgen"
)

func newTestApp(t *testing.T, cfg memory.Config) *App {
	t.Helper()
	store, err := memory.NewMeshStore(&memory.HostAllocator{}, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	view := NewView(640, 480)
	return NewApp(store, meshgen.NewGenerator(1, view.Canvas()), view)
}

func TestSpawnAndUnload(t *testing.T) {
	a := newTestApp(t, memory.DefaultConfig())

	names, err := a.Spawn(10)
	require.NoError(t, err)
	require.Len(t, names, 10)
	assert.Equal(t, 10, a.Store.Len())
	require.NoError(t, a.Store.ValidateIntegrity())

	n, err := a.UnloadOldest(3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, name := range names[:3] {
		_, ok := a.Store.TryInfo(name)
		assert.False(t, ok, name)
	}

	n, err = a.UnloadNewest(2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, ok := a.Store.TryInfo(names[9])
	assert.False(t, ok)
	require.NoError(t, a.Store.ValidateIntegrity())

	first, err := a.Store.Info(names[3])
	require.NoError(t, err)
	assert.Zero(t, first.VertexOffset)
	assert.Zero(t, first.FirstIndex)

	n, err = a.UnloadOldest(100)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Zero(t, a.Store.VertexBytes())
}

func TestSpawnStopsWhenFull(t *testing.T) {
	a := newTestApp(t, memory.Config{VertexCapacity: 2048, IndexCapacity: 2048})

	names, err := a.Spawn(1000)
	assert.ErrorIs(t, err, memory.ErrBufferRange)
	assert.Len(t, names, a.Store.Len())
	require.NoError(t, a.Store.ValidateIntegrity())

	require.NoError(t, a.Clear())
	assert.Zero(t, a.Store.Len())
}

func TestViewZoomAt(t *testing.T) {
	v := NewView(200, 100)
	p := geom.MakePoint(150, 20)
	before := v.ToCanvas(p)
	assert.Equal(t, p, before)

	v.ZoomAt(p, 2)
	assert.Equal(t, 2.0, v.Zoom)
	after := v.ToCanvas(p)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)

	v.SetZoom(100)
	assert.Equal(t, maxZoom, v.Zoom)
	v.Reset()
	assert.Equal(t, p, v.ToCanvas(p))
}
