// Package memory manages mesh geometry inside a pair of fixed-capacity GPU
// arenas, one for vertex bytes and one for uint32 indices.
//
// Meshes are appended at the arenas' high-water marks in load order, and the
// arenas are compacted eagerly on every unload, so [0, VertexBytes()) and
// [0, IndexBytes()) are always densely packed and valid for a batched draw.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"os"

	"github.com/irfansharif/meshstore/internal/library"
	"github.com/irfansharif/meshstore/internal/meshfile"
)

var memoryLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("MESHSTORE_DEBUG_MEMORY") == "1" {
		memoryLogger = log.New(os.Stdout, "[memory] ", log.Ltime|log.Lmsgprefix)
	}
}

// IndexSize is the byte size of a single index.
const IndexSize = 4

var (
	// ErrInvalidArgument is returned when a mesh's byte length doesn't match
	// its declared vertex count and size.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned for unknown mesh names or ids.
	ErrNotFound = library.ErrNotFound
	// ErrAlreadyPresent is returned when loading a name that's taken.
	ErrAlreadyPresent = library.ErrAlreadyPresent
)

// Config sizes the arenas. Capacity is fixed for the life of the store.
type Config struct {
	VertexCapacity int // bytes
	IndexCapacity  int // bytes
}

// DefaultConfig returns 64 MiB of vertex space and 16 MiB of index space.
func DefaultConfig() Config {
	return Config{
		VertexCapacity: 64 << 20,
		IndexCapacity:  16 << 20,
	}
}

// MeshInfo records where a mesh lives in the arenas. First* fields count
// elements (vertices, indices); *Offset fields count bytes.
type MeshInfo struct {
	Name         string
	VertexCount  int
	VertexSize   int
	IndexCount   int
	FirstVertex  int
	FirstIndex   int
	VertexOffset int
	IndexOffset  int
}

// VertexDataSize returns the mesh's footprint in the vertex arena.
func (m MeshInfo) VertexDataSize() int { return m.VertexCount * m.VertexSize }

// IndexDataSize returns the mesh's footprint in the index arena.
func (m MeshInfo) IndexDataSize() int { return m.IndexCount * IndexSize }

func (m MeshInfo) String() string {
	return fmt.Sprintf("%s: %d vertices × %dB @%d (first %d), %d indices @%d (first %d)",
		m.Name, m.VertexCount, m.VertexSize, m.VertexOffset, m.FirstVertex,
		m.IndexCount, m.IndexOffset, m.FirstIndex)
}

// shiftDown moves a survivor back over the space a removed mesh occupied. It's
// only valid because arena order always matches load order.
func shiftDown(removed, survivor MeshInfo) MeshInfo {
	survivor.FirstVertex -= removed.VertexCount
	survivor.FirstIndex -= removed.IndexCount
	survivor.VertexOffset -= removed.VertexDataSize()
	survivor.IndexOffset -= removed.IndexDataSize()
	return survivor
}

// MeshStore holds meshes in a vertex arena and an index arena. It isn't safe
// for concurrent use.
type MeshStore struct {
	vertices, indices Buffer
	meshes            *library.Library[MeshInfo]
	compactor         *compactor

	// High-water marks, in bytes and in elements.
	vertexBytes, indexBytes int
	vertexCount, indexCount int

	stats Stats
}

// NewMeshStore allocates both arenas from alloc.
func NewMeshStore(alloc Allocator, cfg Config) (*MeshStore, error) {
	if cfg.VertexCapacity <= 0 || cfg.IndexCapacity <= 0 {
		return nil, fmt.Errorf("%w: arena capacities must be positive, got %d/%d",
			ErrInvalidArgument, cfg.VertexCapacity, cfg.IndexCapacity)
	}

	vertices, err := alloc.NewBuffer(cfg.VertexCapacity)
	if err != nil {
		return nil, fmt.Errorf("allocating vertex arena: %w", err)
	}
	indices, err := alloc.NewBuffer(cfg.IndexCapacity)
	if err != nil {
		_ = vertices.Release()
		return nil, fmt.Errorf("allocating index arena: %w", err)
	}

	memoryLogger.Printf("created store (%s vertex, %s index bytes)",
		formatNumber(int64(cfg.VertexCapacity)), formatNumber(int64(cfg.IndexCapacity)))
	return &MeshStore{
		vertices:  vertices,
		indices:   indices,
		meshes:    library.New[MeshInfo]("mesh"),
		compactor: newCompactor(alloc),
	}, nil
}

// Load appends a mesh to the arenas and returns its id. vertexData must hold
// exactly vertexCount*vertexSize bytes. Nothing is written if validation
// fails; exceeding arena capacity is reported by the Buffer.
func (s *MeshStore) Load(vertexCount, vertexSize int, vertexData []byte, indices []uint32, name string) (int, error) {
	if vertexCount < 0 || vertexSize < 0 {
		return 0, fmt.Errorf("%w: mesh %q: negative vertex count %d or size %d",
			ErrInvalidArgument, name, vertexCount, vertexSize)
	}
	if want := vertexCount * vertexSize; want != len(vertexData) {
		return 0, fmt.Errorf("%w: mesh %q: %d vertices × %dB = %dB, got %dB",
			ErrInvalidArgument, name, vertexCount, vertexSize, want, len(vertexData))
	}
	if s.meshes.Contains(name) {
		return 0, fmt.Errorf("%w: mesh %q", ErrAlreadyPresent, name)
	}

	indexData := make([]byte, 0, len(indices)*IndexSize)
	for _, idx := range indices {
		indexData = binary.LittleEndian.AppendUint32(indexData, idx)
	}

	if err := s.vertices.Write(s.vertexBytes, vertexData); err != nil {
		return 0, fmt.Errorf("uploading vertices for mesh %q: %w", name, err)
	}
	if err := s.indices.Write(s.indexBytes, indexData); err != nil {
		return 0, fmt.Errorf("uploading indices for mesh %q: %w", name, err)
	}

	info := MeshInfo{
		Name:         name,
		VertexCount:  vertexCount,
		VertexSize:   vertexSize,
		IndexCount:   len(indices),
		FirstVertex:  s.vertexCount,
		FirstIndex:   s.indexCount,
		VertexOffset: s.vertexBytes,
		IndexOffset:  s.indexBytes,
	}
	id, err := s.meshes.Add(name, info)
	if err != nil {
		return 0, err
	}

	s.vertexBytes += info.VertexDataSize()
	s.indexBytes += info.IndexDataSize()
	s.vertexCount += info.VertexCount
	s.indexCount += info.IndexCount
	s.stats.Loads++

	memoryLogger.Printf("loaded mesh#%d %s", id, info)
	return id, nil
}

// LoadMesh loads a decoded mesh file under name.
func (s *MeshStore) LoadMesh(m *meshfile.Mesh, name string) (int, error) {
	return s.Load(m.VertexCount, m.VertexSize(), m.Vertices, m.Indices, name)
}

// LoadFile decodes the RVTX file at path and loads it under name.
func (s *MeshStore) LoadFile(path, name string) (int, error) {
	if s.meshes.Contains(name) {
		return 0, fmt.Errorf("%w: mesh %q", ErrAlreadyPresent, name)
	}
	m, err := meshfile.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return s.LoadMesh(m, name)
}

// Unload removes a mesh and compacts both arenas over the hole it leaves.
// Every mesh loaded after it moves down; callers must re-query Info.
//
// Metadata is updated before the copies are issued, so a Buffer error during
// compaction still leaves the store's bookkeeping consistent (the arena
// contents past the hole are then stale).
func (s *MeshStore) Unload(name string) error {
	removed, err := s.meshes.Remove(name, shiftDown)
	if err != nil {
		return err
	}
	return s.compactAfter(removed)
}

// UnloadByID is Unload addressed by id.
func (s *MeshStore) UnloadByID(id int) error {
	removed, err := s.meshes.RemoveByID(id, shiftDown)
	if err != nil {
		return err
	}
	return s.compactAfter(removed)
}

func (s *MeshStore) compactAfter(removed MeshInfo) error {
	oldVertexBytes, oldIndexBytes := s.vertexBytes, s.indexBytes

	s.vertexBytes -= removed.VertexDataSize()
	s.indexBytes -= removed.IndexDataSize()
	s.vertexCount -= removed.VertexCount
	s.indexCount -= removed.IndexCount
	s.stats.Unloads++

	memoryLogger.Printf("unloaded %s", removed)

	vertexErr := s.compactor.close(s.vertices, removed.VertexOffset, removed.VertexDataSize(), oldVertexBytes)
	indexErr := s.compactor.close(s.indices, removed.IndexOffset, removed.IndexDataSize(), oldIndexBytes)
	if err := errors.Join(vertexErr, indexErr); err != nil {
		return fmt.Errorf("compacting after mesh %q: %w", removed.Name, err)
	}
	return nil
}

// Info returns the current placement of the named mesh.
func (s *MeshStore) Info(name string) (MeshInfo, error) {
	return s.meshes.Get(name)
}

// TryInfo is Info reporting absence as false.
func (s *MeshStore) TryInfo(name string) (MeshInfo, bool) {
	return s.meshes.TryGet(name)
}

// InfoByID returns the current placement of the mesh with the given id.
func (s *MeshStore) InfoByID(id int) (MeshInfo, error) {
	return s.meshes.GetByID(id)
}

// ID returns the stable id of the named mesh.
func (s *MeshStore) ID(name string) (int, error) {
	return s.meshes.ID(name)
}

// Meshes iterates over every mesh in arena order. Mutating the store during
// iteration is undefined.
func (s *MeshStore) Meshes() iter.Seq[MeshInfo] {
	return s.meshes.All()
}

// Len returns the number of loaded meshes.
func (s *MeshStore) Len() int {
	return s.meshes.Len()
}

// VertexBytes returns the vertex arena's high-water mark.
func (s *MeshStore) VertexBytes() int { return s.vertexBytes }

// IndexBytes returns the index arena's high-water mark.
func (s *MeshStore) IndexBytes() int { return s.indexBytes }

// VertexArena returns the buffer holding vertex bytes.
func (s *MeshStore) VertexArena() Buffer { return s.vertices }

// IndexArena returns the buffer holding indices.
func (s *MeshStore) IndexArena() Buffer { return s.indices }

// ValidateIntegrity checks that the meshes, in arena order, tile both arenas
// exactly with no gaps or overlaps.
func (s *MeshStore) ValidateIntegrity() error {
	var errs []string
	vertexBytes, indexBytes, vertexCount, indexCount := 0, 0, 0, 0

	for m := range s.meshes.All() {
		if m.VertexOffset != vertexBytes || m.IndexOffset != indexBytes {
			errs = append(errs, fmt.Sprintf("mesh %q at byte offsets %d/%d, expected %d/%d",
				m.Name, m.VertexOffset, m.IndexOffset, vertexBytes, indexBytes))
		}
		if m.FirstVertex != vertexCount || m.FirstIndex != indexCount {
			errs = append(errs, fmt.Sprintf("mesh %q at first vertex/index %d/%d, expected %d/%d",
				m.Name, m.FirstVertex, m.FirstIndex, vertexCount, indexCount))
		}
		vertexBytes = m.VertexOffset + m.VertexDataSize()
		indexBytes = m.IndexOffset + m.IndexDataSize()
		vertexCount = m.FirstVertex + m.VertexCount
		indexCount = m.FirstIndex + m.IndexCount
	}

	if vertexBytes != s.vertexBytes || indexBytes != s.indexBytes {
		errs = append(errs, fmt.Sprintf("meshes end at %d/%d bytes, high-water marks are %d/%d",
			vertexBytes, indexBytes, s.vertexBytes, s.indexBytes))
	}
	if vertexCount != s.vertexCount || indexCount != s.indexCount {
		errs = append(errs, fmt.Sprintf("meshes end at element %d/%d, counters are %d/%d",
			vertexCount, indexCount, s.vertexCount, s.indexCount))
	}
	if s.vertexBytes > s.vertices.Size() || s.indexBytes > s.indices.Size() {
		errs = append(errs, fmt.Sprintf("high-water marks %d/%d exceed capacity %d/%d",
			s.vertexBytes, s.indexBytes, s.vertices.Size(), s.indices.Size()))
	}

	if len(errs) > 0 {
		log.Printf("store integrity check failed with %d errors:", len(errs))
		for _, err := range errs {
			log.Printf("  - %s", err)
		}
		return fmt.Errorf("store integrity check failed with %d errors", len(errs))
	}
	return nil
}

// Close releases both arenas and any compaction scratch space.
func (s *MeshStore) Close() error {
	return errors.Join(
		s.compactor.release(),
		s.vertices.Release(),
		s.indices.Release(),
	)
}

// DrawCommand mirrors the layout of GL's DrawElementsIndirectCommand.
type DrawCommand struct {
	Count         uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	BaseInstance  uint32
}

// DrawCommands returns one indexed draw per mesh whose vertices are stride
// bytes wide, in arena order. BaseVertex counts stride-sized vertices from the
// start of the vertex arena, so meshes of any other layout (or that sit at an
// offset that isn't a multiple of stride) are skipped and counted in skipped.
func (s *MeshStore) DrawCommands(stride int) (cmds []DrawCommand, skipped int) {
	cmds = make([]DrawCommand, 0, s.meshes.Len())
	for m := range s.meshes.All() {
		if m.VertexSize != stride || stride <= 0 || m.VertexOffset%stride != 0 {
			skipped++
			continue
		}
		cmds = append(cmds, DrawCommand{
			Count:         uint32(m.IndexCount),
			InstanceCount: 1,
			FirstIndex:    uint32(m.FirstIndex),
			BaseVertex:    int32(m.VertexOffset / stride),
		})
	}
	return cmds, skipped
}
