// Package meshfile reads and writes the RVTX binary mesh format:
//
//	"RVTX"                       4-byte magic
//	int32 vertexCount
//	int32 attributeCount
//	int32 × attributeCount       per-attribute byte size (sum = vertex size)
//	int32 indexCount
//	vertexCount × vertexSize     raw vertex bytes
//	uint32 × indexCount          indices
//
// All integers are little-endian. Files may additionally be wrapped in a zstd
// or lz4 frame; readers detect and unwrap those transparently.
package meshfile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic is the four-byte file signature.
const Magic = "RVTX"

var (
	// ErrBadMagic is returned when the input doesn't start with Magic.
	ErrBadMagic = errors.New("meshfile: bad magic")
	// ErrTruncated is returned when the input ends before the header says it
	// should.
	ErrTruncated = errors.New("meshfile: truncated")
	// ErrInvalidHeader is returned for negative or overflowing counts.
	ErrInvalidHeader = errors.New("meshfile: invalid header")
)

var byteOrder = binary.LittleEndian

// Mesh is a decoded RVTX file.
type Mesh struct {
	VertexCount    int
	AttributeSizes []int  // byte size of each vertex attribute, in order
	Vertices       []byte // VertexCount × VertexSize() bytes
	Indices        []uint32
}

// VertexSize returns the byte size of a single vertex.
func (m *Mesh) VertexSize() int {
	size := 0
	for _, s := range m.AttributeSizes {
		size += s
	}
	return size
}

// Validate checks that the vertex data matches the declared layout.
func (m *Mesh) Validate() error {
	if m.VertexCount < 0 {
		return fmt.Errorf("%w: negative vertex count %d", ErrInvalidHeader, m.VertexCount)
	}
	for i, s := range m.AttributeSizes {
		if s < 0 {
			return fmt.Errorf("%w: attribute %d has negative size %d", ErrInvalidHeader, i, s)
		}
	}
	if want := m.VertexCount * m.VertexSize(); len(m.Vertices) != want {
		return fmt.Errorf("%w: %d vertex bytes, layout needs %d", ErrInvalidHeader, len(m.Vertices), want)
	}
	return nil
}
