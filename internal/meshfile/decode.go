package meshfile

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// decoder walks a byte slice, failing with ErrTruncated on short reads.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) remaining() int {
	return len(d.buf) - d.pos
}

func (d *decoder) readBytes(n int) ([]byte, error) {
	if n < 0 || n > d.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, d.pos, d.remaining())
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) readInt32() (int, error) {
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return int(int32(byteOrder.Uint32(b))), nil
}

// readCount reads an int32 that must not be negative.
func (d *decoder) readCount(what string) (int, error) {
	n, err := d.readInt32()
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative %s %d", ErrInvalidHeader, what, n)
	}
	return n, nil
}

// Unmarshal decodes an uncompressed RVTX image.
func Unmarshal(data []byte) (*Mesh, error) {
	d := &decoder{buf: data}

	magic, err := d.readBytes(len(Magic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, []byte(Magic)) {
		return nil, fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}

	vertexCount, err := d.readCount("vertex count")
	if err != nil {
		return nil, err
	}
	attributeCount, err := d.readCount("attribute count")
	if err != nil {
		return nil, err
	}
	// Each size takes four bytes; don't trust the count to size an allocation.
	if attributeCount > d.remaining()/4 {
		return nil, fmt.Errorf("%w: %d attributes", ErrTruncated, attributeCount)
	}

	m := &Mesh{VertexCount: vertexCount, AttributeSizes: make([]int, attributeCount)}
	for i := range m.AttributeSizes {
		if m.AttributeSizes[i], err = d.readCount("attribute size"); err != nil {
			return nil, err
		}
	}

	indexCount, err := d.readCount("index count")
	if err != nil {
		return nil, err
	}

	vertexSize := m.VertexSize()
	if vertexSize > 0 && vertexCount > math.MaxInt32/vertexSize {
		return nil, fmt.Errorf("%w: %d vertices of %d bytes overflows", ErrInvalidHeader, vertexCount, vertexSize)
	}
	vertices, err := d.readBytes(vertexCount * vertexSize)
	if err != nil {
		return nil, fmt.Errorf("reading vertices: %w", err)
	}
	m.Vertices = bytes.Clone(vertices)
	if m.Vertices == nil {
		m.Vertices = []byte{}
	}

	if indexCount > d.remaining()/4 {
		return nil, fmt.Errorf("reading indices: %w: %d indices, %d bytes left", ErrTruncated, indexCount, d.remaining())
	}
	raw, _ := d.readBytes(indexCount * 4)
	m.Indices = make([]uint32, indexCount)
	for i := range m.Indices {
		m.Indices[i] = byteOrder.Uint32(raw[i*4:])
	}
	return m, nil
}

// Decode reads an RVTX mesh from r, unwrapping zstd or lz4 framing if present.
func Decode(r io.Reader) (*Mesh, error) {
	data, err := readAllDecompressed(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
