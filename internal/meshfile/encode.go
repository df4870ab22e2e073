package meshfile

import (
	"fmt"
	"io"
	"math"
)

// Marshal encodes m as an uncompressed RVTX image.
func Marshal(m *Mesh) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	for _, n := range []int{m.VertexCount, len(m.AttributeSizes), len(m.Indices)} {
		if n > math.MaxInt32 {
			return nil, fmt.Errorf("%w: count %d doesn't fit in int32", ErrInvalidHeader, n)
		}
	}

	size := len(Magic) + 4*(3+len(m.AttributeSizes)) + len(m.Vertices) + 4*len(m.Indices)
	buf := make([]byte, 0, size)
	buf = append(buf, Magic...)
	buf = byteOrder.AppendUint32(buf, uint32(m.VertexCount))
	buf = byteOrder.AppendUint32(buf, uint32(len(m.AttributeSizes)))
	for _, s := range m.AttributeSizes {
		buf = byteOrder.AppendUint32(buf, uint32(s))
	}
	buf = byteOrder.AppendUint32(buf, uint32(len(m.Indices)))
	buf = append(buf, m.Vertices...)
	for _, idx := range m.Indices {
		buf = byteOrder.AppendUint32(buf, idx)
	}
	return buf, nil
}

// Encode writes m to w using the given compression.
func Encode(w io.Writer, m *Mesh, c Compression) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	return writeCompressed(w, data, c)
}
