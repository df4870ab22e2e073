package meshfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMesh() *Mesh {
	vertices := make([]byte, 3*12)
	for i := range vertices {
		vertices[i] = byte(i)
	}
	return &Mesh{
		VertexCount:    3,
		AttributeSizes: []int{8, 4},
		Vertices:       vertices,
		Indices:        []uint32{0, 1, 2},
	}
}

func TestMarshal_Layout(t *testing.T) {
	data, err := Marshal(testMesh())
	require.NoError(t, err)

	want := []byte("RVTX")
	want = append(want, 3, 0, 0, 0) // vertex count
	want = append(want, 2, 0, 0, 0) // attribute count
	want = append(want, 8, 0, 0, 0, 4, 0, 0, 0)
	want = append(want, 3, 0, 0, 0) // index count
	want = append(want, testMesh().Vertices...)
	want = append(want, 0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0)
	assert.Equal(t, want, data)
}

func TestUnmarshal(t *testing.T) {
	data, err := Marshal(testMesh())
	require.NoError(t, err)

	m, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 12, m.VertexSize())
	assert.Equal(t, testMesh(), m)
}

func TestUnmarshal_EmptyMesh(t *testing.T) {
	data, err := Marshal(&Mesh{})
	require.NoError(t, err)

	m, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 0, m.VertexCount)
	assert.Empty(t, m.Vertices)
	assert.Empty(t, m.Indices)
}

func TestUnmarshal_BadMagic(t *testing.T) {
	data, err := Marshal(testMesh())
	require.NoError(t, err)
	copy(data, "XVTX")

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestUnmarshal_Truncated(t *testing.T) {
	data, err := Marshal(testMesh())
	require.NoError(t, err)

	for _, n := range []int{0, 3, 10, 20, len(data) - 20, len(data) - 1} {
		_, err := Unmarshal(data[:n])
		assert.ErrorIs(t, err, ErrTruncated, "cut at %d", n)
	}
}

func TestUnmarshal_NegativeCounts(t *testing.T) {
	data, err := Marshal(testMesh())
	require.NoError(t, err)
	copy(data[4:], []byte{0xff, 0xff, 0xff, 0xff})

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestMarshal_Invalid(t *testing.T) {
	m := testMesh()
	m.Vertices = m.Vertices[:5]
	_, err := Marshal(m)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestEncodeDecode_Compression(t *testing.T) {
	for _, c := range []Compression{None, Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, testMesh(), c))

			if c != None {
				assert.Equal(t, c, detect(buf.Bytes()))
			}

			m, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, testMesh(), m)
		})
	}
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, Zstd, c)

	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri"+LZ4.Extension())
	require.NoError(t, WriteFile(path, testMesh(), LZ4))

	m, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testMesh(), m)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.rvtx"), []byte("nope"), 0o644))
	_, err = ReadFile(filepath.Join(dir, "bad.rvtx"))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = ReadFile(filepath.Join(dir, "missing.rvtx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestName(t *testing.T) {
	root := filepath.Join("assets", "meshes")
	cases := map[string]string{
		filepath.Join(root, "cube.rvtx"):               "cube",
		filepath.Join(root, "props", "crate.rvtx.zst"): "props/crate",
		filepath.Join(root, "lod", "tree.rvtx.lz4"):    "lod/tree",
		filepath.Join(root, "misc.bin"):                "misc",
	}
	for path, want := range cases {
		got, err := Name(root, path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}
