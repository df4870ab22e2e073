package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostBuffer(t *testing.T) {
	alloc := &HostAllocator{}
	buf, err := alloc.NewBuffer(8)
	require.NoError(t, err)
	assert.Equal(t, 8, buf.Size())

	require.NoError(t, buf.Write(2, []byte{1, 2, 3}))
	got := make([]byte, 4)
	require.NoError(t, buf.Read(1, got))
	assert.Equal(t, []byte{0, 1, 2, 3}, got)

	assert.ErrorIs(t, buf.Write(6, []byte{1, 2, 3}), ErrBufferRange)
	assert.ErrorIs(t, buf.Read(-1, got), ErrBufferRange)
	require.NoError(t, buf.Write(8, nil))

	other, err := alloc.NewBuffer(4)
	require.NoError(t, err)
	require.NoError(t, buf.CopyTo(other, 2, 1, 3))
	assert.Equal(t, []byte{0, 1, 2, 3}, other.(*HostBuffer).Bytes())
	assert.ErrorIs(t, buf.CopyTo(other, 0, 2, 3), ErrBufferRange)

	assert.Equal(t, 2, alloc.Live())
	require.NoError(t, buf.Release())
	assert.Error(t, buf.Release())
	assert.Equal(t, 1, alloc.Live())

	// Freed handles are reused.
	again, err := alloc.NewBuffer(1)
	require.NoError(t, err)
	assert.Equal(t, buf.(*HostBuffer).handle, again.(*HostBuffer).handle)
}

func TestHostBufferRejectsForeignCopy(t *testing.T) {
	buf, err := (&HostAllocator{}).NewBuffer(4)
	require.NoError(t, err)
	assert.Error(t, buf.CopyTo(nil, 0, 0, 1))
}
