package memory

import (
	"errors"
	"fmt"

	"github.com/irfansharif/meshstore/internal/collections"
)

// ErrBufferRange is returned by HostBuffer for accesses past its capacity.
var ErrBufferRange = errors.New("buffer range out of bounds")

// Buffer is a fixed-capacity, byte-addressable GPU buffer. It's the only
// surface MeshStore needs from a graphics backend.
//
// Implementations must apply writes and copies in submission order; MeshStore
// updates its offsets as soon as a copy is issued.
type Buffer interface {
	// Size returns the capacity in bytes.
	Size() int
	// Write uploads data at offset.
	Write(offset int, data []byte) error
	// Read downloads len(dst) bytes starting at offset.
	Read(offset int, dst []byte) error
	// CopyTo copies size bytes from srcOffset in this buffer to dstOffset in
	// dst. The two ranges must not overlap if dst is the receiver.
	CopyTo(dst Buffer, srcOffset, dstOffset, size int) error
	// Release frees the buffer; it must not be used afterwards.
	Release() error
}

// Allocator creates buffers of a given capacity.
type Allocator interface {
	NewBuffer(size int) (Buffer, error)
}

// HostAllocator creates HostBuffers, tracking live ones by handle. The zero
// value is ready to use.
type HostAllocator struct {
	buffers *collections.Slots[*HostBuffer]
}

var _ Allocator = (*HostAllocator)(nil)

// NewBuffer returns a zeroed HostBuffer of the given size.
func (a *HostAllocator) NewBuffer(size int) (Buffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("host buffer: negative size %d", size)
	}
	if a.buffers == nil {
		a.buffers = collections.NewSlots[*HostBuffer](collections.WithReferences())
	}
	b := &HostBuffer{data: make([]byte, size), owner: a}
	b.handle = a.buffers.AllocValue(b)
	return b, nil
}

// Live returns the number of buffers created and not yet released.
func (a *HostAllocator) Live() int {
	if a.buffers == nil {
		return 0
	}
	return a.buffers.Len()
}

// HostBuffer is a Buffer backed by ordinary memory, for tests and headless
// tooling.
type HostBuffer struct {
	data     []byte
	owner    *HostAllocator
	handle   int
	released bool
}

var _ Buffer = (*HostBuffer)(nil)

// Size implements Buffer.
func (b *HostBuffer) Size() int {
	return len(b.data)
}

// Bytes exposes the backing memory.
func (b *HostBuffer) Bytes() []byte {
	return b.data
}

func (b *HostBuffer) check(offset, size int) error {
	if b.released {
		return errors.New("host buffer: use after release")
	}
	if offset < 0 || size < 0 || offset+size > len(b.data) {
		return fmt.Errorf("%w: [%d, %d) in %d-byte buffer", ErrBufferRange, offset, offset+size, len(b.data))
	}
	return nil
}

// Write implements Buffer.
func (b *HostBuffer) Write(offset int, data []byte) error {
	if err := b.check(offset, len(data)); err != nil {
		return err
	}
	copy(b.data[offset:], data)
	return nil
}

// Read implements Buffer.
func (b *HostBuffer) Read(offset int, dst []byte) error {
	if err := b.check(offset, len(dst)); err != nil {
		return err
	}
	copy(dst, b.data[offset:])
	return nil
}

// CopyTo implements Buffer. dst must be a HostBuffer.
func (b *HostBuffer) CopyTo(dst Buffer, srcOffset, dstOffset, size int) error {
	target, ok := dst.(*HostBuffer)
	if !ok {
		return fmt.Errorf("host buffer: can't copy into %T", dst)
	}
	if err := b.check(srcOffset, size); err != nil {
		return err
	}
	if err := target.check(dstOffset, size); err != nil {
		return err
	}
	copy(target.data[dstOffset:dstOffset+size], b.data[srcOffset:srcOffset+size])
	return nil
}

// Release implements Buffer.
func (b *HostBuffer) Release() error {
	if b.released {
		return errors.New("host buffer: double release")
	}
	b.released = true
	b.data = nil
	if b.owner != nil {
		return b.owner.buffers.Free(b.handle)
	}
	return nil
}
