// Package gpu backs the mesh store with OpenGL buffer objects and draws its
// arenas. Every function here must run on the thread that owns the current GL
// context.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/irfansharif/meshstore/internal/collections"
	"github.com/irfansharif/meshstore/internal/memory"
)

// Device allocates GL buffer objects. It implements memory.Allocator.
type Device struct {
	buffers *collections.Slots[*Buffer]
	bytes   int
}

var _ memory.Allocator = (*Device)(nil)

// NewDevice returns a device for the current GL context.
func NewDevice() *Device {
	return &Device{buffers: collections.NewSlots[*Buffer](collections.WithReferences())}
}

// NewBuffer allocates a buffer object with size bytes of uninitialized
// storage.
func (d *Device) NewBuffer(size int) (memory.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("gpu: invalid buffer size %d", size)
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, vbo)
	gl.BufferData(gl.COPY_WRITE_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	if err := glError("allocating buffer"); err != nil {
		gl.DeleteBuffers(1, &vbo)
		return nil, err
	}

	b := &Buffer{id: vbo, size: size, device: d}
	b.handle = d.buffers.AllocValue(b)
	d.bytes += size
	return b, nil
}

// Live returns the number of unreleased buffers and their total size.
func (d *Device) Live() (buffers, bytes int) {
	return d.buffers.Len(), d.bytes
}

// Buffer is a fixed-size GL buffer object.
type Buffer struct {
	id     uint32
	size   int
	device *Device
	handle int
}

var _ memory.Buffer = (*Buffer)(nil)

// ID returns the GL buffer name, for binding.
func (b *Buffer) ID() uint32 { return b.id }

// Size implements memory.Buffer.
func (b *Buffer) Size() int { return b.size }

func (b *Buffer) check(offset, size int) error {
	if b.id == 0 {
		return errors.New("gpu: use of released buffer")
	}
	if offset < 0 || size < 0 || offset+size > b.size {
		return fmt.Errorf("%w: [%d, %d) in %d-byte buffer", memory.ErrBufferRange, offset, offset+size, b.size)
	}
	return nil
}

// Write implements memory.Buffer.
func (b *Buffer) Write(offset int, data []byte) error {
	if err := b.check(offset, len(data)); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil // gl.Ptr panics on empty slices
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	return glError("writing buffer")
}

// Read implements memory.Buffer. It stalls until prior commands complete.
func (b *Buffer) Read(offset int, dst []byte) error {
	if err := b.check(offset, len(dst)); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	gl.BindBuffer(gl.COPY_READ_BUFFER, b.id)
	gl.GetBufferSubData(gl.COPY_READ_BUFFER, offset, len(dst), gl.Ptr(dst))
	gl.BindBuffer(gl.COPY_READ_BUFFER, 0)
	return glError("reading buffer")
}

// CopyTo implements memory.Buffer. The copy is queued on the GPU; GL orders it
// before any later command that touches either buffer. Copying between
// overlapping ranges of the same buffer is invalid.
func (b *Buffer) CopyTo(dst memory.Buffer, srcOffset, dstOffset, size int) error {
	target, ok := dst.(*Buffer)
	if !ok {
		return fmt.Errorf("gpu: can't copy into %T", dst)
	}
	if err := b.check(srcOffset, size); err != nil {
		return err
	}
	if err := target.check(dstOffset, size); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	gl.BindBuffer(gl.COPY_READ_BUFFER, b.id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, target.id)
	gl.CopyBufferSubData(gl.COPY_READ_BUFFER, gl.COPY_WRITE_BUFFER, srcOffset, dstOffset, size)
	gl.BindBuffer(gl.COPY_READ_BUFFER, 0)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	return glError("copying buffer")
}

// Release implements memory.Buffer.
func (b *Buffer) Release() error {
	if b.id == 0 {
		return errors.New("gpu: double release")
	}
	gl.DeleteBuffers(1, &b.id)
	b.id = 0
	if b.device != nil {
		b.device.bytes -= b.size
		return b.device.buffers.Free(b.handle)
	}
	return nil
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gpu: %s: GL error 0x%04x", op, code)
	}
	return nil
}
