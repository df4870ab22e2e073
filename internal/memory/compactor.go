package memory

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

var compactionLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("MESHSTORE_DEBUG_COMPACTION") == "1" {
		compactionLogger = log.New(os.Stdout, "[compaction] ", log.Ltime|log.Lmsgprefix)
	}
}

// compactor closes holes left in an arena by unloaded meshes. A buffer can't
// copy onto an overlapping range of itself, so the tail is staged through a
// scratch buffer that's kept around and grown to the largest tail seen.
type compactor struct {
	alloc   Allocator
	scratch Buffer

	events         int
	bytesRelocated int64
	lastTimeUs     float64
}

func newCompactor(alloc Allocator) *compactor {
	return &compactor{alloc: alloc}
}

// close moves [start+size, mark) down to start. mark is the arena's
// high-water mark before the hole was made.
func (c *compactor) close(buf Buffer, start, size, mark int) error {
	tail := mark - (start + size)
	if size == 0 || tail <= 0 {
		compactionLogger.Printf("nothing to move (hole %dB @%d, %dB tail)", size, start, max(tail, 0))
		return nil
	}

	began := time.Now()
	scratch, err := c.scratchFor(tail)
	if err != nil {
		return err
	}
	if err := buf.CopyTo(scratch, start+size, 0, tail); err != nil {
		return fmt.Errorf("staging %dB tail: %w", tail, err)
	}
	if err := scratch.CopyTo(buf, 0, start, tail); err != nil {
		return fmt.Errorf("restoring %dB tail: %w", tail, err)
	}

	c.events++
	c.bytesRelocated += int64(tail)
	c.lastTimeUs = float64(time.Since(began).Nanoseconds()) / 1000.0

	compactionLogger.Printf("moved %sB from @%d to @%d (%.2fμs)",
		formatNumber(int64(tail)), start+size, start, c.lastTimeUs)
	return nil
}

func (c *compactor) scratchFor(size int) (Buffer, error) {
	if c.scratch != nil && c.scratch.Size() >= size {
		return c.scratch, nil
	}

	capacity := 1
	if c.scratch != nil {
		capacity = c.scratch.Size()
		if err := c.scratch.Release(); err != nil {
			return nil, fmt.Errorf("releasing scratch buffer: %w", err)
		}
		c.scratch = nil
	}
	for capacity < size {
		capacity *= 2
	}

	scratch, err := c.alloc.NewBuffer(capacity)
	if err != nil {
		return nil, fmt.Errorf("allocating %dB scratch buffer: %w", capacity, err)
	}
	compactionLogger.Printf("grew scratch buffer to %sB", formatNumber(int64(capacity)))
	c.scratch = scratch
	return scratch, nil
}

func (c *compactor) release() error {
	if c.scratch == nil {
		return nil
	}
	err := c.scratch.Release()
	c.scratch = nil
	return err
}
