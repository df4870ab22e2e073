package meshfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the outer framing of an encoded file.
type Compression int

const (
	None Compression = iota
	Zstd
	LZ4
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Extension returns the file-name suffix conventionally used for c.
func (c Compression) Extension() string {
	switch c {
	case Zstd:
		return ".rvtx.zst"
	case LZ4:
		return ".rvtx.lz4"
	default:
		return ".rvtx"
	}
}

// ParseCompression maps "none", "zstd" or "lz4" to a Compression.
func ParseCompression(s string) (Compression, error) {
	for _, c := range []Compression{None, Zstd, LZ4} {
		if c.String() == s {
			return c, nil
		}
	}
	return None, fmt.Errorf("unknown compression %q (want none, zstd or lz4)", s)
}

var (
	zstdFrameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4FrameMagic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// detect sniffs the framing from the first bytes of the input.
func detect(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, zstdFrameMagic):
		return Zstd
	case bytes.HasPrefix(head, lz4FrameMagic):
		return LZ4
	default:
		return None
	}
}

func readAllDecompressed(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch detect(head) {
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("meshfile: zstd: %w", err)
		}
		defer dec.Close()
		data, err := io.ReadAll(dec)
		if err != nil {
			return nil, fmt.Errorf("meshfile: zstd: %w", err)
		}
		return data, nil
	case LZ4:
		data, err := io.ReadAll(lz4.NewReader(br))
		if err != nil {
			return nil, fmt.Errorf("meshfile: lz4: %w", err)
		}
		return data, nil
	default:
		return io.ReadAll(br)
	}
}

func writeCompressed(w io.Writer, data []byte, c Compression) error {
	var wc io.WriteCloser
	switch c {
	case None:
		_, err := w.Write(data)
		return err
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("meshfile: zstd: %w", err)
		}
		wc = enc
	case LZ4:
		wc = lz4.NewWriter(w)
	default:
		return fmt.Errorf("meshfile: unknown compression %d", int(c))
	}

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return fmt.Errorf("meshfile: %s: %w", c, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("meshfile: %s: %w", c, err)
	}
	return nil
}
