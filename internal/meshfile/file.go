package meshfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadFile decodes the RVTX file at path.
func ReadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteFile encodes m to path, replacing any existing file.
func WriteFile(path string, m *Mesh, c Compression) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, m, c)
}

// Name derives a mesh name from a file path relative to root: slash
// separated, with the mesh extensions (".rvtx", ".rvtx.zst", ...) stripped.
func Name(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	for _, c := range []Compression{Zstd, LZ4, None} {
		if trimmed, ok := strings.CutSuffix(rel, c.Extension()); ok {
			return trimmed, nil
		}
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel)), nil
}
