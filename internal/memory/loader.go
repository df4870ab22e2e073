package memory

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/irfansharif/meshstore/internal/meshfile"
)

type decodedFile struct {
	name string
	mesh *meshfile.Mesh
}

// LoadFiles loads every regular file in dir, and in its subdirectories when
// recursive is set. Each mesh is named by its slash-separated path relative to
// dir with the extension stripped. Files are decoded concurrently and then
// loaded one at a time in lexical name order; if any file fails to decode
// nothing is loaded. It returns the ids of the loaded meshes in load order.
func (s *MeshStore) LoadFiles(ctx context.Context, dir string, recursive bool) ([]int, error) {
	paths, err := listFiles(dir, recursive)
	if err != nil {
		return nil, err
	}

	decoded := make([]decodedFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name, err := meshfile.Name(dir, path)
			if err != nil {
				return err
			}
			m, err := meshfile.ReadFile(path)
			if err != nil {
				return err
			}
			decoded[i] = decodedFile{name: name, mesh: m}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(decoded, func(a, b decodedFile) int {
		return strings.Compare(a.name, b.name)
	})

	ids := make([]int, 0, len(decoded))
	for _, f := range decoded {
		id, err := s.LoadMesh(f.mesh, f.name)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	memoryLogger.Printf("loaded %d meshes from %s", len(ids), dir)
	return ids, nil
}

func listFiles(dir string, recursive bool) ([]string, error) {
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		var paths []string
		for _, e := range entries {
			if e.Type().IsRegular() {
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
		return paths, nil
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return paths, nil
}
