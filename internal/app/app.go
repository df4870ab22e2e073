// Package app holds the viewer's state: the mesh store, the generator feeding
// it, and the view onto the canvas. It's independent of the window so it can
// run against host buffers.
package app

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/irfansharif/meshstore/internal/memory"
	"github.com/irfansharif/meshstore/internal/meshgen"
)

// App encapsulates the main application state and logic.
type App struct {
	Store     *memory.MeshStore
	Generator *meshgen.Generator
	View      *View
}

// NewApp creates a new application instance.
func NewApp(store *memory.MeshStore, generator *meshgen.Generator, view *View) *App {
	return &App{
		Store:     store,
		Generator: generator,
		View:      view,
	}
}

// Spawn generates and loads count meshes, returning the names loaded. It stops
// early, with an error, once an arena is full.
func (a *App) Spawn(count int) ([]string, error) {
	var names []string
	for i := 0; i < count; i++ {
		name, m, err := a.Generator.Next()
		if err != nil {
			return names, fmt.Errorf("generating mesh: %w", err)
		}
		if _, err := a.Store.LoadMesh(m, name); err != nil {
			if errors.Is(err, memory.ErrBufferRange) {
				log.Printf("WARNING: arena full after %d/%d meshes", i, count)
			}
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// UnloadOldest unloads up to count meshes, earliest loaded first, and returns
// how many were unloaded.
func (a *App) UnloadOldest(count int) (int, error) {
	return a.unload(a.names(), count)
}

// UnloadNewest unloads up to count meshes, latest loaded first.
func (a *App) UnloadNewest(count int) (int, error) {
	names := a.names()
	slices.Reverse(names)
	return a.unload(names, count)
}

// Clear unloads every mesh.
func (a *App) Clear() error {
	_, err := a.unload(a.names(), a.Store.Len())
	return err
}

func (a *App) unload(names []string, count int) (int, error) {
	count = min(count, len(names))
	for i, name := range names[:count] {
		if err := a.Store.Unload(name); err != nil {
			return i, err
		}
	}
	return count, nil
}

// names snapshots mesh names in arena order, so the store can be mutated
// while walking them.
func (a *App) names() []string {
	names := make([]string, 0, a.Store.Len())
	for m := range a.Store.Meshes() {
		names = append(names, m.Name)
	}
	return names
}
