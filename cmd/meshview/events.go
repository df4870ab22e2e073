package main

import (
	"log"
	"strconv"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/meshstore/internal/app"
	"github.com/irfansharif/meshstore/internal/geom"
	"github.com/irfansharif/meshstore/internal/gpu"
)

const repeatInterval = 125 * time.Millisecond // time between successive loads/unloads when held down

// EventHandlers manages all event handling for the application.
type EventHandlers struct {
	window      *glfw.Window
	application *app.App
	renderer    *gpu.Renderer

	// Space loads meshes and D unloads them (shift+D newest first). If held
	// down, we do so continuously.
	spaceHeld, unloadHeld, newestFirst bool
	lastRepeat                         time.Time

	// Drag/pan state (per-gesture), captured on mouse press.
	isDragging                       bool
	dragStartMouseX, dragStartMouseY float64
	dragStartPanX, dragStartPanY     float64

	// Digits typed before an action key set how many meshes it affects.
	inputBuffer string
}

// NewEventHandlers creates a new event handlers manager.
func NewEventHandlers(window *glfw.Window, application *app.App, renderer *gpu.Renderer) *EventHandlers {
	eh := &EventHandlers{
		window:      window,
		application: application,
		renderer:    renderer,
		lastRepeat:  time.Now(),
	}
	eh.SetupCallbacks()
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks() {
	eh.window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleKey(key, action, mods)
	})
	eh.window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleMouseButton(button, action) // for panning
	})
	eh.window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.updatePanning(xpos, ypos)
	})
	eh.window.SetScrollCallback(func(wnd *glfw.Window, _, zoomDelta float64) {
		eh.performZoom(zoomDelta)
	})
	eh.window.SetFramebufferSizeCallback(func(wnd *glfw.Window, newW, newH int) {
		eh.application.View.SetViewport(newW, newH)
		eh.updateRendererView()
	})
}

// updateRendererView updates the renderer with the current view state and
// framebuffer size.
func (eh *EventHandlers) updateRendererView() {
	view := eh.application.View
	cw, ch := eh.window.GetFramebufferSize()
	eh.renderer.SetView(cw, ch, view.Zoom, view.PanX, view.PanY)
}

// handleKey handles keyboard input events.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Press {
		if key >= glfw.Key0 && key <= glfw.Key9 {
			eh.inputBuffer += string(rune('0' + int(key-glfw.Key0)))
			return
		}
		if key == glfw.KeyEscape {
			eh.inputBuffer = ""
			return
		}
	}

	switch key {
	case glfw.KeySpace:
		eh.handleRepeatKey(action, &eh.spaceHeld, eh.spawn)
	case glfw.KeyD:
		eh.newestFirst = (mods & glfw.ModShift) != 0
		eh.handleRepeatKey(action, &eh.unloadHeld, eh.unload)
	case glfw.KeyS:
		if action == glfw.Press {
			eh.application.Store.PrintStats()
		}
	case glfw.KeyC:
		if action == glfw.Press {
			if err := eh.application.Clear(); err != nil {
				log.Fatalf("Failed to clear store: %v", err)
			}
		}
	case glfw.KeyR:
		if action == glfw.Press {
			eh.application.View.Reset()
			eh.updateRendererView()
		}
	case glfw.KeyEqual:
		if action == glfw.Press && (mods&glfw.ModSuper) != 0 {
			eh.performZoom(1) // zoom in
		}
	case glfw.KeyMinus:
		if action == glfw.Press && (mods&glfw.ModSuper) != 0 {
			eh.performZoom(-1) // zoom out
		}
	}
}

// handleRepeatKey runs fn once on press and tracks whether the key is held.
// Repeat events are ignored; continuous actions are timed by
// handleContinuousKeys.
func (eh *EventHandlers) handleRepeatKey(action glfw.Action, held *bool, fn func(count int)) {
	switch action {
	case glfw.Press:
		*held = true
		fn(eh.parseCount())
		eh.lastRepeat = time.Now()
	case glfw.Release:
		*held = false
	}
}

// handleContinuousKeys repeats loads or unloads while their key is held.
func (eh *EventHandlers) handleContinuousKeys() {
	if !eh.spaceHeld && !eh.unloadHeld {
		return // nothing to do
	}

	now := time.Now()
	if now.Sub(eh.lastRepeat) < repeatInterval {
		return // not enough time has passed since the last repeat
	}
	if eh.spaceHeld {
		eh.spawn(1)
	}
	if eh.unloadHeld {
		eh.unload(1)
	}
	eh.lastRepeat = now
}

func (eh *EventHandlers) spawn(count int) {
	names, err := eh.application.Spawn(count)
	if err != nil {
		log.Printf("Failed to load mesh: %v", err)
		eh.spaceHeld = false
	}
	for _, name := range names {
		info, _ := eh.application.Store.Info(name)
		runtimeLogger.Printf("loaded %s", info)
	}
}

func (eh *EventHandlers) unload(count int) {
	var err error
	if eh.newestFirst {
		_, err = eh.application.UnloadNewest(count)
	} else {
		_, err = eh.application.UnloadOldest(count)
	}
	if err != nil {
		log.Fatalf("Failed to unload meshes: %v", err)
	}
}

// handleMouseButton handles mouse button events for panning.
func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return // nothing to do
	}

	switch action {
	case glfw.Press:
		eh.isDragging = true
		eh.dragStartMouseX, eh.dragStartMouseY = eh.window.GetCursorPos()
		view := eh.application.View
		eh.dragStartPanX, eh.dragStartPanY = view.PanX, view.PanY
	case glfw.Release:
		eh.isDragging = false
	}
}

// updatePanning updates pan position based on mouse movement.
func (eh *EventHandlers) updatePanning(xpos, ypos float64) {
	if !eh.isDragging {
		return
	}

	scaleX, scaleY := eh.window.GetContentScale()
	dx := (xpos - eh.dragStartMouseX) * float64(scaleX)
	dy := (ypos - eh.dragStartMouseY) * float64(scaleY)

	eh.application.View.SetPan(eh.dragStartPanX+dx, eh.dragStartPanY+dy)
	eh.updateRendererView() // direct update for maximum smoothness
}

// performZoom handles zoom operations with cursor-centered zooming.
func (eh *EventHandlers) performZoom(zoomDelta float64) {
	mouseX, mouseY := eh.window.GetCursorPos()
	scaleX, scaleY := eh.window.GetContentScale()
	cursor := geom.MakePoint(mouseX*float64(scaleX), mouseY*float64(scaleY))

	eh.application.View.ZoomAt(cursor, 1.0+zoomDelta*0.15)
	eh.updateRendererView()
}

// parseCount consumes the typed digits, defaulting to 1.
func (eh *EventHandlers) parseCount() int {
	input := eh.inputBuffer
	eh.inputBuffer = ""
	if input == "" {
		return 1
	}
	count, err := strconv.Atoi(input)
	if err != nil || count < 1 {
		return 1
	}
	return count
}
