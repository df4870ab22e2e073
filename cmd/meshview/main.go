// Command meshview opens a window onto a mesh store and lets meshes be loaded
// and unloaded interactively, exercising arena compaction under a live
// renderer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/meshstore/internal/app"
	"github.com/irfansharif/meshstore/internal/gpu"
	"github.com/irfansharif/meshstore/internal/memory"
	"github.com/irfansharif/meshstore/internal/meshgen"
)

const logFlags = log.Ltime | log.Lshortfile

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

var (
	dirFlag       = flag.String("dir", "", "directory of RVTX files to load at startup")
	recursiveFlag = flag.Bool("recursive", false, "also load files from subdirectories of -dir")
	vertexCapFlag = flag.Int("vertex-capacity", memory.DefaultConfig().VertexCapacity, "vertex arena size in bytes")
	indexCapFlag  = flag.Int("index-capacity", memory.DefaultConfig().IndexCapacity, "index arena size in bytes")
	spawnFlag     = flag.Int("spawn", 16, "number of generated meshes to load at startup")
)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("MESHSTORE_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

func makeTitle(fps float64, avgFrameTime float64, renderStats gpu.Stats, memStats memory.Stats) string {
	return fmt.Sprintf("meshstore (%.1f FPS, %.2fms/frame, %d meshes, %d triangles, %d draw calls/frame, %.2fµs/draw, %.1f%% vertex arena, %.1f%% index arena)",
		fps,
		avgFrameTime,
		memStats.Meshes,
		memStats.Indices/3,
		renderStats.DrawCalls,
		renderStats.LastDrawTimeUs,
		memStats.VertexUtilization()*100,
		memStats.IndexUtilization()*100,
	)
}

func main() {
	flag.Parse()

	if err := glfw.Init(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(
		1280, // width
		960,  // height
		"meshstore",
		nil, nil,
	)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}

	device := gpu.NewDevice()
	store, err := memory.NewMeshStore(device, memory.Config{
		VertexCapacity: *vertexCapFlag,
		IndexCapacity:  *indexCapFlag,
	})
	if err != nil {
		log.Fatalf("Failed to create mesh store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Failed to release arenas: %v", err)
		}
	}()

	renderer, err := gpu.NewRenderer(store)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Delete()

	cw, ch := window.GetFramebufferSize()
	view := app.NewView(cw, ch)
	application := app.NewApp(store, meshgen.NewGenerator(seed(), view.Canvas()), view)

	if *dirFlag != "" {
		ids, err := store.LoadFiles(context.Background(), *dirFlag, *recursiveFlag)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", *dirFlag, err)
		}
		log.Printf("loaded %d meshes from %s", len(ids), *dirFlag)
	}
	if _, err := application.Spawn(*spawnFlag); err != nil {
		log.Printf("WARNING: initial spawn: %v", err)
	}

	eventHandlers := NewEventHandlers(window, application, renderer)
	eventHandlers.updateRendererView()

	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate := time.Now()

	// Main loop.
	for !window.ShouldClose() {
		frameStart := time.Now()

		eventHandlers.handleContinuousKeys()

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(1, 1, 1, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		renderer.Draw()
		window.SwapBuffers()
		glfw.PollEvents()

		frameTime := time.Since(frameStart).Seconds() * 1000.0 // ms
		frameTimeSum += frameTime

		frameCount++
		now := time.Now()
		if now.Sub(lastFPSUpdate) >= time.Second {
			fps := float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			avgFrameTime := frameTimeSum / float64(frameCount)
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			memStats := store.Stats()
			renderStats := renderer.Stats()
			window.SetTitle(makeTitle(fps, avgFrameTime, renderStats, memStats))

			buffers, bytes := device.Live()
			runtimeLogger.Println("=== Performance statistics ===")
			runtimeLogger.Printf("Frame rate:     %.1f FPS (%.2f ms/frame, %d draw calls/frame)", fps, avgFrameTime, renderStats.DrawCalls)
			runtimeLogger.Printf("Meshes:         %d meshes, %d triangles, %d vertices (%d undrawable)", memStats.Meshes, memStats.Indices/3, memStats.Vertices, renderStats.Skipped)
			runtimeLogger.Printf("GPU memory:     %.2f MiB in %d buffers", float64(bytes)/(1024.0*1024.0), buffers)
			runtimeLogger.Printf("Render time:    %.2f µs (last draw)", renderStats.LastDrawTimeUs)
			runtimeLogger.Printf("Compaction:     %d events (%d bytes relocated), %.2f μs (last)", memStats.CompactionEvents, memStats.BytesRelocated, memStats.LastCompactionTimeUs)
			runtimeLogger.Println("==============================")
		}

		if frameCount%100 == 0 { // Periodically validate arena integrity.
			if err := store.ValidateIntegrity(); err != nil {
				log.Fatalf("Arena integrity invalid: %v", err)
			}
		}
	}
}

func seed() int64 {
	seedStr := os.Getenv("MESHSTORE_SEED")
	now := time.Now().Unix()
	if seedStr == "" {
		return now
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		log.Fatalf("Invalid MESHSTORE_SEED value '%s': %v", seedStr, err)
	}
	return seed
}
