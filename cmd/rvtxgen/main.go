// Command rvtxgen writes procedurally generated meshes as RVTX files, for
// loading with meshview -dir.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/irfansharif/meshstore/internal/geom"
	"github.com/irfansharif/meshstore/internal/meshfile"
	"github.com/irfansharif/meshstore/internal/meshgen"
)

var (
	outFlag         = flag.String("out", "meshes", "output directory")
	countFlag       = flag.Int("n", 64, "number of meshes to generate")
	seedFlag        = flag.Int64("seed", time.Now().Unix(), "generator seed")
	compressionFlag = flag.String("compression", "none", "file compression: none, zstd or lz4")
	widthFlag       = flag.Float64("width", 1280, "canvas width meshes are placed within")
	heightFlag      = flag.Float64("height", 960, "canvas height meshes are placed within")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lshortfile)

	compression, err := meshfile.ParseCompression(*compressionFlag)
	if err != nil {
		log.Fatalf("Invalid -compression: %v", err)
	}
	if err := os.MkdirAll(*outFlag, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outFlag, err)
	}

	generator := meshgen.NewGenerator(*seedFlag, geom.MakeBox(0, 0, *widthFlag, *heightFlag))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < *countFlag; i++ {
		// Generation stays sequential so a seed always yields the same files.
		name, m, err := generator.Next()
		if err != nil {
			log.Fatalf("Failed to generate mesh %d: %v", i, err)
		}
		path := filepath.Join(*outFlag, name+compression.Extension())
		g.Go(func() error {
			return meshfile.WriteFile(path, m, compression)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Failed to write meshes: %v", err)
	}
	log.Printf("wrote %d %s meshes to %s (seed %d)", *countFlag, compression, *outFlag, *seedFlag)
}
