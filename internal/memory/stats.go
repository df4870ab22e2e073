package memory

import (
	"fmt"
	"strings"
)

// Stats summarizes arena usage and compaction work.
type Stats struct {
	Meshes       int
	Vertices     int64
	Indices      int64
	VertexBytes  int64
	IndexBytes   int64
	VertexCap    int64
	IndexCap     int64
	ScratchBytes int64
	Loads        int
	Unloads      int

	CompactionEvents     int
	BytesRelocated       int64
	LastCompactionTimeUs float64
}

// VertexUtilization is the used fraction of the vertex arena.
func (s Stats) VertexUtilization() float64 { return ratio(s.VertexBytes, s.VertexCap) }

// IndexUtilization is the used fraction of the index arena.
func (s Stats) IndexUtilization() float64 { return ratio(s.IndexBytes, s.IndexCap) }

func ratio(n, d int64) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Stats returns current arena statistics.
func (s *MeshStore) Stats() Stats {
	stats := s.stats
	stats.Meshes = s.meshes.Len()
	stats.Vertices = int64(s.vertexCount)
	stats.Indices = int64(s.indexCount)
	stats.VertexBytes = int64(s.vertexBytes)
	stats.IndexBytes = int64(s.indexBytes)
	stats.VertexCap = int64(s.vertices.Size())
	stats.IndexCap = int64(s.indices.Size())
	if s.compactor.scratch != nil {
		stats.ScratchBytes = int64(s.compactor.scratch.Size())
	}
	stats.CompactionEvents = s.compactor.events
	stats.BytesRelocated = s.compactor.bytesRelocated
	stats.LastCompactionTimeUs = s.compactor.lastTimeUs
	return stats
}

// PrintStats outputs arena statistics with visual bars.
func (s *MeshStore) PrintStats() {
	stats := s.Stats()

	memoryLogger.Println("===== Mesh Store Stats =====")
	memoryLogger.Printf("%d meshes (%d loads, %d unloads), %s vertices, %s triangles",
		stats.Meshes, stats.Loads, stats.Unloads,
		formatNumber(stats.Vertices), formatNumber(stats.Indices/3))
	memoryLogger.Printf("%d compactions (%sB relocated, %.2fμs last), %sB scratch",
		stats.CompactionEvents, formatNumber(stats.BytesRelocated),
		stats.LastCompactionTimeUs, formatNumber(stats.ScratchBytes))
	memoryLogger.Printf("  [vertices] %s %.1f%% (%sB/%sB)",
		makeUtilizationBar(stats.VertexUtilization(), 12), stats.VertexUtilization()*100,
		formatNumber(stats.VertexBytes), formatNumber(stats.VertexCap))
	memoryLogger.Printf("  [ indices] %s %.1f%% (%sB/%sB)",
		makeUtilizationBar(stats.IndexUtilization(), 12), stats.IndexUtilization()*100,
		formatNumber(stats.IndexBytes), formatNumber(stats.IndexCap))

	for m := range s.Meshes() {
		memoryLogger.Printf("      %s", m)
	}
	memoryLogger.Println("============================")
}

// makeUtilizationBar creates a visual bar for utilization percentage.
func makeUtilizationBar(utilization float64, width int) string {
	if utilization < 0 {
		utilization = 0
	}
	if utilization > 1 {
		utilization = 1
	}

	filled := int(utilization * float64(width))
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// formatNumber formats large numbers with K/M suffixes for readability.
func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000.0)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000.0)
}
