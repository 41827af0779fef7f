package main

import (
	"flag"
	"fmt"
	"os"

	"procworld/internal/config"
	"procworld/internal/mesh"
	"procworld/internal/scene"
)

func main() {
	configFile := flag.String("config", "", "Path to scene config JSON file")
	flag.Parse()

	cfg, presets, err := config.LoadScene(*configFile, config.Flags{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if names := presets.Names(); len(names) > 0 {
		fmt.Printf("Presets: %v\n", names)
	}

	sc, err := scene.FromConfig(cfg.Objects, presets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Objects: %d\n", len(sc.Objects))
	for i, o := range sc.Objects {
		m := o.Mesh
		lo, hi := m.Bounds()
		size := hi.Sub(lo)
		fmt.Printf("  [%d] %s (%s, %s)\n", i, o.Name, cfg.Objects[i].Generator, o.Kind)
		fmt.Printf("    %s: verts=%d, prims=%d, shader=%q\n", m.Topology(), m.VertexCount(), m.PrimitiveCount(), o.ShaderName())
		fmt.Printf("    BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
		fmt.Printf("    Size: %.2f x %.2f x %.2f\n", size[0], size[1], size[2])
		if m.Topology() == mesh.Triangles {
			fmt.Printf("    Surface area: %.2f\n", surfaceArea(m))
		}
	}

	if lo, hi, ok := sc.Bounds(); ok {
		fmt.Printf("Scene BBox: X[%.1f, %.1f] Y[%.1f, %.1f] Z[%.1f, %.1f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	}
}

func surfaceArea(m *mesh.Mesh) float64 {
	pos, idx := m.Positions(), m.Indices()
	var area float64
	for i := 0; i+2 < len(idx); i += 3 {
		v0, v1, v2 := pos[idx[i]], pos[idx[i+1]], pos[idx[i+2]]
		area += 0.5 * v1.Sub(v0).Cross(v2.Sub(v0)).Len()
	}
	return area
}
