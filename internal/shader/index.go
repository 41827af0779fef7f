package shader

import (
	"os"
	"path/filepath"
	"strings"
)

// Source file names expected inside a shader directory.
const (
	VertexFile   = "vertex.glsl"
	FragmentFile = "fragment.glsl"
	GeometryFile = "geometry.glsl"
	MaterialFile = "material.yaml"
)

// Paths lists the files of one program. Geometry and Material are optional.
type Paths struct {
	Vertex   string
	Fragment string
	Geometry string
	Material string
}

// Index maps shader names to their source files.
type Index struct {
	entries map[string]Paths
}

// BuildIndex scans dir for <dir>/<name>/{vertex,fragment}.glsl pairs.
// Directories missing either stage are skipped. A missing dir yields an
// empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]Paths)}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		base := filepath.Join(dir, e.Name())
		p := Paths{
			Vertex:   filepath.Join(base, VertexFile),
			Fragment: filepath.Join(base, FragmentFile),
		}
		if !isFile(p.Vertex) || !isFile(p.Fragment) {
			continue
		}
		if g := filepath.Join(base, GeometryFile); isFile(g) {
			p.Geometry = g
		}
		if m := filepath.Join(base, MaterialFile); isFile(m) {
			p.Material = m
		}
		idx.entries[strings.ToLower(e.Name())] = p
	}
	return idx
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Lookup returns the paths for name (case-insensitive).
func (idx *Index) Lookup(name string) (Paths, bool) {
	p, ok := idx.entries[strings.ToLower(name)]
	return p, ok
}

// Len returns the number of indexed programs.
func (idx *Index) Len() int {
	return len(idx.entries)
}
