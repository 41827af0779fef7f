// Package shader resolves the symbolic shader names carried by meshes into
// programs: GLSL sources for the GPU viewer plus material parameters for
// the software renderer.
package shader

import (
	"sort"
	"sync"

	"procworld/internal/mathutil"
)

// Names attached to generated meshes.
const (
	Default     = "default"
	DefaultWood = "default_wood"
)

// Program is a resolved shader.
type Program struct {
	Name string

	// GLSL sources; empty when the program is built in.
	Vertex   string
	Fragment string
	Geometry string

	Material Material
}

// Material holds the parameters the software renderer honours.
type Material struct {
	Tint    mathutil.Vec3 `yaml:"tint" json:"tint"`
	Ambient float64       `yaml:"ambient" json:"ambient"`
	// Unlit skips lighting and writes vertex colours directly.
	Unlit bool `yaml:"unlit" json:"unlit"`
}

// DefaultMaterial leaves vertex colours untouched.
func DefaultMaterial() Material {
	return Material{Tint: mathutil.Vec3{1, 1, 1}}
}

// Resolver resolves a shader name to a program.
type Resolver interface {
	Resolve(name string) *Program
}

// Table is a concurrency-safe shader table. Registered programs win over
// programs found in the directory index; index hits are loaded once.
type Table struct {
	mu       sync.RWMutex
	programs map[string]*entry
	index    *Index
}

type entry struct {
	prog   *Program
	loaded bool // true once a load was attempted (prog may still be nil)
}

// NewTable creates a table backed by index, which may be nil. The built-in
// programs are registered up front.
func NewTable(index *Index) *Table {
	t := &Table{
		programs: make(map[string]*entry),
		index:    index,
	}
	t.Register(&Program{Name: Default, Material: DefaultMaterial()})
	t.Register(&Program{Name: DefaultWood, Material: Material{Tint: mathutil.Vec3{1, 0.96, 0.92}, Ambient: 0.05}})
	return t
}

// Register adds or replaces a program.
func (t *Table) Register(p *Program) {
	t.mu.Lock()
	t.programs[p.Name] = &entry{prog: p, loaded: true}
	t.mu.Unlock()
}

// Resolve returns the program for name, loading it from the index on first
// use. Returns nil if the name is unknown or fails to load.
func (t *Table) Resolve(name string) *Program {
	t.mu.RLock()
	if e, ok := t.programs[name]; ok {
		t.mu.RUnlock()
		return e.prog
	}
	t.mu.RUnlock()

	var prog *Program
	if t.index != nil {
		if paths, ok := t.index.Lookup(name); ok {
			prog, _ = Load(name, paths)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.programs[name]; ok {
		return e.prog
	}
	t.programs[name] = &entry{prog: prog, loaded: true}
	return prog
}

// Names returns the registered and indexed program names, sorted.
func (t *Table) Names() []string {
	seen := map[string]bool{}
	t.mu.RLock()
	for name, e := range t.programs {
		if e.prog != nil {
			seen[name] = true
		}
	}
	t.mu.RUnlock()
	if t.index != nil {
		for name := range t.index.entries {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
