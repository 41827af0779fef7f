// Package mesh holds the assembly buffer every generator writes into and the
// frozen mesh handle consumed by the render layers.
package mesh

import (
	"math"

	"procworld/internal/mathutil"
)

// Topology selects how Indices are grouped into primitives.
type Topology int

const (
	Triangles Topology = iota
	Lines
	Points
)

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case Points:
		return "points"
	}
	return "unknown"
}

// Stride returns the number of indices per primitive.
func (t Topology) Stride() int {
	switch t {
	case Lines:
		return 2
	case Points:
		return 1
	}
	return 3
}

// Mesh is an immutable snapshot of a Builder. Accessor slices are shared
// and must not be modified.
type Mesh struct {
	positions []mathutil.Vec3
	colors    []mathutil.Vec3
	normals   []mathutil.Vec3
	indices   []uint32
	topology  Topology
	shader    string
}

func (m *Mesh) Positions() []mathutil.Vec3 { return m.positions }
func (m *Mesh) Colors() []mathutil.Vec3    { return m.colors }
func (m *Mesh) Normals() []mathutil.Vec3   { return m.normals }
func (m *Mesh) Indices() []uint32          { return m.indices }
func (m *Mesh) Topology() Topology         { return m.topology }

// Shader is the symbolic program name, resolved by the render layer.
func (m *Mesh) Shader() string { return m.shader }

func (m *Mesh) VertexCount() int { return len(m.positions) }

// PrimitiveCount returns the number of whole triangles, lines or points.
func (m *Mesh) PrimitiveCount() int {
	return len(m.indices) / m.topology.Stride()
}

// Bounds returns the axis-aligned bounding box of all positions.
// An empty mesh reports zero vectors.
func (m *Mesh) Bounds() (min, max mathutil.Vec3) {
	if len(m.positions) == 0 {
		return
	}
	min = mathutil.Vec3{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	max = mathutil.Vec3{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	for _, p := range m.positions {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return
}

// Flat is a non-indexed expansion of a mesh: one entry per primitive corner.
type Flat struct {
	Positions []mathutil.Vec3
	Colors    []mathutil.Vec3
	Normals   []mathutil.Vec3
}

// Unindexed expands the mesh so that corner k of primitive p sits at
// p*Stride+k. Trailing indices that do not form a whole primitive are
// dropped.
func (m *Mesh) Unindexed() Flat {
	n := m.PrimitiveCount() * m.topology.Stride()
	f := Flat{Positions: make([]mathutil.Vec3, n)}
	if len(m.colors) == len(m.positions) {
		f.Colors = make([]mathutil.Vec3, n)
	}
	if len(m.normals) == len(m.positions) {
		f.Normals = make([]mathutil.Vec3, n)
	}
	for i := 0; i < n; i++ {
		idx := m.indices[i]
		f.Positions[i] = m.positions[idx]
		if f.Colors != nil {
			f.Colors[i] = m.colors[idx]
		}
		if f.Normals != nil {
			f.Normals[i] = m.normals[idx]
		}
	}
	return f
}

// Placed pairs a mesh with the world-space origin it was generated for.
type Placed struct {
	Mesh   *Mesh
	Origin mathutil.Vec3
}
