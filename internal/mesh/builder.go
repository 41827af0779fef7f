package mesh

import "procworld/internal/mathutil"

// White is the default paint colour.
var White = mathutil.Vec3{1, 1, 1}

// Builder accumulates vertices and indices. Positions, Colors and Normals
// are parallel: index i of each describes the same vertex.
type Builder struct {
	Positions []mathutil.Vec3
	Colors    []mathutil.Vec3
	Normals   []mathutil.Vec3
	Indices   []uint32

	// Color paints vertices emitted by Triangle and Quad.
	Color mathutil.Vec3
}

func NewBuilder() *Builder {
	return &Builder{Color: White}
}

// Clear empties every sequence but keeps the capacity and paint colour.
func (b *Builder) Clear() {
	b.Positions = b.Positions[:0]
	b.Colors = b.Colors[:0]
	b.Normals = b.Normals[:0]
	b.Indices = b.Indices[:0]
}

// AddVertex appends one vertex and returns its index.
func (b *Builder) AddVertex(pos, color, normal mathutil.Vec3) uint32 {
	idx := uint32(len(b.Positions))
	b.Positions = append(b.Positions, pos)
	b.Colors = append(b.Colors, color)
	b.Normals = append(b.Normals, normal)
	return idx
}

func (b *Builder) AddTriangleIndices(i0, i1, i2 uint32) {
	b.Indices = append(b.Indices, i0, i1, i2)
}

func (b *Builder) AddLine(i0, i1 uint32) {
	b.Indices = append(b.Indices, i0, i1)
}

// Triangle appends three fresh vertices with the flat face normal
// normalize(cross(v1-v0, v2-v0)). Degenerate faces get +Y.
func (b *Builder) Triangle(v0, v1, v2 mathutil.Vec3) {
	normal := v1.Sub(v0).Cross(v2.Sub(v0)).NormalizeOr(mathutil.UnitY)
	i := b.AddVertex(v0, b.Color, normal)
	b.AddVertex(v1, b.Color, normal)
	b.AddVertex(v2, b.Color, normal)
	b.AddTriangleIndices(i, i+1, i+2)
}

// Quad covers the parallelogram spanned by width and length from start.
func (b *Builder) Quad(start, width, length mathutil.Vec3) {
	b.Triangle(start, start.Add(width).Add(length), start.Add(width))
	b.Triangle(start, start.Add(length), start.Add(width).Add(length))
}

// Build freezes copies of the current contents. The builder stays usable.
func (b *Builder) Build(topology Topology, shader string) *Mesh {
	return &Mesh{
		positions: append([]mathutil.Vec3(nil), b.Positions...),
		colors:    append([]mathutil.Vec3(nil), b.Colors...),
		normals:   append([]mathutil.Vec3(nil), b.Normals...),
		indices:   append([]uint32(nil), b.Indices...),
		topology:  topology,
		shader:    shader,
	}
}
