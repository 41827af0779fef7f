// Package geosphere builds a noise-displaced planet by subdividing an
// icosahedron and projecting every leaf triangle onto a sphere.
package geosphere

import (
	"procworld/internal/mathutil"
	"procworld/internal/mesh"
	"procworld/internal/noise"
)

// Shader is the program name tagged on planet meshes.
const Shader = "default"

// DefaultOctaves is the number of noise layers sampled per corner.
const DefaultOctaves = 8

// Dirt is the base surface colour, darkened by low terrain.
var Dirt = mathutil.Vec3{0.35, 0.3, 0.3}

// Params configures one planet. Zero Octaves and Persistence select the
// package defaults.
type Params struct {
	LevelOfDetail   int     `json:"level_of_detail" yaml:"level_of_detail"`
	Radius          float64 `json:"radius" yaml:"radius"`
	HeightVariation float64 `json:"height_variation" yaml:"height_variation"`
	Octaves         int     `json:"octaves,omitempty" yaml:"octaves,omitempty"`
	Persistence     float64 `json:"persistence,omitempty" yaml:"persistence,omitempty"`

	// DisplacedNormals recomputes face normals from the displaced corners
	// instead of the unit-sphere ones.
	DisplacedNormals bool `json:"displaced_normals,omitempty" yaml:"displaced_normals,omitempty"`
}

// DefaultParams matches the demo planet: level 5, radius 3, variation 1.
func DefaultParams() Params {
	return Params{
		LevelOfDetail:   5,
		Radius:          3,
		HeightVariation: 1,
		Octaves:         DefaultOctaves,
		Persistence:     noise.DefaultPersistence,
	}
}

func (p Params) octaves() int {
	if p.Octaves <= 0 {
		return DefaultOctaves
	}
	return p.Octaves
}

func (p Params) persistence() float64 {
	if p.Persistence <= 0 {
		return noise.DefaultPersistence
	}
	return p.Persistence
}

// Height samples the terrain offset in [-1, 1] along the unit direction dir.
func (p Params) Height(dir mathutil.Vec3) float64 {
	return noise.Octaves(dir, p.octaves(), p.persistence())
}

// SurfacePoint returns the displaced surface position above dir.
func (p Params) SurfacePoint(dir mathutil.Vec3) mathutil.Vec3 {
	n := dir.NormalizeOr(mathutil.UnitY)
	return n.Scale(p.Radius + p.Height(n)*p.HeightVariation)
}

// VertexCount returns the number of vertices Build emits for level lod.
func VertexCount(lod int) int {
	if lod < 0 {
		lod = 0
	}
	return 20 * (1 << (2 * lod)) * 3
}

// icosahedron is the unit-radius vertex table; v0 and v11 are the poles.
var icosahedron = [12]mathutil.Vec3{
	{0, -1, 0},
	{-0.85065118825597217, -0.44721279658979876, -0.27639332568829129},
	{0, -0.44721279658979876, -0.89442759045454947},
	{0.85065118825597217, -0.44721279658979876, -0.27639332568829129},
	{0.52573134691267619, -0.44721279658979876, 0.72360712091556602},
	{-0.52573134691267619, -0.44721279658979876, 0.72360712091556602},
	{-0.52573134691267619, 0.44721279658979876, -0.72360712091556602},
	{0.52573134691267619, 0.44721279658979876, -0.72360712091556602},
	{0.85065118825597217, 0.44721279658979876, 0.27639332568829129},
	{0, 0.44721279658979876, 0.89442759045454947},
	{-0.85065118825597217, 0.44721279658979876, 0.27639332568829129},
	{0, 1, 0},
}

type triangle struct {
	v0, v1, v2 mathutil.Vec3
}

// faces returns the 20 icosahedron faces, four per pole wedge.
func faces() []triangle {
	v := icosahedron
	out := make([]triangle, 0, 20)
	for i := 0; i < 5; i++ {
		a := i + 1
		b := (i+1)%5 + 1
		out = append(out,
			triangle{v[0], v[a], v[b]},
			triangle{v[a], v[i+6], v[b]},
			triangle{v[b], v[i+6], v[b+5]},
			triangle{v[11], v[b+5], v[i+6]},
		)
	}
	return out
}

// subdivide splits t into 4^level triangles through edge midpoints.
func subdivide(t triangle, level int) []triangle {
	tris := []triangle{t}
	for i := 0; i < level; i++ {
		next := make([]triangle, 0, len(tris)*4)
		for _, d := range tris {
			m0 := d.v0.Add(d.v1).Scale(0.5)
			m1 := d.v1.Add(d.v2).Scale(0.5)
			m2 := d.v2.Add(d.v0).Scale(0.5)
			next = append(next,
				triangle{m2, d.v0, m0},
				triangle{m0, d.v1, m1},
				triangle{m1, d.v2, m2},
				triangle{m0, m1, m2},
			)
		}
		tris = next
	}
	return tris
}

// emit projects one leaf triangle onto the displaced sphere.
func (p Params) emit(b *mesh.Builder, t triangle) {
	corners := [3]mathutil.Vec3{
		t.v0.NormalizeOr(mathutil.UnitY),
		t.v1.NormalizeOr(mathutil.UnitY),
		t.v2.NormalizeOr(mathutil.UnitY),
	}
	var pos, col [3]mathutil.Vec3
	for i, c := range corners {
		h := p.Height(c)
		pos[i] = c.Scale(p.Radius + h*p.HeightVariation)
		col[i] = Dirt.Scale(h*0.6 + 0.4)
	}

	src := corners
	if p.DisplacedNormals {
		src = pos
	}
	normal := src[1].Sub(src[0]).Cross(src[2].Sub(src[0])).NormalizeOr(mathutil.UnitY)

	i0 := b.AddVertex(pos[0], col[0], normal)
	b.AddVertex(pos[1], col[1], normal)
	b.AddVertex(pos[2], col[2], normal)
	b.AddTriangleIndices(i0, i0+1, i0+2)
}

// Build generates the planet mesh centred on the local origin.
func Build(p Params) *mesh.Mesh {
	lod := p.LevelOfDetail
	if lod < 0 {
		lod = 0
	}
	b := mesh.NewBuilder()
	n := VertexCount(lod)
	b.Positions = make([]mathutil.Vec3, 0, n)
	b.Colors = make([]mathutil.Vec3, 0, n)
	b.Normals = make([]mathutil.Vec3, 0, n)
	b.Indices = make([]uint32, 0, n)

	for _, f := range faces() {
		for _, t := range subdivide(f, lod) {
			p.emit(b, t)
		}
	}
	return b.Build(mesh.Triangles, Shader)
}

// Create builds the planet and places it at origin.
func Create(origin mathutil.Vec3, p Params) mesh.Placed {
	return mesh.Placed{Mesh: Build(p), Origin: origin}
}
