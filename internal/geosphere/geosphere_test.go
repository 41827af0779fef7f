package geosphere

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procworld/internal/mathutil"
	"procworld/internal/mesh"
)

func TestIcosahedronIsUnit(t *testing.T) {
	for i, v := range icosahedron {
		assert.InDelta(t, 1, v.Len(), 1e-6, "vertex %d", i)
	}
	assert.Len(t, faces(), 20)
}

func TestFacesWindOutward(t *testing.T) {
	for i, f := range faces() {
		n := f.v1.Sub(f.v0).Cross(f.v2.Sub(f.v0))
		c := f.v0.Add(f.v1).Add(f.v2)
		assert.Greater(t, n.Dot(c), 0.0, "face %d", i)
	}
}

func TestLevelZeroIsRawIcosahedron(t *testing.T) {
	m := Build(Params{LevelOfDetail: 0, Radius: 1})
	assert.Equal(t, 60, m.VertexCount())
	assert.Equal(t, 20, m.PrimitiveCount())
	assert.Equal(t, Shader, m.Shader())
	assert.Equal(t, mesh.Triangles, m.Topology())
}

func TestVertexCountPerLevel(t *testing.T) {
	for lod := 0; lod <= 3; lod++ {
		m := Build(Params{LevelOfDetail: lod, Radius: 2, HeightVariation: 0.5})
		assert.Equal(t, VertexCount(lod), m.VertexCount())
		assert.Equal(t, 20*(1<<(2*lod))*3, m.VertexCount())
		assert.Len(t, m.Indices(), m.VertexCount())
	}
	assert.Equal(t, VertexCount(0), Build(Params{LevelOfDetail: -2, Radius: 1}).VertexCount())
}

func TestNoVariationIsExactSphere(t *testing.T) {
	m := Build(Params{LevelOfDetail: 1, Radius: 10, HeightVariation: 0})
	for _, p := range m.Positions() {
		require.InDelta(t, 10, p.Len(), 1e-9)
	}
}

func TestDisplacementWithinBand(t *testing.T) {
	p := Params{LevelOfDetail: 2, Radius: 3, HeightVariation: 1}
	m := Build(p)
	for _, v := range m.Positions() {
		require.GreaterOrEqual(t, v.Len(), 2.0-1e-9)
		require.LessOrEqual(t, v.Len(), 4.0+1e-9)
	}
	for i, n := range m.Normals() {
		require.InDelta(t, 1, n.Len(), 1e-9, "normal %d", i)
	}
}

func TestColorsFollowHeight(t *testing.T) {
	p := Params{LevelOfDetail: 1, Radius: 3, HeightVariation: 1}
	m := Build(p)
	for i, v := range m.Positions() {
		h := p.Height(v.Normalize())
		want := Dirt.Scale(h*0.6 + 0.4)
		for k := 0; k < 3; k++ {
			require.InDelta(t, want[k], m.Colors()[i][k], 1e-9)
		}
	}
}

func TestNormalsArePreDisplacement(t *testing.T) {
	p := Params{LevelOfDetail: 0, Radius: 3, HeightVariation: 1}
	m := Build(p)
	pos := m.Positions()
	for tri := 0; tri < m.PrimitiveCount(); tri++ {
		a, b, c := pos[tri*3].Normalize(), pos[tri*3+1].Normalize(), pos[tri*3+2].Normalize()
		want := b.Sub(a).Cross(c.Sub(a)).Normalize()
		got := m.Normals()[tri*3]
		for k := 0; k < 3; k++ {
			require.InDelta(t, want[k], got[k], 1e-9)
		}
	}

	p.DisplacedNormals = true
	d := Build(p)
	pos = d.Positions()
	want := pos[1].Sub(pos[0]).Cross(pos[2].Sub(pos[0])).Normalize()
	for k := 0; k < 3; k++ {
		assert.InDelta(t, want[k], d.Normals()[0][k], 1e-9)
	}
}

func TestCreatePlacesMesh(t *testing.T) {
	origin := mathutil.Vec3{5, 0, -2}
	placed := Create(origin, Params{Radius: 1})
	assert.Equal(t, origin, placed.Origin)
	require.NotNil(t, placed.Mesh)
}

func TestSurfacePointMatchesMesh(t *testing.T) {
	p := DefaultParams()
	p.LevelOfDetail = 0
	m := Build(p)
	v := m.Positions()[0]
	got := p.SurfacePoint(v)
	for k := 0; k < 3; k++ {
		assert.InDelta(t, v[k], got[k], 1e-9)
	}
}
