package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procworld/internal/mathutil"
)

func TestTriangleAppendsFlatVertices(t *testing.T) {
	b := NewBuilder()
	b.Color = mathutil.Vec3{0.2, 0.4, 0.6}
	b.Triangle(mathutil.Vec3{0, 0, 0}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 1, 0})

	require.Len(t, b.Positions, 3)
	require.Len(t, b.Colors, 3)
	require.Len(t, b.Normals, 3)
	assert.Equal(t, []uint32{0, 1, 2}, b.Indices)
	for i := 0; i < 3; i++ {
		assert.Equal(t, mathutil.Vec3{0, 0, 1}, b.Normals[i])
		assert.Equal(t, b.Color, b.Colors[i])
	}

	b.Triangle(mathutil.Vec3{0, 0, 0}, mathutil.Vec3{0, 1, 0}, mathutil.Vec3{1, 0, 0})
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, b.Indices)
	assert.Equal(t, mathutil.Vec3{0, 0, -1}, b.Normals[3])
}

func TestTriangleDegenerateNormal(t *testing.T) {
	b := NewBuilder()
	p := mathutil.Vec3{1, 1, 1}
	b.Triangle(p, p, p)
	assert.Equal(t, mathutil.UnitY, b.Normals[0])
}

func TestQuadCoversParallelogram(t *testing.T) {
	b := NewBuilder()
	b.Quad(mathutil.Vec3{}, mathutil.Vec3{2, 0, 0}, mathutil.Vec3{0, 0, 3})

	require.Len(t, b.Positions, 6)
	assert.Len(t, b.Indices, 6)
	// Both halves share the same winding.
	assert.Equal(t, b.Normals[0], b.Normals[3])
	assert.InDelta(t, 1, b.Normals[0].Len(), 1e-12)

	m := b.Build(Triangles, "default")
	min, max := m.Bounds()
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, min)
	assert.Equal(t, mathutil.Vec3{2, 0, 3}, max)
}

func TestClear(t *testing.T) {
	b := NewBuilder()
	b.Quad(mathutil.Vec3{}, mathutil.UnitX, mathutil.UnitZ)
	b.Clear()
	assert.Empty(t, b.Positions)
	assert.Empty(t, b.Colors)
	assert.Empty(t, b.Normals)
	assert.Empty(t, b.Indices)
}

func TestBuildCopies(t *testing.T) {
	b := NewBuilder()
	b.Triangle(mathutil.Vec3{}, mathutil.UnitX, mathutil.UnitY)
	m := b.Build(Triangles, "default")

	b.Positions[0] = mathutil.Vec3{9, 9, 9}
	b.Clear()

	assert.Equal(t, mathutil.Vec3{}, m.Positions()[0])
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.PrimitiveCount())
	assert.Equal(t, "default", m.Shader())
	assert.Equal(t, Triangles, m.Topology())
}

func TestUnindexedLines(t *testing.T) {
	b := NewBuilder()
	i0 := b.AddVertex(mathutil.Vec3{0, 0, 0}, White, mathutil.UnitY)
	i1 := b.AddVertex(mathutil.Vec3{0, 1, 0}, White, mathutil.UnitY)
	i2 := b.AddVertex(mathutil.Vec3{0, 2, 0}, White, mathutil.UnitY)
	b.AddLine(i0, i1)
	b.AddLine(i1, i2)

	m := b.Build(Lines, "default")
	assert.Equal(t, 2, m.PrimitiveCount())

	f := m.Unindexed()
	require.Len(t, f.Positions, 4)
	assert.Equal(t, mathutil.Vec3{0, 1, 0}, f.Positions[1])
	assert.Equal(t, mathutil.Vec3{0, 1, 0}, f.Positions[2])
	assert.Len(t, f.Colors, 4)
	assert.Len(t, f.Normals, 4)
}

func TestEmptyBounds(t *testing.T) {
	m := NewBuilder().Build(Points, "default")
	min, max := m.Bounds()
	assert.Equal(t, mathutil.Vec3{}, min)
	assert.Equal(t, mathutil.Vec3{}, max)
	assert.Equal(t, 0, m.PrimitiveCount())
}
