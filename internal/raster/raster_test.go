package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procworld/internal/mathutil"
	"procworld/internal/mesh"
	"procworld/internal/shader"
)

func quad(c mathutil.Vec3, z float64) *mesh.Mesh {
	b := mesh.NewBuilder()
	b.Color = c
	b.Quad(mathutil.Vec3{-1, -1, z}, mathutil.Vec3{2, 0, 0}, mathutil.Vec3{0, 2, 0})
	return b.Build(mesh.Triangles, shader.Default)
}

func pixel(t *testing.T, img interface{ NRGBAAt(x, y int) color.NRGBA }, x, y int) color.NRGBA {
	t.Helper()
	return img.NRGBAAt(x, y)
}

func TestRenderEmpty(t *testing.T) {
	img := Render(nil, nil, Options{Size: 16, Supersample: 2})
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, uint8(0), img.Pix[3])

	img = Render(nil, nil, Options{Size: 8, Background: color.NRGBA{10, 20, 30, 255}})
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(4, 4))
}

func TestRenderQuadCoversCenter(t *testing.T) {
	img := Render([]Item{{Mesh: quad(mathutil.Vec3{1, 0, 0}, 0)}}, shader.NewTable(nil), Options{Size: 64})
	c := pixel(t, img, 32, 32)
	assert.Equal(t, uint8(255), c.A)
	assert.Greater(t, c.R, c.G)
	assert.Greater(t, c.R, c.B)

	// Corners sit inside the margin.
	assert.Equal(t, uint8(0), pixel(t, img, 1, 1).A)
}

func TestDepthOrder(t *testing.T) {
	near := quad(mathutil.Vec3{0, 0, 1}, 1)
	far := quad(mathutil.Vec3{1, 0, 0}, -1)
	for _, items := range [][]Item{
		{{Mesh: far}, {Mesh: near}},
		{{Mesh: near}, {Mesh: far}},
	} {
		img := Render(items, nil, Options{Size: 64})
		c := pixel(t, img, 32, 32)
		assert.Greater(t, c.B, c.R)
	}
}

func TestModelTransformMovesMesh(t *testing.T) {
	small := quad(mathutil.Vec3{1, 1, 1}, 0)
	big := mesh.NewBuilder()
	big.Quad(mathutil.Vec3{-10, -10, -5}, mathutil.Vec3{20, 0, 0}, mathutil.Vec3{0, 20, 0})
	bg := big.Build(mesh.Points, shader.Default)

	items := []Item{
		{Mesh: bg},
		{Mesh: small, Model: mathutil.FromMat3Translation(mathutil.Mat3Identity(), mathutil.Vec3{5, 5, 0})},
	}
	img := Render(items, nil, Options{Size: 100})
	// The quad now sits in the upper right quadrant.
	assert.Equal(t, uint8(255), pixel(t, img, 67, 33).A)
	assert.Equal(t, uint8(0), pixel(t, img, 40, 60).A)
}

func TestLinesAreUnlit(t *testing.T) {
	b := mesh.NewBuilder()
	i0 := b.AddVertex(mathutil.Vec3{-1, 0, 0}, mathutil.Vec3{0, 1, 0}, mathutil.UnitY)
	i1 := b.AddVertex(mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 1, 0}, mathutil.UnitY)
	b.AddLine(i0, i1)
	img := Render([]Item{{Mesh: b.Build(mesh.Lines, shader.Default)}}, nil, Options{Size: 64})

	c := pixel(t, img, 32, 32)
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, c)
}

func TestPointSplat(t *testing.T) {
	b := mesh.NewBuilder()
	b.Indices = append(b.Indices, b.AddVertex(mathutil.Vec3{}, mesh.White, mathutil.UnitY))
	img := Render([]Item{{Mesh: b.Build(mesh.Points, shader.Default)}}, nil, Options{Size: 32, PointRadius: 1})
	for _, d := range [][2]int{{-1, -1}, {0, 0}, {1, 1}} {
		require.Equal(t, uint8(255), pixel(t, img, 16+d[0], 16+d[1]).A)
	}
	assert.Equal(t, uint8(0), pixel(t, img, 19, 16).A)
}

func TestComputeShadeDoubleSided(t *testing.T) {
	lc := DefaultLightConfig()
	n := mathutil.Vec3{0.3, 0.5, 0.8}.Normalize()
	front := lc.ComputeShade(n)
	back := lc.ComputeShade(n.Neg())
	assert.Greater(t, front, lc.Ambient)
	assert.Greater(t, back, lc.Ambient)
}
