package viewmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procworld/internal/mathutil"
)

func TestFitCentresBounds(t *testing.T) {
	pts := []mathutil.Vec3{{-2, -1, 0}, {2, 3, 0}}
	p := Fit(pts, Camera{}, 100, 10)

	assert.Equal(t, mathutil.Vec3{0, 1, 0}, p.Center)
	assert.InDelta(t, 80.0/4, p.Scale, 1e-12)

	x, y, _ := p.Project(mathutil.Vec3{0, 1, 0})
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	// Screen Y grows downward.
	x, y, _ = p.Project(mathutil.Vec3{2, 3, 0})
	assert.InDelta(t, 90, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
}

func TestFitEmptyAndDegenerate(t *testing.T) {
	p := Fit(nil, Camera{}, 64, 4)
	assert.Equal(t, mathutil.Vec3{}, p.Center)
	assert.Greater(t, p.Scale, 0.0)

	p = Fit([]mathutil.Vec3{{1, 1, 1}}, Camera{}, 64, 4)
	x, y, _ := p.Project(mathutil.Vec3{1, 1, 1})
	assert.InDelta(t, 32, x, 1e-9)
	assert.InDelta(t, 32, y, 1e-9)
}

func TestProjectAllMatchesProject(t *testing.T) {
	pts := []mathutil.Vec3{{0, 0, 0}, {1, 2, 3}, {-4, 5, -6}}
	p := Fit(pts, Camera{View: mathutil.ViewFront}, 128, 8)
	px, py, pz := p.ProjectAll(pts)
	require.Len(t, px, 3)
	for i, v := range pts {
		x, y, z := p.Project(v)
		assert.Equal(t, x, px[i])
		assert.Equal(t, y, py[i])
		assert.Equal(t, z, pz[i])
	}
}

func TestPerspectiveShrinksFarPoints(t *testing.T) {
	pts := []mathutil.Vec3{{-1, -1, -1}, {1, 1, 1}}
	p := Fit(pts, Camera{Perspective: true}, 100, 0)

	near, _, _ := p.Project(mathutil.Vec3{1, 0, 1})
	far, _, _ := p.Project(mathutil.Vec3{1, 0, -1})
	assert.Greater(t, near-50, far-50)
	assert.Greater(t, far, 50.0)
}
