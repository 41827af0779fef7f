// Package viewmatrix fits mesh positions into a square render target,
// orthographic or with a simple perspective divide.
package viewmatrix

import (
	"math"

	"procworld/internal/mathutil"
)

// Camera defaults shared by the offline renderer and the viewer.
const (
	DefaultFOV = 45.0 // degrees, vertical
	Near       = 0.1
	Far        = 2000.0
)

// Camera selects the view orientation and projection style.
type Camera struct {
	View        mathutil.Mat3
	Perspective bool
	FOV         float64 // degrees; 0 selects DefaultFOV
}

// Projection maps world points to pixel coordinates. Larger Z is closer.
type Projection struct {
	R      mathutil.Mat3
	Center mathutil.Vec3
	Scale  float64
	Size   int

	persp   bool
	camDist float64
	zCenter float64
}

// Fit computes the projection that centres the view-space bounds of points
// and scales the larger of the X/Y spans to size-2*margin pixels.
func Fit(points []mathutil.Vec3, cam Camera, size, margin int) Projection {
	R := cam.View
	if R == (mathutil.Mat3{}) {
		R = mathutil.Mat3Identity()
	}

	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range points {
		t := R.MulVec3(v)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], t[k])
			hi[k] = math.Max(hi[k], t[k])
		}
	}
	if len(points) == 0 {
		lo, hi = mathutil.Vec3{}, mathutil.Vec3{}
	}

	center := lo.Add(hi).Scale(0.5)
	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 0.001 {
		span = 0.001
	}

	p := Projection{
		R:      R,
		Center: center,
		Scale:  float64(size-2*margin) / span,
		Size:   size,
	}

	if cam.Perspective {
		fov := cam.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		halfFOV := mathutil.Deg2Rad(fov / 2)
		xyMax := math.Max(span/2, 0.001)
		p.persp = true
		p.zCenter = center[2]
		p.camDist = xyMax / math.Tan(halfFOV)
	}
	return p
}

// Project returns screen X, screen Y (down) and depth for v.
func (p Projection) Project(v mathutil.Vec3) (x, y, z float64) {
	t := p.R.MulVec3(v)
	if p.persp {
		zOff := t[2] - p.zCenter
		depth := math.Max(p.camDist-zOff, Near)
		factor := p.camDist / depth
		t[0] = (t[0]-p.Center[0])*factor + p.Center[0]
		t[1] = (t[1]-p.Center[1])*factor + p.Center[1]
	}
	half := float64(p.Size) / 2
	return (t[0]-p.Center[0])*p.Scale + half, -(t[1]-p.Center[1])*p.Scale + half, t[2]
}

// ProjectAll projects every point. Returns px, py, pz slices.
func (p Projection) ProjectAll(points []mathutil.Vec3) ([]float64, []float64, []float64) {
	n := len(points)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	for i, v := range points {
		px[i], py[i], pz[i] = p.Project(v)
	}
	return px, py, pz
}
