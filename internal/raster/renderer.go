// Package raster is a software renderer for generated meshes: z-buffered
// triangles with flat lighting, plus unlit lines and points.
package raster

import (
	"image"
	"image/color"

	"procworld/internal/mathutil"
	"procworld/internal/mesh"
	"procworld/internal/shader"
	"procworld/internal/viewmatrix"
)

// Item is one mesh placed in the world. A non-empty Shader overrides
// the mesh's own shader name.
type Item struct {
	Mesh   *mesh.Mesh
	Model  mathutil.Mat4
	Shader string
}

// Options controls the output frame.
type Options struct {
	Size        int
	Supersample int
	Camera      viewmatrix.Camera
	Background  color.NRGBA
	PointRadius int
}

// Render draws items into a square NRGBA image of Size*Supersample pixels.
// Meshes whose shader does not resolve use the default material.
func Render(items []Item, shaders shader.Resolver, opt Options) *image.NRGBA {
	ss := opt.Supersample
	if ss < 1 {
		ss = 1
	}
	renderSize := opt.Size * ss

	world := make([][]mathutil.Vec3, len(items))
	var all []mathutil.Vec3
	for i, it := range items {
		if it.Mesh == nil {
			continue
		}
		model := it.Model
		if model == (mathutil.Mat4{}) {
			model = mathutil.Mat4Identity()
		}
		pts := make([]mathutil.Vec3, it.Mesh.VertexCount())
		for k, p := range it.Mesh.Positions() {
			pts[k] = model.MulPoint(p)
		}
		world[i] = pts
		all = append(all, pts...)
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	bg := opt.Background
	if bg.A != 0 {
		fb.Fill(bg.R, bg.G, bg.B, bg.A)
	}
	if len(all) == 0 {
		return fb.Image()
	}

	proj := viewmatrix.Fit(all, opt.Camera, renderSize, 16*ss)
	lc := DefaultLightConfig()

	for i, it := range items {
		if it.Mesh == nil || len(world[i]) == 0 {
			continue
		}
		name := it.Shader
		if name == "" {
			name = it.Mesh.Shader()
		}
		drawMesh(fb, it, world[i], proj, resolveMaterial(shaders, name), opt.PointRadius*ss, &lc)
	}
	return fb.Image()
}

func resolveMaterial(shaders shader.Resolver, name string) shader.Material {
	if shaders != nil {
		if p := shaders.Resolve(name); p != nil {
			return p.Material
		}
	}
	return shader.DefaultMaterial()
}

func drawMesh(fb *FrameBuffer, it Item, pts []mathutil.Vec3, proj viewmatrix.Projection, mat shader.Material, pointRadius int, lc *LightConfig) {
	m := it.Mesh
	px, py, pz := proj.ProjectAll(pts)

	colors := make([][3]uint8, len(pts))
	for k := range colors {
		c := mesh.White
		if k < len(m.Colors()) {
			c = m.Colors()[k]
		}
		colors[k] = toSRGB8(c)
	}

	s := &surface{tint: mat.Tint, unlit: mat.Unlit}
	idx := m.Indices()

	switch m.Topology() {
	case mesh.Triangles:
		model := it.Model
		if model == (mathutil.Mat4{}) {
			model = mathutil.Mat4Identity()
		}
		// Normals go to view space so lighting follows the camera.
		nm := mathutil.Mat3Mul(proj.R, model.Linear().NormalMatrix())
		normals := m.Normals()
		for f := 0; f+2 < len(idx); f += 3 {
			vi := [3]int{int(idx[f]), int(idx[f+1]), int(idx[f+2])}
			s.shade = faceShade(normals, vi, nm, lc) + mat.Ambient
			RasterizeTriangle(fb, px, py, pz, colors, vi, s, lc)
		}
	case mesh.Lines:
		s.unlit = true
		for l := 0; l+1 < len(idx); l += 2 {
			RasterizeLine(fb, px, py, pz, colors, int(idx[l]), int(idx[l+1]), s, lc)
		}
	case mesh.Points:
		s.unlit = true
		for _, p := range idx {
			RasterizePoint(fb, px, py, pz, colors, int(p), pointRadius, s, lc)
		}
	}
}

// faceShade lights the average of the three vertex normals.
func faceShade(normals []mathutil.Vec3, vi [3]int, nm mathutil.Mat3, lc *LightConfig) float64 {
	var n mathutil.Vec3
	for _, i := range vi {
		if i < len(normals) {
			n = n.Add(normals[i])
		}
	}
	return lc.ComputeShade(nm.MulVec3(n).NormalizeOr(mathutil.UnitZ))
}
