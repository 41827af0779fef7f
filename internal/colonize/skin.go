package colonize

import (
	"math"

	"procworld/internal/mathutil"
	"procworld/internal/mesh"
)

const Shader = "default"

var BarkColor = mathutil.Vec3{81.0 / 255, 56.0 / 255, 56.0 / 255}

// frame returns two unit vectors perpendicular to d such that rings built
// from them wind outward.
func frame(d mathutil.Vec3) (u, v mathutil.Vec3) {
	helper := mathutil.UnitX
	if math.Abs(d[0]) > 0.9 {
		helper = mathutil.UnitZ
	}
	u = d.Cross(helper).NormalizeOr(mathutil.UnitZ)
	v = u.Cross(d)
	return u, v
}

// cylinder emits one closed-side tube from start to end with rings+1 rows
// of sides vertices.
func cylinder(b *mesh.Builder, start, end mathutil.Vec3, radius float64, sides, rings int) {
	dist := end.Dist(start)
	if dist == 0 || sides < 3 || rings < 1 {
		return
	}
	d := end.Sub(start).Scale(1 / dist)
	u, v := frame(d)
	h := dist / float64(rings)
	seg := 2 * math.Pi / float64(sides)

	base := uint32(len(b.Positions))
	for y := 0; y <= rings; y++ {
		center := start.Add(d.Scale(float64(y) * h))
		for i := 0; i < sides; i++ {
			a := seg * float64(i)
			n := u.Scale(math.Cos(a)).Add(v.Scale(math.Sin(a)))
			b.AddVertex(center.Add(n.Scale(radius)), BarkColor, n)
		}
	}

	s := uint32(sides)
	for j := uint32(0); j < uint32(rings); j++ {
		for i := uint32(0); i < s; i++ {
			c0 := base + i + j*s
			c1 := c0 + s
			c2 := base + (i+1)%s + j*s
			c3 := c2 + s
			b.AddTriangleIndices(c0, c1, c2)
			b.AddTriangleIndices(c2, c1, c3)
		}
	}
}

// Skin turns every parent-to-child segment into an independent cylinder.
func Skin(g *Growth, p Params) *mesh.Mesh {
	b := mesh.NewBuilder()
	for _, n := range g.Nodes {
		if n.Parent < 0 {
			continue
		}
		cylinder(b, g.Nodes[n.Parent].Pos, n.Pos, p.Radius, p.Sides, p.Rings)
	}
	return b.Build(mesh.Triangles, Shader)
}

// PointCloud renders the node positions as points.
func PointCloud(g *Growth) *mesh.Mesh {
	b := mesh.NewBuilder()
	for _, n := range g.Nodes {
		b.Indices = append(b.Indices, b.AddVertex(n.Pos, BarkColor, mathutil.UnitY))
	}
	return b.Build(mesh.Points, Shader)
}

// Build grows and skins a tree.
func Build(p Params) *mesh.Mesh {
	return Skin(Grow(p), p)
}

// Create builds the tree and places it at origin.
func Create(origin mathutil.Vec3, p Params) mesh.Placed {
	return mesh.Placed{Mesh: Build(p), Origin: origin}
}
