package proctree

import (
	"math"

	"procworld/internal/mathutil"
	"procworld/internal/mesh"
)

// Shader is the program name tagged on skinned trees.
const Shader = "default_wood"

var (
	WoodColor = mathutil.Vec3{81.0 / 255, 56.0 / 255, 56.0 / 255}
	TwigColor = mathutil.Vec3{0, 200.0 / 255, 0}
)

var left = mathutil.Vec3{-1, 0, 0}

type skinner struct {
	sk       *Skeleton
	b        *mesh.Builder
	segments int
}

func (s *skinner) vertex(p mathutil.Vec3) uint32 {
	return s.b.AddVertex(p, WoodColor, mathutil.Vec3{})
}

// forks emits the rings of branch idx and its subtree. radius 0 selects
// MaxRadius.
func (s *skinner) forks(idx int, radius float64) {
	p := s.sk.Props
	br := &s.sk.Branches[idx]
	if radius == 0 {
		radius = p.MaxRadius
	}
	br.Radius = radius
	if radius > br.Length {
		radius = br.Length
	}

	n := s.segments
	half := n / 2
	segAngle := 2 * math.Pi / float64(n)

	if br.Parent == None {
		rootRadius := radius / p.RadiusFalloffRate
		br.RootRing = make([]uint32, 0, n)
		for i := 0; i < n; i++ {
			v := left.AxisAngle(mathutil.UnitY, -segAngle*float64(i)).Scale(rootRadius)
			br.RootRing = append(br.RootRing, s.vertex(v))
		}
	}

	if br.IsLeaf() {
		br.Last = s.vertex(br.Head)
		return
	}

	var axis mathutil.Vec3
	if br.Parent != None {
		axis = br.Head.Sub(s.sk.Branches[br.Parent].Head).NormalizeOr(mathutil.UnitY)
	} else {
		axis = br.Head.NormalizeOr(mathutil.UnitY)
	}

	c1 := &s.sk.Branches[br.Children[0]]
	c2 := &s.sk.Branches[br.Children[1]]
	axis1 := br.Head.Sub(c1.Head).NormalizeOr(mathutil.UnitY)
	axis2 := br.Head.Sub(c2.Head).NormalizeOr(mathutil.UnitY)
	tangent := axis1.Cross(axis2).NormalizeOr(mathutil.UnitY)
	br.Tangent = tangent

	axis3 := tangent.Cross(axis1.Neg().Sub(axis2).NormalizeOr(mathutil.UnitY)).NormalizeOr(mathutil.UnitY)
	dir := mathutil.Vec3{axis2[0], 0, axis2[2]}
	center := br.Head.Sub(dir.Scale(p.MaxRadius * 0.5))

	scale := p.RadiusFalloffRate
	if c1.Trunk || br.Trunk {
		scale = 1 / p.TaperRate
	}
	rs := radius * scale

	ring := make([]uint32, 0, n)
	ring2 := make([]uint32, 0, n)
	ring3 := make([]uint32, 0, n)

	linch0 := s.vertex(center.Add(tangent.Scale(rs)))
	ring = append(ring, linch0)
	ring3 = append(ring3, linch0)

	d1 := tangent.AxisAngle(axis2, 1.57)
	d2 := tangent.Cross(axis).NormalizeOr(mathutil.UnitY)
	stretch := 1 / d1.Dot(d2)
	if math.IsInf(stretch, 0) || math.IsNaN(stretch) {
		stretch = 1
	}
	for i := 1; i < half; i++ {
		vec := tangent.AxisAngle(axis2, segAngle*float64(i)).ScaleInDirection(d2, stretch)
		v := s.vertex(center.Add(vec.Scale(rs)))
		ring = append(ring, v)
		ring3 = append(ring3, v)
	}

	linch1 := s.vertex(center.Sub(tangent.Scale(rs)))
	ring = append(ring, linch1)
	ring2 = append(ring2, linch1)
	for i := half + 1; i < n; i++ {
		vec := tangent.AxisAngle(axis1, segAngle*float64(i))
		v := s.vertex(center.Add(vec.Scale(rs)))
		ring = append(ring, v)
		ring2 = append(ring2, v)
	}
	ring2 = append(ring2, linch0)
	ring3 = append(ring3, linch1)

	// The closing half is shared: ring2 walks it forwards, ring3 backwards.
	start := uint32(len(s.b.Positions) - 1)
	for i := 1; i < half; i++ {
		ring2 = append(ring2, start+uint32(i))
		ring3 = append(ring3, start+uint32(half-i))
		vec := tangent.AxisAngle(axis3, segAngle*float64(i))
		s.vertex(center.Add(vec.Scale(rs)))
	}

	br.Ring = ring
	br.ChildRings = [2][]uint32{ring2, ring3}

	r0 := radius * p.RadiusFalloffRate
	r1 := radius * p.RadiusFalloffRate
	if c1.Trunk {
		r0 = radius * p.TaperRate
	}
	first, second := br.Children[0], br.Children[1]
	s.forks(first, r0)
	s.forks(second, r1)
}

// bestOffset scans every rotation of child's ring and returns the offset
// whose first vertex best aligns with ref. Ties keep the lowest index.
func (s *skinner) bestOffset(child *Branch, ref mathutil.Vec3) int {
	pos := s.b.Positions
	n := s.segments
	offset := -1
	var best float64
	for i := 0; i < n; i++ {
		l := pos[child.Ring[i]].Sub(child.Head).NormalizeOr(mathutil.UnitY).Dot(ref)
		if offset == -1 || l > best {
			best = l
			offset = n - i
		}
	}
	return offset
}

func (s *skinner) faces(idx int) {
	br := &s.sk.Branches[idx]
	n := s.segments
	pos := s.b.Positions
	c1 := &s.sk.Branches[br.Children[0]]
	c2 := &s.sk.Branches[br.Children[1]]

	if br.Parent == None {
		tangent := c1.Head.Sub(br.Head).Cross(c2.Head.Sub(br.Head)).NormalizeOr(mathutil.UnitY)
		angle := math.Acos(mathutil.Clamp(tangent.Dot(left), -1, 1))
		if left.Cross(tangent).Dot(br.Head.NormalizeOr(mathutil.UnitY)) > 0 {
			angle = 2*math.Pi - angle
		}
		off := int(math.Floor(0.5 + angle/math.Pi/2*float64(n)))
		for i := 0; i < n; i++ {
			v1 := br.Ring[i]
			v2 := br.RootRing[(i+off+1)%n]
			v3 := br.RootRing[(i+off)%n]
			v4 := br.Ring[(i+1)%n]
			s.b.AddTriangleIndices(v1, v4, v3)
			s.b.AddTriangleIndices(v4, v2, v3)
		}
	}

	ring2, ring3 := br.ChildRings[0], br.ChildRings[1]

	if c1.IsLeaf() {
		for i := 0; i < n; i++ {
			s.b.AddTriangleIndices(c1.Last, ring2[(i+1)%n], ring2[i])
			s.b.AddTriangleIndices(c2.Last, ring3[(i+1)%n], ring3[i])
		}
		return
	}

	ref1 := pos[ring2[0]].Sub(br.Head).NormalizeOr(mathutil.UnitY).
		ScaleInDirection(c1.Head.Sub(br.Head).NormalizeOr(mathutil.UnitY), 0)
	ref2 := pos[ring3[0]].Sub(br.Head).NormalizeOr(mathutil.UnitY).
		ScaleInDirection(c2.Head.Sub(br.Head).NormalizeOr(mathutil.UnitY), 0)
	off1 := s.bestOffset(c1, ref1)
	off2 := s.bestOffset(c2, ref2)

	for i := 0; i < n; i++ {
		i1 := c1.Ring[i]
		i2 := ring2[(i+off1+1)%n]
		i3 := ring2[(i+off1)%n]
		i4 := c1.Ring[(i+1)%n]
		s.b.AddTriangleIndices(i1, i4, i3)
		s.b.AddTriangleIndices(i4, i2, i3)

		i1 = c2.Ring[i]
		i2 = ring3[(i+off2+1)%n]
		i3 = ring3[(i+off2)%n]
		i4 = c2.Ring[(i+1)%n]
		s.b.AddTriangleIndices(i1, i2, i3)
		s.b.AddTriangleIndices(i1, i4, i2)
	}

	first, second := br.Children[0], br.Children[1]
	s.faces(first)
	s.faces(second)
}

// smoothNormals sums the unit normals of every incident face and
// renormalizes.
func (s *skinner) smoothNormals() {
	pos, normals := s.b.Positions, s.b.Normals
	idx := s.b.Indices
	for f := 0; f+2 < len(idx); f += 3 {
		i1, i2, i3 := idx[f], idx[f+1], idx[f+2]
		n := pos[i2].Sub(pos[i1]).Cross(pos[i3].Sub(pos[i1])).NormalizeOr(mathutil.UnitY)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
		normals[i3] = normals[i3].Add(n)
	}
	for i := range normals {
		normals[i] = normals[i].NormalizeOr(mathutil.UnitY)
	}
}

// twigs adds a double-sided quad at every leaf.
func (s *skinner) twigs() {
	ts := s.sk.Props.TwigScale
	s.b.Color = TwigColor
	for _, li := range s.sk.Leaves() {
		leaf := &s.sk.Branches[li]
		parent := &s.sk.Branches[leaf.Parent]
		h1 := s.sk.Branches[parent.Children[0]].Head.Sub(parent.Head)
		h2 := s.sk.Branches[parent.Children[1]].Head.Sub(parent.Head)

		tangent := h1.Cross(h2).NormalizeOr(mathutil.UnitY)
		binormal := leaf.Head.Sub(parent.Head).NormalizeOr(mathutil.UnitY)

		corner := leaf.Head.Sub(tangent.Scale(ts)).Sub(binormal.Scale(leaf.Length))
		width := tangent.Scale(2 * ts)
		length := binormal.Scale(2 * ts)
		s.b.Quad(corner, length, width)
		s.b.Quad(corner, width, length)
	}
}

// Skin converts the skeleton into a triangle mesh. It records rings,
// radii and fork tangents on the branches as a side effect.
func Skin(sk *Skeleton) *mesh.Mesh {
	s := &skinner{
		sk:       sk,
		b:        mesh.NewBuilder(),
		segments: sk.Props.RingSegments(),
	}
	s.forks(0, 0)
	if !sk.Root().IsLeaf() {
		s.faces(0)
	}
	s.smoothNormals()
	s.twigs()
	return s.b.Build(mesh.Triangles, Shader)
}

// Build grows and skins a tree.
func Build(p Properties) *mesh.Mesh {
	return Skin(Grow(p))
}

// Create builds the tree and places it at origin.
func Create(origin mathutil.Vec3, p Properties) mesh.Placed {
	return mesh.Placed{Mesh: Build(p), Origin: origin}
}
