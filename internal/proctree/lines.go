package proctree

import (
	"procworld/internal/mathutil"
	"procworld/internal/mesh"
)

// SkeletonLines renders the bare skeleton as a line list: one segment from
// each parent head to its child, and one from the ground to the root.
func SkeletonLines(sk *Skeleton) *mesh.Mesh {
	b := mesh.NewBuilder()
	heads := make([]uint32, len(sk.Branches))
	for i := range sk.Branches {
		heads[i] = b.AddVertex(sk.Branches[i].Head, WoodColor, mathutil.UnitY)
	}
	ground := b.AddVertex(mathutil.Vec3{}, WoodColor, mathutil.UnitY)
	for i := range sk.Branches {
		if parent := sk.Branches[i].Parent; parent != None {
			b.AddLine(heads[parent], heads[i])
		} else {
			b.AddLine(ground, heads[i])
		}
	}
	return b.Build(mesh.Lines, "default")
}

// ForkPoints renders every fork head as a point.
func ForkPoints(sk *Skeleton) *mesh.Mesh {
	b := mesh.NewBuilder()
	for i := range sk.Branches {
		br := &sk.Branches[i]
		if br.IsLeaf() {
			continue
		}
		idx := b.AddVertex(br.Head, TwigColor, mathutil.UnitY)
		b.Indices = append(b.Indices, idx)
	}
	return b.Build(mesh.Points, "default")
}
