// Package proctree grows a binary branch skeleton from a deterministic
// parameter set and skins it into a tube mesh with twig quads.
package proctree

import (
	"math"

	"procworld/internal/mathutil"
)

// None marks a missing parent or child index.
const None = -1

// Branch is one node of the skeleton arena.
type Branch struct {
	Parent   int
	Children [2]int
	Head     mathutil.Vec3
	Tangent  mathutil.Vec3
	Length   float64
	Radius   float64
	Trunk    bool

	// Vertex rings written by Skin. Ring is the fork's own cross-section,
	// ChildRings[k] the section facing child k, RootRing only on the root.
	Ring       []uint32
	ChildRings [2][]uint32
	RootRing   []uint32
	// Last is the tip vertex of a leaf.
	Last uint32
}

func (b *Branch) IsLeaf() bool {
	return b.Children[0] == None
}

// Skeleton is the branch arena; the root is index 0.
type Skeleton struct {
	Branches []Branch
	Props    Properties
}

func (s *Skeleton) Root() *Branch {
	return &s.Branches[0]
}

// Leaves returns the indices of all leaf branches in depth-first order.
func (s *Skeleton) Leaves() []int {
	var out []int
	var walk func(int)
	walk = func(i int) {
		b := &s.Branches[i]
		if b.IsLeaf() {
			out = append(out, i)
			return
		}
		walk(b.Children[0])
		walk(b.Children[1])
	}
	walk(0)
	return out
}

type grower struct {
	props    Properties
	branches []Branch
	counter  float64
}

// next hashes fixed, substituting the running counter for a zero argument.
func (g *grower) next(fixed float64) float64 {
	if fixed == 0 {
		fixed = g.counter
		g.counter++
	}
	return Hash(fixed)
}

func (g *grower) add(parent int, head mathutil.Vec3, length float64) int {
	g.branches = append(g.branches, Branch{
		Parent:   parent,
		Children: [2]int{None, None},
		Head:     head,
		Length:   length,
	})
	return len(g.branches) - 1
}

func mirror(a, normal mathutil.Vec3, factor float64) mathutil.Vec3 {
	v := normal.Cross(a.Cross(normal))
	return a.Sub(v.Scale(factor * v.Dot(a)))
}

// split gives branch idx two children and recurses while levels remain.
// steps > 0 continues the first child as a tapered trunk section.
func (g *grower) split(idx, level, steps, l1, l2 int) {
	p := g.props
	rLevel := p.Levels - level

	var po mathutil.Vec3
	if parent := g.branches[idx].Parent; parent != None {
		po = g.branches[parent].Head
	} else {
		g.branches[idx].Trunk = true
	}
	head := g.branches[idx].Head
	length := g.branches[idx].Length

	dir := head.Sub(po).NormalizeOr(mathutil.UnitY)
	normal := dir.Cross(mathutil.Vec3{dir[2], dir[0], dir[1]})
	tangent := dir.Cross(normal)
	r := g.next(float64(rLevel*10) + float64(l1)*5 + float64(l2) + float64(p.Seed))

	adj := normal.Scale(r).Add(tangent.Scale(1 - r))
	if r > 0.5 {
		adj = adj.Neg()
	}

	clump := (p.ClumpMax-p.ClumpMin)*r + p.ClumpMin
	newdir := adj.Scale(1 - clump).Add(dir.Scale(clump)).NormalizeOr(mathutil.UnitY)
	newdir2 := mirror(newdir, dir, p.BranchFactor)
	if r > 0.5 {
		newdir, newdir2 = newdir2, newdir
	}

	if steps > 0 {
		angle := float64(steps) / float64(p.TreeSteps) * 2 * math.Pi * p.TwistRate
		newdir2 = mathutil.Vec3{math.Sin(angle), r, math.Cos(angle)}.NormalizeOr(mathutil.UnitY)
	}

	var grow float64
	if p.Levels != 0 {
		grow = float64(level*level) / float64(p.Levels*p.Levels) * p.GrowAmount
	}
	drop := float64(rLevel) * p.DropAmount
	sweep := float64(rLevel) * p.SweepAmount

	bias := mathutil.Vec3{sweep, drop + grow, 0}
	newdir = newdir.Add(bias).NormalizeOr(mathutil.UnitY)
	newdir2 = newdir2.Add(bias).NormalizeOr(mathutil.UnitY)

	childLength := math.Pow(length, p.LengthFalloffPower) * p.LengthFalloffFactor
	c1 := g.add(idx, head.Add(newdir.Scale(length)), childLength)
	c2 := g.add(idx, head.Add(newdir2.Scale(length)), childLength)
	g.branches[idx].Children = [2]int{c1, c2}

	if level <= 0 {
		return
	}
	if steps > 0 {
		kink := (r - 0.5) * 2 * p.TrunkKink
		c := &g.branches[c1]
		c.Head = head.Add(mathutil.Vec3{kink, p.ClimbRate, kink})
		c.Trunk = true
		c.Length = length * p.TaperRate
		g.split(c1, level, steps-1, l1+1, l2)
	} else {
		g.split(c1, level-1, 0, l1+1, l2)
	}
	g.split(c2, level-1, 0, l1, l2+1)
}

// Grow builds the skeleton for p. The root sits at (0, TrunkLength, 0).
func Grow(p Properties) *Skeleton {
	g := &grower{props: p, counter: float64(p.Seed)}
	root := g.add(None, mathutil.Vec3{0, p.TrunkLength, 0}, p.InitialBranchLength)
	g.split(root, p.Levels, p.TreeSteps, 1, 1)
	return &Skeleton{Branches: g.branches, Props: p}
}
