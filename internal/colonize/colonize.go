// Package colonize grows a branch network by space colonization: random
// attraction points pull their nearest node until every point is reached
// or the iteration cap runs out.
package colonize

import (
	"math/rand"
	"time"

	"procworld/internal/mathutil"
)

// Params configures attractor seeding, growth and skinning.
type Params struct {
	Attractors    int           `json:"attractors" yaml:"attractors"`
	HalfExtent    float64       `json:"half_extent" yaml:"half_extent"`
	Center        mathutil.Vec3 `json:"center" yaml:"center"`
	RootY         float64       `json:"root_y" yaml:"root_y"`
	TrunkStep     float64       `json:"trunk_step" yaml:"trunk_step"`
	Step          float64       `json:"step" yaml:"step"`
	MinDist       float64       `json:"min_dist" yaml:"min_dist"`
	MaxDist       float64       `json:"max_dist" yaml:"max_dist"`
	MaxIterations int           `json:"max_iterations" yaml:"max_iterations"`
	Radius        float64       `json:"radius" yaml:"radius"`
	Sides         int           `json:"sides" yaml:"sides"`
	Rings         int           `json:"rings" yaml:"rings"`
	// Seed 0 seeds from the clock.
	Seed int64 `json:"seed" yaml:"seed"`
}

func DefaultParams() Params {
	return Params{
		Attractors:    500,
		HalfExtent:    50,
		RootY:         -100,
		TrunkStep:     5,
		Step:          1,
		MinDist:       10,
		MaxDist:       50,
		MaxIterations: 1000,
		Radius:        0.5,
		Sides:         10,
		Rings:         10,
	}
}

// Node is one growth point. Parent is -1 for the root.
type Node struct {
	Pos    mathutil.Vec3
	Pull   mathutil.Vec3
	Count  int
	Parent int
	// Born is the growth iteration that spawned the node, -1 for trunk nodes.
	Born int
}

type Attractor struct {
	Pos     mathutil.Vec3
	Reached bool
}

// Growth is the outcome of a colonization run.
type Growth struct {
	Nodes []Node
	// Remaining holds the attractors never reached.
	Remaining  []Attractor
	TrunkNodes int
	Iterations int
	// Spawned counts new nodes per iteration.
	Spawned []int
}

// Scatter places p.Attractors points uniformly in the cube of half-extent
// p.HalfExtent around p.Center.
func Scatter(p Params) []mathutil.Vec3 {
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pts := make([]mathutil.Vec3, 0, p.Attractors)
	for i := 0; i < p.Attractors; i++ {
		var v mathutil.Vec3
		for k := 0; k < 3; k++ {
			v[k] = p.Center[k] + (rng.Float64()*2-1)*p.HalfExtent
		}
		pts = append(pts, v)
	}
	return pts
}

// Grow scatters attractors and runs the growth simulation.
func Grow(p Params) *Growth {
	return GrowFrom(p, Scatter(p))
}

// GrowFrom runs the simulation against a fixed attractor set.
func GrowFrom(p Params, points []mathutil.Vec3) *Growth {
	g := &Growth{Remaining: make([]Attractor, len(points))}
	for i, pt := range points {
		g.Remaining[i] = Attractor{Pos: pt}
	}

	g.Nodes = append(g.Nodes, Node{
		Pos:    mathutil.Vec3{p.Center[0], p.RootY, p.Center[2]},
		Parent: -1,
		Born:   -1,
	})
	g.seedTrunk(p)
	g.TrunkNodes = len(g.Nodes)

	for it := 0; it < p.MaxIterations && len(g.Remaining) > 0; it++ {
		g.attract(p)
		g.Spawned = append(g.Spawned, g.spawn(p, it))
		g.Iterations++
	}
	return g
}

// seedTrunk climbs straight up from the root until an attractor is within
// MaxDist of the tip or the tip is above the cloud.
func (g *Growth) seedTrunk(p Params) {
	if p.TrunkStep <= 0 {
		return
	}
	top := p.Center[1] + p.HalfExtent
	for {
		tip := len(g.Nodes) - 1
		pos := g.Nodes[tip].Pos
		if pos[1] > top || g.inRange(pos, p.MaxDist) {
			return
		}
		g.Nodes = append(g.Nodes, Node{
			Pos:    pos.Add(mathutil.Vec3{0, p.TrunkStep, 0}),
			Parent: tip,
			Born:   -1,
		})
	}
}

func (g *Growth) inRange(pos mathutil.Vec3, dist float64) bool {
	for _, a := range g.Remaining {
		if a.Pos.Dist(pos) < dist {
			return true
		}
	}
	return false
}

// attract assigns every attractor to its nearest node within MaxDist. The
// first node closer than MinDist marks the attractor reached instead.
func (g *Growth) attract(p Params) {
	for ai := range g.Remaining {
		a := &g.Remaining[ai]
		closest := -1
		var best float64
		for ni := range g.Nodes {
			d := a.Pos.Dist(g.Nodes[ni].Pos)
			if d > p.MaxDist {
				continue
			}
			if d < p.MinDist {
				a.Reached = true
				break
			}
			if closest == -1 || best > d {
				closest = ni
				best = d
			}
		}
		if !a.Reached && closest != -1 {
			n := &g.Nodes[closest]
			n.Pull = n.Pull.Add(a.Pos.Sub(n.Pos).NormalizeOr(mathutil.UnitY))
			n.Count++
		}
	}

	kept := g.Remaining[:0]
	for _, a := range g.Remaining {
		if !a.Reached {
			kept = append(kept, a)
		}
	}
	g.Remaining = kept
}

// spawn extends every pulled node by one step and resets accumulators.
// Only nodes present before the call may spawn.
func (g *Growth) spawn(p Params, it int) int {
	n := len(g.Nodes)
	spawned := 0
	for i := 0; i < n; i++ {
		node := g.Nodes[i]
		if node.Count > 0 {
			dir := node.Pull.Scale(1 / float64(node.Count)).NormalizeOr(mathutil.UnitY)
			g.Nodes = append(g.Nodes, Node{
				Pos:    node.Pos.Add(dir.Scale(p.Step)),
				Parent: i,
				Born:   it,
			})
			spawned++
		}
		g.Nodes[i].Pull = mathutil.Vec3{}
		g.Nodes[i].Count = 0
	}
	return spawned
}
