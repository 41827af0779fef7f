package scene

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procworld/internal/colonize"
	"procworld/internal/config"
	"procworld/internal/mathutil"
	"procworld/internal/mesh"
	"procworld/internal/proctree"
)

func lineMesh() *mesh.Mesh {
	b := mesh.NewBuilder()
	i0 := b.AddVertex(mathutil.Vec3{0, 0, 0}, mesh.White, mathutil.UnitY)
	i1 := b.AddVertex(mathutil.Vec3{1, 0, 0}, mesh.White, mathutil.UnitY)
	b.AddLine(i0, i1)
	return b.Build(mesh.Lines, "default")
}

func TestUpdateDispatch(t *testing.T) {
	var s Scene
	still := s.Add("still", StaticMesh, mesh.Placed{Mesh: lineMesh()})
	spin := s.Add("spin", SpinningGrowth, mesh.Placed{Mesh: lineMesh(), Origin: mathutil.Vec3{0, 2, 0}})

	s.Update(0.25)
	s.Update(0.5)

	assert.Equal(t, mathutil.Vec3{}, still.Transform.Rotation)
	assert.InDelta(t, 0.75, spin.Transform.Rotation[1], 1e-12)
	assert.Equal(t, mathutil.Vec3{0, 2, 0}, spin.Transform.Position)
	assert.Same(t, spin, s.Find("spin"))
	assert.Nil(t, s.Find("missing"))
}

func TestTransformMatrix(t *testing.T) {
	tr := Transform{
		Position: mathutil.Vec3{10, 0, 0},
		Rotation: mathutil.Vec3{0, math.Pi / 2, 0},
		Scale:    mathutil.Vec3{2, 2, 2},
	}
	got := tr.Matrix().MulPoint(mathutil.Vec3{1, 0, 0})
	// +X scaled to 2 and turned a quarter about Y lands on -Z.
	assert.InDelta(t, 10, got[0], 1e-9)
	assert.InDelta(t, 0, got[1], 1e-9)
	assert.InDelta(t, -2, got[2], 1e-9)

	id := Identity().Matrix()
	assert.Equal(t, mathutil.Vec3{3, 4, 5}, id.MulPoint(mathutil.Vec3{3, 4, 5}))
}

func TestBounds(t *testing.T) {
	var s Scene
	_, _, ok := s.Bounds()
	assert.False(t, ok)

	s.Add("a", StaticMesh, mesh.Placed{Mesh: lineMesh(), Origin: mathutil.Vec3{5, 0, 0}})
	lo, hi, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, mathutil.Vec3{5, 0, 0}, lo)
	assert.Equal(t, mathutil.Vec3{6, 0, 0}, hi)
}

func TestFromConfig(t *testing.T) {
	specs := []config.ObjectSpec{
		{Name: "planet", Generator: config.Geosphere, Params: json.RawMessage(`{"level_of_detail": 1}`), Position: mathutil.Vec3{1, 2, 3}},
		{Name: "fan", Generator: config.LSystem, Params: json.RawMessage(`{"iterations": 1}`), Rotation: mathutil.Vec3{0, 90, 0}, Scale: 2},
		{Name: "growth", Generator: config.Colonize, Params: json.RawMessage(`{"attractors": 10, "seed": 3, "max_iterations": 20}`), Spin: true},
		{Name: "tree", Generator: config.Proctree, Params: json.RawMessage(`{"levels": 1}`), Shader: "default"},
	}
	s, err := FromConfig(specs, nil)
	require.NoError(t, err)
	require.Len(t, s.Objects, 4)

	planet := s.Objects[0]
	assert.Equal(t, StaticMesh, planet.Kind)
	assert.Equal(t, mathutil.Vec3{1, 2, 3}, planet.Transform.Position)
	assert.Equal(t, mesh.Triangles, planet.Mesh.Topology())
	assert.Equal(t, "default", planet.ShaderName())

	fan := s.Objects[1]
	assert.Equal(t, mesh.Lines, fan.Mesh.Topology())
	assert.InDelta(t, math.Pi/2, fan.Transform.Rotation[1], 1e-12)
	assert.Equal(t, mathutil.Vec3{2, 2, 2}, fan.Transform.Scale)

	assert.Equal(t, SpinningGrowth, s.Objects[2].Kind)
	assert.Equal(t, "default_wood", s.Objects[3].Mesh.Shader())
	assert.Equal(t, "default", s.Objects[3].ShaderName())

	_, err = FromConfig([]config.ObjectSpec{{Name: "x", Generator: "cube"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown generator")
}

func TestGenerateModes(t *testing.T) {
	tree := config.ObjectSpec{Name: "tree", Generator: config.Proctree, Params: json.RawMessage(`{"levels": 2}`)}
	props, err := tree.TreeProperties(nil)
	require.NoError(t, err)
	sk := proctree.Grow(props)
	forks := 0
	for i := range sk.Branches {
		if !sk.Branches[i].IsLeaf() {
			forks++
		}
	}

	growth := config.ObjectSpec{Name: "growth", Generator: config.Colonize, Params: json.RawMessage(`{"attractors": 40, "seed": 11, "max_iterations": 30}`)}
	cp, err := growth.ColonizeParams()
	require.NoError(t, err)
	nodes := len(colonize.Grow(cp).Nodes)

	tests := []struct {
		spec       config.ObjectSpec
		mode       string
		topology   mesh.Topology
		vertices   int
		primitives int
	}{
		{tree, config.ModeLines, mesh.Lines, len(sk.Branches) + 1, len(sk.Branches)},
		{tree, config.ModePoints, mesh.Points, forks, forks},
		{growth, config.ModePoints, mesh.Points, nodes, nodes},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Name+"/"+tt.mode, func(t *testing.T) {
			spec := tt.spec
			spec.Mode = tt.mode
			spec.Position = mathutil.Vec3{0, 1, 0}
			placed, err := Generate(spec, nil)
			require.NoError(t, err)
			assert.Equal(t, mathutil.Vec3{0, 1, 0}, placed.Origin)
			assert.Equal(t, tt.topology, placed.Mesh.Topology())
			assert.Equal(t, tt.vertices, placed.Mesh.VertexCount())
			assert.Equal(t, tt.primitives, placed.Mesh.PrimitiveCount())
		})
	}

	for _, spec := range []config.ObjectSpec{tree, growth} {
		spec.Mode = config.ModeMesh
		placed, err := Generate(spec, nil)
		require.NoError(t, err)
		assert.Equal(t, mesh.Triangles, placed.Mesh.Topology(), spec.Name)
	}
}

func TestReplaceKeepsTransform(t *testing.T) {
	var s Scene
	old := s.Add("spin", SpinningGrowth, mesh.Placed{Mesh: lineMesh()})
	s.Update(1)

	repl := &Object{Name: "spin", Kind: SpinningGrowth, Mesh: lineMesh()}
	require.True(t, s.Replace(repl))
	assert.Same(t, repl, s.Find("spin"))
	assert.Equal(t, old.Transform, repl.Transform)

	assert.False(t, s.Replace(&Object{Name: "other"}))
}
