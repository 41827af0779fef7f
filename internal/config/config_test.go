package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procworld/internal/colonize"
	"procworld/internal/geosphere"
	"procworld/internal/lsystem"
	"procworld/internal/proctree"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAndResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scene.json", `{"presets_file": "trees.yaml", "render_size": 128}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{})

	assert.Equal(t, 128, cfg.RenderSize)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, FormatWebP, cfg.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "front", cfg.View)
	assert.InDelta(t, 45, cfg.FOV, 0)
	assert.InDelta(t, 0.9, cfg.FillRatio, 0)
	assert.Equal(t, filepath.Join(dir, "trees.yaml"), cfg.PresetsFile)
	assert.Equal(t, filepath.Join(dir, "renders"), cfg.OutputDir)
	assert.Len(t, cfg.Objects, 4)
	assert.NoError(t, cfg.Validate(nil))
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{RenderSize: 64, Format: FormatWebP, Workers: 3}
	cfg.Resolve(Flags{Size: 300, Format: FormatTGA, Workers: 1, View: "top", Perspective: true, OutputDir: "/tmp/out"})

	assert.Equal(t, 300, cfg.RenderSize)
	assert.Equal(t, FormatTGA, cfg.Format)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "top", cfg.View)
	assert.True(t, cfg.Perspective)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")

	path := writeFile(t, t.TempDir(), "bad.json", `{"render_size": "big"}`)
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"format", func(c *Config) { c.Format = "png" }, "unknown format"},
		{"supersample", func(c *Config) { c.Supersample = 9 }, "supersample"},
		{"view", func(c *Config) { c.View = "below" }, "unknown view"},
		{"fov", func(c *Config) { c.Perspective = true; c.FOV = 200 }, "fov"},
		{"duplicate", func(c *Config) { c.Objects = append(c.Objects, c.Objects[0]) }, "duplicate name"},
		{"generator", func(c *Config) { c.Objects[0].Generator = "cube" }, "unknown generator"},
		{"name", func(c *Config) { c.Objects[0].Name = "a/b" }, "not a valid file name"},
		{"radius", func(c *Config) {
			c.Objects[0].Params = json.RawMessage(`{"radius": -1}`)
		}, "radius must be positive"},
		{"lod", func(c *Config) {
			c.Objects[0].Params = json.RawMessage(`{"level_of_detail": 9}`)
		}, "level_of_detail"},
		{"segments", func(c *Config) {
			c.Objects[1].Params = json.RawMessage(`{"segments": 0}`)
		}, "segments"},
		{"unknown field", func(c *Config) {
			c.Objects[2].Params = json.RawMessage(`{"attractor": 5}`)
		}, "unknown field"},
		{"distances", func(c *Config) {
			c.Objects[2].Params = json.RawMessage(`{"min_dist": 60}`)
		}, "min_dist"},
		{"preset", func(c *Config) { c.Objects[1].Preset = "willow" }, "unknown tree preset"},
		{"planet lines", func(c *Config) { c.Objects[0].Mode = ModeLines }, `mode "lines" not supported by geosphere`},
		{"tree mode", func(c *Config) { c.Objects[1].Mode = "wire" }, `mode "wire" not supported by proctree`},
		{"growth lines", func(c *Config) { c.Objects[2].Mode = ModeLines }, "not supported by colonize"},
		{"fan mesh", func(c *Config) { c.Objects[3].Mode = ModeMesh }, "not supported by lsystem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.Resolve(Flags{})
			tt.mutate(&cfg)
			err := cfg.Validate(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOutputModes(t *testing.T) {
	assert.Equal(t, ModeMesh, ObjectSpec{Generator: Geosphere}.OutputMode())
	assert.Equal(t, ModeMesh, ObjectSpec{Generator: Proctree}.OutputMode())
	assert.Equal(t, ModeLines, ObjectSpec{Generator: LSystem}.OutputMode())
	assert.Equal(t, ModePoints, ObjectSpec{Generator: Colonize, Mode: ModePoints}.OutputMode())

	for _, o := range []ObjectSpec{
		{Name: "a", Generator: Proctree, Mode: ModeLines},
		{Name: "b", Generator: Proctree, Mode: ModePoints},
		{Name: "c", Generator: Colonize, Mode: ModePoints},
		{Name: "d", Generator: LSystem, Mode: ModeLines},
		{Name: "e", Generator: Geosphere, Mode: ModeMesh},
	} {
		assert.NoError(t, o.Validate(nil), o.Name)
	}
}

func TestParamsDecodeOverDefaults(t *testing.T) {
	o := ObjectSpec{Name: "p", Generator: Geosphere, Params: json.RawMessage(`{"radius": 10}`)}
	p, err := o.GeosphereParams()
	require.NoError(t, err)
	want := geosphere.DefaultParams()
	want.Radius = 10
	assert.Equal(t, want, p)

	o = ObjectSpec{Name: "l", Generator: LSystem, Params: json.RawMessage(`{"axiom": "F", "rules": {"F": "F+F"}}`)}
	lp, err := o.LSystemParams()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"F": "F+F"}, lp.Rules)
	assert.Equal(t, 4, lp.Iterations)
}

func TestLSystemRulesReplaceDefaults(t *testing.T) {
	o := ObjectSpec{Name: "l", Generator: LSystem, Params: json.RawMessage(`{"Rules": {"X": "F[+X]"}}`)}
	p, err := o.LSystemParams()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"X": "F[+X]"}, p.Rules)

	// A "rules" string elsewhere in the params is not a rules key.
	o.Params = json.RawMessage(`{"axiom": "\"rules\""}`)
	p, err = o.LSystemParams()
	require.NoError(t, err)
	assert.Equal(t, lsystem.DefaultParams().Rules, p.Rules)
	assert.Equal(t, `"rules"`, p.Axiom)
}

func TestWithSeed(t *testing.T) {
	tree := ObjectSpec{Name: "t", Generator: Proctree}
	seeded, ok, err := tree.WithSeed(99, nil)
	require.NoError(t, err)
	require.True(t, ok)
	p, err := seeded.TreeProperties(nil)
	require.NoError(t, err)
	assert.Equal(t, 99, p.Seed)
	assert.InDelta(t, proctree.DefaultProperties().BranchFactor, p.BranchFactor, 0)

	growth := ObjectSpec{Name: "g", Generator: Colonize, Params: json.RawMessage(`{"attractors": 20}`)}
	seeded, ok, err = growth.WithSeed(5, nil)
	require.NoError(t, err)
	require.True(t, ok)
	cp, err := seeded.ColonizeParams()
	require.NoError(t, err)
	assert.Equal(t, int64(5), cp.Seed)
	assert.Equal(t, 20, cp.Attractors)
	assert.InDelta(t, colonize.DefaultParams().MaxDist, cp.MaxDist, 0)

	planet := ObjectSpec{Name: "p", Generator: Geosphere}
	same, ok, err := planet.WithSeed(1, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, planet, same)
}

func TestPresets(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trees.yaml", `
bushy:
  levels: 3
  branch_factor: 3.1
  seed: 7
sparse:
  twig_scale: 0
`)
	presets, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"bushy", "sparse"}, presets.Names())

	bushy := presets["bushy"]
	assert.Equal(t, 3, bushy.Levels)
	assert.InDelta(t, 3.1, bushy.BranchFactor, 1e-12)
	assert.Equal(t, 7, bushy.Seed)
	assert.InDelta(t, proctree.DefaultProperties().TrunkLength, bushy.TrunkLength, 0)

	o := ObjectSpec{Name: "t", Generator: Proctree, Preset: "bushy", Params: json.RawMessage(`{"seed": 11}`)}
	p, err := o.TreeProperties(presets)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Levels)
	assert.Equal(t, 11, p.Seed)
	assert.NoError(t, o.Validate(presets))

	empty, err := LoadPresets("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParsePresets([]byte("bad:\n  segments: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `preset "bad"`)
}
