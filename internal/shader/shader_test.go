package shader

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procworld/internal/mathutil"
)

func writeShader(t *testing.T, dir, name string, files map[string]string) {
	t.Helper()
	base := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(base, 0o755))
	for file, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(base, file), []byte(body), 0o644))
	}
}

func TestBuiltins(t *testing.T) {
	table := NewTable(nil)
	def := table.Resolve(Default)
	require.NotNil(t, def)
	assert.Equal(t, mathutil.Vec3{1, 1, 1}, def.Material.Tint)
	require.NotNil(t, table.Resolve(DefaultWood))
	assert.Nil(t, table.Resolve("missing"))
	assert.Equal(t, []string{Default, DefaultWood}, table.Names())
}

func TestIndexAndLoad(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "glow", map[string]string{
		VertexFile:   "void main() {}",
		FragmentFile: "void main() { /* frag */ }",
		GeometryFile: "void main() { /* geom */ }",
		MaterialFile: "tint: [0.5, 0.25, 1]\nambient: 0.2\nunlit: true\n",
	})
	writeShader(t, dir, "halfdone", map[string]string{VertexFile: "void main() {}"})

	idx := BuildIndex(dir)
	assert.Equal(t, 1, idx.Len())
	_, ok := idx.Lookup("GLOW")
	assert.True(t, ok)

	table := NewTable(idx)
	p := table.Resolve("glow")
	require.NotNil(t, p)
	assert.Equal(t, "void main() {}", p.Vertex)
	assert.Contains(t, p.Fragment, "frag")
	assert.Contains(t, p.Geometry, "geom")
	assert.Equal(t, mathutil.Vec3{0.5, 0.25, 1}, p.Material.Tint)
	assert.InDelta(t, 0.2, p.Material.Ambient, 1e-12)
	assert.True(t, p.Material.Unlit)

	assert.Same(t, p, table.Resolve("glow"))
	assert.Contains(t, table.Names(), "glow")
	assert.Nil(t, table.Resolve("halfdone"))
}

func TestRegisteredOverridesIndex(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, Default, map[string]string{
		VertexFile:   "v",
		FragmentFile: "f",
	})
	table := NewTable(BuildIndex(dir))
	p := table.Resolve(Default)
	require.NotNil(t, p)
	assert.Empty(t, p.Vertex)
}

func TestBadMaterial(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "broken", map[string]string{
		VertexFile:   "v",
		FragmentFile: "f",
		MaterialFile: "tint: [1, 2\n",
	})
	paths, ok := BuildIndex(dir).Lookup("broken")
	require.True(t, ok)
	_, err := Load("broken", paths)
	assert.ErrorContains(t, err, "shader: parse")
}

func TestMissingDir(t *testing.T) {
	assert.Equal(t, 0, BuildIndex(filepath.Join(t.TempDir(), "nope")).Len())
	_, err := LoadSource(filepath.Join(t.TempDir(), "nope.glsl"))
	assert.ErrorContains(t, err, "shader: read")
}

func TestConcurrentResolve(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "shared", map[string]string{VertexFile: "v", FragmentFile: "f"})
	table := NewTable(BuildIndex(dir))

	var wg sync.WaitGroup
	got := make([]*Program, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = table.Resolve("shared")
		}(i)
	}
	wg.Wait()
	for _, p := range got {
		assert.Same(t, got[0], p)
	}
}
