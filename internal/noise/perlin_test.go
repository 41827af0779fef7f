package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procworld/internal/mathutil"
)

func TestNoiseLatticePointsAreZero(t *testing.T) {
	for _, p := range []mathutil.Vec3{{0, 0, 0}, {1, 2, 3}, {-4, 7, -9}, {300, -1, 12}} {
		assert.InDelta(t, 0, Noise(p), 1e-12, "lattice point %v", p)
	}
}

func TestNoiseDeterministicAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	maxAbs := 0.0
	for i := 0; i < 10000; i++ {
		p := mathutil.Vec3{
			(rng.Float64()*2 - 1) * 300,
			(rng.Float64()*2 - 1) * 300,
			(rng.Float64()*2 - 1) * 300,
		}
		raw := gradient(p)
		require.LessOrEqual(t, math.Abs(raw), 1.04, "point %v", p)
		maxAbs = math.Max(maxAbs, math.Abs(raw))

		a := Noise(p)
		require.Equal(t, a, Noise(p))
		require.Equal(t, mathutil.Clamp(raw, -1, 1), a)
	}
	// The samples should actually spread over the range.
	assert.Greater(t, maxAbs, 0.5)
}

func TestNoiseVaries(t *testing.T) {
	seen := map[float64]bool{}
	for i := 0; i < 50; i++ {
		seen[Noise(mathutil.Vec3{float64(i) * 0.37, 0.5, 0.25})] = true
	}
	assert.Greater(t, len(seen), 10)
}

func TestNoisePeriod256(t *testing.T) {
	p := mathutil.Vec3{0.3, 1.7, 2.2}
	q := p.Add(mathutil.Vec3{256, 0, 0})
	assert.InDelta(t, Noise(p), Noise(q), 1e-9)
}

func TestOctaves(t *testing.T) {
	p := mathutil.Vec3{0.42, -0.7, 0.13}

	assert.Equal(t, 0.0, Octaves(p, 0, DefaultPersistence))
	assert.Equal(t, 0.0, Octaves(p, -3, DefaultPersistence))
	assert.InDelta(t, Noise(p), Octaves(p, 1, DefaultPersistence), 1e-12)

	want := (Noise(p) + 0.5*Noise(p.Scale(2))) / 1.5
	assert.InDelta(t, want, Octaves(p, 2, DefaultPersistence), 1e-12)

	for i := 0; i < 500; i++ {
		f := float64(i) * 0.091
		v := Octaves(mathutil.Vec3{f, f * 0.5, -f}, 8, DefaultPersistence)
		require.GreaterOrEqual(t, v, -1.0)
		require.LessOrEqual(t, v, 1.0)
	}
}
