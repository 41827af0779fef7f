// Package noise implements classic 3D gradient (Perlin) noise with a fixed
// permutation table, so every sample is reproducible across runs.
package noise

import (
	"math"

	"procworld/internal/mathutil"
)

// DefaultPersistence is the amplitude multiplier between octaves.
const DefaultPersistence = 0.5

// grad3 holds the 12 cube-edge gradient directions.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// p is Ken Perlin's reference permutation.
var p = [256]int{
	151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
	140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
	247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
	57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
	74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
	60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
	65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
	200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
	52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
	207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
	119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
	218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
	81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
	184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
	222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

// perm is p doubled so corner lookups never need a second wrap.
var perm [512]int

func init() {
	for i := range perm {
		perm[i] = p[i&255]
	}
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func mix(a, b, t float64) float64 {
	return a + t*(b-a)
}

func dot(g [3]float64, x, y, z float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z
}

// Noise samples single-octave gradient noise at pt. The result lies in
// [-1, 1] and is 0 at every integer lattice point.
func Noise(pt mathutil.Vec3) float64 {
	return mathutil.Clamp(gradient(pt), -1, 1)
}

// gradient is the unclamped lattice noise. Its magnitude stays below
// about 1.037 for this gradient set.
func gradient(pt mathutil.Vec3) float64 {
	x, y, z := pt[0], pt[1], pt[2]

	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	x -= fx
	y -= fy
	z -= fz

	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	gi000 := perm[X+perm[Y+perm[Z]]] % 12
	gi001 := perm[X+perm[Y+perm[Z+1]]] % 12
	gi010 := perm[X+perm[Y+1+perm[Z]]] % 12
	gi011 := perm[X+perm[Y+1+perm[Z+1]]] % 12
	gi100 := perm[X+1+perm[Y+perm[Z]]] % 12
	gi101 := perm[X+1+perm[Y+perm[Z+1]]] % 12
	gi110 := perm[X+1+perm[Y+1+perm[Z]]] % 12
	gi111 := perm[X+1+perm[Y+1+perm[Z+1]]] % 12

	n000 := dot(grad3[gi000], x, y, z)
	n100 := dot(grad3[gi100], x-1, y, z)
	n010 := dot(grad3[gi010], x, y-1, z)
	n110 := dot(grad3[gi110], x-1, y-1, z)
	n001 := dot(grad3[gi001], x, y, z-1)
	n101 := dot(grad3[gi101], x-1, y, z-1)
	n011 := dot(grad3[gi011], x, y-1, z-1)
	n111 := dot(grad3[gi111], x-1, y-1, z-1)

	u, v, w := fade(x), fade(y), fade(z)

	nx00 := mix(n000, n100, u)
	nx01 := mix(n001, n101, u)
	nx10 := mix(n010, n110, u)
	nx11 := mix(n011, n111, u)

	nxy0 := mix(nx00, nx10, v)
	nxy1 := mix(nx01, nx11, v)

	return mix(nxy0, nxy1, w)
}

// Octaves sums octaves layers of Noise. Frequency doubles and amplitude is
// multiplied by persistence per layer; the sum is divided by the total
// amplitude so the result stays in [-1, 1]. octaves <= 0 yields 0.
func Octaves(pt mathutil.Vec3, octaves int, persistence float64) float64 {
	amplitude := 1.0
	total := 0.0
	result := 0.0
	for ; octaves > 0; octaves-- {
		total += amplitude
		result += Noise(pt) * amplitude
		amplitude *= persistence
		pt = pt.Scale(2)
	}
	if total == 0 {
		return 0
	}
	return result / total
}
