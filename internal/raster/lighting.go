package raster

import (
	"math"

	"procworld/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	ViewDir   mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightConfig returns a key light from the upper right, a cool rim
// from behind and a dim fill.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{180, 260, 140}.Normalize()
	rimDir := mathutil.Vec3{-160, 130, -210}.Normalize()
	viewDir := mathutil.Vec3{0, -110, -400}.Normalize()

	halfMain := lightDir.Sub(viewDir).Normalize()

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   viewDir,
		HalfMain:  halfMain,
		Ambient:   0.35,
		Hemi:      0.40,
		Direct:    1.30,
		Rim:       0.45,
		SpecInt:   0.25,
		SpecPow:   16.0,
		Exposure:  1.05,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a unit normal.
// Faces are lit from both sides so open twig quads never render black.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Hemisphere fill
	hemi := (1.0-math.Abs(normal[1]))*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := normal.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// surface carries the per-primitive shading inputs.
type surface struct {
	shade float64
	tint  mathutil.Vec3
	unlit bool
}

// put shades an sRGB colour and writes it to pixel i.
func (s *surface) put(fb *FrameBuffer, i int, r, g, b uint8, lc *LightConfig) {
	o := i * 4
	if s.unlit {
		fb.Color[o] = clamp255(float64(r) * s.tint[0])
		fb.Color[o+1] = clamp255(float64(g) * s.tint[1])
		fb.Color[o+2] = clamp255(float64(b) * s.tint[2])
		fb.Color[o+3] = 255
		return
	}

	k := s.shade * lc.Exposure
	tr := ACESTonemap(srgbToLinear[r] * s.tint[0] * k)
	tg := ACESTonemap(srgbToLinear[g] * s.tint[1] * k)
	tb := ACESTonemap(srgbToLinear[b] * s.tint[2] * k)

	fb.Color[o] = clamp255(math.Pow(tr, lc.InvGamma) * 255)
	fb.Color[o+1] = clamp255(math.Pow(tg, lc.InvGamma) * 255)
	fb.Color[o+2] = clamp255(math.Pow(tb, lc.InvGamma) * 255)
	fb.Color[o+3] = 255
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// toSRGB8 quantizes a [0,1] colour to bytes.
func toSRGB8(c mathutil.Vec3) [3]uint8 {
	return [3]uint8{clamp255(c[0] * 255), clamp255(c[1] * 255), clamp255(c[2] * 255)}
}
