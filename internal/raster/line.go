package raster

import "math"

// RasterizeLine draws a one-pixel line with depth and colour interpolated
// along its length.
func RasterizeLine(
	fb *FrameBuffer,
	px, py, pz []float64,
	colors [][3]uint8,
	a, b int,
	s *surface,
	lc *LightConfig,
) {
	nv := len(px)
	if a < 0 || b < 0 || a >= nv || b >= nv || a >= len(colors) || b >= len(colors) {
		return
	}
	dx := px[b] - px[a]
	dy := py[b] - py[a]
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps < 1 {
		steps = 1
	}
	ca, cb := colors[a], colors[b]
	for k := 0; k <= steps; k++ {
		t := float64(k) / float64(steps)
		x := int(math.Round(px[a] + dx*t))
		y := int(math.Round(py[a] + dy*t))
		z := pz[a] + (pz[b]-pz[a])*t
		i, ok := fb.depthTest(x, y, z)
		if !ok {
			continue
		}
		s.put(fb, i,
			clamp255(float64(ca[0])+(float64(cb[0])-float64(ca[0]))*t),
			clamp255(float64(ca[1])+(float64(cb[1])-float64(ca[1]))*t),
			clamp255(float64(ca[2])+(float64(cb[2])-float64(ca[2]))*t),
			lc)
	}
}

// RasterizePoint splats a (2*radius+1)² square centred on vertex i.
func RasterizePoint(
	fb *FrameBuffer,
	px, py, pz []float64,
	colors [][3]uint8,
	i, radius int,
	s *surface,
	lc *LightConfig,
) {
	if i < 0 || i >= len(px) || i >= len(colors) {
		return
	}
	cx := int(math.Round(px[i]))
	cy := int(math.Round(py[i]))
	c := colors[i]
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if idx, ok := fb.depthTest(x, y, pz[i]); ok {
				s.put(fb, idx, c[0], c[1], c[2], lc)
			}
		}
	}
}
