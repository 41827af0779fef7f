package mathutil

import "math"

// Preview camera orientations used by the offline renderer.
var (
	// ViewFront looks down -Z with a slight downward tilt: Rx(15°) @ Ry(-20°).
	ViewFront = Mat3Mul(RotX(Deg2Rad(15)), RotY(Deg2Rad(-20)))

	// ViewTop looks straight down the Y axis.
	ViewTop = RotX(math.Pi / 2)

	// ViewSide looks along +X.
	ViewSide = RotY(math.Pi / -2)
)

// ViewByName maps a config string to a preview orientation.
func ViewByName(name string) (Mat3, bool) {
	switch name {
	case "", "front":
		return ViewFront, true
	case "top":
		return ViewTop, true
	case "side":
		return ViewSide, true
	}
	return Mat3{}, false
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
