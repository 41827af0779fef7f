package viewer

import (
	"procworld/internal/mathutil"
	"procworld/internal/mesh"
)

// buffers holds a mesh flattened into the attribute layout raylib
// uploads: unindexed float32 positions and normals, RGBA8 colours.
type buffers struct {
	vertices  []float32
	normals   []float32
	colors    []uint8
	count     int
	triangles int
}

// packTriangles expands a triangle mesh into per-corner attributes.
// raylib indices are 16-bit, so meshes are always uploaded unindexed.
func packTriangles(m *mesh.Mesh) buffers {
	flat := m.Unindexed()
	n := len(flat.Positions)
	b := buffers{
		vertices:  make([]float32, 0, n*3),
		normals:   make([]float32, 0, n*3),
		colors:    make([]uint8, 0, n*4),
		count:     n,
		triangles: n / 3,
	}
	for i, p := range flat.Positions {
		v := p.Float32()
		b.vertices = append(b.vertices, v[:]...)

		nrm := mathutil.UnitY
		if flat.Normals != nil {
			nrm = flat.Normals[i]
		}
		f := nrm.Float32()
		b.normals = append(b.normals, f[:]...)

		c := mesh.White
		if flat.Colors != nil {
			c = flat.Colors[i]
		}
		b.colors = append(b.colors, unit8(c[0]), unit8(c[1]), unit8(c[2]), 255)
	}
	return b
}

func unit8(v float64) uint8 {
	return uint8(mathutil.Clamp(v, 0, 1)*255 + 0.5)
}
