package meshserve

import (
	"procworld/internal/mathutil"
	"procworld/internal/scene"
)

// Message types.
const (
	TypeMesh       = "mesh"
	TypeError      = "error"
	TypeRegenerate = "regenerate"
)

// MeshMessage carries one generated object. Model is the object
// transform, column-major.
type MeshMessage struct {
	Type      string       `json:"type"`
	Name      string       `json:"name"`
	Generator string       `json:"generator"`
	Topology  string       `json:"topology"`
	Shader    string       `json:"shader"`
	Seed      *int64       `json:"seed,omitempty"`
	Model     [16]float32  `json:"model"`
	Vertices  [][3]float32 `json:"vertices"`
	Colors    [][3]float32 `json:"colors"`
	Normals   [][3]float32 `json:"normals"`
	Indices   []uint32     `json:"indices"`
}

// Request is sent by clients. Only "regenerate" is understood.
type Request struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Seed int64  `json:"seed"`
}

// ErrorMessage reports a rejected request to its sender.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func vec32(in []mathutil.Vec3) [][3]float32 {
	out := make([][3]float32, len(in))
	for i, v := range in {
		out[i] = v.Float32()
	}
	return out
}

func encodeObject(o *scene.Object, generator string, seed *int64) MeshMessage {
	m := o.Mesh
	return MeshMessage{
		Type:      TypeMesh,
		Name:      o.Name,
		Generator: generator,
		Topology:  m.Topology().String(),
		Shader:    o.ShaderName(),
		Seed:      seed,
		Model:     o.Transform.Matrix().ColumnMajor32(),
		Vertices:  vec32(m.Positions()),
		Colors:    vec32(m.Colors()),
		Normals:   vec32(m.Normals()),
		Indices:   append([]uint32(nil), m.Indices()...),
	}
}
