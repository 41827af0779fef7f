// Package scene holds generated objects with their transforms and
// advances their per-frame behaviour.
package scene

import (
	"procworld/internal/mathutil"
	"procworld/internal/mesh"
)

// Kind is the closed set of object behaviours.
type Kind int

const (
	// StaticMesh never moves.
	StaticMesh Kind = iota
	// SpinningGrowth turns about its Y axis by one radian per second.
	SpinningGrowth
)

func (k Kind) String() string {
	switch k {
	case StaticMesh:
		return "static"
	case SpinningGrowth:
		return "spinning"
	}
	return "unknown"
}

// Transform places an object: per-axis scale, Euler XYZ rotation in
// radians, then translation.
type Transform struct {
	Position mathutil.Vec3
	Rotation mathutil.Vec3
	Scale    mathutil.Vec3
}

// Identity is the transform of an unplaced object.
func Identity() Transform {
	return Transform{Scale: mathutil.Vec3{1, 1, 1}}
}

// Matrix returns translate · rotate · scale.
func (t Transform) Matrix() mathutil.Mat4 {
	r := mathutil.EulerToQuat(t.Rotation[0], t.Rotation[1], t.Rotation[2]).Mat3()
	rs := mathutil.Mat3Mul(r, mathutil.Mat3Diag(t.Scale[0], t.Scale[1], t.Scale[2]))
	return mathutil.FromMat3Translation(rs, t.Position)
}

// Object is one mesh in the scene.
type Object struct {
	Name      string
	Kind      Kind
	Mesh      *mesh.Mesh
	Shader    string
	Transform Transform
}

// ShaderName is the object's shader override, else the mesh's own.
func (o *Object) ShaderName() string {
	if o.Shader != "" {
		return o.Shader
	}
	return o.Mesh.Shader()
}

// Update advances the object by dt seconds.
func (o *Object) Update(dt float64) {
	switch o.Kind {
	case SpinningGrowth:
		o.Transform.Rotation[1] += dt
	}
}

// Scene is an ordered list of objects.
type Scene struct {
	Objects []*Object
}

// Add appends a placed mesh with the given behaviour.
func (s *Scene) Add(name string, kind Kind, p mesh.Placed) *Object {
	t := Identity()
	t.Position = p.Origin
	o := &Object{Name: name, Kind: kind, Mesh: p.Mesh, Transform: t}
	s.Objects = append(s.Objects, o)
	return o
}

// Update advances every object.
func (s *Scene) Update(dt float64) {
	for _, o := range s.Objects {
		o.Update(dt)
	}
}

// Find returns the object named name, or nil.
func (s *Scene) Find(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Bounds returns the world-space bounding box of every object.
func (s *Scene) Bounds() (lo, hi mathutil.Vec3, ok bool) {
	for _, o := range s.Objects {
		m := o.Transform.Matrix()
		for _, p := range o.Mesh.Positions() {
			w := m.MulPoint(p)
			if !ok {
				lo, hi, ok = w, w, true
				continue
			}
			for i := range 3 {
				lo[i] = min(lo[i], w[i])
				hi[i] = max(hi[i], w[i])
			}
		}
	}
	return lo, hi, ok
}
