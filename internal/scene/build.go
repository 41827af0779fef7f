package scene

import (
	"fmt"

	"procworld/internal/colonize"
	"procworld/internal/config"
	"procworld/internal/geosphere"
	"procworld/internal/lsystem"
	"procworld/internal/mathutil"
	"procworld/internal/mesh"
	"procworld/internal/proctree"
)

// Generate runs the generator named by spec in its output mode and
// places the result at spec.Position.
func Generate(spec config.ObjectSpec, presets config.Presets) (mesh.Placed, error) {
	switch spec.Generator {
	case config.Geosphere:
		p, err := spec.GeosphereParams()
		if err != nil {
			return mesh.Placed{}, err
		}
		return geosphere.Create(spec.Position, p), nil
	case config.Proctree:
		p, err := spec.TreeProperties(presets)
		if err != nil {
			return mesh.Placed{}, err
		}
		switch spec.OutputMode() {
		case config.ModeLines:
			return mesh.Placed{Mesh: proctree.SkeletonLines(proctree.Grow(p)), Origin: spec.Position}, nil
		case config.ModePoints:
			return mesh.Placed{Mesh: proctree.ForkPoints(proctree.Grow(p)), Origin: spec.Position}, nil
		}
		return proctree.Create(spec.Position, p), nil
	case config.Colonize:
		p, err := spec.ColonizeParams()
		if err != nil {
			return mesh.Placed{}, err
		}
		if spec.OutputMode() == config.ModePoints {
			return mesh.Placed{Mesh: colonize.PointCloud(colonize.Grow(p)), Origin: spec.Position}, nil
		}
		return colonize.Create(spec.Position, p), nil
	case config.LSystem:
		p, err := spec.LSystemParams()
		if err != nil {
			return mesh.Placed{}, err
		}
		return lsystem.Create(spec.Position, p), nil
	}
	return mesh.Placed{}, fmt.Errorf("scene: unknown generator %q", spec.Generator)
}

// NewObject generates spec into a detached object.
func NewObject(spec config.ObjectSpec, presets config.Presets) (*Object, error) {
	placed, err := Generate(spec, presets)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", spec.Name, err)
	}
	kind := StaticMesh
	if spec.Spin {
		kind = SpinningGrowth
	}
	s := spec.ScaleOr1()
	return &Object{
		Name:   spec.Name,
		Kind:   kind,
		Mesh:   placed.Mesh,
		Shader: spec.Shader,
		Transform: Transform{
			Position: placed.Origin,
			Rotation: mathutil.Vec3{
				mathutil.Deg2Rad(spec.Rotation[0]),
				mathutil.Deg2Rad(spec.Rotation[1]),
				mathutil.Deg2Rad(spec.Rotation[2]),
			},
			Scale: mathutil.Vec3{s, s, s},
		},
	}, nil
}

// FromConfig generates every object in order.
func FromConfig(specs []config.ObjectSpec, presets config.Presets) (*Scene, error) {
	s := &Scene{Objects: make([]*Object, 0, len(specs))}
	for _, spec := range specs {
		o, err := NewObject(spec, presets)
		if err != nil {
			return nil, err
		}
		s.Objects = append(s.Objects, o)
	}
	return s, nil
}

// Replace swaps the object with the same name for o, keeping its
// accumulated transform. It reports whether a match was found.
func (s *Scene) Replace(o *Object) bool {
	for i, cur := range s.Objects {
		if cur.Name == o.Name {
			o.Transform = cur.Transform
			s.Objects[i] = o
			return true
		}
	}
	return false
}
