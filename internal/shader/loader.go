package shader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSource reads one shader stage.
func LoadSource(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("shader: read %s: %w", path, err)
	}
	return string(raw), nil
}

// Load reads every stage listed in paths and the optional material file.
func Load(name string, paths Paths) (*Program, error) {
	p := &Program{Name: name, Material: DefaultMaterial()}

	var err error
	if p.Vertex, err = LoadSource(paths.Vertex); err != nil {
		return nil, err
	}
	if p.Fragment, err = LoadSource(paths.Fragment); err != nil {
		return nil, err
	}
	if paths.Geometry != "" {
		if p.Geometry, err = LoadSource(paths.Geometry); err != nil {
			return nil, err
		}
	}

	if paths.Material != "" {
		raw, err := os.ReadFile(paths.Material)
		if err != nil {
			return nil, fmt.Errorf("shader: read %s: %w", paths.Material, err)
		}
		if err := yaml.Unmarshal(raw, &p.Material); err != nil {
			return nil, fmt.Errorf("shader: parse %s: %w", paths.Material, err)
		}
	}
	return p, nil
}
