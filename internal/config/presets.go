package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"procworld/internal/proctree"
)

// Presets maps a preset name to complete tree properties.
type Presets map[string]proctree.Properties

// Names returns the preset names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadPresets reads a YAML mapping of preset name to tree properties.
// Each preset starts from proctree.DefaultProperties, so a preset only
// lists the fields it changes. An empty path yields no presets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return Presets{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes preset YAML held in memory.
func ParsePresets(data []byte) (Presets, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse presets: %w", err)
	}

	out := make(Presets, len(raw))
	for name, node := range raw {
		p := proctree.DefaultProperties()
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("config: preset %q: %w", name, err)
		}
		if errs := validateTree(p); len(errs) > 0 {
			return nil, fmt.Errorf("config: preset %q: %w", name, joinErrors(errs))
		}
		out[name] = p
	}
	return out, nil
}
