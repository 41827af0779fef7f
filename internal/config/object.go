package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"procworld/internal/colonize"
	"procworld/internal/geosphere"
	"procworld/internal/lsystem"
	"procworld/internal/mathutil"
	"procworld/internal/proctree"
)

// Generator names accepted in ObjectSpec.Generator.
const (
	Geosphere = "geosphere"
	Proctree  = "proctree"
	Colonize  = "colonize"
	LSystem   = "lsystem"
)

// Output modes accepted in ObjectSpec.Mode. Empty selects the
// generator's own topology.
const (
	ModeMesh   = "mesh"
	ModeLines  = "lines"
	ModePoints = "points"
)

// modes lists the output modes each generator can produce; the first is
// its default.
var modes = map[string][]string{
	Geosphere: {ModeMesh},
	Proctree:  {ModeMesh, ModeLines, ModePoints},
	Colonize:  {ModeMesh, ModePoints},
	LSystem:   {ModeLines},
}

// ObjectSpec describes one scene object. Params is decoded over the
// generator's defaults, so it only needs the fields that differ.
type ObjectSpec struct {
	Name      string          `json:"name"`
	Generator string          `json:"generator"`
	Preset    string          `json:"preset,omitempty"`
	Mode      string          `json:"mode,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	Shader    string          `json:"shader,omitempty"`
	Position  mathutil.Vec3   `json:"position"`
	Rotation  mathutil.Vec3   `json:"rotation_degrees"`
	Scale     float64         `json:"scale,omitempty"`
	Spin      bool            `json:"spin,omitempty"`
}

// DefaultObjects is the demo scene: a planet, a proctree, a colonized
// tree spinning about its trunk, and an L-system fan.
func DefaultObjects() []ObjectSpec {
	return []ObjectSpec{
		{Name: "planet", Generator: Geosphere, Position: mathutil.Vec3{-60, 0, 0}, Scale: 8},
		{Name: "tree", Generator: Proctree, Position: mathutil.Vec3{-15, -20, 0}, Scale: 3},
		{Name: "growth", Generator: Colonize, Position: mathutil.Vec3{40, 0, 0}, Scale: 0.4, Spin: true},
		{Name: "fan", Generator: LSystem, Position: mathutil.Vec3{10, -20, 20}, Scale: 6},
	}
}

// OutputMode returns Mode, or the generator's default when Mode is empty.
func (o ObjectSpec) OutputMode() string {
	if o.Mode != "" {
		return o.Mode
	}
	if m := modes[o.Generator]; len(m) > 0 {
		return m[0]
	}
	return ModeMesh
}

// ScaleOr1 returns Scale, treating zero as 1.
func (o ObjectSpec) ScaleOr1() float64 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

func (o ObjectSpec) decode(dst any) error {
	if len(bytes.TrimSpace(o.Params)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(o.Params))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%s params: %w", o.Generator, err)
	}
	return nil
}

// GeosphereParams decodes Params over geosphere.DefaultParams.
func (o ObjectSpec) GeosphereParams() (geosphere.Params, error) {
	p := geosphere.DefaultParams()
	err := o.decode(&p)
	return p, err
}

// TreeProperties starts from the named preset (or the defaults) and
// decodes Params over it.
func (o ObjectSpec) TreeProperties(presets Presets) (proctree.Properties, error) {
	p := proctree.DefaultProperties()
	if o.Preset != "" {
		pp, ok := presets[o.Preset]
		if !ok {
			return p, fmt.Errorf("unknown tree preset %q", o.Preset)
		}
		p = pp
	}
	err := o.decode(&p)
	return p, err
}

// ColonizeParams decodes Params over colonize.DefaultParams.
func (o ObjectSpec) ColonizeParams() (colonize.Params, error) {
	p := colonize.DefaultParams()
	err := o.decode(&p)
	return p, err
}

// LSystemParams decodes Params over lsystem.DefaultParams. A rules
// object in Params replaces the default rules entirely.
func (o ObjectSpec) LSystemParams() (lsystem.Params, error) {
	p := lsystem.DefaultParams()
	if len(bytes.TrimSpace(o.Params)) > 0 {
		// Key matching is case-insensitive, as in decode.
		var keys struct {
			Rules *json.RawMessage `json:"rules"`
		}
		if json.Unmarshal(o.Params, &keys) == nil && keys.Rules != nil {
			p.Rules = nil
		}
	}
	err := o.decode(&p)
	return p, err
}

// WithSeed returns a copy whose Params carry seed. Generators without a
// seed are returned unchanged with ok false.
func (o ObjectSpec) WithSeed(seed int64, presets Presets) (ObjectSpec, bool, error) {
	var params any
	switch o.Generator {
	case Proctree:
		p, err := o.TreeProperties(presets)
		if err != nil {
			return o, false, err
		}
		p.Seed = int(seed)
		params = p
	case Colonize:
		p, err := o.ColonizeParams()
		if err != nil {
			return o, false, err
		}
		p.Seed = seed
		params = p
	default:
		return o, false, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return o, false, fmt.Errorf("config: encode params: %w", err)
	}
	out := o
	out.Preset = ""
	out.Params = raw
	return out, true, nil
}

// Validate checks the name, the generator and the decoded parameters.
func (o ObjectSpec) Validate(presets Presets) error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	if strings.ContainsAny(o.Name, `/\`) || o.Name == "." || o.Name == ".." {
		return fmt.Errorf("name %q is not a valid file name", o.Name)
	}
	if !o.Position.IsFinite() || !o.Rotation.IsFinite() || math.IsNaN(o.Scale) || o.Scale < 0 {
		return fmt.Errorf("%s: invalid transform", o.Name)
	}

	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	if allowed, known := modes[o.Generator]; known {
		check(slices.Contains(allowed, o.OutputMode()), "mode %q not supported by %s, want one of %v", o.Mode, o.Generator, allowed)
	}

	switch o.Generator {
	case Geosphere:
		p, err := o.GeosphereParams()
		if err != nil {
			return fmt.Errorf("%s: %w", o.Name, err)
		}
		check(p.LevelOfDetail >= 0 && p.LevelOfDetail <= 8, "level_of_detail must be in [0, 8], got %d", p.LevelOfDetail)
		check(p.Radius > 0, "radius must be positive, got %g", p.Radius)
		check(p.HeightVariation >= 0, "height_variation must not be negative, got %g", p.HeightVariation)
		check(p.Octaves >= 0 && p.Octaves <= 16, "octaves must be in [0, 16], got %d", p.Octaves)
	case Proctree:
		p, err := o.TreeProperties(presets)
		if err != nil {
			return fmt.Errorf("%s: %w", o.Name, err)
		}
		errs = append(errs, validateTree(p)...)
	case Colonize:
		p, err := o.ColonizeParams()
		if err != nil {
			return fmt.Errorf("%s: %w", o.Name, err)
		}
		check(p.Attractors >= 0, "attractors must not be negative, got %d", p.Attractors)
		check(p.HalfExtent > 0, "half_extent must be positive, got %g", p.HalfExtent)
		check(p.TrunkStep > 0, "trunk_step must be positive, got %g", p.TrunkStep)
		check(p.Step > 0, "step must be positive, got %g", p.Step)
		check(p.MinDist >= 0 && p.MinDist < p.MaxDist, "need 0 <= min_dist < max_dist, got %g, %g", p.MinDist, p.MaxDist)
		check(p.MaxIterations >= 0, "max_iterations must not be negative, got %d", p.MaxIterations)
		check(p.Radius > 0, "radius must be positive, got %g", p.Radius)
		check(p.Sides >= 3, "sides must be at least 3, got %d", p.Sides)
		check(p.Rings >= 1, "rings must be at least 1, got %d", p.Rings)
	case LSystem:
		p, err := o.LSystemParams()
		if err != nil {
			return fmt.Errorf("%s: %w", o.Name, err)
		}
		check(p.Axiom != "", "axiom is required")
		check(p.Iterations >= 0 && p.Iterations <= 10, "iterations must be in [0, 10], got %d", p.Iterations)
		for k := range p.Rules {
			check(len([]rune(k)) == 1, "rule key %q must be a single symbol", k)
		}
	default:
		return fmt.Errorf("%s: unknown generator %q", o.Name, o.Generator)
	}

	if err := joinErrors(errs); err != nil {
		return fmt.Errorf("%s: %w", o.Name, err)
	}
	return nil
}

func validateTree(p proctree.Properties) []error {
	var errs []error
	if p.Segments < 1 {
		errs = append(errs, fmt.Errorf("segments must be at least 1, got %d", p.Segments))
	}
	if p.Levels < 0 || p.Levels > 8 {
		errs = append(errs, fmt.Errorf("levels must be in [0, 8], got %d", p.Levels))
	}
	if p.TreeSteps < 0 {
		errs = append(errs, fmt.Errorf("tree_steps must not be negative, got %d", p.TreeSteps))
	}
	if p.MaxRadius <= 0 {
		errs = append(errs, fmt.Errorf("max_radius must be positive, got %g", p.MaxRadius))
	}
	if p.InitialBranchLength <= 0 {
		errs = append(errs, fmt.Errorf("initial_branch_length must be positive, got %g", p.InitialBranchLength))
	}
	return errs
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
