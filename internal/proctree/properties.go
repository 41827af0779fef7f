package proctree

import "math"

// Properties parameterizes skeleton growth and skinning.
type Properties struct {
	ClumpMax            float64 `json:"clump_max" yaml:"clump_max"`
	ClumpMin            float64 `json:"clump_min" yaml:"clump_min"`
	LengthFalloffFactor float64 `json:"length_falloff_factor" yaml:"length_falloff_factor"`
	LengthFalloffPower  float64 `json:"length_falloff_power" yaml:"length_falloff_power"`
	BranchFactor        float64 `json:"branch_factor" yaml:"branch_factor"`
	RadiusFalloffRate   float64 `json:"radius_falloff_rate" yaml:"radius_falloff_rate"`
	ClimbRate           float64 `json:"climb_rate" yaml:"climb_rate"`
	TrunkKink           float64 `json:"trunk_kink" yaml:"trunk_kink"`
	MaxRadius           float64 `json:"max_radius" yaml:"max_radius"`
	TreeSteps           int     `json:"tree_steps" yaml:"tree_steps"`
	TaperRate           float64 `json:"taper_rate" yaml:"taper_rate"`
	TwistRate           float64 `json:"twist_rate" yaml:"twist_rate"`
	Segments            int     `json:"segments" yaml:"segments"`
	Levels              int     `json:"levels" yaml:"levels"`
	SweepAmount         float64 `json:"sweep_amount" yaml:"sweep_amount"`
	InitialBranchLength float64 `json:"initial_branch_length" yaml:"initial_branch_length"`
	TrunkLength         float64 `json:"trunk_length" yaml:"trunk_length"`
	DropAmount          float64 `json:"drop_amount" yaml:"drop_amount"`
	GrowAmount          float64 `json:"grow_amount" yaml:"grow_amount"`
	TwigScale           float64 `json:"twig_scale" yaml:"twig_scale"`
	Seed                int     `json:"seed" yaml:"seed"`
}

func DefaultProperties() Properties {
	return Properties{
		ClumpMax:            0.454,
		ClumpMin:            0.404,
		LengthFalloffFactor: 0.85,
		LengthFalloffPower:  0.99,
		BranchFactor:        2.45,
		RadiusFalloffRate:   0.73,
		ClimbRate:           0.371,
		TrunkKink:           0.093,
		MaxRadius:           0.695,
		TreeSteps:           5,
		TaperRate:           0.947,
		TwistRate:           3.02,
		Segments:            6,
		Levels:              5,
		SweepAmount:         0.05,
		InitialBranchLength: 4.9,
		TrunkLength:         12,
		DropAmount:          -0.1,
		GrowAmount:          0.235,
		TwigScale:           0.39,
		Seed:                262,
	}
}

// RingSegments returns Segments rounded up to an even count of at least 2.
// Fork rings are built in two halves.
func (p Properties) RingSegments() int {
	s := p.Segments
	if s < 2 {
		return 2
	}
	if s%2 != 0 {
		s++
	}
	return s
}

// Hash maps x to [0, 1] as |cos(x + x²)|. It is a pure function of x.
func Hash(x float64) float64 {
	return math.Abs(math.Cos(x + x*x))
}
