// Package lsystem rewrites bracketed L-system sentences and draws them
// with a 3D turtle as a line list.
package lsystem

import (
	"strings"

	"procworld/internal/mathutil"
	"procworld/internal/mesh"
)

const Shader = "default"

// Params describes one L-system. Rules maps a single symbol to its
// replacement; symbols without a rule are copied unchanged.
type Params struct {
	Axiom      string            `json:"axiom" yaml:"axiom"`
	Rules      map[string]string `json:"rules" yaml:"rules"`
	Iterations int               `json:"iterations" yaml:"iterations"`
	Angle      float64           `json:"angle_degrees" yaml:"angle_degrees"`
}

// DefaultParams is the two-symbol fan used by the demo scene.
func DefaultParams() Params {
	return Params{
		Axiom: "AB",
		Rules: map[string]string{
			"A": "[F[+FCA][-FCA]]",
			"B": "[F[+FCB][-FCB]]",
		},
		Iterations: 4,
		Angle:      20,
	}
}

// Rewrite applies the rules to axiom iterations times.
func Rewrite(axiom string, rules map[string]string, iterations int) string {
	sentence := axiom
	for ; iterations > 0; iterations-- {
		var next strings.Builder
		for _, ch := range sentence {
			if r, ok := rules[string(ch)]; ok {
				next.WriteString(r)
			} else {
				next.WriteRune(ch)
			}
		}
		sentence = next.String()
	}
	return sentence
}

type turtle struct {
	pos mathutil.Vec3
	rot mathutil.Vec3
}

// forward is the turtle's local +Y axis after Euler XYZ rotation.
func (t turtle) forward() mathutil.Vec3 {
	return mathutil.EulerXYZ(t.rot[0], t.rot[1], t.rot[2]).Row(1).NormalizeOr(mathutil.UnitY)
}

// Draw interprets sentence with a unit-step turtle:
//
//	F draw forward    f move forward
//	+ - roll about X  & ^ pitch about Y  < > yaw about Z
//	[ ] push and pop state
//
// Other symbols are ignored. A ']' with nothing pushed is ignored.
func Draw(sentence string, angle float64) *mesh.Mesh {
	b := mesh.NewBuilder()
	var stack []turtle
	state := turtle{}

	for _, ch := range sentence {
		switch ch {
		case 'F':
			i0 := b.AddVertex(state.pos, b.Color, mathutil.UnitY)
			state.pos = state.pos.Add(state.forward())
			i1 := b.AddVertex(state.pos, b.Color, mathutil.UnitY)
			b.AddLine(i0, i1)
		case 'f':
			state.pos = state.pos.Add(state.forward())
		case '+':
			state.rot[0] += angle
		case '-':
			state.rot[0] -= angle
		case '&':
			state.rot[1] += angle
		case '^':
			state.rot[1] -= angle
		case '<':
			state.rot[2] += angle
		case '>':
			state.rot[2] -= angle
		case '[':
			stack = append(stack, state)
		case ']':
			if len(stack) == 0 {
				continue
			}
			state = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
	}
	return b.Build(mesh.Lines, Shader)
}

// Generate rewrites and draws p.
func Generate(p Params) *mesh.Mesh {
	return Draw(Rewrite(p.Axiom, p.Rules, p.Iterations), mathutil.Deg2Rad(p.Angle))
}

// Create builds the sculpture and places it at origin.
func Create(origin mathutil.Vec3, p Params) mesh.Placed {
	return mesh.Placed{Mesh: Generate(p), Origin: origin}
}
