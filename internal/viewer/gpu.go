package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"procworld/internal/mathutil"
	"procworld/internal/mesh"
	"procworld/internal/shader"
)

// gpuMesh is one uploaded mesh. Triangle meshes live in a VAO; lines and
// points are kept on the CPU and drawn in immediate mode.
type gpuMesh struct {
	topology mesh.Topology
	mesh     rl.Mesh
	buf      buffers
	uploaded bool
}

func upload(m *mesh.Mesh) *gpuMesh {
	g := &gpuMesh{topology: m.Topology(), buf: packTriangles(m)}
	if g.topology != mesh.Triangles || g.buf.count == 0 {
		return g
	}
	g.mesh = rl.Mesh{
		VertexCount:   int32(g.buf.count),
		TriangleCount: int32(g.buf.triangles),
		Vertices:      &g.buf.vertices[0],
		Normals:       &g.buf.normals[0],
		Colors:        &g.buf.colors[0],
	}
	rl.UploadMesh(&g.mesh, false)
	g.uploaded = true
	return g
}

func (g *gpuMesh) unload() {
	if !g.uploaded {
		return
	}
	// The attribute slices are Go memory; detach them so raylib only
	// frees the GPU buffers.
	g.mesh.Vertices = nil
	g.mesh.Normals = nil
	g.mesh.Colors = nil
	rl.UnloadMesh(&g.mesh)
	g.uploaded = false
}

func (g *gpuMesh) draw(mat rl.Material, model mathutil.Mat4) {
	switch g.topology {
	case mesh.Triangles:
		if g.uploaded {
			rl.DrawMesh(g.mesh, mat, toMatrix(model))
		}
	case mesh.Lines, mesh.Points:
		f := model.ColumnMajor32()
		rl.PushMatrix()
		rl.MultMatrixf(f[:])
		g.drawImmediate()
		rl.PopMatrix()
	}
}

func (g *gpuMesh) drawImmediate() {
	v, c := g.buf.vertices, g.buf.colors
	at := func(i int) (rl.Vector3, rl.Color) {
		return rl.NewVector3(v[i*3], v[i*3+1], v[i*3+2]),
			rl.NewColor(c[i*4], c[i*4+1], c[i*4+2], c[i*4+3])
	}
	if g.topology == mesh.Points {
		for i := 0; i < g.buf.count; i++ {
			p, col := at(i)
			rl.DrawPoint3D(p, col)
		}
		return
	}
	for i := 0; i+1 < g.buf.count; i += 2 {
		a, col := at(i)
		b, _ := at(i + 1)
		rl.DrawLine3D(a, b, col)
	}
}

func toMatrix(m mathutil.Mat4) rl.Matrix {
	f := m.ColumnMajor32()
	return rl.Matrix{
		M0: f[0], M1: f[1], M2: f[2], M3: f[3],
		M4: f[4], M5: f[5], M6: f[6], M7: f[7],
		M8: f[8], M9: f[9], M10: f[10], M11: f[11],
		M12: f[12], M13: f[13], M14: f[14], M15: f[15],
	}
}

// materials compiles one raylib material per shader name on first use.
type materials struct {
	table  *shader.Table
	log    *slog.Logger
	loaded map[string]rl.Material
}

func newMaterials(table *shader.Table, log *slog.Logger) *materials {
	return &materials{table: table, log: log, loaded: make(map[string]rl.Material)}
}

func (m *materials) get(name string) rl.Material {
	if mat, ok := m.loaded[name]; ok {
		return mat
	}

	vs, fs := litVS, litFS
	mat := shader.DefaultMaterial()
	if p := m.table.Resolve(name); p != nil {
		mat = p.Material
		if p.Vertex != "" && p.Fragment != "" {
			vs, fs = p.Vertex, p.Fragment
		}
	} else {
		m.log.Warn("unknown shader, using default", "shader", name)
	}

	out := rl.LoadMaterialDefault()
	if albedo := out.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(unit8(mat.Tint[0]), unit8(mat.Tint[1]), unit8(mat.Tint[2]), 255)
	}
	sh := rl.LoadShaderFromMemory(vs, fs)
	if rl.IsShaderValid(sh) {
		out.Shader = sh
		setLightUniforms(sh, mat)
	} else {
		m.log.Error("shader failed to compile", "shader", name)
	}

	m.loaded[name] = out
	return out
}

func (m *materials) unload() {
	for _, mat := range m.loaded {
		rl.UnloadMaterial(mat)
	}
	clear(m.loaded)
}

var lightDir = [3]float32{0.4, 1, 0.6}

func setLightUniforms(sh rl.Shader, mat shader.Material) {
	dir := lightDir
	if loc := rl.GetShaderLocation(sh, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(sh, loc, dir[:], rl.ShaderUniformVec3, 1)
	}
	ambient := float32(mat.Ambient)
	if mat.Unlit {
		ambient = 1
	}
	if loc := rl.GetShaderLocation(sh, "ambient"); loc >= 0 {
		rl.SetShaderValue(sh, loc, []float32{ambient}, rl.ShaderUniformFloat)
	}
}

// Vertex colour times material tint, lit by one directional light.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
in vec4 vertexColor;
uniform mat4 mvp;
uniform mat4 matModel;
out vec3 fragNormal;
out vec4 fragColor;
void main() {
  fragNormal = mat3(matModel) * vertexNormal;
  fragColor = vertexColor;
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragNormal;
in vec4 fragColor;
uniform vec4 colDiffuse;
uniform vec3 lightDir;
uniform float ambient;
out vec4 finalColor;
void main() {
  float ndl = max(dot(normalize(fragNormal), normalize(lightDir)), 0.0);
  float shade = ambient + (1.0 - ambient) * ndl;
  finalColor = vec4(fragColor.rgb * colDiffuse.rgb * shade, 1.0);
}
`
)
