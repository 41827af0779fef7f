// Package viewer shows a scene in a raylib window with a free-fly camera.
package viewer

import (
	"context"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"procworld/internal/config"
	"procworld/internal/mathutil"
	"procworld/internal/scene"
	"procworld/internal/shader"
	"procworld/internal/viewmatrix"
)

// Options configures the window.
type Options struct {
	Width  int
	Height int
	Title  string
	FPS    int

	// Specs and Presets let R regenerate seeded objects in place.
	Specs   []config.ObjectSpec
	Presets config.Presets

	// ConfigPath, when set, is watched and the scene rebuilt on change.
	ConfigPath string
}

// DefaultOptions is a 640×480 window at 60 fps.
func DefaultOptions() Options {
	return Options{Width: 640, Height: 480, Title: "Procedural world", FPS: 60}
}

var background = rl.NewColor(102, 153, 204, 255)

// Viewer owns the window-side state for one scene.
type Viewer struct {
	sc      *scene.Scene
	opt     Options
	log     *slog.Logger
	mats    *materials
	meshes  map[*scene.Object]*gpuMesh
	cam     rl.Camera3D
	paused  bool
	reloads chan reload
}

type reload struct {
	specs   []config.ObjectSpec
	presets config.Presets
	err     error
}

// New prepares a viewer; no window exists until Run.
func New(sc *scene.Scene, shaders *shader.Table, opt Options, log *slog.Logger) *Viewer {
	if log == nil {
		log = slog.Default()
	}
	return &Viewer{
		sc:      sc,
		opt:     opt,
		log:     log,
		mats:    newMaterials(shaders, log),
		meshes:  make(map[*scene.Object]*gpuMesh),
		reloads: make(chan reload, 1),
	}
}

// Run opens the window and draws until it is closed or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(v.opt.Width), int32(v.opt.Height), v.opt.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(v.opt.FPS))

	v.cam = v.initialCamera()
	for _, o := range v.sc.Objects {
		v.meshes[o] = upload(o.Mesh)
	}
	v.log.Info("scene uploaded", "objects", len(v.sc.Objects))
	defer v.release()

	if v.opt.ConfigPath != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go v.watch(watchCtx)
	}

	rl.DisableCursor()
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		dt := float64(rl.GetFrameTime())
		select {
		case r := <-v.reloads:
			v.apply(r)
		default:
		}
		v.handleKeys()
		rl.UpdateCamera(&v.cam, rl.CameraFree)
		if !v.paused {
			v.sc.Update(dt)
		}

		rl.BeginDrawing()
		rl.ClearBackground(background)
		rl.BeginMode3D(v.cam)
		for _, o := range v.sc.Objects {
			g := v.meshes[o]
			if g == nil {
				g = upload(o.Mesh)
				v.meshes[o] = g
			}
			g.draw(v.mats.get(o.ShaderName()), o.Transform.Matrix())
		}
		rl.EndMode3D()
		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
	return ctx.Err()
}

// initialCamera frames the whole scene from the front.
func (v *Viewer) initialCamera() rl.Camera3D {
	center, dist := mathutil.Vec3{}, 20.0
	if lo, hi, ok := v.sc.Bounds(); ok {
		center = lo.Add(hi).Scale(0.5)
		dist = max(hi.Sub(lo).Len(), 1)
	}
	pos := center.Add(mathutil.Vec3{0, 0.3, 1}.Scale(dist))
	return rl.Camera3D{
		Position:   rl.NewVector3(float32(pos[0]), float32(pos[1]), float32(pos[2])),
		Target:     rl.NewVector3(float32(center[0]), float32(center[1]), float32(center[2])),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       viewmatrix.DefaultFOV,
		Projection: rl.CameraPerspective,
	}
}

func (v *Viewer) handleKeys() {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.regenerate(rand.Int63n(1 << 31))
	}
}

// regenerate rebuilds every seeded object with seed.
func (v *Viewer) regenerate(seed int64) {
	for _, spec := range v.opt.Specs {
		seeded, ok, err := spec.WithSeed(seed, v.opt.Presets)
		if err != nil {
			v.log.Error("reseed failed", "object", spec.Name, "err", err)
			continue
		}
		if !ok {
			continue
		}
		obj, err := scene.NewObject(seeded, v.opt.Presets)
		if err != nil {
			v.log.Error("regenerate failed", "object", spec.Name, "err", err)
			continue
		}
		old := v.sc.Find(spec.Name)
		if !v.sc.Replace(obj) {
			continue
		}
		if g := v.meshes[old]; g != nil {
			g.unload()
			delete(v.meshes, old)
		}
		v.meshes[obj] = upload(obj.Mesh)
		v.log.Info("regenerated", "object", spec.Name, "seed", seed, "vertices", obj.Mesh.VertexCount())
	}
}

func (v *Viewer) release() {
	for o, g := range v.meshes {
		g.unload()
		delete(v.meshes, o)
	}
	v.mats.unload()
}

func (v *Viewer) watch(ctx context.Context) {
	err := config.Watch(ctx, v.opt.ConfigPath, config.Flags{}, func(cfg config.Config, presets config.Presets, err error) {
		r := reload{specs: cfg.Objects, presets: presets, err: err}
		// Keep only the newest pending reload.
		select {
		case <-v.reloads:
		default:
		}
		v.reloads <- r
	})
	if err != nil {
		v.log.Error("config watch stopped", "err", err)
	}
}

// apply swaps in a rebuilt scene. GPU work stays on the window thread.
func (v *Viewer) apply(r reload) {
	if r.err != nil {
		v.log.Error("config reload failed", "err", r.err)
		return
	}
	sc, err := scene.FromConfig(r.specs, r.presets)
	if err != nil {
		v.log.Error("scene rebuild failed", "err", err)
		return
	}
	for o, g := range v.meshes {
		g.unload()
		delete(v.meshes, o)
	}
	v.sc = sc
	v.opt.Specs = r.specs
	v.opt.Presets = r.presets
	v.log.Info("scene reloaded", "objects", len(sc.Objects))
}
