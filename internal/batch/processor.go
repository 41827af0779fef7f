// Package batch generates and renders scene objects on a worker pool and
// writes one image per object.
package batch

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"procworld/internal/config"
	"procworld/internal/postprocess"
	"procworld/internal/raster"
	"procworld/internal/scene"
	"procworld/internal/shader"
	"procworld/internal/viewmatrix"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Shaders     shader.Resolver
	Presets     config.Presets
	Camera      viewmatrix.Camera
	Background  color.NRGBA
	RenderSize  int
	Supersample int
	Format      string
	Crop        bool
	FillRatio   float64
	Workers     int

	// Progress receives periodic status lines; nil discards them.
	Progress io.Writer
}

// Result holds the outcome of processing one object.
type Result struct {
	Name       string
	Generator  string
	Image      string
	Vertices   int
	Primitives int
	Success    bool
	Error      string

	img *image.NRGBA
}

// Run generates and renders every object using a worker pool. Objects
// not yet started when ctx is cancelled are reported as failed.
func Run(ctx context.Context, cfg Config, objects []config.ObjectSpec) []Result {
	total := len(objects)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Fprintf(progress, "  [%d/%d] %.1f objects/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = failed(objects[idx], err)
				} else {
					results[idx] = processObject(cfg, objects[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range objects {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

func failed(spec config.ObjectSpec, err error) Result {
	return Result{Name: spec.Name, Generator: spec.Generator, Error: err.Error()}
}

func processObject(cfg Config, spec config.ObjectSpec) Result {
	obj, err := scene.NewObject(spec, cfg.Presets)
	if err != nil {
		return failed(spec, err)
	}

	res := Result{
		Name:       spec.Name,
		Generator:  spec.Generator,
		Vertices:   obj.Mesh.VertexCount(),
		Primitives: obj.Mesh.PrimitiveCount(),
	}

	// Rotation and scale apply; the position is irrelevant once the
	// projection fits the object to the frame.
	img := raster.Render([]raster.Item{{
		Mesh:   obj.Mesh,
		Model:  obj.Transform.Matrix(),
		Shader: obj.Shader,
	}}, cfg.Shaders, raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Camera:      cfg.Camera,
		Background:  cfg.Background,
		PointRadius: 1,
	})

	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize, cfg.RenderSize)
	}
	if cfg.Crop {
		img = postprocess.CropAndCenter(img, cfg.RenderSize, cfg.FillRatio)
	}

	name := spec.Name + "." + cfg.Format
	if err := WriteImage(filepath.Join(cfg.OutputDir, name), cfg.Format, img); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Image = name
	res.Success = true
	res.img = img
	return res
}

// WriteImage encodes img as webp or tga, creating parent directories.
func WriteImage(path, format string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	switch format {
	case config.FormatWebP:
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
	case config.FormatTGA:
		if err := tga.Encode(f, img); err != nil {
			return fmt.Errorf("tga encode: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// WriteSheet tiles every successful render into one image.
func WriteSheet(path, format string, results []Result, cell int) error {
	var imgs []*image.NRGBA
	for _, r := range results {
		if r.img != nil {
			imgs = append(imgs, r.img)
		}
	}
	if len(imgs) == 0 {
		return nil
	}
	cols := min(len(imgs), 4)
	return WriteImage(path, format, postprocess.ContactSheet(imgs, cols, cell))
}
