package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"procworld/internal/batch"
	"procworld/internal/config"
	"procworld/internal/mathutil"
	"procworld/internal/shader"
	"procworld/internal/viewmatrix"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to scene config JSON file")
	only := flag.String("object", "", "Render only the object with this name")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	format := flag.String("format", "", "Output format: webp or tga (default: webp)")
	size := flag.Int("size", 0, "Output image size in pixels (default: 256)")
	supersample := flag.Int("ss", 0, "Supersample factor (default: 2)")
	view := flag.String("view", "", "Camera view: front, top or side")
	perspective := flag.Bool("perspective", false, "Use a perspective camera")
	sheet := flag.Bool("sheet", true, "Also write a contact sheet of all objects")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:   *outputDir,
		Format:      *format,
		Size:        *size,
		Supersample: *supersample,
		Workers:     *workers,
		View:        *view,
		Perspective: *perspective,
	})

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading presets: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(presets); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config:\n%v\n", err)
		os.Exit(1)
	}

	objects := cfg.Objects
	if *only != "" {
		var filtered []config.ObjectSpec
		for _, o := range objects {
			if o.Name == *only {
				filtered = append(filtered, o)
			}
		}
		objects = filtered
	}
	if len(objects) == 0 {
		fmt.Println("No objects to render.")
		os.Exit(0)
	}

	shaderIndex := shader.BuildIndex(cfg.ShaderDir)
	shaders := shader.NewTable(shaderIndex)
	fmt.Printf("Shaders: %d indexed\n", shaderIndex.Len())

	viewRot, _ := mathutil.ViewByName(cfg.View)

	fmt.Printf("Procedural mesh renderer → %s\n", cfg.Format)
	fmt.Printf("Objects: %d, Workers: %d, Size: %d (x%d)\n", len(objects), cfg.Workers, cfg.RenderSize, cfg.Supersample)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir: cfg.OutputDir,
		Shaders:   shaders,
		Presets:   presets,
		Camera: viewmatrix.Camera{
			View:        viewRot,
			Perspective: cfg.Perspective,
			FOV:         cfg.FOV,
		},
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Format:      cfg.Format,
		Crop:        cfg.Crop,
		FillRatio:   cfg.FillRatio,
		Workers:     cfg.Workers,
		Progress:    os.Stdout,
	}

	results := batch.Run(ctx, batchCfg, objects)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			fmt.Printf("  %-12s %-10s %8d verts %8d prims\n", r.Name, r.Generator, r.Vertices, r.Primitives)
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(objects))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	if *sheet && success > 1 {
		sheetPath := filepath.Join(cfg.OutputDir, "sheet."+cfg.Format)
		if err := batch.WriteSheet(sheetPath, cfg.Format, results, cfg.RenderSize); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: contact sheet failed: %v\n", err)
		} else {
			fmt.Printf("Sheet: %s\n", sheetPath)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
