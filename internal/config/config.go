package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"procworld/internal/mathutil"
)

// Output formats.
const (
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// Config holds paths, render settings and the scene description.
type Config struct {
	// Paths
	OutputDir   string `json:"output_dir"`
	PresetsFile string `json:"presets_file"`
	ShaderDir   string `json:"shader_dir"`

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	Format      string  `json:"format"`
	Crop        bool    `json:"crop"`
	FillRatio   float64 `json:"fill_ratio"`
	Workers     int     `json:"workers"`

	// Camera
	View        string  `json:"view"`
	Perspective bool    `json:"perspective"`
	FOV         float64 `json:"fov"`

	Objects []ObjectSpec `json:"objects"`

	baseDir string
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values; relative paths are
// later resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.baseDir = filepath.Dir(path)

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir   string
	Format      string
	Size        int
	Supersample int
	Workers     int
	View        string
	Perspective bool
}

// Resolve fills in empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.View != "" {
		c.View = flags.View
	}
	if flags.Perspective {
		c.Perspective = true
	}

	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	c.OutputDir = c.resolvePath(c.OutputDir)
	c.PresetsFile = c.resolvePath(c.PresetsFile)
	c.ShaderDir = c.resolvePath(c.ShaderDir)

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Format == "" {
		c.Format = FormatWebP
	}
	if c.FillRatio <= 0 {
		c.FillRatio = 0.9
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.View == "" {
		c.View = "front"
	}
	if c.FOV <= 0 {
		c.FOV = 45
	}
	if len(c.Objects) == 0 {
		c.Objects = DefaultObjects()
	}
}

func (c *Config) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// Validate reports every problem in a resolved config.
func (c *Config) Validate(presets Presets) error {
	var errs []error
	if c.RenderSize <= 0 {
		errs = append(errs, fmt.Errorf("render_size must be positive, got %d", c.RenderSize))
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		errs = append(errs, fmt.Errorf("supersample must be in [1, 8], got %d", c.Supersample))
	}
	if c.Format != FormatWebP && c.Format != FormatTGA {
		errs = append(errs, fmt.Errorf("unknown format %q", c.Format))
	}
	if c.FillRatio > 1 {
		errs = append(errs, fmt.Errorf("fill_ratio must be at most 1, got %g", c.FillRatio))
	}
	if _, ok := mathutil.ViewByName(c.View); !ok {
		errs = append(errs, fmt.Errorf("unknown view %q", c.View))
	}
	if c.Perspective && (c.FOV <= 0 || c.FOV >= 180) {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180), got %g", c.FOV))
	}

	seen := make(map[string]bool, len(c.Objects))
	for i, o := range c.Objects {
		if seen[o.Name] {
			errs = append(errs, fmt.Errorf("objects[%d]: duplicate name %q", i, o.Name))
		}
		seen[o.Name] = true
		if err := o.Validate(presets); err != nil {
			errs = append(errs, fmt.Errorf("objects[%d]: %w", i, err))
		}
	}
	return joinErrors(errs)
}
