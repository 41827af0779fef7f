package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"procworld/internal/config"
	"procworld/internal/scene"
	"procworld/internal/shader"
	"procworld/internal/viewer"
)

func main() {
	configFile := flag.String("config", "", "Path to scene config JSON file")
	width := flag.Int("width", 0, "Window width (default: 640)")
	height := flag.Int("height", 0, "Window height (default: 480)")
	watch := flag.Bool("watch", true, "Rebuild the scene when the config file changes")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, presets, err := config.LoadScene(*configFile, config.Flags{})
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}

	sc, err := scene.FromConfig(cfg.Objects, presets)
	if err != nil {
		log.Error("generate scene", "err", err)
		os.Exit(1)
	}
	shaders := shader.NewTable(shader.BuildIndex(cfg.ShaderDir))

	opt := viewer.DefaultOptions()
	if *width > 0 {
		opt.Width = *width
	}
	if *height > 0 {
		opt.Height = *height
	}
	opt.Specs = cfg.Objects
	opt.Presets = presets
	if *watch {
		opt.ConfigPath = *configFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := viewer.New(sc, shaders, opt, log).Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("viewer", "err", err)
		os.Exit(1)
	}
}
