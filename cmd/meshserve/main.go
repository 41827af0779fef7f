package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"procworld/internal/config"
	"procworld/internal/meshserve"
)

func main() {
	configFile := flag.String("config", "", "Path to scene config JSON file")
	addr := flag.String("addr", ":8080", "Listen address")
	watch := flag.Bool("watch", true, "Regenerate and push the scene when the config file changes")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, presets, err := config.LoadScene(*configFile, config.Flags{})
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}

	srv, err := meshserve.New(cfg.Objects, presets, log)
	if err != nil {
		log.Error("generate scene", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch && *configFile != "" {
		go func() {
			err := config.Watch(ctx, *configFile, config.Flags{}, func(next config.Config, presets config.Presets, err error) {
				if err == nil {
					err = srv.Reload(next.Objects, presets)
				}
				if err != nil {
					log.Error("reload", "err", err)
					return
				}
				log.Info("reloaded", "objects", len(next.Objects))
			})
			if err != nil {
				log.Error("config watch stopped", "err", err)
			}
		}()
	}

	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		log.Error("serve", "err", err)
		os.Exit(1)
	}
}
