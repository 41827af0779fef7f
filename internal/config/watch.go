package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// LoadScene loads path (if set), applies flags and defaults, reads the
// presets file and validates the result.
func LoadScene(path string, flags Flags) (Config, Presets, error) {
	var cfg Config
	if path != "" {
		var err error
		cfg, err = Load(path)
		if err != nil {
			return Config{}, nil, err
		}
	}
	cfg.Resolve(flags)

	presets, err := LoadPresets(cfg.PresetsFile)
	if err != nil {
		return Config{}, nil, err
	}
	if err := cfg.Validate(presets); err != nil {
		return Config{}, nil, fmt.Errorf("config: invalid:\n%w", err)
	}
	return cfg, presets, nil
}

// Debounce coalesces bursts of file events into one reload.
const Debounce = 150 * time.Millisecond

// Watch calls onChange with the reloaded scene each time the file at path
// is written or replaced, until ctx is done. Load failures are passed to
// onChange rather than ending the watch.
func Watch(ctx context.Context, path string, flags Flags, onChange func(Config, Presets, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file by rename.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(Debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(Debounce)
			}
		case <-fire:
			cfg, presets, err := LoadScene(abs, flags)
			onChange(cfg, presets, err)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(Config{}, nil, fmt.Errorf("config: watch: %w", err))
		}
	}
}
