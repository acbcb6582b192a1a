package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the re-read settings whenever the file at path is written or recreated.
// The parent directory is watched so editors that replace the file are seen. Watch blocks until
// ctx is done.
//
// Parameters:
//   - ctx: stops the watch when done
//   - path: the settings file
//   - fn: receives each new Config
//
// Returns:
//   - error: if the watcher cannot be started, nil once ctx is done
func Watch(ctx context.Context, path string, fn func(Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: failed to watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Read(abs)
			if err != nil {
				slog.Error("failed to reload settings", "component", "config", "path", abs, "err", err)
				continue
			}
			fn(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("settings watcher error", "component", "config", "err", err)
		}
	}
}
