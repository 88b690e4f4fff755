package config

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the registry whenever its backing file changes. Editors often
// replace the file (rename + create), so the parent directory is watched and
// events are filtered by name. Blocks until ctx is done.
func (r *Registry) Watch(ctx context.Context, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Base(r.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := r.Reload(); err != nil {
				logger.Printf("customer config reload failed, keeping previous profiles: %v", err)
				continue
			}
			logger.Printf("customer config reloaded: %d customers", len(r.List()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("customer config watcher error: %v", err)
		}
	}
}
