package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written and passes the new configuration
// to onChange. Files that fail to parse or validate are reported to onError
// and otherwise ignored. Watch blocks until ctx is done.
//
// The parent directory is watched so editors that replace the file on save
// are handled.
func Watch(ctx context.Context, path string, onChange func(Config), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: cannot create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(ExpandHome(path))
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: cannot watch %s: %w", path, err)
	}

	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				report(fmt.Errorf("config: failed to read %s: %w", path, err))
				continue
			}
			cfg, err := Parse(data)
			if err != nil {
				report(fmt.Errorf("config: %s: %w", path, err))
				continue
			}
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			report(fmt.Errorf("config: watch error: %w", err))
		}
	}
}
