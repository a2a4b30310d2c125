package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oshokin/plugin-logger/internal/logger"
)

// DefaultDebounceInterval is how long Watch waits after the last change before reloading.
const DefaultDebounceInterval = 100 * time.Millisecond

// Watch reloads the file at path whenever it changes and passes the result to onChange.
// It watches the containing directory so editors that replace the file are noticed.
// Invalid intermediate states are logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(cfg *Config)) error {
	if path == "" {
		path = DefaultConfigFilename
	}

	path = filepath.Clean(path)
	ctx = logger.WithKV(logger.WithName(ctx, "config"), "path", path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	reload := func() {
		cfg, loadErr := Load(path)
		if loadErr != nil {
			logger.WarnKV(ctx, "Config reload skipped", "error", loadErr)

			return
		}

		logger.DebugKV(ctx, "Config reloaded")
		onChange(cfg)
	}

	defer func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
	}()

	logger.DebugKV(ctx, "Watching config for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			mu.Lock()

			if timer != nil {
				timer.Stop()
			}

			timer = time.AfterFunc(DefaultDebounceInterval, func() {
				if ctx.Err() == nil {
					reload()
				}
			})

			mu.Unlock()
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnKV(ctx, "Config watcher error", "error", watchErr)
		}
	}
}
