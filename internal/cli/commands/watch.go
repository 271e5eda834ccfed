package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce groups the burst of events an editor save produces.
const defaultDebounce = 200 * time.Millisecond

// watcher re-runs an analysis whenever a relevant file under its roots changes.
type watcher struct {
	roots    []string
	debounce time.Duration
	relevant func(path string) bool
	logger   *slog.Logger
}

// run blocks until ctx is done. Each debounced change triggers one call of fn;
// calls never overlap.
func (w *watcher) run(ctx context.Context, fn func(context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, root := range w.roots {
		if err := watchDir(fw, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	trigger := make(chan string, 1)
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
		case name := <-trigger:
			w.logger.Info("change detected", slog.String("path", name))
			fn(ctx)
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDir(fw, event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", slog.String("path", event.Name), slog.Any("error", err))
					}
					continue
				}
			}
			if w.relevant != nil && !w.relevant(event.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			name := event.Name
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- name:
				default:
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// watchDir recursively adds a directory to the watcher, skipping hidden ones.
// A file root watches its parent directory.
func watchDir(fw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" || d.Name() == "vendor") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
