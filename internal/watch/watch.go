// Package watch calls a function every time one of watched files changes.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const changeMask = fsnotify.Create | fsnotify.Write | fsnotify.Rename

// Run watches directories containing paths and calls fn on every write, creation, or renaming
// of a file listed in paths. Errors returned by fn are logged.
// Blocks until ctx is cancelled; returns non-nil error only if watcher cannot be set up.
func Run(ctx context.Context, paths []string, logger logrus.FieldLogger, fn func(path string) error) error {
	watcher, e := fsnotify.NewWatcher()
	if e != nil {
		return e
	}
	defer watcher.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool, len(paths))
	for _, path := range paths {
		abs, e := filepath.Abs(path)
		if e != nil {
			return e
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		logger.WithField("path", dir).Debug("watching path")
		if e = watcher.Add(dir); e != nil {
			return e
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(e).Warn("watcher error")

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, e := filepath.Abs(evt.Name)
			if e != nil || !files[name] || evt.Op&changeMask == 0 {
				continue
			}

			logger.WithField("event", evt.String()).Debug("registered file event")
			if e = fn(name); e != nil {
				logger.WithError(e).WithField("path", name).Error("update failed")
			}
		}
	}
}
