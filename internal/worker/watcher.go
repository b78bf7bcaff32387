package worker

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ContentWatcher triggers a reload when files under the content root change.
// Bursts of events within the debounce window collapse into one reload.
type ContentWatcher struct {
	root     string
	debounce time.Duration
	reload   func(ctx context.Context)
	ready    chan struct{}
}

// NewContentWatcher creates a watcher for root. reload runs on the watcher's
// goroutine, so reloads never overlap.
func NewContentWatcher(root string, debounce time.Duration, reload func(ctx context.Context)) *ContentWatcher {
	return &ContentWatcher{
		root:     root,
		debounce: debounce,
		reload:   reload,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the initial directory tree is being watched.
func (w *ContentWatcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the content tree until ctx is cancelled.
func (w *ContentWatcher) Run(ctx context.Context) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		close(w.ready)
		slog.Error("failed to create file watcher",
			"component", "worker",
			"worker", "content-watcher",
			"action", "watch_failed",
			"error", err,
		)
		return
	}
	defer fw.Close()

	if _, err := os.Stat(w.root); err != nil {
		slog.Warn("content root not found, not watching",
			"component", "worker",
			"worker", "content-watcher",
			"root", w.root,
		)
	} else {
		w.addTree(fw, w.root)
	}
	close(w.ready)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "content-watcher",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			slog.Debug("content change detected",
				"component", "worker",
				"worker", "content-watcher",
				"path", event.Name,
				"op", event.Op.String(),
			)
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				w.addTree(fw, event.Name)
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error",
				"component", "worker",
				"worker", "content-watcher",
				"error", err,
			)

		case <-fire:
			timer, fire = nil, nil
			w.reload(ctx)
		}
	}
}

// addTree watches dir and every directory below it.
func (w *ContentWatcher) addTree(fw *fsnotify.Watcher, dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("failed to walk directory",
				"component", "worker",
				"worker", "content-watcher",
				"path", path,
				"error", err,
			)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("failed to watch directory",
				"component", "worker",
				"worker", "content-watcher",
				"path", path,
				"error", err,
			)
		}
		return nil
	})
	if err != nil {
		slog.Warn("failed to walk content tree",
			"component", "worker",
			"worker", "content-watcher",
			"root", dir,
			"error", err,
		)
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
