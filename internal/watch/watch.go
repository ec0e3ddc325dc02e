// Package watch reruns a callback when any of a fixed set of files changes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/logfields"
	"git.home.luguber.info/inful/reflectmd/internal/util/sets"
)

// DefaultDebounce collapses editor save bursts into one rerun.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors files through their parent directories, which survives
// editors that replace files on save.
type Watcher struct {
	files    sets.Set[string]
	dirs     sets.Set[string]
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// New watches paths. A debounce below zero is treated as zero.
func New(paths []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{files: sets.New[string](), dirs: sets.New[string](), debounce: max(debounce, 0), logger: logger}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve watched path").WithContext("path", p).Build()
		}
		w.files.Add(abs)
		w.dirs.Add(filepath.Dir(abs))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create file watcher").Build()
	}
	for _, dir := range sets.Sorted(w.dirs) {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "watch directory").WithContext("path", dir).Build()
		}
	}
	w.watcher = fw
	return w, nil
}

// Run blocks until ctx is done, calling onChange once per debounced burst of
// changes to the watched files. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	defer func() { _ = w.watcher.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files.Has(abs)
}
