package filter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/ggedit/internal/logx"
)

// Watcher reloads a preset file into a Registry whenever it changes on
// disk. The parent directory is watched rather than the file, so editors
// that save by rename are picked up too.
type Watcher struct {
	reg    *Registry
	path   string
	fw     *fsnotify.Watcher
	logger *slog.Logger

	// OnReload, when set, is called after every reload attempt from the
	// watcher goroutine.
	OnReload func(n int, err error)
}

// NewWatcher starts watching path. It does not load the file; call
// Registry.LoadPresetsFile first for the initial contents.
func NewWatcher(reg *Registry, path string, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filter: watch presets: %w", err)
	}
	path = filepath.Clean(path)
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("filter: watch presets: %w", err)
	}
	return &Watcher{
		reg:    reg,
		path:   path,
		fw:     fw,
		logger: logx.OrNop(logger),
	}, nil
}

// Run processes file events until ctx is done or the watcher is closed. It
// should be called in its own goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("filter: preset watcher error", "err", err)
		}
	}
}

func (w *Watcher) reload() {
	n, err := w.reg.LoadPresetsFile(w.path)
	if err != nil {
		w.logger.Warn("filter: preset reload failed", "path", w.path, "err", err)
	} else {
		w.logger.Info("filter: presets reloaded", "path", w.path, "count", n)
	}
	if w.OnReload != nil {
		w.OnReload(n, err)
	}
}

// Close stops the watcher. Run returns once the event channels drain.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
