package levels

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits for more changes before reloading.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc receives a freshly loaded catalog.
type ReloadFunc func(*Catalog)

// Watcher reloads a level directory when its files change.
// Only the top-level directory is watched.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Logger   *log.Logger
	OnReload ReloadFunc
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, logger *log.Logger, onReload ReloadFunc) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		Dir:      dir,
		Debounce: DefaultDebounce,
		Logger:   logger,
		OnReload: onReload,
	}
}

// Run watches until ctx is canceled. Bursts of events are collapsed into a
// single reload once the directory has been quiet for Debounce. A reload that
// fails keeps the previous catalog.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("levels: cannot create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("levels: cannot watch %s: %w", w.Dir, err)
	}
	w.Logger.Info("watching levels", "dir", w.Dir)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isSupportedExtension(strings.ToLower(filepath.Ext(ev.Name))) {
				continue
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			w.Logger.Debug("level file changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("level watcher error", "error", err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cat, err := NewLoader(os.DirFS(w.Dir), w.Logger).LoadCatalog()
	if err != nil {
		w.Logger.Error("level reload failed", "dir", w.Dir, "error", err)
		return
	}
	w.Logger.Info("levels reloaded", "count", cat.Len())
	if w.OnReload != nil {
		w.OnReload(cat)
	}
}
