// Package watch re-runs a callback when ruler description or data files
// change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ByLCY/ruler/ruler"
)

// DefaultDebounce 合并编辑器保存时产生的连续事件。
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches individual files. It watches their parent directories so
// that editors which save by rename are still noticed.
type Watcher struct {
	Debounce time.Duration

	w *fsnotify.Watcher

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool
}

// New creates a watcher with DefaultDebounce.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监听失败: %w", err)
	}
	return &Watcher{
		Debounce: DefaultDebounce,
		w:        w,
		files:    map[string]bool{},
		dirs:     map[string]bool{},
	}, nil
}

// Add starts watching paths. Empty paths are skipped.
func (w *Watcher) Add(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.w.Add(dir); err != nil {
			return fmt.Errorf("监听 %s 失败: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	return nil
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// Run calls onChange with the changed path after each quiet period until ctx
// is done or the watcher is closed. Errors from onChange are logged, not
// returned, so one bad edit does not stop the loop.
func (w *Watcher) Run(ctx context.Context, onChange func(path string) error) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			ruler.Logger().Warn("watch: error", "error", err)
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.watched(ev.Name) {
				continue
			}
			pending = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			ruler.Logger().Info("watch: change detected", "path", pending)
			if err := onChange(pending); err != nil {
				ruler.Logger().Error("watch: rebuild failed", "path", pending, "error", err)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error { return w.w.Close() }
