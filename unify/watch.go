package unify

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Watcher triggers OnChange after file changes under Dir settle.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	OnChange func()

	// Ignore lists directory names that never trigger rebuilds, such as
	// the output directory. Hidden directories are always ignored.
	Ignore []string
}

// Run watches until the context is canceled. Newly created directories
// are picked up automatically.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.Dir); err != nil {
		return err
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-watcher.Errors:
			return err

		case event := <-watcher.Events:
			if w.ignored(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watch.
				_ = w.addRecursive(watcher, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			if w.OnChange != nil {
				w.OnChange()
			}
		}
	}
}

func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may have vanished between the event and the walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.ignored(p) {
			return fs.SkipDir
		}
		return watcher.Add(p)
	})
}

func (w *Watcher) ignored(p string) bool {
	rel, err := filepath.Rel(w.Dir, p)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
		for _, name := range w.Ignore {
			if part == name {
				return true
			}
		}
	}
	return false
}
