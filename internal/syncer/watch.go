package syncer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a live folder must stay quiet before a
// filesystem event triggers a sync. Games write many files in a burst
// when saving; one backup per burst is enough.
const watchDebounce = 2 * time.Second

// Watch blocks watching every entry's live folder and syncs an entry when
// its folder settles after a change. It returns when ctx is cancelled.
func (e *Engine) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Maps each watched directory to the entry it belongs to. fsnotify
	// does not recurse, so every subdirectory is registered separately.
	owners := map[string]string{}
	for _, name := range e.cfg.EntryNames() {
		livePath, err := e.cfg.EntryPath(name)
		if err != nil {
			continue
		}
		if err := watchTree(watcher, livePath, name, owners); err != nil {
			e.sink.Log(fmt.Sprintf("Cannot watch %s: %v", name, err))
		}
	}
	if len(owners) == 0 {
		return fmt.Errorf("no watchable save folders configured")
	}
	e.sink.Log(fmt.Sprintf("Watching %d folders for changes", len(owners)))

	var mu sync.Mutex
	timers := map[string]*time.Timer{}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := ownerOf(owners, event.Name)
			if name == "" {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// New subdirectories need their own watch.
				watchTree(watcher, event.Name, name, owners)
			}
			mu.Lock()
			if t, ok := timers[name]; ok {
				t.Reset(watchDebounce)
			} else {
				timers[name] = time.AfterFunc(watchDebounce, func() {
					mu.Lock()
					delete(timers, name)
					mu.Unlock()
					if err := e.SyncEntry(ctx, name); err != nil {
						e.logFailure(name, err)
					}
				})
			}
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.sink.Log(fmt.Sprintf("Watch error: %v", err))
		}
	}
}

func watchTree(watcher *fsnotify.Watcher, root, entry string, owners map[string]string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return err
		}
		owners[path] = entry
		return nil
	})
}

func ownerOf(owners map[string]string, eventPath string) string {
	dir := eventPath
	for {
		if name, ok := owners[dir]; ok {
			return name
		}
		parent := filepath.Dir(dir)
		if parent == dir || !strings.Contains(dir, string(filepath.Separator)) {
			return ""
		}
		dir = parent
	}
}
