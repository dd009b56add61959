package prompts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/xcud/prompt-composer/internal/logging"
)

// Watch starts watching the library directory and drops cached entries when
// backing files change, so a long-lived store serves edited guidance without
// a restart. Stop or cancel ctx to end watching.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.stopWatch = func() {
		cancel()
		w.Close()
	}

	go s.watchLoop(ctx, w)

	if err := watchRecursive(w, s.dir); err != nil {
		logging.Errorf("[prompts] could not watch %s: %v", s.dir, err)
	}
	return nil
}

// Stop ends watching. Safe to call when Watch was never started.
func (s *Store) Stop() {
	if s.stopWatch != nil {
		s.stopWatch()
	}
}

func watchRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := w.Add(path); err != nil {
				logging.Debugf("[prompts] could not watch %s: %v", path, err)
			}
		}
		return nil
	})
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			s.handleEvent(w, event)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logging.Errorf("[prompts] watch error: %v", err)
		}
	}
}

func (s *Store) handleEvent(w *fsnotify.Watcher, event fsnotify.Event) {
	// New category directories need their own watch.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.Add(event.Name); err != nil {
				logging.Debugf("[prompts] could not watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if filepath.Ext(event.Name) != ".md" {
		return
	}

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write,
		event.Op&fsnotify.Create == fsnotify.Create,
		event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		logging.Debugf("[prompts] file event: %s %s", event.Op, event.Name)
		s.invalidate(event.Name)
	}
}
