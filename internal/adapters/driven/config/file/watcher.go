package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/clinirag/internal/logger"
)

// PromptWatcher reloads a PromptStore when prompt files change on disk.
type PromptWatcher struct {
	store *PromptStore
}

// NewPromptWatcher creates a watcher for store's directory.
func NewPromptWatcher(store *PromptStore) *PromptWatcher {
	return &PromptWatcher{store: store}
}

// Watch starts watching until ctx is cancelled. The returned channel
// receives the name of each prompt that was reloaded and is closed when
// watching stops.
func (w *PromptWatcher) Watch(ctx context.Context) (<-chan string, error) {
	if err := w.store.Init(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(w.store.Dir()); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", w.store.Dir(), err)
	}

	reloaded := make(chan string, 8)
	go func() {
		defer close(reloaded)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name, changed := w.handleEvent(event)
				if !changed {
					continue
				}
				w.store.Reload()
				logger.Debug("prompt %q changed, reloaded", name)
				select {
				case reloaded <- name:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("prompt watcher: %v", err)
			}
		}
	}()

	return reloaded, nil
}

// handleEvent reports which prompt an event touched, if any.
func (w *PromptWatcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".txt" {
		return "", false
	}
	return strings.TrimSuffix(base, ".txt"), true
}
