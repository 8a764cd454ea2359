package theme

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the registry when theme files change and notifies
// the server so connected editors can repaint.
type Watcher struct {
	watcher  *fsnotify.Watcher
	registry *Registry
	onReload func()
	done     chan bool
	debug    bool
}

// NewWatcher watches the registry's theme directory. onReload may be
// nil. Returns nil without error when the registry has no directory.
func NewWatcher(registry *Registry, onReload func(), debug bool) (*Watcher, error) {
	if registry.Dir() == "" {
		return nil, nil
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(registry.Dir()); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return &Watcher{
		watcher:  fsWatcher,
		registry: registry,
		onReload: onReload,
		done:     make(chan bool),
		debug:    debug,
	}, nil
}

// Start begins watching for theme file changes.
func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
					continue
				}
				if filepath.Ext(event.Name) != ".yaml" {
					continue
				}
				if w.debug {
					log.Printf("[Watch] Theme changed: %s", filepath.Base(event.Name))
				}
				if err := w.registry.Reload(); err != nil {
					log.Printf("[Watch] Theme reload failed: %v", err)
					continue
				}
				if w.onReload != nil {
					w.onReload()
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Watch] Error: %v", err)

			case <-w.done:
				return
			}
		}
	}()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
