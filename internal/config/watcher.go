package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"dashy/internal/logging"
)

// Watcher watches the .dashy directory for settings changes and reloads
// them live, so model selection edits apply without a restart. Changes to
// the logging config are forwarded to the logging package.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	workspace   string
	onReload    func(*Config)
	lastChange  map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher creates a watcher for the given workspace. onReload is invoked
// with the freshly loaded settings after every settled change.
func NewWatcher(workspace string, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		workspace:   workspace,
		onReload:    onReload,
		lastChange:  make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Join(w.workspace, ".dashy")
	if err := w.watcher.Add(dir); err != nil {
		logging.Get(logging.CategoryConfig).Warn("Config watch failed (dir may not exist): %v", err)
	} else {
		logging.Config("Watching settings directory: %s", dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.ConfigError("Error closing config watcher: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.ConfigError("Config watcher error: %v", err)

		case <-ticker.C:
			w.processSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if name != "config.yaml" && name != "config.json" {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	logging.ConfigDebug("Change detected: %s", event.Name)

	w.mu.Lock()
	w.lastChange[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processSettled() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.lastChange {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.lastChange, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.reload(path)
	}
}

func (w *Watcher) reload(path string) {
	switch filepath.Base(path) {
	case "config.json":
		if err := logging.ReloadConfig(); err != nil {
			logging.ConfigError("Logging config reload failed: %v", err)
			return
		}
		logging.Config("Logging config reloaded")

	case "config.yaml":
		cfg, err := Load(path)
		if err != nil {
			logging.ConfigError("Settings reload failed: %v", err)
			return
		}
		logging.Config("Settings reloaded, model=%s", cfg.Model.Name)
		if w.onReload != nil {
			w.onReload(cfg)
		}
	}
}
