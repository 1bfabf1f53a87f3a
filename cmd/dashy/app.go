package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dashy/internal/actions"
	"dashy/internal/assistant"
	"dashy/internal/config"
	"dashy/internal/logging"
	"dashy/internal/model"
	"dashy/internal/speech"
	"dashy/internal/store"
)

// app bundles everything a command needs after wiring.
type app struct {
	cfg        *config.Config
	engine     *assistant.Engine
	dispatcher *actions.Dispatcher
	memory     *store.Memory
	local      *store.LocalStore
	watcher    *config.Watcher
}

// close releases the app's resources.
func (a *app) close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.local != nil {
		_ = a.local.Close()
	}
	logging.CloseAll()
}

// resolveWorkspace returns the configured workspace or the current directory.
func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// buildApp wires stores, actions, model backend and engine from the
// workspace config. When requireModel is false the Gemini client is skipped
// so direct-action commands work without an API key.
func buildApp(ctx context.Context, requireModel bool) (*app, error) {
	ws := resolveWorkspace()
	if err := logging.Initialize(ws); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("dashy starting, workspace=%s", ws)

	cfg, err := config.Load(config.Path(ws))
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.Model.APIKey = apiKey
	}

	a := &app{cfg: cfg}

	// Widgets and devices always live in memory; todos and mail go to
	// SQLite when a database path is configured.
	a.memory = store.NewMemory()
	backends := actions.Backends{
		Todos:   a.memory,
		Mail:    a.memory,
		Widgets: a.memory,
		Devices: a.memory,
	}
	if cfg.Storage.DatabasePath != "" {
		path := cfg.Storage.DatabasePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(ws, path)
		}
		local, err := store.NewLocalStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		a.local = local
		backends.Todos = local
		backends.Mail = local
	}
	if cfg.Storage.SeedDemo {
		seedBackends(a)
	}

	a.dispatcher = actions.NewDispatcher(backends)

	if !requireModel {
		return a, nil
	}

	backend, err := model.NewGeminiBackend(ctx, cfg.Model.APIKey)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("model backend unavailable (set GEMINI_API_KEY): %w", err)
	}

	var narrator speech.Synthesizer = speech.Noop{}
	if cfg.Speech.Enabled {
		if cmd, err := speech.NewCommand(); err == nil {
			narrator = cmd
		} else {
			logging.Boot("Narration disabled: %v", err)
		}
	}

	a.engine = assistant.NewEngine(backend, a.dispatcher, narrator, cfg.Model.Name)

	// Live-reload settings so model switches apply without restarting.
	watcher, err := config.NewWatcher(ws, func(next *config.Config) {
		a.engine.SetModel(next.Model.Name)
	})
	if err == nil {
		a.watcher = watcher
		_ = watcher.Start(ctx)
	} else {
		logging.BootError("Settings watcher unavailable: %v", err)
	}

	return a, nil
}

// seedBackends fills an empty store with demo content.
func seedBackends(a *app) {
	if a.local != nil {
		if len(a.local.Emails()) == 0 && len(a.local.Todos()) == 0 {
			for _, e := range store.DemoEmails() {
				a.local.AddEmail(e.Sender, e.Subject, e.Snippet)
			}
			for _, content := range store.DemoTodos() {
				a.local.AddTodo(content)
			}
		}
		return
	}
	store.SeedDemo(a.memory)
}
