package actions

import (
	"fmt"
	"sort"
	"sync"

	"dashy/internal/logging"
)

// Registry holds all available actions and provides lookup by name.
// It is thread-safe and supports registration at runtime.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Action
}

// NewRegistry creates a new empty action registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]*Action)}
}

// Register adds an action to the registry.
// Returns an error if an action with the same name already exists.
func (r *Registry) Register(a *Action) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid action: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[a.Name]; exists {
		return fmt.Errorf("%w: %s", ErrActionAlreadyRegistered, a.Name)
	}
	r.actions[a.Name] = a

	logging.ActionsDebug("Registered action: %s", a.Name)
	return nil
}

// MustRegister registers an action and panics on error.
// Use this for static registration at startup.
func (r *Registry) MustRegister(a *Action) {
	if err := r.Register(a); err != nil {
		panic(fmt.Sprintf("failed to register action %s: %v", a.Name, err))
	}
}

// Get returns an action by name, or nil if not found.
func (r *Registry) Get(name string) *Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// Has returns true if an action with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[name]
	return ok
}

// Names returns all registered action names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
