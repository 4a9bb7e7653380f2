package hooks

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps hook names to implementations. The manifest's ordered hook
// list selects from it, so execution order is declared once in the template
// rather than implied by registration order.
type Registry struct {
	mu    sync.RWMutex
	hooks map[string]Hook
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string]Hook)}
}

// Register adds hook under its name. Registering a duplicate name is an
// error.
func (r *Registry) Register(hook Hook) error {
	if hook == nil || hook.Name() == "" {
		return fmt.Errorf("hooks: cannot register an unnamed hook")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[hook.Name()]; exists {
		return fmt.Errorf("hooks: hook %q already registered", hook.Name())
	}
	r.hooks[hook.Name()] = hook
	return nil
}

// MustRegister registers hook and panics on error. Intended for wiring
// built-ins at construction time.
func (r *Registry) MustRegister(hook Hook) {
	if err := r.Register(hook); err != nil {
		panic(err)
	}
}

// Get returns the hook registered under name.
func (r *Registry) Get(name string) (Hook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hook, ok := r.hooks[name]
	if !ok {
		return nil, fmt.Errorf("hooks: unknown hook %q", name)
	}
	return hook, nil
}

// List returns the registered hook names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.hooks))
	for name := range r.hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves the ordered name list into hooks, preserving order.
func (r *Registry) Select(names []string) ([]Hook, error) {
	out := make([]Hook, 0, len(names))
	for _, name := range names {
		hook, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, hook)
	}
	return out, nil
}
