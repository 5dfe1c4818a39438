package component

import "sync"

// Factory constructs a component from its props and context.
type Factory func(props Props, ctx *Context) (Component, error)

// Registry maps component type names to factories, letting callers create
// components from data-driven descriptions.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a factory to a type name, replacing any previous binding.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	r.factories[name] = f
	r.mu.Unlock()
}

// Create constructs a component of the named type. It fails with
// TypeNotFoundError for unregistered names.
func (r *Registry) Create(name string, props Props, ctx *Context) (Component, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &TypeNotFoundError{Name: name}
	}
	return f(props, ctx)
}

// Has reports whether a factory is registered for the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered type names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
