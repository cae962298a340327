// Package registry maps type names to constructors. The readers and
// writers packages each keep one registry of their built-in formats.
package registry

import (
	"fmt"
	"slices"
	"sync"
)

// Constructor builds a V from a configuration.
type Constructor[C, V any] func(config C) (V, error)

// Registry is safe for concurrent use.
type Registry[C, V any] struct {
	mu      sync.RWMutex
	kind    string
	unknown error
	ctors   map[string]Constructor[C, V]
}

// New returns an empty registry. kind names what it builds in errors;
// Create wraps unknown for unregistered names.
func New[C, V any](kind string, unknown error) *Registry[C, V] {
	return &Registry[C, V]{
		kind:    kind,
		unknown: unknown,
		ctors:   make(map[string]Constructor[C, V]),
	}
}

// Register adds or replaces the constructor for name.
func (r *Registry[C, V]) Register(name string, ctor Constructor[C, V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// Create builds a V with the constructor registered for name.
func (r *Registry[C, V]) Create(name string, config C) (V, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %s type %q", r.unknown, r.kind, name)
	}
	return ctor(config)
}

// Names returns the registered names, sorted.
func (r *Registry[C, V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
