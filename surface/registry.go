// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sort"
	"sync"
)

// Built-in backend names.
const (
	BackendGG       = "gg"
	BackendRecorder = "recorder"
)

// Backend is a registered surface implementation.
type Backend struct {
	// Name is the unique identifier, e.g. "gg".
	Name string

	// Priority orders Default selection (higher is preferred). The
	// built-ins use 10 for gg and 0 for the recorder.
	Priority int

	// Factory creates surfaces of this backend.
	Factory Factory
}

// ErrNoBackend is returned when the registry is empty.
var ErrNoBackend = errors.New("surface: no backend registered")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// Registry maps backend names to factories.
//
// Hosts that render somewhere other than a software buffer register their
// own backend and select it by name from configuration:
//
//	surface.Register(surface.Backend{Name: "window", Priority: 20, Factory: newWindowSurface})
//	f, err := surface.Lookup(cfg.Canvas.Backend)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Backend
}

// NewRegistry creates an empty registry.
// Most code should use the global registry via Register and Lookup.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Backend)}
}

var globalRegistry = NewRegistry()

func init() {
	globalRegistry.Register(Backend{Name: BackendGG, Priority: 10, Factory: GGFactory(nil)})
	globalRegistry.Register(Backend{Name: BackendRecorder, Priority: 0, Factory: RecorderFactory})
}

// Register adds b to the global registry, replacing any backend of the
// same name.
func Register(b Backend) { globalRegistry.Register(b) }

// Unregister removes a backend from the global registry.
func Unregister(name string) { globalRegistry.Unregister(name) }

// Backends returns the global backend names, highest priority first.
func Backends() []string { return globalRegistry.Names() }

// Lookup returns the factory registered under name in the global
// registry. An empty name selects the default backend.
func Lookup(name string) (Factory, error) { return globalRegistry.Lookup(name) }

// Register adds b, replacing any backend of the same name. A nil factory
// is ignored.
func (r *Registry) Register(b Backend) {
	if b.Factory == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[b.Name] = b
}

// Unregister removes a backend.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.entries[name]
	return b, ok
}

// Names returns the backend names, highest priority first. Equal
// priorities sort by name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Backend, 0, len(r.entries))
	for _, b := range r.entries {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority > list[j].Priority
		}
		return list[i].Name < list[j].Name
	})
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.Name
	}
	return names
}

// Lookup returns the factory for name, or the highest priority backend
// when name is empty.
func (r *Registry) Lookup(name string) (Factory, error) {
	if name == "" {
		names := r.Names()
		if len(names) == 0 {
			return nil, ErrNoBackend
		}
		name = names[0]
	}
	b, ok := r.Get(name)
	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	return b.Factory, nil
}
