// backend.go - Backend-Interface und Registrierung fuer ML-Modelle
// Dieses Modul definiert das Backend-Interface und die Backend-Factory-Funktionen.
package ml

import (
	"fmt"
	"maps"
	"slices"
)

// Backend represents a graph execution backend (e.g., the pure Go CPU backend).
type Backend interface {
	// Close frees all memory associated with this backend
	Close()

	NewContext() Context

	// Name returns the name the backend was registered under
	Name() string
}

// BackendParams controls how the backend executes graphs
type BackendParams struct {
	// NumThreads sets the number of threads to use if running on the CPU
	NumThreads int
}

var backends = make(map[string]func(BackendParams) (Backend, error))

// RegisterBackend registers a backend factory function.
func RegisterBackend(name string, f func(BackendParams) (Backend, error)) {
	if _, ok := backends[name]; ok {
		panic("backend: backend already registered")
	}

	backends[name] = f
}

// NewBackend creates a new backend instance registered under name.
func NewBackend(name string, params BackendParams) (Backend, error) {
	if backend, ok := backends[name]; ok {
		return backend(params)
	}

	return nil, fmt.Errorf("unsupported backend %q (available: %v)", name, Backends())
}

// Backends lists the registered backend names in sorted order
func Backends() []string {
	return slices.Sorted(maps.Keys(backends))
}
