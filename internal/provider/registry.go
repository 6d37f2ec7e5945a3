// Package provider manages the lifecycle of the materialization backends.
package provider

import (
	"fmt"
	"sync"

	"github.com/azstack-io/azstack/pkg/provider"
	"github.com/azstack-io/azstack/providers/azure"
	"github.com/azstack-io/azstack/providers/noop"
)

// Registry manages the built-in providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]provider.Provider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]provider.Provider),
	}
}

// Load initializes and registers a provider. Loading an already-loaded
// provider is a no-op.
func (r *Registry) Load(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return nil
	}

	var p provider.Provider
	switch name {
	case "noop":
		p = noop.New()
	case "azure":
		p = azure.New()
	default:
		return fmt.Errorf("unknown provider: %s", name)
	}

	r.providers[name] = p
	return nil
}

// Get returns a registered provider.
func (r *Registry) Get(name string) (provider.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not loaded: %s", name)
	}
	return p, nil
}
