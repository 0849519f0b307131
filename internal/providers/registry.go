package providers

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrProviderNotFound is returned when a provider is not registered.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrProviderExists is returned when trying to register a duplicate provider.
	ErrProviderExists = errors.New("provider already exists")

	// ErrNoAvailableProvider is returned when no provider is available.
	ErrNoAvailableProvider = errors.New("no available provider")
)

// Registry manages text provider registration and lookup.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]TextProvider
	defaultName string
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]TextProvider),
	}
}

// Register adds a text provider.
// The first available provider registered becomes the default.
func (r *Registry) Register(p TextProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; exists {
		return ErrProviderExists
	}

	r.providers[name] = p

	if r.defaultName == "" && p.Available() {
		r.defaultName = name
	}

	return nil
}

// Get returns a text provider by name.
func (r *Registry) Get(name string) (TextProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.providers[name]
	if !exists {
		return nil, ErrProviderNotFound
	}

	return p, nil
}

// Default returns the default text provider.
func (r *Registry) Default() (TextProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.defaultName == "" {
		for _, name := range r.sortedNames() {
			if p := r.providers[name]; p.Available() {
				return p, nil
			}
		}
		return nil, ErrNoAvailableProvider
	}

	return r.providers[r.defaultName], nil
}

// SetDefault sets the default text provider by name.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return ErrProviderNotFound
	}

	r.defaultName = name
	return nil
}

// List returns all registered providers sorted by name.
func (r *Registry) List() []TextProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.sortedNames()
	list := make([]TextProvider, 0, len(names))
	for _, name := range names {
		list = append(list, r.providers[name])
	}
	return list
}

// Available returns all available providers sorted by name.
func (r *Registry) Available() []TextProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []TextProvider
	for _, name := range r.sortedNames() {
		if p := r.providers[name]; p.Available() {
			list = append(list, p)
		}
	}
	return list
}

// sortedNames must be called with the lock held.
func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
