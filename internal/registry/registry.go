// Package registry resolves dotted model names to record constructors.
//
// Host applications register every model their fixture files reference at
// startup; the loader only ever resolves names afterwards.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"filefixtures/internal/domain"
)

// Constructor builds one instance from a record's fields
type Constructor func(fields domain.Record) (any, error)

// Registry maps namespaces to the constructors they export
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]Constructor
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		namespaces: make(map[string]map[string]Constructor),
	}
}

// SplitName splits a dotted model name into its namespace and identifier.
// "app.models.Client" splits into "app.models" and "Client".
func SplitName(name string) (namespace, identifier string, ok bool) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return "", "", false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" || strings.TrimSpace(part) != part {
			return "", "", false
		}
	}
	return name[:idx], name[idx+1:], true
}

// Register adds a constructor under a dotted model name
func (r *Registry) Register(name string, c Constructor) error {
	if c == nil {
		return fmt.Errorf("model %s: nil constructor", name)
	}
	ns, ident, ok := SplitName(name)
	if !ok {
		return fmt.Errorf("model %q: %w", name, domain.ErrMalformedName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	types, exists := r.namespaces[ns]
	if !exists {
		types = make(map[string]Constructor)
		r.namespaces[ns] = types
	}
	if _, exists := types[ident]; exists {
		return fmt.Errorf("model %s already registered", name)
	}
	types[ident] = c
	slog.Debug("Registered model", "name", name)

	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(name string, c Constructor) {
	if err := r.Register(name, c); err != nil {
		panic(err)
	}
}

// Resolve looks up the constructor for a dotted model name
func (r *Registry) Resolve(name string) (Constructor, error) {
	ns, ident, ok := SplitName(name)
	if !ok {
		return nil, &domain.TypeResolutionError{Model: name, Reason: domain.ErrMalformedName}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	types, ok := r.namespaces[ns]
	if !ok {
		return nil, &domain.TypeResolutionError{Model: name, Reason: domain.ErrUnknownNamespace}
	}
	c, ok := types[ident]
	if !ok {
		return nil, &domain.TypeResolutionError{Model: name, Reason: domain.ErrUnknownType}
	}
	return c, nil
}

// Names returns all registered model names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for ns, types := range r.namespaces {
		for ident := range types {
			names = append(names, ns+"."+ident)
		}
	}
	sort.Strings(names)
	return names
}
