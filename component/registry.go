package component

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/healthkit/logger"
)

// Registry collects health components under unique names. Aggregators built
// from it see the membership at the time they were built.
type Registry struct {
	entries []HealthComponent
	lookup  map[string]HealthComponent
	mu      sync.RWMutex
}

// NewRegistry creates a new component registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make([]HealthComponent, 0),
		lookup:  make(map[string]HealthComponent),
	}
}

// Register adds a component. Empty and duplicate names are rejected.
func (r *Registry) Register(c HealthComponent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if name == "" {
		return fmt.Errorf("component name must not be empty")
	}
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}

	r.entries = append(r.entries, c)
	r.lookup[name] = c

	logger.Debug("Component registered", map[string]interface{}{
		"component": name,
	})
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(cs ...HealthComponent) {
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Get returns a registered component by name, or nil if not found.
func (r *Registry) Get(name string) HealthComponent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup[name]
}

// All returns all registered components in registration order.
func (r *Registry) All() []HealthComponent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]HealthComponent(nil), r.entries...)
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for _, c := range r.entries {
		names = append(names, c.Name())
	}
	return names
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Aggregator returns an aggregator over the currently registered components.
func (r *Registry) Aggregator(opts ...Option) *Aggregator {
	return NewAggregator(r.All(), opts...)
}

// HealthAll checks every registered component concurrently.
func (r *Registry) HealthAll(ctx context.Context, opts ...Option) map[string]HealthStatus {
	return r.Aggregator(opts...).Health(ctx)
}
