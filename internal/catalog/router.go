package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Router manages catalog backends. Factories are registered per driver
// name; Open connects lazily and reuses a healthy connection.
type Router struct {
	factories map[string]StoreFactory
	active    map[string]Store
	mu        sync.RWMutex
}

// NewRouter creates a new backend router
func NewRouter() *Router {
	return &Router{
		factories: make(map[string]StoreFactory),
		active:    make(map[string]Store),
	}
}

// Register registers a backend factory for a driver name
func (r *Router) Register(driver string, factory StoreFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[driver] = factory
}

// Drivers returns the list of registered driver names
func (r *Router) Drivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]string, 0, len(r.factories))
	for driver := range r.factories {
		drivers = append(drivers, driver)
	}
	return drivers
}

// Open returns a connected store for the driver, creating one if needed.
// An unhealthy cached connection is closed and replaced.
func (r *Router) Open(ctx context.Context, driver string, config ConnectionConfig) (Store, error) {
	r.mu.RLock()
	if store, ok := r.active[driver]; ok {
		r.mu.RUnlock()
		if err := store.HealthCheck(ctx); err == nil {
			return store, nil
		}
	} else {
		r.mu.RUnlock()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.active[driver]; ok {
		if err := store.HealthCheck(ctx); err == nil {
			return store, nil
		}
		store.Close()
		delete(r.active, driver)
	}

	factory, ok := r.factories[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported catalog driver: %s", driver)
	}

	store := factory()
	if err := store.Connect(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	r.active[driver] = store
	return store, nil
}

// CloseAll closes every open backend connection
func (r *Router) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for driver, store := range r.active {
		store.Close()
		delete(r.active, driver)
	}
}
