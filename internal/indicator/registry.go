package indicator

import (
	"sync"

	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// Factory builds a fresh indicator instance with default configuration.
// Registering factories rather than instances keeps concurrent computations
// from sharing mutable indicator state.
type Factory func() Indicator

// Registry manages all available indicators.
type Registry interface {
	Register(factory Factory) error
	Create(name types.IndicatorType) (Indicator, error)
	List() []types.IndicatorType
	Remove(name types.IndicatorType) error
}

// RegistryV1 manages all available indicators.
type RegistryV1 struct {
	factories map[types.IndicatorType]Factory
	mu        sync.RWMutex
}

// NewRegistry creates a new indicator registry.
func NewRegistry() Registry {
	return &RegistryV1{
		factories: make(map[types.IndicatorType]Factory),
		mu:        sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry with every built-in indicator registered.
func NewDefaultRegistry() Registry {
	registry := NewRegistry()

	for _, factory := range []Factory{NewSMA, NewEMA, NewRSI, NewMACD} {
		// Built-in factories never collide, so the error is unreachable here.
		_ = registry.Register(factory)
	}

	return registry
}

// Register adds an indicator factory to the registry.
func (r *RegistryV1) Register(factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := factory().Name()
	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator with name %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Create builds a fresh instance of the named indicator.
func (r *RegistryV1) Create(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	return factory(), nil
}

// List returns a list of all registered indicator names.
func (r *RegistryV1) List() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

// Remove removes an indicator factory from the registry.
func (r *RegistryV1) Remove(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	delete(r.factories, name)

	return nil
}
