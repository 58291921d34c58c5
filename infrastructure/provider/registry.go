package provider

import (
	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
)

// Registry maps provider keys to adapters, so new providers are added by
// registration instead of touching dispatch logic.
type Registry struct {
	adapters map[domainprovider.Key]Adapter
}

// NewRegistry creates a registry pre-populated with every built-in adapter.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[domainprovider.Key]Adapter)}

	r.Register(NewGemini())
	r.Register(NewOllama())
	r.Register(NewAnthropic())
	for key := range openAIWireDefaults {
		r.Register(NewOpenAICompatible(key))
	}

	return r
}

// NewEmptyRegistry creates a registry with no adapters, for tests that
// register fakes.
func NewEmptyRegistry() *Registry {
	return &Registry{adapters: make(map[domainprovider.Key]Adapter)}
}

// Register adds or replaces the adapter for its key.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Lookup resolves the adapter for a key.
func (r *Registry) Lookup(key domainprovider.Key) (Adapter, error) {
	a, ok := r.adapters[key]
	if !ok {
		return nil, &domainprovider.UnsupportedProviderError{Provider: key}
	}
	return a, nil
}

// Keys returns every registered provider key.
func (r *Registry) Keys() []domainprovider.Key {
	keys := make([]domainprovider.Key, 0, len(r.adapters))
	for k := range r.adapters {
		keys = append(keys, k)
	}
	return keys
}
