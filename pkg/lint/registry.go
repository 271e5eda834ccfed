package lint

import (
	"sort"
	"sync"
)

// globalRegistry is the single global registry for rule set providers.
var globalRegistry = NewRegistry()

// Registry stores rule set providers for discovery.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]RuleSetProvider // keyed by ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]RuleSetProvider)}
}

// Register adds a provider, replacing any provider with the same id.
func (r *Registry) Register(p RuleSetProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID()] = p
}

// Get returns the provider with the given id.
func (r *Registry) Get(id string) (RuleSetProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	return p, ok
}

// Providers returns registered providers sorted by id, minus the excluded ids.
func (r *Registry) Providers(exclude ...string) []RuleSetProvider {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RuleSetProvider, 0, len(r.providers))
	for id, p := range r.providers {
		if !skip[id] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// RegisterProvider adds a provider to the global registry.
// Call this from init() functions in rule packages.
func RegisterProvider(p RuleSetProvider) {
	globalRegistry.Register(p)
}

// GetProvider returns a globally registered provider by id.
func GetProvider(id string) (RuleSetProvider, bool) {
	return globalRegistry.Get(id)
}

// Providers returns the globally registered providers sorted by id.
func Providers(exclude ...string) []RuleSetProvider {
	return globalRegistry.Providers(exclude...)
}
