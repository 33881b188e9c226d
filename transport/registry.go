package transport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-looker/core"
)

// Registry maps URL schemes to transport adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]core.TransportAdapter
}

func NewRegistry() *Registry {
	return &Registry{
		adapters: map[string]core.TransportAdapter{},
	}
}

// NewDefaultRegistry registers a plain adapter for http and a TLS adapter for
// https.
func NewDefaultRegistry(opts TLSOptions) *Registry {
	registry := NewRegistry()
	_ = registry.Register(NewPlainAdapter(opts))
	_ = registry.Register(NewTLSAdapter(opts))
	return registry
}

// ResolverFactory builds the default registry from the resolved client config.
func ResolverFactory(cfg core.Config) (core.TransportResolver, error) {
	return NewDefaultRegistry(TLSOptionsFromConfig(cfg)), nil
}

func (r *Registry) Register(adapter core.TransportAdapter) error {
	if r == nil {
		return fmt.Errorf("transport: registry is nil")
	}
	if adapter == nil {
		return fmt.Errorf("transport: adapter is nil")
	}
	kind := normalizeKind(adapter.Kind())
	if kind == "" {
		return fmt.Errorf("transport: adapter kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[kind]; exists {
		return fmt.Errorf("transport: adapter kind %q already registered", kind)
	}
	r.adapters[kind] = adapter
	return nil
}

func (r *Registry) Get(kind string) (core.TransportAdapter, bool) {
	if r == nil {
		return nil, false
	}
	kind = normalizeKind(kind)
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[kind]
	return adapter, ok
}

func (r *Registry) Resolve(scheme string) (core.TransportAdapter, error) {
	adapter, ok := r.Get(scheme)
	if !ok {
		return nil, transportError(
			fmt.Sprintf("transport: no adapter registered for scheme %q", normalizeKind(scheme)),
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"scheme": normalizeKind(scheme)},
		)
	}
	return adapter, nil
}

func (r *Registry) List() []core.TransportAdapter {
	if r == nil {
		return []core.TransportAdapter{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.adapters))
	for kind := range r.adapters {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	result := make([]core.TransportAdapter, 0, len(kinds))
	for _, kind := range kinds {
		result = append(result, r.adapters[kind])
	}
	return result
}

func normalizeKind(kind string) string {
	return strings.TrimSpace(strings.ToLower(kind))
}

var _ core.TransportResolver = (*Registry)(nil)
