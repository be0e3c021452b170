// Package registry maps open-string component type identifiers to widget
// factories and resolves unknown types through a bounded fallback chain.
//
// The registry is an explicit instance handed to each renderer at
// construction time. There is no package-level singleton: independent
// renderers (and tests) never share mutable state.
//
// # Fallback Chain
//
// Create resolves a type in at most two hops:
//
//  1. The requested type, verbatim.
//  2. The static fallback mapping for that type (typically pointing at a
//     foundational text type).
//  3. The registry's single default type.
//
// If even the default type is unregistered, Create fails with a
// ConfigurationError: that signals a deployment bug, not a transient
// condition. The chain never recurses past the default, so fallback cycles
// are impossible.
package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/genui-dev/genui/pkg/widget"
)

// DefaultType is the foundational type used as the last fallback hop when
// no option overrides it. Deployments must register a factory for it.
const DefaultType = "text_section"

// Metadata describes a registered component type.
type Metadata struct {
	// Factory constructs instances of this type.
	Factory widget.Factory

	// Fallback is the static fallback type resolved when this identifier
	// is requested but unregistered. Empty means "no static fallback".
	Fallback string

	// RequiresInteraction indicates the widget is expected to expose an
	// interaction hook. Purely introspective: actual wiring is driven by
	// capability presence, and the renderer logs when the two disagree.
	RequiresInteraction bool

	// Category groups the type for statistics when a manifest entry
	// carries no category of its own.
	Category string

	// DisplayName is the human-readable name for registry introspection.
	DisplayName string

	// Description documents the type for registry introspection.
	Description string
}

// CreateResult reports the outcome of a successful Create call.
type CreateResult struct {
	// Instance is the widget that was created, attached, and refreshed.
	Instance widget.Instance

	// Metadata is the entry that produced the instance.
	Metadata Metadata

	// WasOriginalType is true when the requested type was used verbatim.
	WasOriginalType bool

	// ActualType is the type that was actually instantiated.
	ActualType string
}

// Registry stores component type registrations and the static fallback
// mapping. Safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	entries     map[string]Metadata
	fallbacks   map[string]string
	defaultType string
	logger      *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaultType overrides the default fallback type.
func WithDefaultType(typ string) Option {
	return func(r *Registry) {
		r.defaultType = typ
	}
}

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:     make(map[string]Metadata),
		fallbacks:   make(map[string]string),
		defaultType: DefaultType,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register inserts or overwrites the entry for typ. Re-registration is
// idempotent and overwrites silently; the last registration wins. A
// non-empty Metadata.Fallback also records the static fallback mapping.
func (r *Registry) Register(typ string, factory widget.Factory, meta Metadata) error {
	if factory == nil {
		return ErrNilFactory
	}
	meta.Factory = factory

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[typ] = meta
	if meta.Fallback != "" {
		r.fallbacks[typ] = meta.Fallback
	}
	return nil
}

// RegisterFallback records a static fallback mapping for a type that may
// never be registered itself. Known-but-unshipped types map to a
// foundational text type this way.
func (r *Registry) RegisterFallback(typ, target string) {
	r.mu.Lock()
	r.fallbacks[typ] = target
	r.mu.Unlock()
}

// Resolve returns the metadata registered for typ, if any. Pure lookup: no
// fallback resolution happens here.
func (r *Registry) Resolve(typ string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.entries[typ]
	return meta, ok
}

// Unregister removes the entry and fallback mapping for typ. Primarily for
// test isolation.
func (r *Registry) Unregister(typ string) {
	r.mu.Lock()
	delete(r.entries, typ)
	delete(r.fallbacks, typ)
	r.mu.Unlock()
}

// Clear removes all entries and fallback mappings. Primarily for test
// isolation.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.entries = make(map[string]Metadata)
	r.fallbacks = make(map[string]string)
	r.mu.Unlock()
}

// Has reports whether typ is registered.
func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[typ]
	return ok
}

// Types returns the sorted list of registered type identifiers.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.entries))
	for typ := range r.entries {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// DefaultFallbackType returns the configured default type.
func (r *Registry) DefaultFallbackType() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultType
}

// Create resolves typ through the fallback chain, instantiates the widget
// inside host, attaches it, injects data, and forces a synchronous refresh
// so the result is observable when Create returns.
//
// Host-level instantiation failures are not swallowed: they come back as a
// *CreationError so the caller decides batch-level disposition. An
// exhausted fallback chain comes back as a *ConfigurationError.
func (r *Registry) Create(typ string, host widget.Host, data map[string]any) (*CreateResult, error) {
	meta, actual, err := r.resolveChain(typ)
	if err != nil {
		return nil, err
	}

	inst, err := meta.Factory(host)
	if err != nil {
		return nil, &CreationError{Type: typ, Host: host, Err: err}
	}
	if err := host.Attach(inst); err != nil {
		inst.Destroy()
		return nil, &CreationError{Type: typ, Host: host, Err: err}
	}

	inst.SetData(data)
	inst.Refresh()

	return &CreateResult{
		Instance:        inst,
		Metadata:        meta,
		WasOriginalType: actual == typ,
		ActualType:      actual,
	}, nil
}

// resolveChain walks the bounded fallback chain: requested type, static
// fallback mapping, default type.
func (r *Registry) resolveChain(typ string) (Metadata, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if meta, ok := r.entries[typ]; ok {
		return meta, typ, nil
	}

	if target, ok := r.fallbacks[typ]; ok {
		if meta, ok := r.entries[target]; ok {
			r.logger.Debug("component type resolved via fallback mapping",
				"requested", typ, "fallback", target)
			return meta, target, nil
		}
	}

	if meta, ok := r.entries[r.defaultType]; ok {
		r.logger.Debug("component type resolved via default fallback",
			"requested", typ, "default", r.defaultType)
		return meta, r.defaultType, nil
	}

	return Metadata{}, "", &ConfigurationError{RequestedType: typ, DefaultType: r.defaultType}
}
