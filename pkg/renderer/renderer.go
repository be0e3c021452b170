package renderer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/genui-dev/genui/pkg/manifest"
	"github.com/genui-dev/genui/pkg/registry"
	"github.com/genui-dev/genui/pkg/widget"
)

// DefaultMaxComponents is the per-pass entry cap when no option overrides
// it. Entries beyond the cap are silently dropped.
const DefaultMaxComponents = 50

// Context keys injected into the payload handed to each widget. The
// original manifest entry is never mutated; the merge happens on a copy.
const (
	ContextKeyComponentID   = "componentId"
	ContextKeyComponentType = "componentType"
	ContextKeyTitle         = "title"
	ContextKeyPriority      = "priority"
	ContextKeyCategory      = "category"
	ContextKeySpec          = "spec"
)

// State is the renderer's pass state.
type State int

// Renderer states. Idle is both the initial and the terminal-success
// state. A failed pass ends in Error; the next pass (which always begins
// with teardown) returns the renderer to Idle.
const (
	StateIdle State = iota
	StateRendering
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRendering:
		return "Rendering"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// mounted is one widget instance under renderer management, together with
// the context needed to bridge its events.
type mounted struct {
	componentID   string
	componentType string // actual instantiated type
	category      string
	usedFallback  bool
	generation    uint64
	widget        widget.Instance

	// data is the renderer's record of the widget's current payload,
	// replaced wholesale on each data-change event.
	mu   sync.Mutex
	data map[string]any
}

func (m *mounted) setData(data map[string]any) {
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
}

// Renderer renders component manifests into live widget instances. It is
// driven from the host's single UI-processing goroutine; internal locking
// exists so read-only helpers and bridged widget events stay safe, not to
// support concurrent render passes.
type Renderer struct {
	registry *registry.Registry
	host     widget.Host

	maxComponents int
	logger        *slog.Logger
	tracer        trace.Tracer
	metrics       *Metrics

	// Observers, fixed at construction.
	onRenderComplete func(Stats)
	onRenderError    func(*RenderError)
	onInteraction    func(InteractionEvent)
	onDataChange     func(DataChangeEvent)

	// generation tags the current pass. Bridged events compare against it
	// and drop themselves when stale.
	generation atomic.Uint64

	mu           sync.RWMutex
	state        State
	closed       bool
	instances    []*mounted
	byID         map[string]*mounted
	lastManifest *manifest.Manifest
	lastErr      error
	lastStats    *Stats
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxComponents sets the per-pass entry cap.
func WithMaxComponents(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxComponents = n
		}
	}
}

// WithLogger sets the renderer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithTracing enables an OpenTelemetry span per render pass, resolved from
// the global tracer provider.
func WithTracing(tracerName string) Option {
	return func(r *Renderer) {
		r.tracer = otel.Tracer(tracerName)
	}
}

// WithMetrics attaches a Prometheus metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithRenderComplete subscribes to the render-complete event.
func WithRenderComplete(fn func(Stats)) Option {
	return func(r *Renderer) {
		r.onRenderComplete = fn
	}
}

// WithRenderErrorObserver subscribes to the render-error event.
func WithRenderErrorObserver(fn func(*RenderError)) Option {
	return func(r *Renderer) {
		r.onRenderError = fn
	}
}

// WithInteractionObserver subscribes to bridged widget interactions.
func WithInteractionObserver(fn func(InteractionEvent)) Option {
	return func(r *Renderer) {
		r.onInteraction = fn
	}
}

// WithDataChangeObserver subscribes to bridged widget data changes.
func WithDataChangeObserver(fn func(DataChangeEvent)) Option {
	return func(r *Renderer) {
		r.onDataChange = fn
	}
}

// New creates a renderer over an explicit registry and host. Neither may
// be nil.
func New(reg *registry.Registry, host widget.Host, opts ...Option) *Renderer {
	r := &Renderer{
		registry:      reg,
		host:          host,
		maxComponents: DefaultMaxComponents,
		logger:        slog.Default(),
		state:         StateIdle,
		byID:          make(map[string]*mounted),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderAll performs one render pass over the manifest. A nil or empty
// manifest, a version mismatch, or a structurally invalid manifest all
// mean "render nothing" and return nil. Any prior pass's instances are
// destroyed before new work begins; the most recent call always wins.
//
// On failure the returned error is a *RenderError identifying the entry
// whose creation failed. Entries created earlier in the pass remain
// mounted.
func (r *Renderer) RenderAll(ctx context.Context, m *manifest.Manifest) error {
	r.mu.Lock()
	snap, rerr, err := r.renderLocked(ctx, m)
	r.mu.Unlock()

	if rerr != nil && r.onRenderError != nil {
		r.onRenderError(rerr)
	}
	if snap != nil && r.onRenderComplete != nil {
		r.onRenderComplete(*snap)
	}
	return err
}

// renderLocked is the pass body. It returns the completion snapshot or
// render error so RenderAll can notify observers outside the lock.
func (r *Renderer) renderLocked(ctx context.Context, m *manifest.Manifest) (*Stats, *RenderError, error) {
	if r.closed {
		return nil, nil, ErrRendererClosed
	}

	// Starting a new pass always tears down the previous one first, and
	// bumps the generation so any late effects from it are discarded.
	r.destroyAllLocked()
	gen := r.generation.Add(1)

	r.lastManifest = m
	r.lastErr = nil
	r.lastStats = nil
	r.state = StateIdle

	if m.IsEmpty() {
		return nil, nil, nil
	}
	if !m.VersionSupported() {
		r.logger.Warn("manifest version not supported, skipping render",
			"version", m.Version, "supported", manifest.SupportedVersion)
		return nil, nil, nil
	}
	if err := m.Validate(); err != nil {
		r.logger.Warn("invalid manifest, skipping render", "error", err)
		return nil, nil, nil
	}

	r.state = StateRendering
	start := time.Now()

	var span trace.Span
	if r.tracer != nil {
		_, span = r.tracer.Start(ctx, "genui.render_pass",
			trace.WithAttributes(
				attribute.String("genui.session_id", m.SessionID),
				attribute.Int("genui.manifest_components", len(m.Components)),
			))
		defer span.End()
	}

	entries := orderEntries(m.Components, r.maxComponents)
	stats := newStats()

	for i := range entries {
		c := &entries[i]
		payload := mergeContext(c)

		res, err := r.registry.Create(c.Type, r.host, payload)
		if err != nil {
			rerr := &RenderError{ComponentID: c.ID, ComponentType: c.Type, Err: err}
			r.lastErr = rerr
			r.state = StateError
			r.logger.Error("render pass failed",
				"component", c.ID, "type", c.Type, "error", err)
			if span != nil {
				span.RecordError(rerr)
				span.SetStatus(codes.Error, rerr.Error())
			}
			if r.metrics != nil {
				r.metrics.recordPass(false, time.Since(start))
			}
			return nil, rerr, rerr
		}

		category := c.Category
		if category == "" {
			category = res.Metadata.Category
		}

		mt := &mounted{
			componentID:   c.ID,
			componentType: res.ActualType,
			category:      category,
			usedFallback:  !res.WasOriginalType,
			generation:    gen,
			widget:        res.Instance,
			data:          payload,
		}
		r.wire(mt, res.Instance, res.Metadata)

		r.instances = append(r.instances, mt)
		r.byID[c.ID] = mt
		stats.record(res.ActualType, category, mt.usedFallback)
	}

	snap := stats.snapshot(time.Since(start))
	r.lastStats = &snap
	r.state = StateIdle

	if span != nil {
		span.SetAttributes(
			attribute.Int("genui.components_rendered", snap.TotalComponents),
			attribute.Int("genui.fallbacks_used", snap.FallbacksUsed),
		)
		span.SetStatus(codes.Ok, "")
	}
	if r.metrics != nil {
		r.metrics.recordPass(true, snap.RenderTime)
		r.metrics.recordComponents(&snap)
		r.metrics.setActiveInstances(len(r.instances))
	}
	r.logger.Debug("render pass complete",
		"components", snap.TotalComponents,
		"fallbacks", snap.FallbacksUsed,
		"elapsed", snap.RenderTime)

	return &snap, nil, nil
}

// Retry re-renders the last manifest the host supplied. The renderer does
// not re-fetch; the manifest is owned by the host.
func (r *Renderer) Retry(ctx context.Context) error {
	r.mu.RLock()
	m := r.lastManifest
	r.mu.RUnlock()
	return r.RenderAll(ctx, m)
}

// DestroyAll releases every managed widget instance and clears the host
// container. Safe to call repeatedly; a no-op when nothing is mounted.
func (r *Renderer) DestroyAll() {
	r.mu.Lock()
	r.generation.Add(1)
	r.destroyAllLocked()
	r.mu.Unlock()
}

// destroyAllLocked tears down in reverse creation order, then clears the
// host container.
func (r *Renderer) destroyAllLocked() {
	if len(r.instances) == 0 {
		return
	}
	for i := len(r.instances) - 1; i >= 0; i-- {
		r.instances[i].widget.Destroy()
	}
	r.instances = nil
	r.byID = make(map[string]*mounted)
	r.host.Clear()
	if r.metrics != nil {
		r.metrics.setActiveInstances(0)
	}
}

// Close tears the renderer down. Subsequent render passes fail with
// ErrRendererClosed.
func (r *Renderer) Close() {
	r.mu.Lock()
	r.generation.Add(1)
	r.destroyAllLocked()
	r.closed = true
	r.mu.Unlock()
}

// FindByID returns the instance created for a manifest id, if present.
func (r *Renderer) FindByID(id string) (widget.Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return mt.widget, true
}

// InstancesByType returns the instances whose actual type matches typ, in
// creation order.
func (r *Renderer) InstancesByType(typ string) []widget.Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []widget.Instance
	for _, mt := range r.instances {
		if mt.componentType == typ {
			out = append(out, mt.widget)
		}
	}
	return out
}

// HasInstances reports whether any instance is currently mounted.
func (r *Renderer) HasInstances() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances) > 0
}

// InstanceCount returns the number of mounted instances.
func (r *Renderer) InstanceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// State returns the current pass state.
func (r *Renderer) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// LastError returns the error recorded by the most recent failed pass, or
// nil after a successful one.
func (r *Renderer) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// LastStats returns the statistics snapshot of the most recent successful
// pass, or nil.
func (r *Renderer) LastStats() *Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.lastStats == nil {
		return nil
	}
	snap := *r.lastStats
	return &snap
}

// orderEntries stable-sorts by ascending priority (ties preserve manifest
// order) and truncates to the cap. The input slice is not modified.
func orderEntries(components []manifest.Component, max int) []manifest.Component {
	entries := make([]manifest.Component, len(components))
	copy(entries, components)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})
	if max > 0 && len(entries) > max {
		entries = entries[:max]
	}
	return entries
}

// mergeContext copies the entry's payload and injects the derived context
// the widget needs to identify itself. The original entry is untouched.
func mergeContext(c *manifest.Component) map[string]any {
	payload := c.CloneData()
	payload[ContextKeyComponentID] = c.ID
	payload[ContextKeyComponentType] = c.Type
	payload[ContextKeyTitle] = c.Title
	payload[ContextKeyPriority] = c.Priority
	payload[ContextKeyCategory] = c.Category
	payload[ContextKeySpec] = c.Spec
	return payload
}
