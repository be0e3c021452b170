// Package widget defines the contract between the renderer and concrete
// widget implementations.
//
// A widget is a concrete renderable unit bound to one component type. The
// core Instance interface covers data injection, refresh, and teardown.
// Event participation is optional: a widget that wants to propagate data
// changes or user interactions upstream implements DataChangeNotifier or
// InteractionNotifier, and the renderer detects those capabilities by type
// assertion at creation time. Widgets never have their hooks reassigned
// from the outside; they accept listeners through explicit registration.
//
// Internal filtering, sorting, and expand/collapse state are private to
// each widget and invisible to this contract.
package widget

// Instance is a live widget under renderer management.
//
// An instance is exclusively owned by the renderer from creation until
// Destroy; it is never shared and never escapes the renderer's managed set
// except via read-only lookup.
type Instance interface {
	// Type returns the component type this widget implements.
	Type() string

	// SetData replaces the widget's payload wholesale.
	SetData(data map[string]any)

	// Data returns the widget's current payload.
	Data() map[string]any

	// Refresh re-renders the widget from its current payload. The registry
	// calls this synchronously after creation so the result is observable
	// as soon as creation returns.
	Refresh()

	// Destroy releases the widget's resources. Called exactly once.
	Destroy()
}

// Factory constructs a widget instance inside the given host context.
// The host may reject instantiation; that error propagates to the caller
// as a creation failure.
type Factory func(host Host) (Instance, error)

// Host is the container abstraction widgets are mounted into. The renderer
// exclusively owns the host's managed set while active; nothing else may
// attach or detach instances there.
type Host interface {
	// Attach mounts an instance into the container. A rejection here is a
	// widget creation failure and aborts the batch being rendered.
	Attach(inst Instance) error

	// Detach unmounts a single instance.
	Detach(inst Instance)

	// Clear unmounts everything. Must be idempotent.
	Clear()
}

// DataChangeListener receives a widget's own data mutations. Both maps are
// the widget's payload before and after the change.
type DataChangeListener func(oldData, newData map[string]any)

// InteractionListener receives user-triggered widget events. An empty
// eventType is normalized to "interaction" by the renderer.
type InteractionListener func(eventType string, eventData map[string]any)

// DataChangeNotifier is the optional capability a widget implements to
// propagate internal data changes upstream. The renderer registers exactly
// one listener at creation time.
type DataChangeNotifier interface {
	OnDataChange(fn DataChangeListener)
}

// InteractionNotifier is the optional capability a widget implements to
// surface user interactions. The renderer registers exactly one listener
// at creation time.
type InteractionNotifier interface {
	OnInteraction(fn InteractionListener)
}
