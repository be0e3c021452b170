package renderer

import "time"

// InteractionEvent is published when a widget reports a user-triggered
// event through its interaction hook.
type InteractionEvent struct {
	// ComponentID is the manifest id of the originating entry.
	ComponentID string `json:"componentId"`

	// ComponentType is the actual type that was instantiated.
	ComponentType string `json:"componentType"`

	// EventType is the widget-reported event kind. Defaults to
	// "interaction" when the widget omits one.
	EventType string `json:"eventType"`

	// EventData is the widget-supplied event payload.
	EventData map[string]any `json:"eventData,omitempty"`

	// Timestamp is when the renderer observed the event.
	Timestamp time.Time `json:"timestamp"`
}

// DefaultEventType is substituted when a widget emits an interaction with
// no event type.
const DefaultEventType = "interaction"

// DataChangeEvent is published when a widget's internal state changed in a
// way that should propagate upstream.
type DataChangeEvent struct {
	// ComponentID is the manifest id of the originating entry.
	ComponentID string `json:"componentId"`

	// ComponentType is the actual type that was instantiated.
	ComponentType string `json:"componentType"`

	// OldData is the payload before the change.
	OldData map[string]any `json:"oldData,omitempty"`

	// NewData is the payload after the change. The renderer replaces its
	// record of the widget's data with this value.
	NewData map[string]any `json:"newData,omitempty"`

	// Timestamp is when the renderer observed the change.
	Timestamp time.Time `json:"timestamp"`
}

// Stats is the immutable statistics snapshot for one completed render
// pass. A fresh Stats is built for every pass; the snapshot published on
// completion is never mutated afterwards.
type Stats struct {
	// TotalComponents is the number of instances created this pass.
	TotalComponents int `json:"totalComponents"`

	// ComponentsByType counts instances keyed by actual instantiated type.
	ComponentsByType map[string]int `json:"componentsByType"`

	// ComponentsByCategory counts instances keyed by category.
	ComponentsByCategory map[string]int `json:"componentsByCategory"`

	// RenderTime is the elapsed wall-clock time for the whole pass.
	RenderTime time.Duration `json:"-"`

	// RenderTimeMs mirrors RenderTime in milliseconds for wire encoding.
	RenderTimeMs int64 `json:"renderTimeMs"`

	// FallbacksUsed counts entries that resolved to a fallback type.
	FallbacksUsed int `json:"fallbacksUsed"`
}

// newStats returns a zeroed statistics accumulator for one pass.
func newStats() *Stats {
	return &Stats{
		ComponentsByType:     make(map[string]int),
		ComponentsByCategory: make(map[string]int),
	}
}

// record accounts for one successfully created instance.
func (s *Stats) record(actualType, category string, usedFallback bool) {
	s.TotalComponents++
	s.ComponentsByType[actualType]++
	if category != "" {
		s.ComponentsByCategory[category]++
	}
	if usedFallback {
		s.FallbacksUsed++
	}
}

// snapshot finalizes the accumulator into an immutable copy.
func (s *Stats) snapshot(elapsed time.Duration) Stats {
	out := Stats{
		TotalComponents:      s.TotalComponents,
		ComponentsByType:     make(map[string]int, len(s.ComponentsByType)),
		ComponentsByCategory: make(map[string]int, len(s.ComponentsByCategory)),
		RenderTime:           elapsed,
		RenderTimeMs:         elapsed.Milliseconds(),
		FallbacksUsed:        s.FallbacksUsed,
	}
	for k, v := range s.ComponentsByType {
		out.ComponentsByType[k] = v
	}
	for k, v := range s.ComponentsByCategory {
		out.ComponentsByCategory[k] = v
	}
	return out
}
