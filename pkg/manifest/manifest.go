package manifest

import (
	"encoding/json"
	"fmt"
	"time"
)

// SupportedVersion is the protocol version this renderer understands.
// Manifests carrying any other version are skipped, not rejected with an
// error: version drift between pipeline and renderer is an operational
// condition, not a caller bug.
const SupportedVersion = "1.0"

// KindComponentManifest is the expected message kind for renderable payloads.
const KindComponentManifest = "component_manifest"

// Manifest is the payload describing the components to render for one
// upstream response.
type Manifest struct {
	// Version is the manifest protocol version. Must equal SupportedVersion
	// for the manifest to be rendered.
	Version string `json:"version"`

	// Kind identifies the message kind (see KindComponentManifest).
	Kind string `json:"kind"`

	// SessionID identifies the originating conversation session.
	SessionID string `json:"sessionId"`

	// Timestamp is when the upstream pipeline produced the manifest.
	Timestamp time.Time `json:"timestamp"`

	// Components is the ordered sequence of entries to render.
	// May be empty or absent: that means "nothing to render".
	Components []Component `json:"components,omitempty"`

	// Metadata carries optional extras such as follow-up suggestions.
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Metadata holds optional manifest-level extras.
type Metadata struct {
	// FollowUpSuggestions are prompts the host may offer after rendering.
	FollowUpSuggestions []string `json:"followUpSuggestions,omitempty"`
}

// Component is one manifest entry.
type Component struct {
	// ID is unique within the manifest.
	ID string `json:"id"`

	// Type is the open-string component type identifier. Unknown types are
	// resolved through the registry fallback chain.
	Type string `json:"type"`

	// Title is the human-readable heading for the widget.
	Title string `json:"title"`

	// Priority orders rendering: lower values render first. Ties preserve
	// manifest order.
	Priority int `json:"priority"`

	// Category is a free-form grouping string used for statistics.
	Category string `json:"category,omitempty"`

	// Data is the opaque per-type payload handed to the widget.
	Data map[string]any `json:"data,omitempty"`

	// Spec carries renderer hints for the widget.
	Spec Spec `json:"spec"`
}

// Spec holds presentation hints attached to a component entry.
type Spec struct {
	// Style is the preferred visual style (widget-defined vocabulary).
	Style string `json:"style,omitempty"`

	// Interaction is the preferred interaction mode.
	Interaction string `json:"interaction,omitempty"`

	// Layout is the preferred layout arrangement.
	Layout string `json:"layout,omitempty"`

	// ShowHeader indicates whether the widget should render its header.
	ShowHeader bool `json:"showHeader"`

	// Collapsible indicates whether the widget may collapse its body.
	Collapsible bool `json:"collapsible"`
}

// Parse decodes a JSON manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	return &m, nil
}

// Encode serializes the manifest to JSON.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	return data, nil
}

// VersionSupported reports whether the manifest's protocol version matches
// SupportedVersion. Nil-safe.
func (m *Manifest) VersionSupported() bool {
	return m != nil && m.Version == SupportedVersion
}

// IsEmpty reports whether there is nothing to render. Nil-safe.
func (m *Manifest) IsEmpty() bool {
	return m == nil || len(m.Components) == 0
}

// Validate checks structural integrity: non-empty ids and types, and id
// uniqueness within the manifest. Version mismatches are not validation
// errors; callers check VersionSupported separately.
func (m *Manifest) Validate() error {
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(m.Components))
	for i, c := range m.Components {
		if c.ID == "" {
			return &ValidationError{Index: i, Field: "id", Reason: "empty"}
		}
		if c.Type == "" {
			return &ValidationError{Index: i, Field: "type", Reason: "empty"}
		}
		if _, dup := seen[c.ID]; dup {
			return &ValidationError{Index: i, Field: "id", Reason: fmt.Sprintf("duplicate %q", c.ID)}
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// ValidationError describes a structurally invalid manifest entry.
type ValidationError struct {
	Index  int    // Entry position within the manifest
	Field  string // Offending field
	Reason string // Why it is invalid
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest: component %d: %s: %s", e.Index, e.Field, e.Reason)
}

// CloneData returns a shallow copy of the component's data payload. The
// renderer uses this so merged context never mutates the original entry.
func (c *Component) CloneData() map[string]any {
	out := make(map[string]any, len(c.Data)+8)
	for k, v := range c.Data {
		out[k] = v
	}
	return out
}
