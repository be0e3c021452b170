// Package widgets provides the built-in foundational widgets.
//
// These are the headless reference implementations used by the demo CLI
// and as fallback targets: every unknown upstream type ultimately resolves
// to the text section. Each widget renders to a plain-text representation
// so Refresh has an observable result without a visual surface.
package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/genui-dev/genui/pkg/renderer"
	"github.com/genui-dev/genui/pkg/widget"
)

// Built-in component type identifiers.
const (
	TypeTextSection   = "text_section"
	TypeKeyValueTable = "key_value_table"
	TypeItemList      = "item_list"
)

// base carries the state shared by every built-in widget: the payload, the
// rendered output, and the capability listeners.
type base struct {
	typ string

	mu       sync.Mutex
	data     map[string]any
	rendered string

	onDataChange  widget.DataChangeListener
	onInteraction widget.InteractionListener
}

// Type returns the component type.
func (b *base) Type() string { return b.typ }

// SetData replaces the payload wholesale.
func (b *base) SetData(data map[string]any) {
	b.mu.Lock()
	b.data = data
	b.mu.Unlock()
}

// Data returns the current payload.
func (b *base) Data() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Destroy drops the payload and rendered output.
func (b *base) Destroy() {
	b.mu.Lock()
	b.data = nil
	b.rendered = ""
	b.onDataChange = nil
	b.onInteraction = nil
	b.mu.Unlock()
}

// Rendered returns the widget's current plain-text rendering.
func (b *base) Rendered() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rendered
}

// OnDataChange registers the renderer's data-change listener.
func (b *base) OnDataChange(fn widget.DataChangeListener) {
	b.mu.Lock()
	b.onDataChange = fn
	b.mu.Unlock()
}

// OnInteraction registers the renderer's interaction listener.
func (b *base) OnInteraction(fn widget.InteractionListener) {
	b.mu.Lock()
	b.onInteraction = fn
	b.mu.Unlock()
}

// EmitInteraction reports a user-triggered event upstream. No-op until a
// listener is registered.
func (b *base) EmitInteraction(eventType string, eventData map[string]any) {
	b.mu.Lock()
	fn := b.onInteraction
	b.mu.Unlock()
	if fn != nil {
		fn(eventType, eventData)
	}
}

// UpdateData mutates the widget's own payload and reports the change
// upstream. This is the widget-initiated path; renderer-initiated
// replacement goes through SetData.
func (b *base) UpdateData(newData map[string]any) {
	b.mu.Lock()
	oldData := b.data
	b.data = newData
	fn := b.onDataChange
	b.mu.Unlock()
	if fn != nil {
		fn(oldData, newData)
	}
}

// title extracts the injected title context, if any.
func (b *base) title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.data[renderer.ContextKeyTitle].(string); ok {
		return t
	}
	return ""
}

// TextSection is the foundational widget every fallback chain ends at. It
// renders the "text" payload field (or a best-effort dump of the payload)
// as plain text.
type TextSection struct {
	base
}

// NewTextSection constructs an unmounted text section.
func NewTextSection() *TextSection {
	return &TextSection{base: base{typ: TypeTextSection}}
}

// Refresh rebuilds the plain-text rendering from the current payload.
func (w *TextSection) Refresh() {
	var sb strings.Builder
	if t := w.title(); t != "" {
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	w.mu.Lock()
	if text, ok := w.data["text"].(string); ok {
		sb.WriteString(text)
	} else if w.data != nil {
		keys := make([]string, 0, len(w.data))
		for k := range w.data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%s: %v\n", k, w.data[k])
		}
	}
	w.rendered = sb.String()
	w.mu.Unlock()
}

// KeyValueTable renders the "pairs" payload field (map of label to value)
// as aligned rows.
type KeyValueTable struct {
	base
}

// NewKeyValueTable constructs an unmounted key-value table.
func NewKeyValueTable() *KeyValueTable {
	return &KeyValueTable{base: base{typ: TypeKeyValueTable}}
}

// Refresh rebuilds the table rendering from the current payload.
func (w *KeyValueTable) Refresh() {
	var sb strings.Builder
	if t := w.title(); t != "" {
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	w.mu.Lock()
	if pairs, ok := w.data["pairs"].(map[string]any); ok {
		keys := make([]string, 0, len(pairs))
		for k := range pairs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%-20s %v\n", k, pairs[k])
		}
	}
	w.rendered = sb.String()
	w.mu.Unlock()
}

// ItemList renders the "items" payload field as a bulleted list. Selecting
// an item is the widget's interaction.
type ItemList struct {
	base
}

// NewItemList constructs an unmounted item list.
func NewItemList() *ItemList {
	return &ItemList{base: base{typ: TypeItemList}}
}

// Refresh rebuilds the list rendering from the current payload.
func (w *ItemList) Refresh() {
	var sb strings.Builder
	if t := w.title(); t != "" {
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	w.mu.Lock()
	if items, ok := w.data["items"].([]any); ok {
		for _, item := range items {
			fmt.Fprintf(&sb, "  - %v\n", item)
		}
	}
	w.rendered = sb.String()
	w.mu.Unlock()
}

// Select reports a selection interaction for the item at index.
func (w *ItemList) Select(index int) {
	w.EmitInteraction("select", map[string]any{"index": index})
}
