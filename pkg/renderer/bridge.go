package renderer

import (
	"time"

	"github.com/genui-dev/genui/pkg/registry"
	"github.com/genui-dev/genui/pkg/widget"
)

// wire installs the renderer's listeners on whichever capability hooks the
// widget exposes. Capabilities are detected by type assertion; a widget
// that implements neither notifier stays self-contained.
//
// Every bridged callback is tagged with the pass generation. Effects from
// a superseded pass compare stale and are dropped without touching state
// or observers.
func (r *Renderer) wire(mt *mounted, inst widget.Instance, meta registry.Metadata) {
	gen := mt.generation

	if n, ok := inst.(widget.DataChangeNotifier); ok {
		n.OnDataChange(func(oldData, newData map[string]any) {
			if r.generation.Load() != gen {
				return
			}
			ev := DataChangeEvent{
				ComponentID:   mt.componentID,
				ComponentType: mt.componentType,
				OldData:       oldData,
				NewData:       newData,
				Timestamp:     time.Now(),
			}
			mt.setData(newData)
			if r.metrics != nil {
				r.metrics.recordDataChange()
			}
			if r.onDataChange != nil {
				r.onDataChange(ev)
			}
		})
	}

	wired := false
	if n, ok := inst.(widget.InteractionNotifier); ok {
		wired = true
		n.OnInteraction(func(eventType string, eventData map[string]any) {
			if r.generation.Load() != gen {
				return
			}
			if eventType == "" {
				eventType = DefaultEventType
			}
			ev := InteractionEvent{
				ComponentID:   mt.componentID,
				ComponentType: mt.componentType,
				EventType:     eventType,
				EventData:     eventData,
				Timestamp:     time.Now(),
			}
			if r.metrics != nil {
				r.metrics.recordInteraction(eventType)
			}
			if r.onInteraction != nil {
				r.onInteraction(ev)
			}
		})
	}

	if meta.RequiresInteraction && !wired {
		r.logger.Warn("widget declares interaction but exposes no hook",
			"component", mt.componentID, "type", mt.componentType)
	}
}
