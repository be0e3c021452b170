// Package renderer orchestrates manifest rendering.
//
// The Renderer owns the full lifecycle of the widgets it creates: it
// sorts and truncates the manifest, requests instances from an explicitly
// injected registry, merges derived context into each payload, wires event
// bridges, tracks per-pass statistics, and tears everything down again.
//
// # Render Pass
//
// RenderAll is one pass through the state machine Idle, Rendering, then
// Idle on success or Error on failure; the next pass's teardown brings an
// errored renderer back through Idle. A new
// pass destroys the previous pass's instances before any work begins;
// invoking RenderAll again is the only (destructive) cancellation
// mechanism. Entries render strictly one at a time in priority order, and
// the first creation failure aborts the remainder of the batch. Instances
// created earlier in the failed pass stay mounted: there is no rollback
// and no skip-and-continue.
//
// Each pass carries a generation token. Bridged widget events whose
// generation no longer matches the current pass are discarded, so a
// superseded pass can never apply stale effects.
//
// # Observers
//
// Hosts subscribe at construction time:
//
//	r := renderer.New(reg, host,
//	    renderer.WithRenderComplete(func(s renderer.Stats) { ... }),
//	    renderer.WithInteractionObserver(func(ev renderer.InteractionEvent) { ... }),
//	)
//
// Observers run synchronously on the goroutine that triggered them and
// must not call back into the renderer.
package renderer
