package widget

import "sync"

// HeadlessHost is a Host with no visual surface. It backs the CLI, tests,
// and any embedder that only wants the event streams and statistics.
type HeadlessHost struct {
	// AttachHook, when set, runs before an instance is accepted. Returning
	// an error rejects the attachment, which surfaces as a widget creation
	// failure. Used by tests to simulate host rejection.
	AttachHook func(inst Instance) error

	mu        sync.Mutex
	instances []Instance
}

// NewHeadlessHost creates an empty headless host.
func NewHeadlessHost() *HeadlessHost {
	return &HeadlessHost{}
}

// Attach mounts the instance.
func (h *HeadlessHost) Attach(inst Instance) error {
	if h.AttachHook != nil {
		if err := h.AttachHook(inst); err != nil {
			return err
		}
	}
	h.mu.Lock()
	h.instances = append(h.instances, inst)
	h.mu.Unlock()
	return nil
}

// Detach unmounts a single instance. Unknown instances are ignored.
func (h *HeadlessHost) Detach(inst Instance) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, in := range h.instances {
		if in == inst {
			h.instances = append(h.instances[:i], h.instances[i+1:]...)
			return
		}
	}
}

// Clear unmounts everything.
func (h *HeadlessHost) Clear() {
	h.mu.Lock()
	h.instances = nil
	h.mu.Unlock()
}

// Instances returns a snapshot of the mounted instances in attach order.
func (h *HeadlessHost) Instances() []Instance {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Instance, len(h.instances))
	copy(out, h.instances)
	return out
}

// Len returns the number of mounted instances.
func (h *HeadlessHost) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.instances)
}
