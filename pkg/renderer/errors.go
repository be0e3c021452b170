package renderer

import (
	"errors"
	"fmt"
)

// ErrRendererClosed is returned when a render is attempted after Close.
var ErrRendererClosed = errors.New("renderer: closed")

// RenderError reports a failed render pass. It identifies the entry whose
// creation failed; entries created earlier in the pass remain mounted.
type RenderError struct {
	ComponentID   string // Manifest id of the failing entry
	ComponentType string // Requested type of the failing entry
	Err           error  // Underlying cause
}

// Error returns the error message.
func (e *RenderError) Error() string {
	return fmt.Sprintf("renderer: component %s (%s): %v", e.ComponentID, e.ComponentType, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *RenderError) Unwrap() error {
	return e.Err
}
