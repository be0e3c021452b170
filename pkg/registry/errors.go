package registry

import (
	"errors"
	"fmt"

	"github.com/genui-dev/genui/pkg/widget"
)

// ErrNilFactory is returned when registering a type without a factory.
var ErrNilFactory = errors.New("registry: nil factory")

// CreationError wraps a host-level instantiation failure. It carries the
// requested type and host so batch-level handling can report precisely
// which entry failed.
type CreationError struct {
	Type string      // Originally requested component type
	Host widget.Host // Host the instantiation was attempted in
	Err  error       // Underlying cause
}

// Error returns the error message.
func (e *CreationError) Error() string {
	return fmt.Sprintf("registry: create %q: %v", e.Type, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *CreationError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports that the fallback chain was exhausted because
// the default type itself is unregistered. This is a deployment defect
// (missing registration at startup), not a user-facing render failure.
type ConfigurationError struct {
	RequestedType string // Type that triggered the fallback chain
	DefaultType   string // Default type that was expected to exist
}

// Error returns the error message.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("registry: default type %q not registered (requested %q): registration missing at startup",
		e.DefaultType, e.RequestedType)
}
