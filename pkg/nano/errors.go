package nano

import (
	"errors"
	"fmt"

	"github.com/vango-dev/nano/pkg/vdom"
)

// Sentinel errors.
var (
	// ErrDestroyed is returned by operations on a Root after Destroy.
	ErrDestroyed = errors.New("nano: root destroyed")

	// ErrInvalidContainer is returned when the container cannot hold
	// children (nil, text or comment nodes).
	ErrInvalidContainer = errors.New("nano: invalid container")

	// ErrNotHydrated is returned by LazyRoot accessors before hydration.
	ErrNotHydrated = errors.New("nano: not hydrated")
)

// Hook names the component callback an error came from.
type Hook string

const (
	HookConstruct    Hook = "Construct"
	HookWillMount    Hook = "WillMount"
	HookRender       Hook = "Render"
	HookDidMount     Hook = "DidMount"
	HookShouldUpdate Hook = "ShouldUpdate"
	HookDidUpdate    Hook = "DidUpdate"
	HookWillUnmount  Hook = "WillUnmount"
)

// ConstructionError reports a node that cannot be mounted, such as one built
// from an unrecognized type. The subtree is left unmounted.
type ConstructionError struct {
	// Node is the offending node.
	Node *vdom.VNode

	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if e.Node != nil && e.Node.Kind == vdom.KindInvalid {
		return fmt.Sprintf("nano: cannot mount node of type %T: %s", e.Node.Invalid, e.Reason)
	}
	return fmt.Sprintf("nano: cannot mount %s: %s", e.Node.Name(), e.Reason)
}

// LifecycleError reports an error returned from, or a panic raised in, a
// component callback. Work for the failing subtree stops; siblings proceed.
type LifecycleError struct {
	// Phase is the callback that failed.
	Phase Hook

	// Component is the component type's name.
	Component string

	// Err is the underlying error. For panics it wraps the recovered value.
	Err error

	// Stack is the goroutine stack captured on panic, nil otherwise.
	Stack []byte
}

// Error implements the error interface.
func (e *LifecycleError) Error() string {
	return fmt.Sprintf("nano: %s %s: %v", e.Component, e.Phase, e.Err)
}

// Unwrap returns the underlying error.
func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// IsPanic reports whether the error came from a recovered panic.
func (e *LifecycleError) IsPanic() bool {
	return e.Stack != nil
}

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
