package vdom

import (
	"sync/atomic"

	"github.com/vango-dev/nano/pkg/dom"
)

// Scope is the view a component instance has of itself while rendering and
// during lifecycle callbacks. It is implemented by the runtime.
type Scope interface {
	// Props returns the props of the current invocation.
	Props() Props

	// Children returns the child nodes passed to the component.
	Children() []*VNode

	// Update schedules a re-render of this instance in the next pass.
	Update()

	// Provide makes value available under key to this instance's descendants.
	Provide(key, value any)

	// Lookup returns the value provided under key by the nearest ancestor
	// (including this instance).
	Lookup(key any) (any, bool)

	// Slot returns per-instance state that survives re-renders. Slots are
	// matched by call order, so they must be requested unconditionally.
	// init runs only the first time a slot is requested.
	Slot(init func() any) any

	// Document returns the host document the instance renders into.
	Document() *dom.Document

	// Nodes returns the host nodes the instance currently owns.
	Nodes() []*dom.Node
}

// Component is a mounted component value. Render is the only required method.
type Component interface {
	Render(s Scope) *VNode
}

// WillMounter runs once before the first render.
type WillMounter interface {
	WillMount(s Scope) error
}

// DidMounter runs once after the instance's host nodes are attached.
type DidMounter interface {
	DidMount(s Scope) error
}

// ShouldUpdater can veto a re-render. Props are assigned either way.
type ShouldUpdater interface {
	ShouldUpdate(next Props) bool
}

// DidUpdater runs after an update pass has re-rendered the instance.
type DidUpdater interface {
	DidUpdate(s Scope) error
}

// WillUnmounter runs before the instance's host nodes are detached and must
// release anything registered outside the owned subtree.
type WillUnmounter interface {
	WillUnmount(s Scope) error
}

// ComponentType identifies a component. Nodes with the same *ComponentType
// reconcile in place; different pointers always replace.
type ComponentType struct {
	id      uint64
	name    string
	factory func(props Props) Component
}

var componentTypeCounter atomic.Uint64

// Define declares a component type whose instances are created by factory.
// factory runs once per mounted instance with the initial props.
func Define(name string, factory func(props Props) Component) *ComponentType {
	return &ComponentType{
		id:      componentTypeCounter.Add(1),
		name:    name,
		factory: factory,
	}
}

// DefineFunc declares a component type from a plain render function. Use
// Scope.Slot (or nano.UseState) for state that must survive re-renders.
func DefineFunc(name string, render func(s Scope) *VNode) *ComponentType {
	return Define(name, func(Props) Component {
		return FuncComponent(render)
	})
}

// ID returns the unique identifier of the component type.
func (t *ComponentType) ID() uint64 { return t.id }

// Name returns the name given at definition.
func (t *ComponentType) Name() string {
	if t == nil {
		return "<nil component>"
	}
	return t.name
}

// New creates a new component value for an instance.
func (t *ComponentType) New(props Props) Component {
	if t == nil || t.factory == nil {
		return nil
	}
	return t.factory(props)
}

// FuncComponent wraps a render function.
type FuncComponent func(s Scope) *VNode

// Render implements Component.
func (f FuncComponent) Render(s Scope) *VNode {
	return f(s)
}
