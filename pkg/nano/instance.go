package nano

import (
	"sync/atomic"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// Phase is the lifecycle phase of a component instance.
type Phase int32

const (
	PhaseUnmounted Phase = iota
	PhaseMounting
	PhaseMounted
	PhaseUpdating
	PhaseUnmounting
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnmounted:
		return "unmounted"
	case PhaseMounting:
		return "mounting"
	case PhaseMounted:
		return "mounted"
	case PhaseUpdating:
		return "updating"
	case PhaseUnmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}

// ComponentInstance is the live, stateful counterpart of a component node.
// Its identity is stable for as long as it keeps its position in the tree
// (same parent, same type and key).
//
// ComponentInstance implements vdom.Scope and scheduler.Job.
type ComponentInstance struct {
	id    uint64
	rt    *runtime
	typ   *vdom.ComponentType
	comp  vdom.Component
	depth int

	// parent is the nearest enclosing instance, nil at the root.
	parent *ComponentInstance

	// rendered is the tree position the instance occupies; output is what
	// its last render produced.
	rendered   *rendered
	output     *rendered
	parentHost *dom.Node

	props    vdom.Props
	children []*vdom.VNode

	phase atomic.Int32
	dirty atomic.Bool

	provided map[any]any
	slots    []any
	slotIdx  int
	cleanups []func()
}

var _ vdom.Scope = (*ComponentInstance)(nil)

func newInstance(rt *runtime, r *rendered, parent *ComponentInstance, parentHost *dom.Node) *ComponentInstance {
	inst := &ComponentInstance{
		id:         rt.nextID.Add(1),
		rt:         rt,
		typ:        r.node.Type,
		parent:     parent,
		rendered:   r,
		parentHost: parentHost,
		props:      r.node.Props,
		children:   r.node.Children,
	}
	if parent != nil {
		inst.depth = parent.depth + 1
	}
	return inst
}

// ID returns the instance's unique identifier within its Root.
func (c *ComponentInstance) ID() uint64 { return c.id }

// Name returns the component type's name.
func (c *ComponentInstance) Name() string { return c.typ.Name() }

// Type returns the component type.
func (c *ComponentInstance) Type() *vdom.ComponentType { return c.typ }

// Component returns the component value created for this instance.
func (c *ComponentInstance) Component() vdom.Component { return c.comp }

// Phase returns the current lifecycle phase.
func (c *ComponentInstance) Phase() Phase { return Phase(c.phase.Load()) }

func (c *ComponentInstance) setPhase(p Phase) { c.phase.Store(int32(p)) }

// Parent returns the nearest enclosing instance.
func (c *ComponentInstance) Parent() *ComponentInstance { return c.parent }

// Depth returns the number of component ancestors.
func (c *ComponentInstance) Depth() int { return c.depth }

// Props implements vdom.Scope.
func (c *ComponentInstance) Props() vdom.Props { return c.props }

// Children implements vdom.Scope.
func (c *ComponentInstance) Children() []*vdom.VNode { return c.children }

// Document implements vdom.Scope.
func (c *ComponentInstance) Document() *dom.Document { return c.rt.doc }

// Nodes implements vdom.Scope.
func (c *ComponentInstance) Nodes() []*dom.Node { return c.rendered.hostNodes() }

// Update implements vdom.Scope. It marks the instance dirty and schedules it
// for the next pass. It is safe to call from any goroutine.
func (c *ComponentInstance) Update() {
	if c.Phase() == PhaseUnmounted {
		return
	}
	if c.dirty.CompareAndSwap(false, true) {
		c.rt.sched.Schedule(c)
	}
}

// Drop implements scheduler.Dropper. A dropped instance keeps its last
// output and is scheduled again by its next Update.
func (c *ComponentInstance) Drop() { c.dirty.Store(false) }

// IsDirty reports whether the instance is waiting to be re-rendered.
func (c *ComponentInstance) IsDirty() bool { return c.dirty.Load() }

// Provide implements vdom.Scope. Provided values are reset before every
// render.
func (c *ComponentInstance) Provide(key, value any) {
	if c.provided == nil {
		c.provided = make(map[any]any)
	}
	c.provided[key] = value
}

// Lookup implements vdom.Scope.
func (c *ComponentInstance) Lookup(key any) (any, bool) {
	for inst := c; inst != nil; inst = inst.parent {
		if v, ok := inst.provided[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Slot implements vdom.Scope.
func (c *ComponentInstance) Slot(init func() any) any {
	if c.slotIdx < len(c.slots) {
		v := c.slots[c.slotIdx]
		c.slotIdx++
		return v
	}
	var v any
	if init != nil {
		v = init()
	}
	c.slots = append(c.slots, v)
	c.slotIdx++
	return v
}

// OnCleanup registers fn to run when the instance unmounts.
func (c *ComponentInstance) OnCleanup(fn func()) {
	if fn != nil {
		c.cleanups = append(c.cleanups, fn)
	}
}

// Run implements scheduler.Job. It re-renders the instance if it is still
// mounted and dirty; an ancestor re-rendering it in the same pass clears
// the dirty flag first.
func (c *ComponentInstance) Run() error {
	if c.Phase() != PhaseMounted || !c.dirty.Load() {
		return nil
	}
	return c.rt.rerender(c)
}

func (c *ComponentInstance) beginRender() {
	c.dirty.Store(false)
	c.slotIdx = 0
	c.provided = nil
}

func (c *ComponentInstance) runCleanups() {
	cleanups := c.cleanups
	c.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
