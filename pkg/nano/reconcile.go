package nano

import (
	"errors"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// reconciler applies one unit of work: a render, an update, a hydration or
// the re-render of one dirty instance. Lifecycle callbacks that must run
// after the new nodes are attached are queued and run by commit.
type reconciler struct {
	rt   *runtime
	errs []error

	// mounted holds instances awaiting DidMount, children before parents.
	mounted []*ComponentInstance
	updated []*ComponentInstance
	refs    []refCall

	mismatches int
}

type refCall struct {
	fn   func(*dom.Node)
	node *dom.Node
}

func newReconciler(rt *runtime) *reconciler {
	return &reconciler{rt: rt}
}

func (rc *reconciler) fail(err error) {
	rc.errs = append(rc.errs, err)
}

func (rc *reconciler) err() error {
	return errors.Join(rc.errs...)
}

// reconcile makes prev match next and returns the rendered instance now at
// that position, or nil when nothing could be mounted. New host nodes are
// created detached; the caller places them. hc is non-nil while hydrating.
func (rc *reconciler) reconcile(parentHost *dom.Node, parent *rendered, owner *ComponentInstance, prev *rendered, next *vdom.VNode, hc *hydrateCursor) *rendered {
	if next == nil {
		if prev != nil {
			rc.destroy(prev)
		}
		return nil
	}
	if prev != nil && canReuse(prev.node, next) {
		prev.parent = parent
		rc.update(parentHost, owner, prev, next)
		return prev
	}
	if prev != nil {
		rc.destroy(prev)
	}
	return rc.mount(parentHost, parent, owner, next, hc)
}

func (rc *reconciler) mount(parentHost *dom.Node, parent *rendered, owner *ComponentInstance, v *vdom.VNode, hc *hydrateCursor) *rendered {
	r := &rendered{node: v, parent: parent}
	doc := rc.rt.doc

	switch v.Kind {
	case vdom.KindText:
		if hc != nil {
			r.host = hc.claimText(v.Text)
		}
		if r.host == nil {
			r.host = doc.CreateTextNode(v.Text)
		}

	case vdom.KindElement:
		if v.Tag == "" {
			rc.fail(&ConstructionError{Node: v, Reason: "empty tag"})
			return nil
		}
		rc.mountElement(r, owner, hc)

	case vdom.KindFragment:
		r.children = rc.reconcileChildren(parentHost, r, owner, nil, v.Children, hc)

	case vdom.KindComponent:
		if !rc.mountComponent(parentHost, r, owner, hc) {
			return nil
		}

	case vdom.KindRaw:
		nodes, err := doc.ParseFragment(parentHost, v.Text)
		if err != nil {
			rc.fail(&ConstructionError{Node: v, Reason: err.Error()})
			return nil
		}
		if hc != nil {
			if existing := hc.claimRaw(nodes); existing != nil {
				nodes = existing
			}
		}
		r.raw = nodes

	case vdom.KindHost:
		r.host = v.Host
		if hc != nil && hc.next == v.Host {
			hc.advance()
		}

	default:
		rc.fail(&ConstructionError{Node: v, Reason: "unrecognized node type"})
		return nil
	}
	return r
}

func (rc *reconciler) mountElement(r *rendered, owner *ComponentInstance, hc *hydrateCursor) {
	v := r.node
	var childCursor *hydrateCursor

	if hc != nil {
		if el := hc.claimElement(v.Tag); el != nil {
			r.host = el
			rc.adoptProps(r)
			childCursor = newHydrateCursor(rc, el)
		}
	}
	if r.host == nil {
		r.host = rc.rt.doc.CreateElement(v.Tag)
		rc.applyProps(r, nil)
	}
	if fn, ok := v.Props["ref"].(func(*dom.Node)); ok {
		rc.refs = append(rc.refs, refCall{fn: fn, node: r.host})
	}

	r.children = rc.reconcileChildren(r.host, r, owner, nil, v.Children, childCursor)
	nodes := childNodes(r.children)
	rc.place(r.host, nodes, nil)
	if childCursor != nil {
		rc.removeLeftovers(r.host, nodes)
	}
}

func (rc *reconciler) mountComponent(parentHost *dom.Node, r *rendered, owner *ComponentInstance, hc *hydrateCursor) bool {
	v := r.node
	inst := newInstance(rc.rt, r, owner, parentHost)
	r.comp = inst

	err := rc.rt.call(inst, HookConstruct, func() error {
		inst.comp = v.Type.New(v.Props)
		return nil
	})
	if err != nil {
		rc.fail(err)
		return false
	}
	if inst.comp == nil {
		rc.fail(&ConstructionError{Node: v, Reason: "component factory returned nil"})
		return false
	}

	inst.setPhase(PhaseMounting)
	if wm, ok := inst.comp.(vdom.WillMounter); ok {
		if err := rc.rt.call(inst, HookWillMount, func() error { return wm.WillMount(inst) }); err != nil {
			rc.abandon(inst, err)
			return false
		}
	}

	out, err := rc.render(inst)
	if err != nil {
		rc.abandon(inst, err)
		return false
	}
	inst.output = rc.reconcile(parentHost, r, inst, nil, out, hc)
	rc.mounted = append(rc.mounted, inst)
	rc.rt.metrics.componentMounted()
	return true
}

// abandon discards an instance whose mount failed before it produced output.
func (rc *reconciler) abandon(inst *ComponentInstance, err error) {
	rc.fail(err)
	inst.setPhase(PhaseUnmounted)
	inst.runCleanups()
}

func (rc *reconciler) render(inst *ComponentInstance) (*vdom.VNode, error) {
	inst.beginRender()
	var out *vdom.VNode
	err := rc.rt.call(inst, HookRender, func() error {
		out = inst.comp.Render(inst)
		return nil
	})
	return out, err
}

func (rc *reconciler) update(parentHost *dom.Node, owner *ComponentInstance, r *rendered, next *vdom.VNode) {
	prev := r.node
	r.node = next

	switch next.Kind {
	case vdom.KindText:
		if prev.Text != next.Text || r.host.Data() != next.Text {
			r.host.SetData(next.Text)
		}

	case vdom.KindElement:
		rc.applyProps(r, prev.Props)
		r.children = rc.reconcileChildren(r.host, r, owner, r.children, next.Children, nil)
		rc.place(r.host, childNodes(r.children), nil)

	case vdom.KindFragment:
		// Placement happens at the enclosing element.
		r.children = rc.reconcileChildren(parentHost, r, owner, r.children, next.Children, nil)

	case vdom.KindComponent:
		rc.updateComponent(r.comp, next)
	}
}

func (rc *reconciler) updateComponent(inst *ComponentInstance, next *vdom.VNode) {
	// An instance that invalidated itself re-renders regardless of
	// ShouldUpdate, which only judges props.
	if su, ok := inst.comp.(vdom.ShouldUpdater); ok && !inst.IsDirty() {
		should := true
		err := rc.rt.call(inst, HookShouldUpdate, func() error {
			should = su.ShouldUpdate(next.Props)
			return nil
		})
		inst.props = next.Props
		inst.children = next.Children
		if err != nil {
			rc.fail(err)
			return
		}
		if !should {
			return
		}
	} else {
		inst.props = next.Props
		inst.children = next.Children
	}
	rc.rerender(inst)
}

// rerender renders inst again and reconciles the result against its
// previous output. A failing render keeps the previous output.
func (rc *reconciler) rerender(inst *ComponentInstance) {
	inst.setPhase(PhaseUpdating)
	out, err := rc.render(inst)
	if err != nil {
		inst.setPhase(PhaseMounted)
		rc.fail(err)
		return
	}
	inst.output = rc.reconcile(inst.parentHost, inst.rendered, inst, inst.output, out, nil)
	inst.setPhase(PhaseMounted)
	rc.updated = append(rc.updated, inst)
}

// destroy unmounts every instance in r top-down, then detaches r's host
// nodes.
func (rc *reconciler) destroy(r *rendered) {
	nodes := r.hostNodes()
	rc.unmount(r)
	for _, n := range nodes {
		if n.Parent() != nil {
			n.Remove()
		}
	}
}

func (rc *reconciler) unmount(r *rendered) {
	if r == nil {
		return
	}
	if r.comp != nil {
		inst := r.comp
		inst.setPhase(PhaseUnmounting)
		if wu, ok := inst.comp.(vdom.WillUnmounter); ok {
			if err := rc.rt.call(inst, HookWillUnmount, func() error { return wu.WillUnmount(inst) }); err != nil {
				rc.fail(err)
			}
		}
		rc.unmount(inst.output)
		inst.runCleanups()
		inst.dirty.Store(false)
		inst.setPhase(PhaseUnmounted)
		rc.rt.metrics.componentUnmounted()
		return
	}
	rc.unbindEvents(r)
	for _, c := range r.children {
		rc.unmount(c)
	}
}

// commit runs callbacks queued during reconciliation, once the new nodes
// are attached: refs, then DidMount bottom-up, then DidUpdate.
func (rc *reconciler) commit() {
	for len(rc.refs) > 0 || len(rc.mounted) > 0 || len(rc.updated) > 0 {
		refs, mounted, updated := rc.refs, rc.mounted, rc.updated
		rc.refs, rc.mounted, rc.updated = nil, nil, nil

		for _, ref := range refs {
			rc.rt.invokeRef(ref)
		}
		for _, inst := range mounted {
			if inst.Phase() != PhaseMounting {
				continue
			}
			inst.setPhase(PhaseMounted)
			if dm, ok := inst.comp.(vdom.DidMounter); ok {
				if err := rc.rt.call(inst, HookDidMount, func() error { return dm.DidMount(inst) }); err != nil {
					rc.fail(err)
				}
			}
		}
		for _, inst := range updated {
			if inst.Phase() != PhaseMounted {
				continue
			}
			if du, ok := inst.comp.(vdom.DidUpdater); ok {
				if err := rc.rt.call(inst, HookDidUpdate, func() error { return du.DidUpdate(inst) }); err != nil {
					rc.fail(err)
				}
			}
		}
	}
}
