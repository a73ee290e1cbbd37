package nano

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/scheduler"
	"github.com/vango-dev/nano/pkg/vdom"
)

// Root is a tree mounted into a container. Root methods must be called on
// the goroutine that drives its scheduler.
type Root struct {
	rt         *runtime
	container  *dom.Node
	tree       *rendered
	destroyed  bool
	mismatches int
}

func validContainer(n *dom.Node) bool {
	return n != nil && n.Document() != nil &&
		(n.Type == dom.ElementNode || n.Type == dom.DocumentNode)
}

// Render mounts node into container, replacing the container's existing
// children. Errors from failing subtrees are joined and returned along with
// the Root; the rest of the tree stays mounted.
func Render(container *dom.Node, node *vdom.VNode, opts ...Option) (*Root, error) {
	if !validContainer(container) {
		return nil, ErrInvalidContainer
	}
	root := newRoot(container, opts)

	_, err := root.rt.run("nano.Render", func(rc *reconciler) {
		for c := container.FirstChild(); c != nil; c = container.FirstChild() {
			c.Remove()
		}
		root.tree = rc.reconcile(container, nil, nil, nil, node, nil)
		rc.place(container, root.tree.hostNodes(), nil)
	}, attribute.String("nano.root", node.Name()))
	return root, err
}

// Hydrate attaches node to the markup already inside container, adopting
// existing nodes where they match and creating the rest. Component
// lifecycles run as in Render. Mismatches are repaired, not reported as
// errors; see Root.HydrationMismatches.
func Hydrate(container *dom.Node, node *vdom.VNode, opts ...Option) (*Root, error) {
	if !validContainer(container) {
		return nil, ErrInvalidContainer
	}
	root := newRoot(container, opts)

	rc, err := root.rt.run("nano.Hydrate", func(rc *reconciler) {
		hc := newHydrateCursor(rc, container)
		root.tree = rc.reconcile(container, nil, nil, nil, node, hc)
		nodes := root.tree.hostNodes()
		rc.place(container, nodes, nil)
		rc.removeLeftovers(container, nodes)
	}, attribute.String("nano.root", node.Name()))
	root.mismatches = rc.mismatches
	return root, err
}

func newRoot(container *dom.Node, opts []Option) *Root {
	cfg := buildConfig(opts)
	return &Root{
		rt:        newRuntime(container.Document(), cfg),
		container: container,
	}
}

// Update reconciles the mounted tree against node.
func (r *Root) Update(node *vdom.VNode) error {
	if r.destroyed {
		return ErrDestroyed
	}
	_, err := r.rt.run("nano.Update", func(rc *reconciler) {
		r.tree = rc.reconcile(r.container, nil, nil, r.tree, node, nil)
		rc.place(r.container, r.tree.hostNodes(), nil)
	}, attribute.String("nano.root", node.Name()))
	return err
}

// Destroy unmounts the tree and removes its nodes from the container.
// Subsequent calls return ErrDestroyed.
func (r *Root) Destroy() error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.destroyed = true
	_, err := r.rt.run("nano.Destroy", func(rc *reconciler) {
		if r.tree != nil {
			rc.destroy(r.tree)
		}
		r.tree = nil
	})
	return err
}

// Container returns the container node.
func (r *Root) Container() *dom.Node { return r.container }

// Document returns the container's document.
func (r *Root) Document() *dom.Document { return r.rt.doc }

// Scheduler returns the scheduler batching this root's updates.
func (r *Root) Scheduler() *scheduler.Scheduler { return r.rt.sched }

// Tick requests a pass of the root's scheduler. See scheduler.Scheduler.Tick.
func (r *Root) Tick() <-chan error { return r.rt.sched.Tick() }

// Destroyed reports whether Destroy has been called.
func (r *Root) Destroyed() bool { return r.destroyed }

// HydrationMismatches returns how many mismatches Hydrate repaired.
func (r *Root) HydrationMismatches() int { return r.mismatches }

// Nodes returns the top-level host nodes of the mounted tree.
func (r *Root) Nodes() []*dom.Node { return r.tree.hostNodes() }

// Instances returns every mounted component instance in tree order.
func (r *Root) Instances() []*ComponentInstance {
	var out []*ComponentInstance
	var walk func(*rendered)
	walk = func(n *rendered) {
		if n == nil {
			return
		}
		if n.comp != nil {
			out = append(out, n.comp)
			walk(n.comp.output)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(r.tree)
	return out
}
