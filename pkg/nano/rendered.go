package nano

import (
	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// rendered is the live counterpart of a node. Elements, text and host nodes
// own one host node; raw nodes own the nodes parsed from their markup;
// fragments own only their children; components own one instance whose
// output is the component's single child.
type rendered struct {
	node   *vdom.VNode
	parent *rendered

	host     *dom.Node
	raw      []*dom.Node
	children []*rendered
	comp     *ComponentInstance

	events map[string]*binding
}

// binding is a stable listener whose handler is swapped on update, so that
// handler changes never touch the DOM.
type binding struct {
	listener *dom.Listener
	handler  any
}

// hostNodes returns the top-level host nodes owned by r, in document order.
func (r *rendered) hostNodes() []*dom.Node {
	return r.appendHostNodes(nil)
}

func (r *rendered) appendHostNodes(out []*dom.Node) []*dom.Node {
	if r == nil {
		return out
	}
	switch r.node.Kind {
	case vdom.KindElement, vdom.KindText, vdom.KindHost:
		if r.host != nil {
			out = append(out, r.host)
		}
	case vdom.KindRaw:
		out = append(out, r.raw...)
	case vdom.KindFragment:
		for _, c := range r.children {
			out = c.appendHostNodes(out)
		}
	case vdom.KindComponent:
		if r.comp != nil {
			out = r.comp.output.appendHostNodes(out)
		}
	}
	return out
}

// firstHostNode returns the first of r's host nodes, or nil if it owns none.
func (r *rendered) firstHostNode() *dom.Node {
	if r == nil {
		return nil
	}
	switch r.node.Kind {
	case vdom.KindElement, vdom.KindText, vdom.KindHost:
		return r.host
	case vdom.KindRaw:
		if len(r.raw) > 0 {
			return r.raw[0]
		}
	case vdom.KindFragment:
		for _, c := range r.children {
			if n := c.firstHostNode(); n != nil {
				return n
			}
		}
	case vdom.KindComponent:
		if r.comp != nil {
			return r.comp.output.firstHostNode()
		}
	}
	return nil
}

// nextHostAfter returns the first host node that follows r's own nodes among
// its siblings, walking up through fragments and components. Nil means r's
// nodes end their host parent.
func (r *rendered) nextHostAfter() *dom.Node {
	for cur := r; cur.parent != nil; cur = cur.parent {
		p := cur.parent
		switch p.node.Kind {
		case vdom.KindElement, vdom.KindFragment:
			found := false
			for _, sib := range p.children {
				if sib == cur {
					found = true
					continue
				}
				if !found {
					continue
				}
				if n := sib.firstHostNode(); n != nil {
					return n
				}
			}
			if p.node.Kind == vdom.KindElement {
				return nil
			}
		}
	}
	return nil
}

// canReuse reports whether prev can be updated in place to become next.
func canReuse(prev, next *vdom.VNode) bool {
	if !vdom.SameKind(prev, next) {
		return false
	}
	if next.Kind == vdom.KindRaw && prev.Text != next.Text {
		return false
	}
	return true
}
