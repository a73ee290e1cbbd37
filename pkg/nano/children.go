package nano

import (
	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// reconcileChildren matches next against old and returns the new child list.
//
// Keyed children match the old child with the same key; siblings sharing a
// key match old children with that key in order. Unkeyed children match old
// unkeyed children by position. A match of a different kind is replaced.
// Every unmatched old child is destroyed before anything new is mounted.
func (rc *reconciler) reconcileChildren(parentHost *dom.Node, parent *rendered, owner *ComponentInstance, old []*rendered, next []*vdom.VNode, hc *hydrateCursor) []*rendered {
	keyed := make(map[string][]*rendered)
	var unkeyed []*rendered
	for _, o := range old {
		if k := o.node.Key; k != "" {
			keyed[k] = append(keyed[k], o)
			continue
		}
		unkeyed = append(unkeyed, o)
	}

	matches := make([]*rendered, len(next))
	used := make(map[*rendered]bool, len(old))
	pos := 0
	for i, v := range next {
		if v == nil {
			continue
		}
		var cand *rendered
		if v.Key != "" {
			if q := keyed[v.Key]; len(q) > 0 {
				cand = q[0]
				keyed[v.Key] = q[1:]
			}
		} else if pos < len(unkeyed) {
			cand = unkeyed[pos]
			pos++
		}
		if cand != nil && canReuse(cand.node, v) {
			matches[i] = cand
			used[cand] = true
		}
	}

	for _, o := range old {
		if !used[o] {
			rc.destroy(o)
		}
	}

	out := make([]*rendered, 0, len(next))
	for i, v := range next {
		if v == nil {
			continue
		}
		var r *rendered
		if m := matches[i]; m != nil {
			m.parent = parent
			rc.update(parentHost, owner, m, v)
			r = m
		} else {
			r = rc.mount(parentHost, parent, owner, v, hc)
		}
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func childNodes(children []*rendered) []*dom.Node {
	var out []*dom.Node
	for _, c := range children {
		out = c.appendHostNodes(out)
	}
	return out
}

// place makes nodes the children of parent, in order, immediately before
// ref. Nodes already in position are left alone, so placing an unchanged
// list performs no mutations. With a nil ref the last node may stay where
// it is as long as it belongs to parent; the others are ordered before it.
// Comments between nodes, such as text separators in server markup, do not
// count as displacement.
func (rc *reconciler) place(parent *dom.Node, nodes []*dom.Node, ref *dom.Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		inPlace := n.Parent() == parent &&
			(n.NextSibling() == ref || nextNonComment(n) == ref ||
				(ref == nil && i == len(nodes)-1))
		if !inPlace {
			if err := parent.InsertBefore(n, ref); err != nil {
				rc.rt.logger.Error("place node", "error", err)
				rc.fail(err)
			}
		}
		ref = n
	}
}

func nextNonComment(n *dom.Node) *dom.Node {
	next := n.NextSibling()
	for next != nil && next.Type == dom.CommentNode {
		next = next.NextSibling()
	}
	return next
}
