package vdom

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/nano/pkg/dom"
)

type fragmentType struct{}

// FragmentType is the type marker passed to H to build a fragment.
var FragmentType = fragmentType{}

// H builds a node from a type, props and children.
//
// typ is a tag name (string), FragmentType, or a *ComponentType. Any other
// value produces a KindInvalid node; the error surfaces when the node is
// mounted. A "key" prop becomes the node's Key. A "children" prop is used as
// the children when none are passed explicitly; either way it is removed from
// the stored props.
func H(typ any, props Props, children ...any) *VNode {
	node := &VNode{}
	if len(props) > 0 {
		node.Props = make(Props, len(props))
		for k, v := range props {
			switch k {
			case "key":
				if v != nil {
					node.Key = fmt.Sprint(v)
				}
			case "children":
				if len(children) == 0 && v != nil {
					children = []any{v}
				}
			default:
				node.Props[k] = v
			}
		}
	}
	node.Children = normalizeChildren(children)

	switch t := typ.(type) {
	case string:
		node.Kind = KindElement
		node.Tag = t
	case fragmentType:
		node.Kind = KindFragment
	case *ComponentType:
		if t == nil {
			node.Kind = KindInvalid
			node.Invalid = typ
			break
		}
		node.Kind = KindComponent
		node.Type = t
	default:
		node.Kind = KindInvalid
		node.Invalid = typ
	}
	return node
}

// C invokes a component type. It is H for components with the key lifted
// from props.
func C(t *ComponentType, props Props, children ...any) *VNode {
	return H(t, props, children...)
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates a node from unescaped HTML markup.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Host hands an existing host node to the reconciler, which inserts it as-is
// and never diffs it. Components use it to return DOM they built themselves.
func Host(n *dom.Node) *VNode {
	if n == nil {
		return nil
	}
	return &VNode{
		Kind: KindHost,
		Host: n,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	return &VNode{
		Kind:     KindFragment,
		Children: normalizeChildren(children),
	}
}

// Keyed returns v with its Key set. v is copied, not mutated.
func Keyed(key any, v *VNode) *VNode {
	if v == nil {
		return nil
	}
	cp := *v
	cp.Key = fmt.Sprint(key)
	return &cp
}

// normalizeChildren flattens child arguments into nodes.
// nil and bool values render nothing; strings and numbers become text.
func normalizeChildren(args []any) []*VNode {
	if len(args) == 0 {
		return nil
	}
	out := make([]*VNode, 0, len(args))
	for _, arg := range args {
		out = appendChild(out, arg)
	}
	return out
}

func appendChild(out []*VNode, arg any) []*VNode {
	switch v := arg.(type) {
	case nil, bool:
		return out
	case *VNode:
		if v != nil {
			out = append(out, v)
		}
	case []*VNode:
		for _, c := range v {
			if c != nil {
				out = append(out, c)
			}
		}
	case []any:
		for _, c := range v {
			out = appendChild(out, c)
		}
	case string:
		out = append(out, Text(v))
	case int:
		out = append(out, Text(strconv.Itoa(v)))
	case int64:
		out = append(out, Text(strconv.FormatInt(v, 10)))
	case float64:
		out = append(out, Text(strconv.FormatFloat(v, 'f', -1, 64)))
	case *dom.Node:
		if v != nil {
			out = append(out, Host(v))
		}
	case fmt.Stringer:
		out = append(out, Text(v.String()))
	default:
		out = append(out, Text(fmt.Sprint(v)))
	}
	return out
}
