// Package vdom provides the virtual node model and the component contract
// for nano.
//
// A VNode is an immutable description of what should exist: an element, a
// text node, a fragment, a component invocation, raw markup, or a host node
// handed over as-is. The reconciler in package nano turns VNode trees into
// live DOM and keeps it synchronized.
//
// # Building Nodes
//
// H is the generic builder. The type argument selects the node kind:
//
//	H("div", Props{"class": "card"}, "Hello")        // element
//	H(FragmentType, nil, H("li", nil), H("li", nil)) // fragment
//	H(Counter, Props{"start": 1})                    // component
//
// Variadic element factories mirror H for the common case:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    Button(OnClick(handler), "Save"),
//	)
//
// # Components
//
// A component type is declared once with Define or DefineFunc and compared by
// pointer identity. Its instances implement Component and may optionally
// implement WillMounter, DidMounter, ShouldUpdater, DidUpdater and
// WillUnmounter. There is no base type to embed.
//
// # Keys
//
// Key (or a "key" prop) gives a node an identity among its siblings so that
// reordering keeps the node, its DOM and its component state.
package vdom
