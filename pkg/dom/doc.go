// Package dom provides the in-memory host document that nano renders into.
//
// The document model is deliberately small: element, text and comment nodes
// arranged in a tree, string attributes, event listeners with bubbling, and a
// mutation log that observers can subscribe to. It is the host collaborator
// the reconciler drives; nothing in this package knows about virtual nodes.
//
// # Mutations
//
// Every structural or attribute change made through a Node is reported to the
// owning Document's observers as a Mutation. Creating nodes and registering
// event listeners are not mutations.
//
//	rec := dom.NewRecorder(doc)
//	defer rec.Stop()
//	el.SetAttribute("class", "card")
//	rec.Len() // 1
//
// # Markup
//
// ParseHTML and Document.ParseFragment build nodes from HTML markup using
// golang.org/x/net/html, and Node.OuterHTML serializes back. This is how
// server-rendered markup becomes a tree that can be hydrated.
package dom
