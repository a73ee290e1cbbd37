package dom

import (
	"errors"
	"strings"
)

// Sentinel errors for tree operations.
var (
	// ErrNotChild is returned when a reference node is not a child of the parent.
	ErrNotChild = errors.New("dom: node is not a child of this parent")

	// ErrHierarchy is returned when an insertion would create a cycle.
	ErrHierarchy = errors.New("dom: node cannot be inserted into its own subtree")

	// ErrNotContainer is returned when children are added to a text or comment node.
	ErrNotContainer = errors.New("dom: node cannot have children")

	// ErrWrongDocument is returned when a node from another document is inserted.
	ErrWrongDocument = errors.New("dom: node belongs to a different document")
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	DocumentNode NodeType = iota // Document root
	ElementNode                  // <div>, <button>, etc.
	TextNode                     // Character data
	CommentNode                  // <!-- ... -->
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Attribute is a single name/value attribute pair.
type Attribute struct {
	Name  string
	Value string
}

// Node is a node in the host document.
type Node struct {
	Type NodeType

	// Tag is the lower-case element name for ElementNode.
	Tag string

	data  string
	attrs []Attribute

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev       *Node
	next       *Node

	doc       *Document
	listeners map[string][]*Listener
}

// Document returns the document that created n.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil if detached.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node { return n.lastChild }

// NextSibling returns the next sibling or nil.
func (n *Node) NextSibling() *Node { return n.next }

// PrevSibling returns the previous sibling or nil.
func (n *Node) PrevSibling() *Node { return n.prev }

// IsElement reports whether n is an element with the given tag.
// An empty tag matches any element.
func (n *Node) IsElement(tag string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	return tag == "" || strings.EqualFold(n.Tag, tag)
}

// ChildNodes returns a snapshot of n's children.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// ChildCount returns the number of children of n.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.firstChild; c != nil; c = c.next {
		count++
	}
	return count
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Data returns the character data of a text or comment node.
func (n *Node) Data() string { return n.data }

// SetData replaces the character data of a text or comment node.
func (n *Node) SetData(data string) {
	if n.data == data {
		return
	}
	n.data = data
	n.doc.record(Mutation{Op: MutationSetText, Target: n, Value: data})
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode || n.Type == CommentNode {
		return n.data
	}
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.next {
		switch c.Type {
		case TextNode:
			sb.WriteString(c.data)
		case ElementNode:
			c.collectText(sb)
		}
	}
}

// Attribute returns the value of the named attribute.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// GetAttribute returns the attribute value or "" if absent.
func (n *Node) GetAttribute(name string) string {
	v, _ := n.Attribute(name)
	return v
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// Attributes returns a copy of n's attributes in insertion order.
func (n *Node) Attributes() []Attribute {
	return append([]Attribute(nil), n.attrs...)
}

// SetAttribute sets the named attribute. Setting an attribute to its current
// value is not recorded as a mutation.
func (n *Node) SetAttribute(name, value string) {
	for i, a := range n.attrs {
		if a.Name == name {
			if a.Value == value {
				return
			}
			n.attrs[i].Value = value
			n.doc.record(Mutation{Op: MutationSetAttr, Target: n, Key: name, Value: value})
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
	n.doc.record(Mutation{Op: MutationSetAttr, Target: n, Key: name, Value: value})
}

// RemoveAttribute removes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.record(Mutation{Op: MutationRemoveAttr, Target: n, Key: name})
			return
		}
	}
}

// AppendChild appends child as the last child of n.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends. If child is
// already attached somewhere it is detached first; when it stays under the
// same parent the change is recorded as a move.
func (n *Node) InsertBefore(child, ref *Node) error {
	if n.Type != ElementNode && n.Type != DocumentNode {
		return ErrNotContainer
	}
	if child.doc != n.doc {
		return ErrWrongDocument
	}
	if ref != nil && ref.parent != n {
		return ErrNotChild
	}
	if child.Contains(n) {
		return ErrHierarchy
	}
	if child == ref {
		return nil
	}
	if child.parent == n && child.next == ref {
		return nil
	}

	op := MutationInsertNode
	if child.parent == n {
		op = MutationMoveNode
	}
	if child.parent != nil {
		old := child.parent
		old.unlink(child)
		if op == MutationInsertNode {
			n.doc.record(Mutation{Op: MutationRemoveNode, Target: old, Node: child})
		}
	}
	n.link(child, ref)
	n.doc.record(Mutation{Op: op, Target: n, Node: child, Ref: ref})
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child.parent != n {
		return ErrNotChild
	}
	n.unlink(child)
	n.doc.record(Mutation{Op: MutationRemoveNode, Target: n, Node: child})
	return nil
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		_ = n.parent.RemoveChild(n)
	}
}

// link inserts child before ref without recording.
func (n *Node) link(child, ref *Node) {
	child.parent = n
	if ref == nil {
		child.prev = n.lastChild
		child.next = nil
		if n.lastChild != nil {
			n.lastChild.next = child
		} else {
			n.firstChild = child
		}
		n.lastChild = child
		return
	}
	child.next = ref
	child.prev = ref.prev
	if ref.prev != nil {
		ref.prev.next = child
	} else {
		n.firstChild = child
	}
	ref.prev = child
}

// unlink removes child without recording.
func (n *Node) unlink(child *Node) {
	if child.prev != nil {
		child.prev.next = child.next
	} else {
		n.firstChild = child.next
	}
	if child.next != nil {
		child.next.prev = child.prev
	} else {
		n.lastChild = child.prev
	}
	child.parent = nil
	child.prev = nil
	child.next = nil
}

// Walk visits n and its descendants in document order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.firstChild; c != nil; c = c.next {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node in document order (including n) matching fn.
func (n *Node) Find(fn func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(cur *Node) bool {
		if fn(cur) {
			found = cur
			return false
		}
		return true
	})
	return found
}

// GetElementByID returns the first descendant element with the given id.
func (n *Node) GetElementByID(id string) *Node {
	return n.Find(func(cur *Node) bool {
		return cur.Type == ElementNode && cur.GetAttribute("id") == id
	})
}

// GetElementsByTag returns all descendant elements with the given tag.
func (n *Node) GetElementsByTag(tag string) []*Node {
	var out []*Node
	n.Walk(func(cur *Node) bool {
		if cur != n && cur.IsElement(tag) {
			out = append(out, cur)
		}
		return true
	})
	return out
}

// IsWhitespace reports whether n is a text node containing only whitespace.
func (n *Node) IsWhitespace() bool {
	return n.Type == TextNode && strings.TrimSpace(n.data) == ""
}
