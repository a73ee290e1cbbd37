package dom

import "strings"

// Document owns a tree of nodes and the observers interested in its changes.
// A Document is not safe for concurrent use; it belongs to one UI goroutine.
type Document struct {
	root *Node

	observers []*observerEntry

	visible         map[*Node]bool
	visibilityWatch map[*Node][]*visibilityEntry

	styles *StyleRegistry
}

type observerEntry struct {
	fn Observer
}

type visibilityEntry struct {
	fn func(visible bool)
}

// NewDocument creates a document with an empty <html><head></head><body></body></html> skeleton.
func NewDocument() *Document {
	d := newBareDocument()
	html := d.CreateElement("html")
	d.root.link(html, nil)
	html.link(d.CreateElement("head"), nil)
	html.link(d.CreateElement("body"), nil)
	return d
}

func newBareDocument() *Document {
	d := &Document{}
	d.root = &Node{Type: DocumentNode, doc: d}
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Node {
	for c := d.root.firstChild; c != nil; c = c.next {
		if c.IsElement("html") {
			return c
		}
	}
	return nil
}

// Head returns the <head> element, or nil.
func (d *Document) Head() *Node {
	return d.childOfHTML("head")
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Node {
	return d.childOfHTML("body")
}

func (d *Document) childOfHTML(tag string) *Node {
	html := d.DocumentElement()
	if html == nil {
		return nil
	}
	for c := html.firstChild; c != nil; c = c.next {
		if c.IsElement(tag) {
			return c
		}
	}
	return nil
}

// CreateElement creates a detached element. Tags are lower-cased.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag), doc: d}
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *Node {
	return &Node{Type: TextNode, data: text, doc: d}
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(text string) *Node {
	return &Node{Type: CommentNode, data: text, doc: d}
}

// GetElementByID searches the whole document for an element with the given id.
func (d *Document) GetElementByID(id string) *Node {
	return d.root.GetElementByID(id)
}

// Observe registers fn to receive every mutation. The returned function
// unregisters it; it is safe to call from within fn.
func (d *Document) Observe(fn Observer) func() {
	entry := &observerEntry{fn: fn}
	d.observers = append(d.observers, entry)
	return func() {
		for i, e := range d.observers {
			if e == entry {
				d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) record(m Mutation) {
	if d == nil || len(d.observers) == 0 {
		return
	}
	for _, e := range append([]*observerEntry(nil), d.observers...) {
		e.fn(m)
	}
}

// IsVisible reports the visibility last set for n.
func (d *Document) IsVisible(n *Node) bool {
	return d.visible[n]
}

// SetVisible records that n entered or left the viewport and notifies
// visibility watchers of n. The document has no layout engine, so the host
// (or a test) reports visibility explicitly.
func (d *Document) SetVisible(n *Node, visible bool) {
	if d.visible == nil {
		d.visible = make(map[*Node]bool)
	}
	if d.visible[n] == visible {
		return
	}
	if visible {
		d.visible[n] = true
	} else {
		delete(d.visible, n)
	}
	for _, e := range append([]*visibilityEntry(nil), d.visibilityWatch[n]...) {
		e.fn(visible)
	}
}

// ObserveVisibility calls fn whenever the visibility of n changes. If n is
// already visible fn is called immediately.
func (d *Document) ObserveVisibility(n *Node, fn func(visible bool)) func() {
	if d.visibilityWatch == nil {
		d.visibilityWatch = make(map[*Node][]*visibilityEntry)
	}
	entry := &visibilityEntry{fn: fn}
	d.visibilityWatch[n] = append(d.visibilityWatch[n], entry)
	if d.visible[n] {
		fn(true)
	}
	return func() {
		list := d.visibilityWatch[n]
		for i, e := range list {
			if e == entry {
				d.visibilityWatch[n] = append(list[:i:i], list[i+1:]...)
				if len(d.visibilityWatch[n]) == 0 {
					delete(d.visibilityWatch, n)
				}
				return
			}
		}
	}
}

// Styles returns the document's style registry.
func (d *Document) Styles() *StyleRegistry {
	if d.styles == nil {
		d.styles = newStyleRegistry(d)
	}
	return d.styles
}
