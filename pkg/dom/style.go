package dom

// StyleAttrID is the attribute that marks <style> elements owned by the registry.
const StyleAttrID = "data-style-id"

// StyleRegistry inserts <style> elements into the document head at most once
// per id. Components use it instead of querying the head themselves.
type StyleRegistry struct {
	doc      *Document
	inserted map[string]*Node
}

func newStyleRegistry(doc *Document) *StyleRegistry {
	return &StyleRegistry{doc: doc, inserted: make(map[string]*Node)}
}

// Insert appends a <style data-style-id=id> element containing css to the
// document head. Repeated calls with the same id return the existing element
// without mutating the document. Styles already present in parsed markup are
// adopted.
func (r *StyleRegistry) Insert(id, css string) *Node {
	if el, ok := r.inserted[id]; ok {
		return el
	}
	head := r.doc.Head()
	if head == nil {
		return nil
	}
	for c := head.FirstChild(); c != nil; c = c.NextSibling() {
		if c.IsElement("style") && c.GetAttribute(StyleAttrID) == id {
			r.inserted[id] = c
			return c
		}
	}
	el := r.doc.CreateElement("style")
	el.attrs = append(el.attrs, Attribute{Name: StyleAttrID, Value: id})
	el.link(r.doc.CreateTextNode(css), nil)
	_ = head.AppendChild(el)
	r.inserted[id] = el
	return el
}

// Has reports whether a style with the given id has been inserted.
func (r *StyleRegistry) Has(id string) bool {
	_, ok := r.inserted[id]
	return ok
}

// Len returns the number of registered styles.
func (r *StyleRegistry) Len() int {
	return len(r.inserted)
}
