package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses a complete HTML document.
func ParseHTML(r io.Reader) (*Document, error) {
	parsed, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}
	d := newBareDocument()
	for c := parsed.FirstChild; c != nil; c = c.NextSibling {
		if n := d.fromHTML(c); n != nil {
			d.root.link(n, nil)
		}
	}
	return d, nil
}

// ParseHTMLString is ParseHTML for a string.
func ParseHTMLString(markup string) (*Document, error) {
	return ParseHTML(strings.NewReader(markup))
}

// ParseFragment parses markup as the children of an element with the
// context's tag and returns detached nodes owned by d. A nil context parses
// as if inside <body>.
func (d *Document) ParseFragment(context *Node, markup string) ([]*Node, error) {
	tag := "body"
	if context != nil && context.Type == ElementNode {
		tag = context.Tag
	}
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, p := range parsed {
		if n := d.fromHTML(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// SetInnerHTML replaces the children of n with the parsed markup. Each
// removal and insertion is recorded.
func (n *Node) SetInnerHTML(markup string) error {
	nodes, err := n.doc.ParseFragment(n, markup)
	if err != nil {
		return err
	}
	for c := n.firstChild; c != nil; c = n.firstChild {
		if err := n.RemoveChild(c); err != nil {
			return err
		}
	}
	for _, c := range nodes {
		if err := n.AppendChild(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) fromHTML(h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.ElementNode:
		n = d.CreateElement(h.Data)
		for _, a := range h.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, Attribute{Name: name, Value: a.Val})
		}
	case html.TextNode:
		n = d.CreateTextNode(h.Data)
	case html.CommentNode:
		n = d.CreateComment(h.Data)
	default:
		return nil
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := d.fromHTML(c); child != nil {
			n.link(child, nil)
		}
	}
	return n
}

func (n *Node) toHTML() *html.Node {
	var h *html.Node
	switch n.Type {
	case DocumentNode:
		h = &html.Node{Type: html.DocumentNode}
	case ElementNode:
		h = &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
		for _, a := range n.attrs {
			h.Attr = append(h.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.data}
	default:
		return nil
	}
	for c := n.firstChild; c != nil; c = c.next {
		if hc := c.toHTML(); hc != nil {
			h.AppendChild(hc)
		}
	}
	return h
}

// OuterHTML serializes n and its descendants.
func (n *Node) OuterHTML() string {
	h := n.toHTML()
	if h == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, h); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	for c := n.firstChild; c != nil; c = c.next {
		if h := c.toHTML(); h != nil {
			if err := html.Render(&buf, h); err != nil {
				return ""
			}
		}
	}
	return buf.String()
}

// HTML serializes the whole document.
func (d *Document) HTML() string {
	return d.root.InnerHTML()
}
