package dev

import (
	"sort"

	"github.com/vango-dev/nano/pkg/vdom"
)

// Page is a named tree served by the dev server.
type Page struct {
	// Name is the URL segment of the page.
	Name string

	// Title is the document title.
	Title string

	// Body builds a fresh tree. It is called once per render and once per
	// session, so state created inside it is not shared between sessions.
	Body func() *vdom.VNode
}

// Catalog is a set of pages looked up by name.
type Catalog struct {
	pages map[string]Page
}

// NewCatalog returns a catalog of pages. Later pages replace earlier ones
// with the same name.
func NewCatalog(pages ...Page) *Catalog {
	c := &Catalog{pages: make(map[string]Page, len(pages))}
	for _, p := range pages {
		c.pages[p.Name] = p
	}
	return c
}

// Lookup returns the page named name.
func (c *Catalog) Lookup(name string) (Page, bool) {
	p, ok := c.pages[name]
	return p, ok
}

// Pages returns the pages sorted by name.
func (c *Catalog) Pages() []Page {
	out := make([]Page, 0, len(c.pages))
	for _, p := range c.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
