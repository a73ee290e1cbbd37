// Package render provides server-side rendering of vdom trees.
//
// The output is plain HTML that nano.Hydrate can adopt without repairs:
// attributes are formatted exactly as the reconciler formats them, adjacent
// text nodes are separated by empty comments so they parse back as separate
// nodes, and text and attribute values are escaped.
//
// # Basic Usage
//
//	r := render.NewRenderer(render.Config{})
//	html, err := r.RenderToString(vdom.C(App, nil))
//
// # Full Page Rendering
//
//	err := r.RenderPage(w, render.PageData{
//	    Title: "Counter",
//	    Body:  vdom.C(App, nil),
//	})
//
// RenderPage wraps the body in a container element (id "app" by default)
// and writes the styles components registered with the document's style
// registry into the head.
//
// # Components
//
// Components are expanded once: WillMount runs, then Render. DidMount and
// the other lifecycle callbacks never run on the server, and Update is a
// no-op.
//
// # Security
//
// Text and attribute values are escaped. vdom.Raw content is written
// verbatim and must be trusted.
package render
