package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"golang.org/x/net/html"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// DefaultContainerID is the id of the element RenderPage renders the body
// into.
const DefaultContainerID = "app"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is rendered inside the container element.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// ContainerID is the id of the body's container element.
	// Defaults to DefaultContainerID.
	ContainerID string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts are written at the end of the body.
	Scripts []ScriptTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Module bool
	Defer  bool
	Inline string
}

// RenderPage renders a complete HTML document to w. The body is rendered
// first so that styles its components register end up in the head.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	var body bytes.Buffer
	if err := r.RenderToWriter(&body, page.Body); err != nil {
		return err
	}

	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	id := page.ContainerID
	if id == "" {
		id = DefaultContainerID
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&buf, "<html lang=\"%s\">\n", html.EscapeString(lang))
	r.writeHead(&buf, page)
	buf.WriteString("<body>\n")
	fmt.Fprintf(&buf, `<div id="%s">`, html.EscapeString(id))
	buf.Write(body.Bytes())
	buf.WriteString("</div>\n")
	for _, script := range page.Scripts {
		writeScriptTag(&buf, script)
	}
	buf.WriteString("</body>\n</html>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func (r *Renderer) writeHead(buf *bytes.Buffer, page PageData) {
	buf.WriteString("<head>\n")
	buf.WriteString(`  <meta charset="utf-8">` + "\n")
	buf.WriteString(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if page.Title != "" {
		fmt.Fprintf(buf, "  <title>%s</title>\n", html.EscapeString(page.Title))
	}
	for _, meta := range page.Meta {
		buf.WriteString("  <meta")
		if meta.Name != "" {
			fmt.Fprintf(buf, ` name="%s"`, html.EscapeString(meta.Name))
		}
		if meta.Property != "" {
			fmt.Fprintf(buf, ` property="%s"`, html.EscapeString(meta.Property))
		}
		fmt.Fprintf(buf, ` content="%s">`+"\n", html.EscapeString(meta.Content))
	}
	for _, href := range page.StyleSheets {
		fmt.Fprintf(buf, `  <link rel="stylesheet" href="%s">`+"\n", html.EscapeString(href))
	}
	for _, style := range r.registeredStyles() {
		buf.WriteString("  ")
		buf.WriteString(style)
		buf.WriteByte('\n')
	}
	buf.WriteString("</head>\n")
}

// registeredStyles returns the <style> elements components registered with
// the renderer's document, ordered by id.
func (r *Renderer) registeredStyles() []string {
	head := r.doc.Head()
	if head == nil {
		return nil
	}
	var styles []*dom.Node
	for c := head.FirstChild(); c != nil; c = c.NextSibling() {
		if c.IsElement("style") && c.HasAttribute(dom.StyleAttrID) {
			styles = append(styles, c)
		}
	}
	sort.SliceStable(styles, func(i, j int) bool {
		return styles[i].GetAttribute(dom.StyleAttrID) < styles[j].GetAttribute(dom.StyleAttrID)
	})
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = s.OuterHTML()
	}
	return out
}

func writeScriptTag(buf *bytes.Buffer, script ScriptTag) {
	buf.WriteString("<script")
	if script.Src != "" {
		fmt.Fprintf(buf, ` src="%s"`, html.EscapeString(script.Src))
	}
	if script.Module {
		buf.WriteString(` type="module"`)
	}
	if script.Defer {
		buf.WriteString(" defer")
	}
	buf.WriteByte('>')
	buf.WriteString(script.Inline)
	buf.WriteString("</script>\n")
}
