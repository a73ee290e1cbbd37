package render

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/net/html"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// ErrInvalidNode is returned for nodes built from an unrecognized type.
var ErrInvalidNode = errors.New("render: invalid node")

// textSeparator keeps adjacent text nodes apart in the markup. Hydration
// skips comments.
const textSeparator = "<!---->"

// Config configures the HTML renderer.
type Config struct {
	// Document receives styles registered by components during rendering.
	// Defaults to a fresh document per Renderer.
	Document *dom.Document

	// Logger receives component errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer renders vdom trees to HTML. A Renderer is not safe for
// concurrent use.
type Renderer struct {
	doc    *dom.Document
	logger *slog.Logger
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.Document == nil {
		config.Document = dom.NewDocument()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Renderer{
		doc:    config.Document,
		logger: config.Logger,
	}
}

// Document returns the document components render against.
func (r *Renderer) Document() *dom.Document {
	return r.doc
}

// RenderToString renders node to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams node as HTML to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	bw := bufio.NewWriter(w)
	s := &session{r: r, w: bw}
	if err := s.node(node, nil); err != nil {
		return err
	}
	return bw.Flush()
}

// session is the state of one render: the writer and whether the last
// thing written at the current level was text.
type session struct {
	r        *Renderer
	w        *bufio.Writer
	lastText bool

	// rawText is set inside <script> and <style>, whose text is not
	// escaped.
	rawText bool
}

func (s *session) node(v *vdom.VNode, owner *scope) error {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case vdom.KindElement:
		return s.element(v, owner)
	case vdom.KindText:
		s.text(v.Text)
		return nil
	case vdom.KindFragment:
		return s.children(v.Children, owner)
	case vdom.KindComponent:
		return s.component(v, owner)
	case vdom.KindRaw:
		s.w.WriteString(v.Text)
		s.lastText = false
		return nil
	case vdom.KindHost:
		s.w.WriteString(v.Host.OuterHTML())
		s.lastText = v.Host.Type == dom.TextNode
		return nil
	case vdom.KindInvalid:
		return fmt.Errorf("%w: type %T", ErrInvalidNode, v.Invalid)
	default:
		return fmt.Errorf("%w: kind %s", ErrInvalidNode, v.Kind)
	}
}

func (s *session) children(children []*vdom.VNode, owner *scope) error {
	for _, c := range children {
		if err := s.node(c, owner); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) text(t string) {
	if t == "" {
		return
	}
	if s.rawText {
		s.w.WriteString(t)
		return
	}
	if s.lastText {
		s.w.WriteString(textSeparator)
	}
	s.w.WriteString(html.EscapeString(t))
	s.lastText = true
}

func (s *session) element(v *vdom.VNode, owner *scope) error {
	tag := v.Tag
	s.w.WriteByte('<')
	s.w.WriteString(tag)
	s.attributes(v.Props)
	s.w.WriteByte('>')
	s.lastText = false

	if vdom.IsVoidElement(tag) {
		return nil
	}
	outer := s.rawText
	s.rawText = tag == "script" || tag == "style"
	err := s.children(v.Children, owner)
	s.rawText = outer
	if err != nil {
		return err
	}
	s.w.WriteString("</")
	s.w.WriteString(tag)
	s.w.WriteByte('>')
	s.lastText = false
	return nil
}

// attributes writes props in name order, formatted as the reconciler
// formats them.
func (s *session) attributes(props vdom.Props) {
	attrs := vdom.Attributes(props)
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := attrs[name]
		s.w.WriteByte(' ')
		s.w.WriteString(name)
		if value == "" && isBooleanAttr(name) {
			continue
		}
		s.w.WriteString(`="`)
		s.w.WriteString(html.EscapeString(value))
		s.w.WriteByte('"')
	}
}

func (s *session) component(v *vdom.VNode, owner *scope) error {
	sc := newScope(s.r, v, owner)
	out, err := sc.expand()
	if err != nil {
		s.r.logger.Error("component render failed", "component", v.Type.Name(), "error", err)
		return err
	}
	return s.node(out, sc)
}
