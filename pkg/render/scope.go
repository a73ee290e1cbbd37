package render

import (
	"fmt"
	"runtime/debug"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// scope is the vdom.Scope of a component expanded on the server. It lives
// for one render.
type scope struct {
	r        *Renderer
	node     *vdom.VNode
	parent   *scope
	provided map[any]any
	slots    []any
}

var _ vdom.Scope = (*scope)(nil)

func newScope(r *Renderer, v *vdom.VNode, parent *scope) *scope {
	return &scope{r: r, node: v, parent: parent}
}

// expand constructs the component and renders it once, converting panics
// into errors.
func (s *scope) expand() (out *vdom.VNode, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.r.logger.Error("component panic",
				"component", s.node.Type.Name(),
				"panic", p,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("render: %s panicked: %v", s.node.Type.Name(), p)
		}
	}()

	comp := s.node.Type.New(s.node.Props)
	if comp == nil {
		return nil, fmt.Errorf("%w: %s has no factory", ErrInvalidNode, s.node.Type.Name())
	}
	if wm, ok := comp.(vdom.WillMounter); ok {
		if err := wm.WillMount(s); err != nil {
			return nil, fmt.Errorf("render: %s WillMount: %w", s.node.Type.Name(), err)
		}
	}
	return comp.Render(s), nil
}

func (s *scope) Props() vdom.Props { return s.node.Props }

func (s *scope) Children() []*vdom.VNode { return s.node.Children }

// Update is a no-op; server output is rendered once.
func (s *scope) Update() {}

func (s *scope) Provide(key, value any) {
	if s.provided == nil {
		s.provided = make(map[any]any)
	}
	s.provided[key] = value
}

func (s *scope) Lookup(key any) (any, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.provided[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) Slot(init func() any) any {
	var v any
	if init != nil {
		v = init()
	}
	s.slots = append(s.slots, v)
	return v
}

func (s *scope) Document() *dom.Document { return s.r.doc }

// Nodes returns nil; nothing is mounted on the server.
func (s *scope) Nodes() []*dom.Node { return nil }
