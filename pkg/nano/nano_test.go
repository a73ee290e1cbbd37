package nano

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/scheduler"
	"github.com/vango-dev/nano/pkg/vdom"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture is a document with an empty body and a private scheduler.
type fixture struct {
	doc   *dom.Document
	body  *dom.Node
	sched *scheduler.Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc := dom.NewDocument()
	return &fixture{
		doc:   doc,
		body:  doc.Body(),
		sched: scheduler.New(scheduler.WithLogger(discardLogger())),
	}
}

func (f *fixture) opts(extra ...Option) []Option {
	return append([]Option{WithScheduler(f.sched), WithLogger(discardLogger())}, extra...)
}

func (f *fixture) render(t *testing.T, node *vdom.VNode, extra ...Option) *Root {
	t.Helper()
	root, err := Render(f.body, node, f.opts(extra...)...)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return root
}

func (f *fixture) flush(t *testing.T) {
	t.Helper()
	if err := f.sched.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

// logged records lifecycle callbacks into a shared log.
type logged struct {
	name   string
	log    *[]string
	render func(s vdom.Scope) *vdom.VNode
}

func (p *logged) record(hook string) { *p.log = append(*p.log, p.name+":"+hook) }

func (p *logged) WillMount(vdom.Scope) error   { p.record("WillMount"); return nil }
func (p *logged) DidMount(vdom.Scope) error    { p.record("DidMount"); return nil }
func (p *logged) DidUpdate(vdom.Scope) error   { p.record("DidUpdate"); return nil }
func (p *logged) WillUnmount(vdom.Scope) error { p.record("WillUnmount"); return nil }

func (p *logged) Render(s vdom.Scope) *vdom.VNode {
	p.record("Render")
	if p.render != nil {
		return p.render(s)
	}
	return vdom.Span(p.name)
}

func defineLogged(name string, log *[]string, render func(s vdom.Scope) *vdom.VNode) *vdom.ComponentType {
	return vdom.Define(name, func(vdom.Props) vdom.Component {
		return &logged{name: name, log: log, render: render}
	})
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
