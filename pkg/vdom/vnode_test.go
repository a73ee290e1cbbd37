package vdom

import (
	"testing"

	"github.com/vango-dev/nano/pkg/dom"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindInvalid, "Invalid"},
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindRaw, "Raw"},
		{KindHost, "Host"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameKind(t *testing.T) {
	counter := DefineFunc("Counter", func(Scope) *VNode { return nil })
	other := DefineFunc("Counter", func(Scope) *VNode { return nil })
	doc := dom.NewDocument()
	n1 := doc.CreateElement("div")
	n2 := doc.CreateElement("div")

	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"nil", nil, Div(), false},
		{"same tag", Div(), Div(), true},
		{"tag case", H("DIV", nil), H("div", nil), true},
		{"different tag", Div(), Span(), false},
		{"different key", Div(Key("a")), Div(Key("b")), false},
		{"same key", Li(Key(1)), Li(Key("1")), true},
		{"keyed vs unkeyed", Li(Key("a")), Li(), false},
		{"text", Text("a"), Text("b"), true},
		{"text vs element", Text("a"), Div(), false},
		{"same component", C(counter, nil), C(counter, nil), true},
		{"different component same name", C(counter, nil), C(other, nil), false},
		{"same host", Host(n1), Host(n1), true},
		{"different host", Host(n1), Host(n2), false},
		{"fragments", Fragment(), Fragment("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameKind(tt.a, tt.b); got != tt.want {
				t.Errorf("SameKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEventProp(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"onclick", true},
		{"onClick", true},
		{"ONINPUT", true},
		{"on", false},
		{"class", false},
		{"one", true},
	}
	for _, tt := range tests {
		if got := IsEventProp(tt.key); got != tt.want {
			t.Errorf("IsEventProp(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
	if got := EventName("onClick"); got != "click" {
		t.Errorf("EventName() = %q, want %q", got, "click")
	}
}

func TestPropsAccessors(t *testing.T) {
	p := Props{"s": "x", "n": 3, "b": true}
	if p.String("s") != "x" || p.Int("n") != 3 || !p.Bool("b") {
		t.Errorf("typed accessors returned wrong values for %v", p)
	}
	if p.String("n") != "" {
		t.Error("String() of non-string should be empty")
	}
	var nilProps Props
	if nilProps.Get("x") != nil || nilProps.Clone() != nil {
		t.Error("nil Props should behave as empty")
	}

	cp := p.Clone()
	cp["s"] = "y"
	if p["s"] != "x" {
		t.Error("Clone() shares storage with the original")
	}
}

func TestVNodeName(t *testing.T) {
	comp := DefineFunc("Card", func(Scope) *VNode { return nil })
	tests := []struct {
		node *VNode
		want string
	}{
		{nil, "<nil>"},
		{Div(), "<div>"},
		{C(comp, nil), "Card"},
		{Text("x"), "Text"},
	}
	for _, tt := range tests {
		if got := tt.node.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestComponentTypeIdentity(t *testing.T) {
	a := DefineFunc("A", func(Scope) *VNode { return nil })
	b := DefineFunc("A", func(Scope) *VNode { return nil })
	if a.ID() == b.ID() {
		t.Errorf("component types share ID %d", a.ID())
	}
	if a.New(nil) == nil {
		t.Error("New() returned nil component")
	}
	var nilType *ComponentType
	if nilType.New(nil) != nil {
		t.Error("nil type should produce no component")
	}
}
