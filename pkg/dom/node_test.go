package dom

import (
	"errors"
	"testing"
)

func TestInsertBeforeAndOrder(t *testing.T) {
	doc := NewDocument()
	ul := doc.CreateElement("UL")
	a := doc.CreateElement("li")
	b := doc.CreateElement("li")
	c := doc.CreateElement("li")

	if ul.Tag != "ul" {
		t.Errorf("Tag = %q, want ul", ul.Tag)
	}

	for _, n := range []*Node{a, c} {
		if err := ul.AppendChild(n); err != nil {
			t.Fatalf("AppendChild: %v", err)
		}
	}
	if err := ul.InsertBefore(b, c); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}

	got := ul.ChildNodes()
	want := []*Node{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("ChildCount = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d mismatch", i)
		}
	}
	if a.NextSibling() != b || c.PrevSibling() != b {
		t.Error("sibling links not updated")
	}
	if ul.FirstChild() != a || ul.LastChild() != c {
		t.Error("first/last child links not updated")
	}
}

func TestInsertBeforeErrors(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	stranger := doc.CreateElement("p")

	if err := parent.InsertBefore(child, stranger); !errors.Is(err, ErrNotChild) {
		t.Errorf("err = %v, want ErrNotChild", err)
	}

	_ = parent.AppendChild(child)
	if err := child.AppendChild(parent); !errors.Is(err, ErrHierarchy) {
		t.Errorf("err = %v, want ErrHierarchy", err)
	}

	text := doc.CreateTextNode("x")
	if err := text.AppendChild(doc.CreateElement("b")); !errors.Is(err, ErrNotContainer) {
		t.Errorf("err = %v, want ErrNotContainer", err)
	}

	other := NewDocument()
	if err := parent.AppendChild(other.CreateElement("i")); !errors.Is(err, ErrWrongDocument) {
		t.Errorf("err = %v, want ErrWrongDocument", err)
	}
}

func TestMutationsRecorded(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	a := doc.CreateElement("a")
	b := doc.CreateElement("b")

	rec := NewRecorder(doc)
	defer rec.Stop()

	_ = parent.AppendChild(a)
	_ = parent.AppendChild(b)
	_ = parent.InsertBefore(b, a) // move
	a.SetAttribute("href", "/x")
	a.SetAttribute("href", "/x") // unchanged, not recorded
	a.RemoveAttribute("href")
	a.RemoveAttribute("href") // absent, not recorded
	_ = parent.RemoveChild(b)

	wantOps := []MutationOp{
		MutationInsertNode,
		MutationInsertNode,
		MutationMoveNode,
		MutationSetAttr,
		MutationRemoveAttr,
		MutationRemoveNode,
	}
	got := rec.Mutations()
	if len(got) != len(wantOps) {
		t.Fatalf("recorded %d mutations, want %d: %v", len(got), len(wantOps), got)
	}
	for i, op := range wantOps {
		if got[i].Op != op {
			t.Errorf("mutation %d = %v, want %v", i, got[i].Op, op)
		}
	}
}

func TestInsertBeforeNoopWhenAlreadyInPlace(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	a := doc.CreateElement("a")
	b := doc.CreateElement("b")
	_ = parent.AppendChild(a)
	_ = parent.AppendChild(b)

	rec := NewRecorder(doc)
	defer rec.Stop()

	_ = parent.InsertBefore(a, b)
	_ = parent.AppendChild(b)
	if rec.Len() != 0 {
		t.Errorf("recorded %d mutations, want 0", rec.Len())
	}
}

func TestMoveAcrossParentsRecordsRemoveAndInsert(t *testing.T) {
	doc := NewDocument()
	p1 := doc.CreateElement("div")
	p2 := doc.CreateElement("div")
	child := doc.CreateElement("span")
	_ = p1.AppendChild(child)

	rec := NewRecorder(doc)
	defer rec.Stop()

	_ = p2.AppendChild(child)
	if rec.Count(MutationRemoveNode) != 1 || rec.Count(MutationInsertNode) != 1 {
		t.Errorf("mutations = %v, want one remove and one insert", rec.Mutations())
	}
	if p1.ChildCount() != 0 || child.Parent() != p2 {
		t.Error("child not moved to new parent")
	}
}

func TestDispatchBubbles(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("button")
	_ = outer.AppendChild(inner)

	var order []string
	inner.AddEventListener("click", NewListener(func(e *Event) {
		order = append(order, "inner")
		if e.Target != inner || e.CurrentTarget != inner {
			t.Error("inner listener saw wrong targets")
		}
	}))
	outer.AddEventListener("click", NewListener(func(e *Event) {
		order = append(order, "outer")
		if e.Target != inner || e.CurrentTarget != outer {
			t.Error("outer listener saw wrong targets")
		}
	}))

	inner.Dispatch(NewEvent("click"))
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("order = %v, want [inner outer]", order)
	}
}

func TestStopPropagation(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("button")
	_ = outer.AppendChild(inner)

	outerCalled := false
	inner.AddEventListener("click", NewListener(func(e *Event) { e.StopPropagation() }))
	outer.AddEventListener("click", NewListener(func(*Event) { outerCalled = true }))

	inner.Dispatch(NewEvent("click"))
	if outerCalled {
		t.Error("outer listener should not run after StopPropagation")
	}
}

func TestRemoveEventListener(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	calls := 0
	l := NewListener(func(*Event) { calls++ })

	el.AddEventListener("click", l)
	el.AddEventListener("click", l)
	el.Dispatch(NewEvent("click"))
	el.RemoveEventListener("click", l)
	el.Dispatch(NewEvent("click"))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if el.HasListeners("click") {
		t.Error("HasListeners should be false after removal")
	}
}

func TestTextContent(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("p")
	_ = p.AppendChild(doc.CreateTextNode("Hello, "))
	b := doc.CreateElement("b")
	_ = b.AppendChild(doc.CreateTextNode("world"))
	_ = p.AppendChild(b)

	if got := p.TextContent(); got != "Hello, world" {
		t.Errorf("TextContent = %q, want %q", got, "Hello, world")
	}
}

func TestVisibility(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("section")

	var seen []bool
	stop := doc.ObserveVisibility(el, func(v bool) { seen = append(seen, v) })
	doc.SetVisible(el, true)
	doc.SetVisible(el, true) // unchanged
	doc.SetVisible(el, false)
	stop()
	doc.SetVisible(el, true)

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Errorf("seen = %v, want [true false]", seen)
	}

	called := false
	doc.ObserveVisibility(el, func(v bool) { called = v })
	if !called {
		t.Error("observer of an already visible node should fire immediately")
	}
}
