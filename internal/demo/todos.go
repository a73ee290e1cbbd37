package demo

import (
	"strings"

	"github.com/vango-dev/nano/pkg/context"
	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/store"
	"github.com/vango-dev/nano/pkg/vdom"
)

// Todo is one entry of the list.
type Todo struct {
	ID   int
	Text string
	Done bool
}

// Theme is the color scheme of the todo list.
var Theme = context.CreateNamed("Theme", "light")

// NewTodoStore returns a store holding todos.
func NewTodoStore(todos ...Todo) *store.Store[[]Todo] {
	return store.New(todos)
}

// Add appends a todo with the next free ID. Blank text is ignored.
func Add(st *store.Store[[]Todo], text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	st.Update(func(todos []Todo) []Todo {
		id := 1
		for _, t := range todos {
			if t.ID >= id {
				id = t.ID + 1
			}
		}
		next := make([]Todo, len(todos), len(todos)+1)
		copy(next, todos)
		return append(next, Todo{ID: id, Text: text})
	})
}

// Toggle flips the done flag of the todo with id.
func Toggle(st *store.Store[[]Todo], id int) {
	st.Update(func(todos []Todo) []Todo {
		next := make([]Todo, len(todos))
		copy(next, todos)
		for i := range next {
			if next[i].ID == id {
				next[i].Done = !next[i].Done
			}
		}
		return next
	})
}

// Remove deletes the todo with id.
func Remove(st *store.Store[[]Todo], id int) {
	st.Update(func(todos []Todo) []Todo {
		next := make([]Todo, 0, len(todos))
		for _, t := range todos {
			if t.ID != id {
				next = append(next, t)
			}
		}
		return next
	})
}

// TodoApp renders the list held by the "todos" store prop.
var TodoApp = vdom.DefineFunc("TodoApp", func(s vdom.Scope) *vdom.VNode {
	st := s.Props().Get("todos").(*store.Store[[]Todo])
	todos := nano.UseStore(s, st)
	draft, setDraft := nano.UseState(s, "")
	dark, setDark := nano.UseState(s, false)

	theme := "light"
	if dark {
		theme = "dark"
	}
	done := 0
	for _, t := range todos {
		if t.Done {
			done++
		}
	}

	return Theme.Provider(theme, vdom.Section(vdom.Class("todos"),
		vdom.Header(
			vdom.H1("Todos"),
			vdom.Button(vdom.Class("theme"), vdom.OnClick(func() { setDark(!dark) }), "Theme: "+theme),
		),
		vdom.Form(
			vdom.OnSubmit(func() {
				Add(st, draft)
				setDraft("")
			}),
			vdom.Input(
				vdom.Type("text"),
				vdom.Name("text"),
				vdom.Placeholder("What needs doing?"),
				vdom.Value(draft),
				vdom.OnInput(func(ev *dom.Event) {
					if v, ok := ev.Data["value"].(string); ok {
						setDraft(v)
					}
				}),
			),
			vdom.Button(vdom.Type("submit"), "Add"),
		),
		vdom.Ul(vdom.RangeKeyed(todos, func(t Todo) any { return t.ID }, func(t Todo, _ int) *vdom.VNode {
			return vdom.C(TodoItem, vdom.Props{"todo": t, "todos": st})
		})),
		vdom.Footer(vdom.Textf("%d of %d done", done, len(todos))),
	))
})

// TodoItem renders one todo in the current Theme.
var TodoItem = vdom.DefineFunc("TodoItem", func(s vdom.Scope) *vdom.VNode {
	t := s.Props().Get("todo").(Todo)
	st := s.Props().Get("todos").(*store.Store[[]Todo])
	return vdom.Li(
		vdom.Class("theme-"+Theme.Use(s)),
		vdom.ClassIf(t.Done, "done"),
		vdom.Label(
			vdom.Input(vdom.Type("checkbox"), vdom.Checked(t.Done), vdom.OnChange(func() { Toggle(st, t.ID) })),
			t.Text,
		),
		vdom.Button(vdom.Class("remove"), vdom.AriaLabel("Remove "+t.Text), vdom.OnClick(func() { Remove(st, t.ID) }), "x"),
	)
})
