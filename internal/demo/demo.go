package demo

import (
	"github.com/vango-dev/nano/internal/dev"
	"github.com/vango-dev/nano/pkg/vdom"
)

// Pages returns every demo page.
func Pages() []dev.Page {
	return []dev.Page{
		{Name: "counter", Title: "Counter", Body: func() *vdom.VNode {
			return vdom.C(Counter, vdom.Props{"start": 0})
		}},
		{Name: "todos", Title: "Todos", Body: func() *vdom.VNode {
			return vdom.C(TodoApp, vdom.Props{"todos": NewTodoStore(
				Todo{ID: 1, Text: "Render on the server"},
				Todo{ID: 2, Text: "Hydrate in place"},
			)})
		}},
		{Name: "clock", Title: "Clock", Body: func() *vdom.VNode {
			return vdom.C(Clock, nil)
		}},
	}
}

// Catalog returns a dev catalog of the demo pages.
func Catalog() *dev.Catalog {
	return dev.NewCatalog(Pages()...)
}
