package bench

import (
	"fmt"
	"hash/fnv"

	"github.com/vango-dev/nano/internal/dev"
	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/vdom"
)

// pageName is the name of the benchmark page.
const pageName = "load"

// inputPath is the element path of the page's input.
var inputPath = []int{0, 0}

var loadApp = vdom.DefineFunc("LoadApp", func(s vdom.Scope) *vdom.VNode {
	echo, setEcho := nano.UseState(s, "")
	items, setItems := nano.UseState(s, initialItems(s.Props().Int("size")))

	return vdom.Div(
		vdom.Input(vdom.Type("text"), vdom.OnInput(func(ev *dom.Event) {
			value, _ := ev.Data["value"].(string)
			setEcho(value)
			if len(items) == 0 {
				return
			}
			next := make([]string, len(items))
			copy(next, items)
			next[slot(value, len(next))] = value
			setItems(next)
		})),
		vdom.Div(vdom.ID("echo"), echo),
		vdom.Ul(vdom.Range(items, func(it string, i int) *vdom.VNode {
			return vdom.Li(vdom.Key(i), it)
		})),
	)
})

func loadPage(size int) dev.Page {
	return dev.Page{
		Name:  pageName,
		Title: "Load",
		Body:  func() *vdom.VNode { return vdom.C(loadApp, vdom.Props{"size": size}) },
	}
}

func initialItems(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("Item %d", i)
	}
	return items
}

// slot picks the list item a value is written to.
func slot(value string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(value))
	return int(h.Sum32() % uint32(n))
}

// token returns a payload of size bytes unique to client and seq.
func token(client int, seq uint64, size int) string {
	t := fmt.Sprintf("c%d-%d-", client, seq)
	for len(t) < size {
		t += "x"
	}
	return t
}
