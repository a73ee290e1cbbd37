package demo

import (
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/vdom"
)

// Counter renders a count with increment and decrement buttons, starting
// at the "start" prop.
var Counter = vdom.DefineFunc("Counter", func(s vdom.Scope) *vdom.VNode {
	n, set := nano.UseState(s, s.Props().Int("start"))
	return vdom.Div(vdom.Class("counter"),
		vdom.Button(vdom.Class("dec"), vdom.OnClick(func() { set(n - 1) }), "-"),
		vdom.Strong(vdom.Textf("%d", n)),
		vdom.Button(vdom.Class("inc"), vdom.OnClick(func() { set(n + 1) }), "+"),
	)
})
