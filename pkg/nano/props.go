package nano

import (
	"sort"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// applyProps brings r's element attributes and event bindings from prev to
// r.node.Props. Only attributes that changed between the two prop sets are
// written; attributes the props never mentioned are left alone.
func (rc *reconciler) applyProps(r *rendered, prev vdom.Props) {
	el := r.host
	before := vdom.Attributes(prev)
	after := vdom.Attributes(r.node.Props)

	for _, name := range sortedKeys(before) {
		if _, ok := after[name]; !ok {
			el.RemoveAttribute(name)
		}
	}
	// SetAttribute records nothing when the value is unchanged.
	for _, name := range sortedKeys(after) {
		el.SetAttribute(name, after[name])
	}

	rc.bindEvents(r)
}

// bindEvents attaches a listener for every handler prop. A listener stays
// attached across updates; only the handler it calls is replaced.
func (rc *reconciler) bindEvents(r *rendered) {
	seen := make(map[string]bool)
	for key, h := range r.node.Props {
		if !vdom.IsEventProp(key) || !vdom.IsHandler(h) {
			continue
		}
		name := vdom.EventName(key)
		seen[name] = true

		if b, ok := r.events[name]; ok {
			b.handler = h
			continue
		}
		b := &binding{handler: h}
		rt := rc.rt
		b.listener = dom.NewListener(func(ev *dom.Event) {
			rt.invokeHandler(b.handler, ev)
		})
		if r.events == nil {
			r.events = make(map[string]*binding)
		}
		r.events[name] = b
		r.host.AddEventListener(name, b.listener)
	}
	for name, b := range r.events {
		if !seen[name] {
			r.host.RemoveEventListener(name, b.listener)
			delete(r.events, name)
		}
	}
}

func (rc *reconciler) unbindEvents(r *rendered) {
	for name, b := range r.events {
		r.host.RemoveEventListener(name, b.listener)
	}
	r.events = nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
