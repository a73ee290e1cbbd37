package nano

import (
	"github.com/vango-dev/nano/pkg/store"
	"github.com/vango-dev/nano/pkg/vdom"
)

// UseState returns per-instance state and its setter. Setting a different
// value re-renders the instance in the next pass. Like every slot-based
// helper it must be called unconditionally and in the same order on every
// render.
func UseState[T any](s vdom.Scope, initial T) (T, func(T)) {
	st := s.Slot(func() any { return store.New(initial) }).(*store.Store[T])
	v := UseStore(s, st)
	return v, func(next T) { st.Set(next) }
}

// UseStore subscribes the instance to st and returns its current value.
// Each change re-renders the instance in the next pass; several changes
// before that pass coalesce into one render. The subscription ends when the
// instance unmounts.
func UseStore[T any](s vdom.Scope, st *store.Store[T]) T {
	s.Slot(func() any {
		inst, ok := s.(*ComponentInstance)
		if !ok {
			// Scopes outside a Root, such as server rendering, never
			// re-render.
			return nil
		}
		unsubscribe := st.Subscribe(func(T, T) { inst.Update() })
		inst.OnCleanup(unsubscribe)
		return unsubscribe
	})
	return st.Get()
}
