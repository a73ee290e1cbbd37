// Package context propagates values to a whole subtree without threading
// them through props.
//
// A Context pairs a Provider component with Use, an accessor for render
// functions. Use resolves at render time by walking from the calling
// instance up its ownership chain; the nearest Provider of the same Context
// wins, and the default applies when there is none. Nothing is cached
// between renders.
//
//	var Theme = context.Create("light")
//
//	app := Theme.Provider("dark", vdom.C(Toolbar, nil))
//
//	Toolbar := vdom.DefineFunc("Toolbar", func(s vdom.Scope) *vdom.VNode {
//	    return vdom.Div(vdom.Class("toolbar-" + Theme.Use(s)))
//	})
package context

import (
	"fmt"

	"github.com/vango-dev/nano/pkg/vdom"
)

// valueProp is the Provider prop holding the provided value.
const valueProp = "value"

// Context is a typed key with a default value.
type Context[T any] struct {
	name     string
	def      T
	provider *vdom.ComponentType
}

// Create returns a new Context whose consumers see def when no Provider is
// found in their ancestry.
func Create[T any](def T) *Context[T] {
	return CreateNamed(fmt.Sprintf("Context[%T]", def), def)
}

// CreateNamed is Create with a name used in logs and instance dumps.
func CreateNamed[T any](name string, def T) *Context[T] {
	c := &Context[T]{name: name, def: def}
	c.provider = vdom.DefineFunc(name+".Provider", func(s vdom.Scope) *vdom.VNode {
		s.Provide(c, c.valueOf(s.Props()))
		return vdom.Fragment(s.Children())
	})
	return c
}

// Name returns the context's name.
func (c *Context[T]) Name() string { return c.name }

// Default returns the default value.
func (c *Context[T]) Default() T { return c.def }

// ProviderType returns the Provider component type, for use with vdom.H.
// The provided value is read from the "value" prop.
func (c *Context[T]) ProviderType() *vdom.ComponentType { return c.provider }

// Provider returns a node that makes value available to children and all of
// their descendants.
func (c *Context[T]) Provider(value T, children ...any) *vdom.VNode {
	return vdom.H(c.provider, vdom.Props{valueProp: value}, children...)
}

// Use returns the value of the nearest Provider above s, or the default.
func (c *Context[T]) Use(s vdom.Scope) T {
	if s == nil {
		return c.def
	}
	v, ok := s.Lookup(c)
	if !ok {
		return c.def
	}
	if t, ok := v.(T); ok {
		return t
	}
	return c.def
}

func (c *Context[T]) valueOf(props vdom.Props) T {
	raw, ok := props[valueProp]
	if !ok {
		return c.def
	}
	if t, ok := raw.(T); ok {
		return t
	}
	var zero T
	return zero
}
