package vdom

import (
	"strings"

	"github.com/vango-dev/nano/pkg/dom"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindInvalid   VKind = iota // Unrecognized type passed to H
	KindElement                // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Component invocation
	KindRaw                    // Raw HTML markup
	KindHost                   // Existing host node inserted as-is
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindInvalid:
		return "Invalid"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	case KindHost:
		return "Host"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node. Treat it as immutable once built.
type VNode struct {
	Kind     VKind          // Node type
	Tag      string         // Element tag name (e.g., "div")
	Type     *ComponentType // For KindComponent
	Props    Props          // Attributes, event handlers, component props
	Children []*VNode       // Child nodes
	Key      string         // Reconciliation key
	Text     string         // For KindText and KindRaw
	Host     *dom.Node      // For KindHost

	// Invalid holds the value that could not be interpreted as a type.
	Invalid any
}

// Props holds attributes and event handlers for elements, or the props of a
// component.
type Props map[string]any

// Get returns the prop value for key, or nil.
func (p Props) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// String returns the prop as a string, or "" when absent or not a string.
func (p Props) String(key string) string {
	s, _ := p.Get(key).(string)
	return s
}

// Int returns the prop as an int, or 0 when absent or not an int.
func (p Props) Int(key string) int {
	n, _ := p.Get(key).(int)
	return n
}

// Bool returns the prop as a bool, or false when absent or not a bool.
func (p Props) Bool(key string) bool {
	b, _ := p.Get(key).(bool)
	return b
}

// Clone returns a shallow copy of the props.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// SameKind reports whether a and b can be reconciled in place: same kind,
// same key, and the same tag or component type.
func SameKind(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case KindElement:
		return strings.EqualFold(a.Tag, b.Tag)
	case KindComponent:
		return a.Type == b.Type
	case KindHost:
		return a.Host == b.Host
	}
	return true
}

// IsEventProp reports whether a prop key names an event handler.
// Case-insensitive to catch onclick, onClick, ONCLICK.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventName returns the DOM event type for an event prop key ("onClick" -> "click").
func EventName(key string) string {
	return strings.ToLower(key[2:])
}

// Name returns a short description of the node for logs and errors.
func (v *VNode) Name() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindElement:
		return "<" + v.Tag + ">"
	case KindComponent:
		if v.Type != nil {
			return v.Type.Name()
		}
	}
	return v.Kind.String()
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // func(), func(*dom.Event)
}
