package dev

import (
	"github.com/vango-dev/nano/pkg/dom"
)

// ServerMessageType is the type of a message sent to the browser.
type ServerMessageType string

const (
	MessageInit   ServerMessageType = "init"
	MessagePatch  ServerMessageType = "patch"
	MessageReload ServerMessageType = "reload"
	MessageError  ServerMessageType = "error"
)

// ServerMessage is sent to browsers over the session WebSocket.
type ServerMessage struct {
	Type       ServerMessageType `json:"type"`
	Session    string            `json:"session,omitempty"`
	Seq        uint64            `json:"seq,omitempty"`
	HTML       string            `json:"html,omitempty"`
	Mutations  []MutationRecord  `json:"mutations,omitempty"`
	Mismatches int               `json:"mismatches,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ClientMessage is an event reported by the browser.
type ClientMessage struct {
	Type  string         `json:"type"`
	Event string         `json:"event"`
	Path  []int          `json:"path"`
	Data  map[string]any `json:"data,omitempty"`
}

// MutationRecord describes one DOM mutation. Target is the element path of
// the mutated node, or of its parent element for text, at the time of the
// mutation; it is empty when the node is outside the container.
type MutationRecord struct {
	Op     string `json:"op"`
	Target []int  `json:"target,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
	Node   string `json:"node,omitempty"`
}

// newMutationRecord converts m. It runs inside the document observer,
// after the mutation was applied.
func newMutationRecord(container *dom.Node, m dom.Mutation) MutationRecord {
	rec := MutationRecord{
		Op:     m.Op.String(),
		Target: pathOf(container, m.Target),
		Key:    m.Key,
		Value:  m.Value,
	}
	if m.Node != nil {
		rec.Node = describe(m.Node)
	}
	return rec
}

func describe(n *dom.Node) string {
	switch n.Type {
	case dom.ElementNode:
		return "<" + n.Tag + ">"
	case dom.TextNode:
		return "#text"
	case dom.CommentNode:
		return "#comment"
	default:
		return n.Type.String()
	}
}

// Paths count element children only. Browsers merge adjacent text nodes
// when they parse markup, so text positions are not stable across patches.

// pathOf returns the element indices leading from container to n, or to
// n's parent element when n is not an element. It returns nil when n is
// not inside container.
func pathOf(container, n *dom.Node) []int {
	if n != nil && n.Type != dom.ElementNode {
		n = n.Parent()
	}
	var rev []int
	for cur := n; cur != container; cur = cur.Parent() {
		if cur == nil || cur.Parent() == nil {
			return nil
		}
		i := 0
		for s := cur.PrevSibling(); s != nil; s = s.PrevSibling() {
			if s.Type == dom.ElementNode {
				i++
			}
		}
		rev = append(rev, i)
	}
	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

// resolvePath returns the element at path below container, or nil.
func resolvePath(container *dom.Node, path []int) *dom.Node {
	n := container
	for _, idx := range path {
		if idx < 0 {
			return nil
		}
		var found *dom.Node
		i := 0
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if c.Type != dom.ElementNode {
				continue
			}
			if i == idx {
				found = c
				break
			}
			i++
		}
		if found == nil {
			return nil
		}
		n = found
	}
	return n
}
