package dom

// Event is dispatched to listeners of a node and bubbles to its ancestors.
type Event struct {
	// Type is the event name without the "on" prefix (e.g. "click").
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listener is running.
	CurrentTarget *Node

	// Data carries event payload such as input values or key names.
	Data map[string]any

	stopped bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Listener is a registered event callback. Listeners are compared by
// pointer identity, so the same *Listener must be passed to remove it.
type Listener struct {
	Fn func(*Event)
}

// NewListener wraps fn in a Listener.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{Fn: fn}
}

// AddEventListener registers l for events of type typ on n.
// Registering the same listener twice is a no-op.
func (n *Node) AddEventListener(typ string, l *Listener) {
	if l == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]*Listener)
	}
	for _, existing := range n.listeners[typ] {
		if existing == l {
			return
		}
	}
	n.listeners[typ] = append(n.listeners[typ], l)
}

// RemoveEventListener unregisters l for events of type typ.
func (n *Node) RemoveEventListener(typ string, l *Listener) {
	list := n.listeners[typ]
	for i, existing := range list {
		if existing == l {
			n.listeners[typ] = append(list[:i:i], list[i+1:]...)
			if len(n.listeners[typ]) == 0 {
				delete(n.listeners, typ)
			}
			return
		}
	}
}

// HasListeners reports whether n has any listener for typ.
func (n *Node) HasListeners(typ string) bool {
	return len(n.listeners[typ]) > 0
}

// ListenerCount returns the total number of listeners registered on n.
func (n *Node) ListenerCount() int {
	count := 0
	for _, list := range n.listeners {
		count += len(list)
	}
	return count
}

// Dispatch delivers ev to n and then to each ancestor until propagation stops.
func (n *Node) Dispatch(ev *Event) {
	if ev == nil {
		return
	}
	ev.Target = n
	for cur := n; cur != nil && !ev.stopped; cur = cur.parent {
		list := cur.listeners[ev.Type]
		if len(list) == 0 {
			continue
		}
		// Snapshot so listeners may add/remove listeners while running.
		snapshot := append([]*Listener(nil), list...)
		ev.CurrentTarget = cur
		for _, l := range snapshot {
			if l.Fn != nil {
				l.Fn(ev)
			}
		}
	}
	ev.CurrentTarget = nil
}
