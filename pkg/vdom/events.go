package vdom

// On binds handler to events of the given type. The handler is a func() or
// a func(*dom.Event), optionally returning an error that is logged.
func On(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// Mouse and pointer.
func OnClick(handler any) EventHandler       { return On("click", handler) }
func OnDblClick(handler any) EventHandler    { return On("dblclick", handler) }
func OnMouseOver(handler any) EventHandler   { return On("mouseover", handler) }
func OnPointerDown(handler any) EventHandler { return On("pointerdown", handler) }

// Keyboard and form.
func OnKeyDown(handler any) EventHandler { return On("keydown", handler) }
func OnInput(handler any) EventHandler   { return On("input", handler) }
func OnChange(handler any) EventHandler  { return On("change", handler) }
func OnSubmit(handler any) EventHandler  { return On("submit", handler) }

// Focus. focusin bubbles; focus and blur do not.
func OnFocus(handler any) EventHandler   { return On("focus", handler) }
func OnBlur(handler any) EventHandler    { return On("blur", handler) }
func OnFocusIn(handler any) EventHandler { return On("focusin", handler) }
