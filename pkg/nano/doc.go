// Package nano is the rendering runtime: it mounts vdom trees into a dom
// container and keeps them in sync as state changes.
//
// # Rendering
//
// Render builds host nodes for a tree; Root.Update reconciles the mounted
// tree against a new one with as few DOM mutations as possible. Nodes of
// the same kind and key are updated in place, so component instances keep
// their state and elements keep their identity. Keyed children are moved,
// never recreated, when their order changes.
//
//	root, err := nano.Render(doc.Body(), vdom.C(App, nil))
//	...
//	err = root.Update(vdom.C(App, vdom.Props{"title": "next"}))
//
// # Components
//
// A component is a vdom.Component with optional lifecycle interfaces
// (vdom.WillMounter, vdom.DidMounter, vdom.ShouldUpdater, vdom.DidUpdater,
// vdom.WillUnmounter). WillMount runs before the first render, DidMount runs
// bottom-up once the instance's nodes are attached, WillUnmount runs
// top-down before they are removed.
//
// # Updates
//
// Components invalidate themselves with Scope.Update, usually through
// UseState or UseStore. Invalidations are batched by a scheduler.Scheduler
// into passes; Tick waits for the next one.
//
// # Hydration
//
// Hydrate adopts markup that is already in the container, typically
// produced by package render, instead of creating it. HydrateLazy defers
// that until the container becomes visible, the scheduler is idle or the
// user interacts with it.
//
// # Threading
//
// A Root and its nodes belong to the goroutine driving its scheduler.
// Store changes and Scope.Update may come from any goroutine.
package nano
