// Package dev provides the nano development server.
//
// The server renders each page of a catalog to HTML and keeps a live
// session per browser tab. A session owns a server-side document: it
// parses the page markup it served, hydrates the page's tree over it and
// drives the tree with its own scheduler. Browser events are sent over a
// WebSocket, dispatched on the session's document, and the resulting DOM
// mutations are streamed back along with the updated container markup.
//
// # Routes
//
//	GET /                 page index
//	GET /p/{page}         server-rendered page with the dev client script
//	GET /_nano/ws/{page}  session WebSocket
//	GET /_nano/sessions   live sessions as JSON
//	GET /metrics          Prometheus metrics (dev.metrics)
//
// # Session Protocol
//
// Messages are JSON-encoded. The server sends:
//
//	{"type": "init", "session": "...", "html": "...", "mismatches": 0}
//	{"type": "patch", "seq": 3, "html": "...", "mutations": [...]}
//	{"type": "reload"}
//	{"type": "error", "error": "..."}
//
// The client sends events addressed by the child-index path from the
// container to the target node:
//
//	{"type": "event", "event": "click", "path": [0, 2, 1]}
//	{"type": "event", "event": "input", "path": [0, 1], "data": {"value": "x"}}
package dev
