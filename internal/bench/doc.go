// Package bench load-tests dev sessions.
//
// Run starts a dev server with a single page holding a text input and a
// list. Each client opens a session and sends input events at a fixed
// rate. The page echoes every value into a text node and one list item,
// and the client waits for the patch carrying that value before sending
// the next event, so each sample is a full event to patch round trip.
package bench
