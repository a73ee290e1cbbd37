package nano

import (
	"strings"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// Hydration mismatch reasons, used as metric labels.
const (
	mismatchMissing   = "missing"
	mismatchTag       = "tag"
	mismatchText      = "text"
	mismatchAttribute = "attribute"
	mismatchExtra     = "extra"
)

// hydrateCursor walks the existing children of one host parent in document
// order, handing out nodes that match what the tree expects next.
type hydrateCursor struct {
	rc     *reconciler
	parent *dom.Node
	next   *dom.Node
}

func newHydrateCursor(rc *reconciler, parent *dom.Node) *hydrateCursor {
	return &hydrateCursor{rc: rc, parent: parent, next: parent.FirstChild()}
}

func (hc *hydrateCursor) advance() {
	if hc.next != nil {
		hc.next = hc.next.NextSibling()
	}
}

// skip moves past comments and, when skipWhitespace is set, whitespace-only
// text. Skipped nodes stay unclaimed and are removed with the leftovers.
func (hc *hydrateCursor) skip(skipWhitespace bool) {
	for hc.next != nil {
		switch {
		case hc.next.Type == dom.CommentNode:
		case skipWhitespace && hc.next.IsWhitespace():
		default:
			return
		}
		hc.advance()
	}
}

// claimElement returns the next existing node if it is an element with the
// given tag. On a mismatch it returns nil and leaves the cursor in place, so
// the caller creates a fresh node at this position.
func (hc *hydrateCursor) claimElement(tag string) *dom.Node {
	hc.skip(true)
	n := hc.next
	if n == nil {
		hc.mismatch(mismatchMissing, tag)
		return nil
	}
	if n.Type != dom.ElementNode || !strings.EqualFold(n.Tag, tag) {
		hc.mismatch(mismatchTag, tag)
		return nil
	}
	hc.advance()
	return n
}

// claimText returns the next existing text node, correcting its content.
func (hc *hydrateCursor) claimText(text string) *dom.Node {
	if text == "" {
		// Empty text renders no markup.
		return nil
	}
	hc.skip(false)
	n := hc.next
	if n == nil || n.Type != dom.TextNode {
		hc.mismatch(mismatchMissing, "#text")
		return nil
	}
	hc.advance()
	if n.Data() != text {
		hc.mismatch(mismatchText, "#text")
		n.SetData(text)
	}
	return n
}

// claimRaw returns the existing nodes matching parsed, the nodes a raw
// markup node produces, or nil if the markup differs.
func (hc *hydrateCursor) claimRaw(parsed []*dom.Node) []*dom.Node {
	if len(parsed) == 0 {
		return nil
	}
	hc.skip(false)
	claimed := make([]*dom.Node, 0, len(parsed))
	n := hc.next
	for _, p := range parsed {
		if n == nil || n.OuterHTML() != p.OuterHTML() {
			hc.mismatch(mismatchTag, "#raw")
			return nil
		}
		claimed = append(claimed, n)
		n = n.NextSibling()
	}
	hc.next = n
	return claimed
}

func (hc *hydrateCursor) mismatch(reason, want string) {
	hc.rc.mismatch(reason, want, hc.parent)
}

func (rc *reconciler) mismatch(reason, want string, parent *dom.Node) {
	rc.mismatches++
	rc.rt.metrics.hydrationMismatch(reason)
	rc.rt.logger.Debug("hydration mismatch",
		"reason", reason,
		"want", want,
		"parent", parent.Tag)
}

// adoptProps makes an existing element's attributes match r.node.Props and
// binds its handlers.
func (rc *reconciler) adoptProps(r *rendered) {
	el := r.host
	want := vdom.Attributes(r.node.Props)

	for _, a := range el.Attributes() {
		if _, ok := want[a.Name]; !ok {
			rc.mismatch(mismatchAttribute, a.Name, el)
			el.RemoveAttribute(a.Name)
		}
	}
	for _, name := range sortedKeys(want) {
		if cur, ok := el.Attribute(name); !ok || cur != want[name] {
			rc.mismatch(mismatchAttribute, name, el)
			el.SetAttribute(name, want[name])
		}
	}
	rc.bindEvents(r)
}

// removeLeftovers detaches every child of parent that hydration did not
// claim, except comments, which stay where they are. Unclaimed whitespace
// is not counted as a mismatch.
func (rc *reconciler) removeLeftovers(parent *dom.Node, keep []*dom.Node) {
	claimed := make(map[*dom.Node]bool, len(keep))
	for _, n := range keep {
		claimed[n] = true
	}
	for c := parent.FirstChild(); c != nil; {
		next := c.NextSibling()
		if !claimed[c] && c.Type != dom.CommentNode {
			if !c.IsWhitespace() {
				rc.mismatch(mismatchExtra, c.Tag, parent)
			}
			c.Remove()
		}
		c = next
	}
}
