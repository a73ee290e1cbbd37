package render

import "strings"

// booleanAttrs render as a bare name when set and are omitted when false.
var booleanAttrs = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range strings.Fields(`
		allowfullscreen async autofocus autoplay checked controls default
		defer disabled formnovalidate hidden inert ismap itemscope loop
		multiple muted nomodule novalidate open playsinline readonly
		required reversed selected`) {
		set[name] = struct{}{}
	}
	return set
}()

func isBooleanAttr(name string) bool {
	_, ok := booleanAttrs[name]
	return ok
}
