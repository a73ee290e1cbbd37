package vdom

import (
	"sort"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaExpanded sets the aria-expanded attribute.
func AriaExpanded(expanded bool) Attr {
	if expanded {
		return attr("aria-expanded", "true")
	}
	return attr("aria-expanded", "false")
}

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Hidden sets the hidden attribute.
func Hidden() Attr { return attr("hidden", true) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute. Disabled(false) removes it.
func Disabled(disabled ...bool) Attr { return boolAttr("disabled", disabled) }

// Checked sets the checked attribute. Checked(false) removes it.
func Checked(checked ...bool) Attr { return boolAttr("checked", checked) }

// Selected sets the selected attribute. Selected(false) removes it.
func Selected(selected ...bool) Attr { return boolAttr("selected", selected) }

// For sets the for attribute (for labels).
func For(id string) Attr { return attr("for", id) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

func boolAttr(key string, v []bool) Attr {
	if len(v) > 0 && !v[0] {
		return attr(key, false)
	}
	return attr(key, true)
}

// Key creates a key attribute for reconciliation.
func Key(key any) Attr {
	return attr("key", toKey(key))
}

// Conditional attributes

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return attr("class", class)
	}
	return Attr{}
}

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

// Classes merges multiple class values.
// Accepts string, []string, and map[string]bool (map entries are sorted).
func Classes(classes ...any) Attr {
	var result []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			if v != "" {
				result = append(result, v)
			}
		case []string:
			for _, s := range v {
				if s != "" {
					result = append(result, s)
				}
			}
		case map[string]bool:
			names := make([]string, 0, len(v))
			for class, include := range v {
				if include && class != "" {
					names = append(names, class)
				}
			}
			sort.Strings(names)
			result = append(result, names...)
		}
	}
	return attr("class", strings.Join(result, " "))
}
