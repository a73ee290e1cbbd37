package vdom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/nano/pkg/dom"
)

// IsHandler reports whether v can be bound as an event handler: func(),
// func(*dom.Event), or either returning an error.
func IsHandler(v any) bool {
	switch v.(type) {
	case func(), func(*dom.Event), func() error, func(*dom.Event) error:
		return true
	}
	return false
}

// Attributes converts element props to the attribute values they describe.
// Handlers, refs and props whose value removes the attribute (nil, false)
// are omitted. Both the reconciler and the server renderer use it, so
// server markup hydrates without attribute mismatches.
func Attributes(props Props) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for key, v := range props {
		if key == "ref" || key == "key" || key == "children" {
			continue
		}
		if IsEventProp(key) && IsHandler(v) {
			continue
		}
		name := AttributeName(key)
		if s, ok := AttributeValue(name, v); ok {
			out[name] = s
		}
	}
	return out
}

// AttributeName maps a prop key to its attribute name.
func AttributeName(key string) string {
	switch key {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return strings.ToLower(key)
}

// AttributeValue formats v as the value of attribute name. It reports false
// when the attribute should be absent. true renders as an empty value
// (a present boolean attribute).
func AttributeValue(name string, v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", val
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case []string:
		return strings.Join(val, " "), true
	case map[string]string:
		if name == "style" {
			return styleText(val), true
		}
	case map[string]bool:
		if name == "class" {
			keys := make([]string, 0, len(val))
			for c, on := range val {
				if on {
					keys = append(keys, c)
				}
			}
			sort.Strings(keys)
			return strings.Join(keys, " "), true
		}
	case fmt.Stringer:
		return val.String(), true
	}
	if IsHandler(v) {
		return "", false
	}
	return fmt.Sprint(v), true
}

func styleText(style map[string]string) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(style[k])
		sb.WriteByte(';')
	}
	return sb.String()
}
