package element

import (
	"fmt"
	"sort"
	"strconv"
)

// Props maps type-specific attribute names to values. Values are usually
// strings, but imported data may carry numbers, booleans or lists. Unknown keys
// are kept as they are.
type Props map[string]any

// Set stores a value for key. An empty value (nil, "", empty list) removes the key.
// Set on a nil Props is a no-op for removals and panics for stores, as with any map.
func (p Props) Set(key string, v any) {
	if IsEmptyValue(v) {
		delete(p, key)
		return
	}
	p[key] = v
}

// Has reports wether key is set.
func (p Props) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the value for key as a string, converting scalar values.
func (p Props) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// Int returns the value for key as an int; dflt if missing or not numeric.
func (p Props) Int(key string, dflt int) int {
	switch x := p[key].(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		if n, err := strconv.Atoi(x); err == nil {
			return n
		}
	}
	return dflt
}

// Bool returns the value for key interpreted as a flag.
func (p Props) Bool(key string) bool {
	switch x := p[key].(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(x)
		return err == nil && b || x == key
	}
	return false
}

// Strings returns a list value. JSON-decoded lists ([]any) are converted.
func (p Props) Strings(key string) []string {
	switch x := p[key].(type) {
	case []string:
		return append([]string(nil), x...)
	case []any:
		r := make([]string, 0, len(x))
		for _, e := range x {
			r = append(r, fmt.Sprintf("%v", e))
		}
		return r
	case string:
		if x != "" {
			return []string{x}
		}
	}
	return nil
}

// Keys returns the prop keys in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of p.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	c := make(Props, len(p))
	for k, v := range p {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...)
	case []any:
		c := make([]any, len(x))
		for i, e := range x {
			c[i] = cloneValue(e)
		}
		return c
	case map[string]any:
		c := make(map[string]any, len(x))
		for k, e := range x {
			c[k] = cloneValue(e)
		}
		return c
	}
	return v
}

// IsEmptyValue is true for values which must not be stored in props or style.
func IsEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

// --- Style -----------------------------------------------------------------

// Style maps presentation properties to values, e.g. "color" → "red".
// Neither names nor values are validated; they are emitted verbatim.
type Style map[string]string

// Set stores a style value; an empty value removes the key.
func (s Style) Set(key, value string) {
	if value == "" {
		delete(s, key)
		return
	}
	s[key] = value
}

// Keys returns the style keys in sorted order.
func (s Style) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of s.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	c := make(Style, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
