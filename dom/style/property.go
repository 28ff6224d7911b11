/*
Package style handles inline style declarations.

Element nodes carry presentation properties as a flat map. Markup carries
them as inline style attributes (`style="color: red; margin: 0"`) or in
style sheets. This package converts between the two and implements the
precedence rules used when declarations from different origins meet.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"sort"
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'pagetree.style'
func tracer() tracing.Trace {
	return tracing.Select("pagetree.style")
}

// Property is a raw value for a CSS property. For example, with
//
//	color: black
//
// a property value of "black" is set. Values are never interpreted.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key       string
	Value     Property
	Important bool
}

// ParseInline parses the content of a style attribute. Declarations are
// returned in source order; keys are lower-cased.
func ParseInline(s string) ([]KeyValue, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	decls, err := parser.ParseDeclarations(s)
	if err != nil {
		tracer().Debugf("cannot parse inline style %q: %v", s, err)
		return nil, err
	}
	kv := make([]KeyValue, 0, len(decls))
	for _, d := range decls {
		if d.Property == "" {
			continue
		}
		kv = append(kv, KeyValue{
			Key:       strings.ToLower(strings.TrimSpace(d.Property)),
			Value:     Property(strings.TrimSpace(d.Value)),
			Important: d.Important,
		})
	}
	return kv, nil
}

// Flatten renders a style map as the value of an inline style attribute,
// with keys in sorted order, e.g. "color: red; margin: 0".
func Flatten(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(m[k])
	}
	return b.String()
}

// --- Precedence ------------------------------------------------------------

// Origin orders declarations by their source.
type Origin int

// Origins in increasing precedence.
const (
	OriginSheet Origin = iota
	OriginInline
)

// PropertyMap accumulates declarations for one element and resolves
// precedence:
//
//	sheet < sheet !important < inline < inline !important
//
// An inline style attribute always wins over the style sheets of a page.
// Sheet declarations are expected to arrive sorted by specificity and
// source order, later ones overriding earlier ones.
type PropertyMap struct {
	entries map[string]entry
}

type entry struct {
	value     Property
	origin    Origin
	important bool
}

func rank(origin Origin, important bool) int {
	r := 2 * int(origin)
	if important {
		r++
	}
	return r
}

// NewPropertyMap creates an empty property map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{entries: make(map[string]entry)}
}

// Add a declaration of a given origin. It replaces an existing value unless
// that value has higher precedence.
func (pmap *PropertyMap) Add(origin Origin, kv KeyValue) {
	if kv.Key == "" || kv.Value.IsEmpty() {
		return
	}
	if old, ok := pmap.entries[kv.Key]; ok {
		if rank(old.origin, old.important) > rank(origin, kv.Important) {
			return
		}
	}
	pmap.entries[kv.Key] = entry{value: kv.Value, origin: origin, important: kv.Important}
}

// AddAll adds a list of declarations of a given origin.
func (pmap *PropertyMap) AddAll(origin Origin, kvs []KeyValue) {
	for _, kv := range kvs {
		pmap.Add(origin, kv)
	}
}

// Size returns the number of properties.
func (pmap *PropertyMap) Size() int {
	return len(pmap.entries)
}

// Property returns the resolved value for a key.
func (pmap *PropertyMap) Property(key string) (Property, bool) {
	e, ok := pmap.entries[key]
	return e.value, ok
}

// Map returns the resolved declarations as a plain map.
func (pmap *PropertyMap) Map() map[string]string {
	m := make(map[string]string, len(pmap.entries))
	for k, e := range pmap.entries {
		m[k] = string(e.value)
	}
	return m
}
