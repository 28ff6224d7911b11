package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/result"
	"github.com/npillmayer/pagetree/tree"
)

type structuredExtractor struct {
	opts Options
}

func (ex structuredExtractor) Name() string { return "structured" }

func (ex structuredExtractor) Accepts(f Format) bool {
	return f == Structured
}

// TryParse reads a tree literal: a list of nodes, an object with a list of
// nodes under "elements", or a single node. Nodes are checked, not trusted.
func (ex structuredExtractor) TryParse(ctx context.Context, src Source) result.Result[*Extraction] {
	col := &collector{file: src.Name, format: Structured}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(src.Content))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return failf("invalid JSON: %v", err)
	}
	x := &Extraction{}
	var raw []any
	switch v := doc.(type) {
	case []any:
		raw = v
	case map[string]any:
		if els, ok := v["elements"].([]any); ok {
			raw = els
			x.Title = stringValue(v["title"])
			if x.Title == "" {
				x.Title = stringValue(v["name"])
			}
		} else {
			raw = []any{v}
		}
	default:
		return failf("structured input must be a node, a list of nodes or an object with elements")
	}
	b := nodeBuilder{col: col}
	nodes := b.nodes(raw, "")
	if len(nodes) == 0 {
		return failf("structured input contains no element nodes")
	}
	x.Tree = tree.New(nodes...)
	if n := tree.Reidentify(x.Tree, nil, ex.opts.Generator); n > 0 {
		tracer().Debugf("%s: %d missing or duplicate id(s) regenerated", src.Name, n)
	}
	x.Meta.Title = x.Title
	x.Diagnostics = col.diags
	return result.Ok(x)
}

type nodeBuilder struct {
	col *collector
}

func (b nodeBuilder) nodes(raw []any, at string) []*element.Node {
	var nodes []*element.Node
	for i, r := range raw {
		loc := fmt.Sprintf("%s/%d", at, i)
		obj, ok := r.(map[string]any)
		if !ok {
			b.col.add(Warning, Incomplete, "%s: not an object, dropped", loc)
			continue
		}
		if n := b.node(obj, loc); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (b nodeBuilder) node(obj map[string]any, loc string) *element.Node {
	typ := strings.TrimSpace(stringValue(obj["type"]))
	if typ == "" {
		b.col.add(Warning, Incomplete, "%s: node without type dropped", loc)
		return nil
	}
	t := element.Type(typ)
	if !t.IsKnown() {
		t = element.CustomType(typ)
		b.col.add(Info, Incomplete, "%s: unknown type %q imported as %s", loc, typ, t)
	}
	n := element.NewWithID(stringValue(obj["id"]), t)
	if props, ok := obj["props"].(map[string]any); ok {
		for k, v := range props {
			n.Props.Set(k, plainValue(v))
		}
	}
	if t.IsCustom() && !n.Props.Has("component") {
		n.Props.Set("component", t.CustomName())
	}
	if st, ok := obj["style"].(map[string]any); ok {
		for k, v := range st {
			n.Style.Set(k, stringValue(v))
		}
	}
	for _, req := range element.RequiredProps(t) {
		if !n.Props.Has(req) {
			b.col.add(Warning, Incomplete, "%s: %s node lacks required prop %q", loc, t, req)
		}
	}
	if children, ok := obj["children"].([]any); ok {
		n.Children = b.nodes(children, loc)
	}
	return n
}

// plainValue converts decoded JSON to prop values: integral numbers become
// int, lists of strings become []string.
func plainValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case []any:
		strs := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				out := make([]any, len(x))
				for i := range x {
					out[i] = plainValue(x[i])
				}
				return out
			}
			strs = append(strs, s)
		}
		return strs
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plainValue(e)
		}
		return out
	}
	return v
}

func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	}
	return fmt.Sprint(v)
}
