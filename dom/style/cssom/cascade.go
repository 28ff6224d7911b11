package cssom

import (
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/pagetree/dom/style"
	"golang.org/x/net/html"
)

// Stats reports what happened while compiling style sheets.
type Stats struct {
	Rules       int // qualified rules seen
	AtRules     int // at-rules skipped
	Selectors   int // selectors compiled
	Unmatchable int // selectors which could not be compiled
}

// Complexity is a rough measure of how much of the original styling got lost.
func (s Stats) Complexity() int {
	return s.AtRules + s.Unmatchable
}

// Cascade is a compiled selector-to-declaration table.
type Cascade struct {
	entries []cascadeEntry
	stats   Stats
}

type cascadeEntry struct {
	sel         cascadia.Sel
	specificity [3]int
	order       int
	decls       []style.KeyValue
}

// Compile builds a cascade from a list of style sheets, in order of appearance.
// Rules which cannot be used are skipped and counted; Compile never fails.
func Compile(sheets ...StyleSheet) *Cascade {
	c := &Cascade{}
	order := 0
	for _, sheet := range sheets {
		if sheet == nil || sheet.Empty() {
			continue
		}
		for _, rule := range sheet.Rules() {
			if rule.IsAtRule() {
				c.stats.AtRules++
				continue
			}
			c.stats.Rules++
			decls := declarations(rule)
			if len(decls) == 0 {
				continue
			}
			for _, selector := range rule.SelectorList() {
				sel, err := cascadia.Parse(selector)
				if err != nil {
					tracer().Debugf("cssom: skipping selector %q: %v", selector, err)
					c.stats.Unmatchable++
					continue
				}
				s := sel.Specificity()
				c.entries = append(c.entries, cascadeEntry{
					sel:         sel,
					specificity: [3]int{s[0], s[1], s[2]},
					order:       order,
					decls:       decls,
				})
				c.stats.Selectors++
				order++
			}
		}
	}
	sort.SliceStable(c.entries, func(i, j int) bool {
		return less(c.entries[i], c.entries[j])
	})
	tracer().Debugf("cssom: compiled %d selectors from %d rules", c.stats.Selectors, c.stats.Rules)
	return c
}

func less(a, b cascadeEntry) bool {
	for i := 0; i < 3; i++ {
		if a.specificity[i] != b.specificity[i] {
			return a.specificity[i] < b.specificity[i]
		}
	}
	return a.order < b.order
}

func declarations(rule Rule) []style.KeyValue {
	props := rule.Properties()
	decls := make([]style.KeyValue, 0, len(props))
	for _, key := range props {
		v := rule.Value(key)
		if v.IsEmpty() {
			continue
		}
		decls = append(decls, style.KeyValue{
			Key:       strings.ToLower(key),
			Value:     v,
			Important: rule.IsImportant(key),
		})
	}
	return decls
}

// Stats returns compilation statistics.
func (c *Cascade) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return c.stats
}

// Empty is true if no selector could be compiled.
func (c *Cascade) Empty() bool {
	return c == nil || len(c.entries) == 0
}

// Match returns the declarations of all rules matching n, in ascending
// precedence (specificity, then source order).
func (c *Cascade) Match(n *html.Node) []style.KeyValue {
	if c.Empty() || n == nil || n.Type != html.ElementNode {
		return nil
	}
	var decls []style.KeyValue
	for _, e := range c.entries {
		if e.sel.Match(n) {
			decls = append(decls, e.decls...)
		}
	}
	return decls
}

// Apply computes the style of n: sheet declarations from the cascade, then
// the element's inline style attribute, with precedence as implemented by
// style.PropertyMap. An unparsable inline style is ignored.
func (c *Cascade) Apply(n *html.Node) map[string]string {
	pmap := style.NewPropertyMap()
	pmap.AddAll(style.OriginSheet, c.Match(n))
	for _, a := range n.Attr {
		if a.Key == "style" {
			if kv, err := style.ParseInline(a.Val); err == nil {
				pmap.AddAll(style.OriginInline, kv)
			}
		}
	}
	return pmap.Map()
}
