package cssom_test

import (
	"testing"

	"github.com/npillmayer/pagetree/dom"
	"github.com/npillmayer/pagetree/dom/style/cssom"
	"github.com/npillmayer/pagetree/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var page = `<html><head><style>
p { color: black; margin: 0 }
.note { color: blue }
#special { color: green }
p.note { padding: 4px }
@media print { p { color: gray } }
</style></head><body>
<p id="special" class="note" style="color: red">A</p>
<p class="note">B</p>
<p>C</p>
</body></html>`

func compile(t *testing.T) (*cssom.Cascade, *html.Node) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	sheets, failed := douceuradapter.ExtractStyleElements(doc)
	if failed != 0 || len(sheets) != 1 {
		t.Fatalf("expected one parsable sheet, have %d (failed %d)", len(sheets), failed)
	}
	return cssom.Compile(douceuradapter.StyleSheets(sheets)...), doc
}

func TestCascadeSpecificity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.cssom")
	defer teardown()
	//
	c, doc := compile(t)
	ps := dom.FindAll(doc, func(n *html.Node) bool { return dom.IsElement(n, atom.P) })
	if len(ps) != 3 {
		t.Fatalf("expected 3 paragraphs, have %d", len(ps))
	}
	a, b, cc := c.Apply(ps[0]), c.Apply(ps[1]), c.Apply(ps[2])
	if a["color"] != "red" {
		t.Errorf("expected inline color to win for A, have %v", a)
	}
	if b["color"] != "blue" || b["padding"] != "4px" || b["margin"] != "0" {
		t.Errorf("expected class rules to apply to B, have %v", b)
	}
	if cc["color"] != "black" || cc["padding"] != "" {
		t.Errorf("expected only tag rule for C, have %v", cc)
	}
}

func TestCascadeStats(t *testing.T) {
	c, _ := compile(t)
	st := c.Stats()
	if st.AtRules != 1 {
		t.Errorf("expected one skipped at-rule, have %+v", st)
	}
	if st.Rules != 4 || st.Selectors != 4 {
		t.Errorf("expected 4 rules and selectors, have %+v", st)
	}
	if st.Complexity() != 1 {
		t.Errorf("expected complexity 1, have %d", st.Complexity())
	}
}

func TestEmptyCascade(t *testing.T) {
	c := cssom.Compile()
	if !c.Empty() {
		t.Error("expected empty cascade")
	}
	n := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P,
		Attr: []html.Attribute{{Key: "style", Val: "color: teal"}}}
	if c.Apply(n)["color"] != "teal" {
		t.Error("expected inline style to apply without sheets")
	}
}
