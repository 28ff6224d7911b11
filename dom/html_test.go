package dom

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var testDoc = `<html><head><title> My  Page </title>
<meta name="description" content="A page">
<style>p { color: red }</style></head>
<body><div class="a b" id="main"><p>Hello <b>world</b><script>x()</script></p></div></body></html>`

func TestParseAndFind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.dom")
	defer teardown()
	//
	doc, err := ParseString(testDoc)
	if err != nil {
		t.Fatal(err)
	}
	if Title(doc) != "My Page" {
		t.Errorf("expected title 'My Page', have %q", Title(doc))
	}
	if MetaContent(doc, "Description") != "A page" {
		t.Errorf("expected description meta, have %q", MetaContent(doc, "description"))
	}
	div := FindElement(atom.Div, doc)
	if div == nil {
		t.Fatal("expected to find div")
	}
	if id, _ := Attr(div, "id"); id != "main" {
		t.Errorf("expected id main, have %q", id)
	}
	if cl := Classes(div); len(cl) != 2 || cl[1] != "b" {
		t.Errorf("unexpected classes %v", cl)
	}
	if TextContent(div) != "Hello world" {
		t.Errorf("expected script to be skipped, have %q", TextContent(div))
	}
	ps := FindAll(doc, func(n *html.Node) bool { return IsElement(n, atom.P) })
	if len(ps) != 1 {
		t.Errorf("expected 1 paragraph, have %d", len(ps))
	}
	if Body(doc).DataAtom != atom.Body {
		t.Error("expected body element")
	}
}

func TestParseFragment(t *testing.T) {
	nodes, err := ParseFragment(`<h1>A</h1> <p>B</p>`)
	if err != nil {
		t.Fatal(err)
	}
	var elems int
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			elems++
		}
	}
	if elems != 2 {
		t.Errorf("expected 2 top-level elements, have %d", elems)
	}
}

func TestDataset(t *testing.T) {
	for attr, key := range map[string]string{
		"data-input-type": "inputType",
		"data-icon":       "icon",
		"data-a-b-c":      "aBC",
	} {
		if k, ok := DatasetKey(attr); !ok || k != key {
			t.Errorf("expected %s → %s, have %q", attr, key, k)
		}
	}
	if _, ok := DatasetKey("title"); ok {
		t.Error("expected non-data attribute to be rejected")
	}
	if a := DataAttr("inputType"); a != "data-input-type" {
		t.Errorf("expected data-input-type, have %s", a)
	}
}
