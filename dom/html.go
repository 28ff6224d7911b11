package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a complete HTML document. The HTML5 parsing algorithm never
// rejects input, so errors stem from the reader only.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragment parses markup in the context of a <body> element and returns
// the top-level nodes.
func ParseFragment(s string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("parsed fragment into %d top-level nodes", len(nodes))
	return nodes, nil
}

// FindElement searches depth-first for the first element with atom a.
func FindElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.Type == html.ElementNode && h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := FindElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}

// FindAll collects all nodes below (and including) h for which pred is true,
// in document order.
func FindAll(h *html.Node, pred func(*html.Node) bool) []*html.Node {
	var r []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			r = append(r, n)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	if h != nil {
		walk(h)
	}
	return r
}

// IsElement is true for element nodes with atom a.
func IsElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

// Attr returns the value of an attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the value of an attribute or a default.
func AttrOr(n *html.Node, key, dflt string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return dflt
}

// Classes splits the class attribute.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// ElementChildren returns the element children of n.
func ElementChildren(n *html.Node) []*html.Node {
	var r []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			r = append(r, ch)
		}
	}
	return r
}

// HasElementChildren is true if any child of n is an element, ignoring elements
// with atoms from skip.
func HasElementChildren(n *html.Node, skip ...atom.Atom) bool {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode {
			continue
		}
		skipped := false
		for _, a := range skip {
			if ch.DataAtom == a {
				skipped = true
				break
			}
		}
		if !skipped {
			return true
		}
	}
	return false
}

// TextContent collects the text of n and its descendents, skipping scripts
// and styles, with runs of white space collapsed to a single blank.
func TextContent(n *html.Node) string {
	return CollapseSpace(RawTextContent(n))
}

// RawTextContent collects the text of n and its descendents, skipping scripts
// and styles. White space is left as it is, <br> is rendered as a newline.
func RawTextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.Br:
				sb.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return sb.String()
}

// CollapseSpace trims s and collapses runs of white space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Title returns the trimmed text of the document's <title>.
func Title(doc *html.Node) string {
	if t := FindElement(atom.Title, doc); t != nil {
		return TextContent(t)
	}
	return ""
}

// MetaContent returns the content of <meta name="…">.
func MetaContent(doc *html.Node, name string) string {
	metas := FindAll(doc, func(n *html.Node) bool { return IsElement(n, atom.Meta) })
	for _, m := range metas {
		if strings.EqualFold(AttrOr(m, "name", ""), name) {
			return strings.TrimSpace(AttrOr(m, "content", ""))
		}
	}
	return ""
}

// Body returns the <body> element of a document, or doc itself if there is none.
func Body(doc *html.Node) *html.Node {
	if b := FindElement(atom.Body, doc); b != nil {
		return b
	}
	return doc
}

// DatasetKey converts a data attribute name to its dataset key, the way
// browsers do: "data-input-type" → "inputType". ok is false for names
// without the "data-" prefix.
func DatasetKey(attr string) (key string, ok bool) {
	rest, ok := strings.CutPrefix(strings.ToLower(attr), "data-")
	if !ok || rest == "" {
		return "", false
	}
	var b strings.Builder
	upper := false
	for _, r := range rest {
		if r == '-' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String(), true
}

// DataAttr is the inverse of DatasetKey: "inputType" → "data-input-type".
func DataAttr(key string) string {
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

var booleanAttrs = map[string]bool{
	"required": true, "disabled": true, "checked": true, "multiple": true,
	"controls": true, "autoplay": true, "loop": true, "muted": true,
	"readonly": true, "selected": true, "allowfullscreen": true, "hidden": true,
	"open": true, "novalidate": true, "playsinline": true,
}

// IsBooleanAttr is true for attributes whose presence alone carries the
// value, e.g. "checked".
func IsBooleanAttr(key string) bool {
	return booleanAttrs[key]
}
