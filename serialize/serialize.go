package serialize

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/pagetree/dom"
	"github.com/npillmayer/pagetree/dom/style"
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/tree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markers shared with the markup importer.
const (
	CustomTag = "pb-component"
	BlockAttr = "data-block"
	IDAttr    = "data-id"
)

// Options control rendering.
type Options struct {
	EmitIDs     bool     // write node ids as data-id attributes
	Indent      bool     // indent nested block elements
	Stylesheets []string // documents link these style sheets in their head
}

// props a tag shape consumes, per type
var consumed = map[element.Type]map[string]bool{
	element.Text:     {"content": true},
	element.Heading:  {"content": true, "level": true},
	element.Button:   {"content": true},
	element.Link:     {"content": true},
	element.TextArea: {"content": true},
	element.Input:    {"inputType": true, "type": true},
	element.File:     {"type": true},
	element.Image:    {"href": true},
	element.Select:   {"options": true},
	element.Checkbox: {"label": true, "type": true},
	element.Radio:    {"label": true, "type": true},
	element.Icon:     {"icon": true},
}

var (
	plainAttrRx = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	eventAttrRx = regexp.MustCompile(`^on[a-z]+$`)
)

// Fragment renders the nodes of t.
func Fragment(t *tree.Tree, opts Options) string {
	var b strings.Builder
	if err := Render(&b, t, opts); err != nil {
		tracer().Errorf("rendering fragment: %v", err)
	}
	return b.String()
}

// Render writes the nodes of t to w.
func Render(w io.Writer, t *tree.Tree, opts Options) error {
	if t == nil {
		return nil
	}
	for _, h := range Nodes(t, opts) {
		if err := html.Render(w, h); err != nil {
			return err
		}
		if opts.Indent {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Nodes converts the roots of t to HTML nodes.
func Nodes(t *tree.Tree, opts Options) []*html.Node {
	b := builder{opts: opts}
	hs := make([]*html.Node, 0, t.Len())
	for _, n := range t.Roots {
		hs = append(hs, b.node(n, 0))
	}
	return hs
}

// Document renders a complete document for a page. The page title and
// meta data go to the document head.
func Document(pg *project.Page, opts Options) string {
	var b strings.Builder
	if err := WriteDocument(&b, pg, opts); err != nil {
		tracer().Errorf("rendering document: %v", err)
	}
	return b.String()
}

// WriteDocument writes a complete document for a page to w.
func WriteDocument(w io.Writer, pg *project.Page, opts Options) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := elem(atom.Html)
	doc.AppendChild(root)
	head := elem(atom.Head)
	root.AppendChild(head)
	meta := elem(atom.Meta)
	setAttr(meta, "charset", "utf-8")
	head.AppendChild(meta)
	title := pg.Meta.Title
	if title == "" {
		title = pg.Name
	}
	if title != "" {
		t := elem(atom.Title)
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.AppendChild(t)
	}
	if pg.Meta.Description != "" {
		head.AppendChild(namedMeta("description", pg.Meta.Description))
	}
	if len(pg.Meta.Keywords) > 0 {
		head.AppendChild(namedMeta("keywords", strings.Join(pg.Meta.Keywords, ", ")))
	}
	for _, href := range opts.Stylesheets {
		l := elem(atom.Link)
		setAttr(l, "rel", "stylesheet")
		setAttr(l, "href", href)
		head.AppendChild(l)
	}
	body := elem(atom.Body)
	root.AppendChild(body)
	if pg.Elements != nil {
		for _, h := range Nodes(pg.Elements, opts) {
			body.AppendChild(h)
		}
	}
	if opts.Indent {
		indent(head, 1)
		indent(body, 1)
		indent(root, 0)
	}
	tracer().Debugf("document for %s", pg)
	return html.Render(w, doc)
}

func namedMeta(name, content string) *html.Node {
	m := elem(atom.Meta)
	setAttr(m, "name", name)
	setAttr(m, "content", content)
	return m
}

// --- Nodes -----------------------------------------------------------------

type builder struct {
	opts   Options
	inForm bool // forms do not nest in markup
}

func (b builder) node(n *element.Node, depth int) *html.Node {
	var h *html.Node
	var target *html.Node // element receiving the generic attributes
	skip := consumed[n.Type]
	switch n.Type {
	case element.Text:
		h = elem(atom.P)
		appendText(h, n.Props.String("content"))
	case element.Heading:
		level := min(max(n.Props.Int("level", 2), 1), 6)
		h = elem(atom.Lookup([]byte("h" + strconv.Itoa(level))))
		appendText(h, n.Props.String("content"))
	case element.Button:
		h = elem(atom.Button)
		appendText(h, n.Props.String("content"))
	case element.Link:
		h = elem(atom.A)
		appendText(h, n.Props.String("content"))
	case element.Input:
		h = elem(atom.Input)
		t := n.Props.String("inputType")
		if t == "" {
			t = "text"
		}
		setAttr(h, "type", t)
	case element.TextArea:
		h = elem(atom.Textarea)
		if text := n.Props.String("content"); text != "" {
			// html.Render protects a leading newline
			h.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		}
	case element.Image:
		h = elem(atom.Img)
		if href := n.Props.String("href"); href != "" {
			a := elem(atom.A)
			setAttr(a, "href", href)
			a.AppendChild(h)
			target, h = h, a
		}
	case element.Divider:
		h = elem(atom.Hr)
	case element.Container:
		h = elem(atom.Div)
	case element.Row, element.Column, element.Grid, element.Card:
		h = elem(atom.Div)
		setAttr(h, BlockAttr, string(n.Type))
	case element.Form:
		if b.inForm {
			h = elem(atom.Div)
			setAttr(h, BlockAttr, string(element.Form))
		} else {
			h = elem(atom.Form)
		}
	case element.Select:
		h = elem(atom.Select)
		for _, o := range n.Props.Strings("options") {
			opt := elem(atom.Option)
			opt.AppendChild(&html.Node{Type: html.TextNode, Data: o})
			h.AppendChild(opt)
		}
	case element.Checkbox, element.Radio:
		h = elem(atom.Label)
		setAttr(h, BlockAttr, string(n.Type))
		in := elem(atom.Input)
		setAttr(in, "type", string(n.Type))
		h.AppendChild(in)
		appendText(h, n.Props.String("label"))
		target = in
	case element.File:
		h = elem(atom.Input)
		setAttr(h, "type", "file")
	case element.Video:
		h = elem(atom.Video)
	case element.Audio:
		h = elem(atom.Audio)
	case element.Frame:
		h = elem(atom.Iframe)
	case element.Icon:
		h = elem(atom.I)
		setAttr(h, BlockAttr, string(element.Icon))
		setAttr(h, "data-icon", n.Props.String("icon"))
	default:
		if n.Type.IsCustom() {
			h = &html.Node{Type: html.ElementNode, Data: CustomTag}
			setAttr(h, "data-component", n.Type.CustomName())
			if n.Props.String("component") == n.Type.CustomName() {
				skip = map[string]bool{"component": true}
			}
		} else {
			tracer().Infof("serializing node %s of unknown type %q as a container", n.ID, n.Type)
			h = elem(atom.Div)
			setAttr(h, BlockAttr, string(n.Type))
		}
	}
	if target == nil {
		target = h
	}
	b.attributes(n, h, target, skip)
	inner := b
	inner.inForm = b.inForm || n.Type == element.Form
	for _, ch := range n.Children {
		h.AppendChild(inner.node(ch, depth+1))
	}
	if b.opts.Indent {
		indent(h, depth+1)
	}
	return h
}

// attributes maps the props of n to attributes. class, anchor, style and
// the node id go to h; everything else to target.
func (b builder) attributes(n *element.Node, h, target *html.Node, skip map[string]bool) {
	for _, key := range n.Props.Keys() {
		if skip[key] {
			continue
		}
		switch key {
		case "class":
			setAttr(h, "class", n.Props.String(key))
			continue
		case "anchor":
			setAttr(h, "id", n.Props.String(key))
			continue
		case "id", "style":
			tracer().Debugf("node %s: prop %q cannot be written as an attribute", n.ID, key)
			continue
		}
		name := attrName(key)
		if dom.IsBooleanAttr(name) {
			if n.Props.Bool(key) {
				setAttr(target, name, "")
			}
			continue
		}
		setAttr(target, name, attrValue(n.Props[key]))
	}
	if len(n.Style) > 0 {
		setAttr(h, "style", style.Flatten(n.Style))
	}
	if b.opts.EmitIDs && n.ID != "" {
		setAttr(h, IDAttr, n.ID)
	}
	sortAttrs(h)
	if target != h {
		sortAttrs(target)
	}
}

// attrName maps a prop key to an attribute name. Keys which would not read
// back as the same prop become data attributes: "imageSize" →
// "data-image-size".
func attrName(key string) string {
	if plainAttrRx.MatchString(key) && !eventAttrRx.MatchString(key) && !strings.HasPrefix(key, "data-") {
		return key
	}
	return dom.DataAttr(key)
}

func attrValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case []any, map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return fmt.Sprint(v)
}

// --- HTML helpers ----------------------------------------------------------

func elem(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func setAttr(h *html.Node, key, val string) {
	for i := range h.Attr {
		if h.Attr[i].Key == key {
			h.Attr[i].Val = val
			return
		}
	}
	h.Attr = append(h.Attr, html.Attribute{Key: key, Val: val})
}

func sortAttrs(h *html.Node) {
	sort.SliceStable(h.Attr, func(i, j int) bool {
		return h.Attr[i].Key < h.Attr[j].Key
	})
}

// appendText adds text to h, line breaks becoming <br> elements.
func appendText(h *html.Node, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			h.AppendChild(elem(atom.Br))
		}
		if line != "" {
			h.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	}
}

// indent puts each child element of h on a line of its own, if h has no
// text of its own.
func indent(h *html.Node, depth int) {
	var children []*html.Node
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			return
		}
		children = append(children, c)
	}
	if len(children) == 0 {
		return
	}
	pad := strings.Repeat("  ", depth)
	for _, c := range children {
		h.InsertBefore(&html.Node{Type: html.TextNode, Data: "\n" + pad}, c)
	}
	h.AppendChild(&html.Node{Type: html.TextNode, Data: "\n" + strings.Repeat("  ", max(depth-1, 0))})
}
