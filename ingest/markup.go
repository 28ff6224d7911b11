package ingest

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/pagetree/dom"
	"github.com/npillmayer/pagetree/dom/style/cssom"
	"github.com/npillmayer/pagetree/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/result"
	"github.com/npillmayer/pagetree/tree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CustomTag is the element name standing in for a custom composite in
// markup: <pb-component data-component="HeroBanner">.
const CustomTag = "pb-component"

// BlockAttr overrides the tag table: <div data-block="card">.
const BlockAttr = "data-block"

var tagTypes = map[atom.Atom]element.Type{
	atom.H1: element.Heading, atom.H2: element.Heading, atom.H3: element.Heading,
	atom.H4: element.Heading, atom.H5: element.Heading, atom.H6: element.Heading,
	atom.P: element.Text, atom.Span: element.Text, atom.Strong: element.Text,
	atom.Em: element.Text, atom.Label: element.Text, atom.Li: element.Text,
	atom.B: element.Text, atom.Small: element.Text, atom.Blockquote: element.Text,
	atom.Pre: element.Text, atom.Code: element.Text, atom.Figcaption: element.Text,
	atom.Dt: element.Text, atom.Dd: element.Text, atom.Caption: element.Text,
	atom.Summary: element.Text, atom.Legend: element.Text,
	atom.A:        element.Link,
	atom.Img:      element.Image,
	atom.Input:    element.Input,
	atom.Textarea: element.TextArea,
	atom.Select:   element.Select,
	atom.Button:   element.Button,
	atom.Hr:       element.Divider,
	atom.Form:     element.Form,
	atom.Div:      element.Container, atom.Section: element.Container,
	atom.Article: element.Container, atom.Main: element.Container,
	atom.Header: element.Container, atom.Footer: element.Container,
	atom.Nav: element.Container, atom.Aside: element.Container,
	atom.Ul: element.Container, atom.Ol: element.Container,
	atom.Figure: element.Container, atom.Details: element.Container,
	atom.Fieldset: element.Container, atom.Dl: element.Container,
	atom.Table:  element.Grid,
	atom.Tr:     element.Row,
	atom.Td:     element.Column,
	atom.Th:     element.Column,
	atom.Video:  element.Video,
	atom.Audio:  element.Audio,
	atom.Iframe: element.Frame,
	atom.I:      element.Text, // icon if marked as such
}

// elements which are mapped through their children
var transparent = map[atom.Atom]bool{
	atom.Html: true, atom.Body: true, atom.Tbody: true, atom.Thead: true,
	atom.Tfoot: true, atom.Picture: true, atom.Center: true, atom.Font: true,
}

// elements which never become nodes
var dropped = map[atom.Atom]bool{
	atom.Script: true, atom.Noscript: true, atom.Style: true, atom.Template: true,
	atom.Head: true, atom.Meta: true, atom.Link: true, atom.Title: true,
	atom.Base: true, atom.Br: true, atom.Source: true, atom.Track: true,
	atom.Option: true, atom.Optgroup: true, atom.Colgroup: true, atom.Col: true,
	atom.Wbr: true,
}

// inline formatting, flattened into the text of their parent
var inline = map[atom.Atom]bool{
	atom.A: true, atom.Strong: true, atom.Em: true, atom.B: true, atom.I: true,
	atom.Span: true, atom.Small: true, atom.Code: true, atom.Br: true,
	atom.Sub: true, atom.Sup: true, atom.U: true, atom.Mark: true, atom.Abbr: true,
	atom.Time: true, atom.S: true, atom.Q: true, atom.Cite: true, atom.Kbd: true,
	atom.Wbr: true, atom.Label: true,
}

var (
	eventAttrRx = regexp.MustCompile(`^on[a-z]+$`)
	iconClassRx = regexp.MustCompile(`^(?:fa|bi|icon|glyphicon|material-icons)-([a-z0-9-]+)$`)
)

// mapper translates markup into element nodes.
type mapper struct {
	cascade *cssom.Cascade // may be nil
	gen     element.Generator
	col     *collector
	dropped int // elements dropped because they have no counterpart
}

func (m *mapper) mapChildren(h *html.Node) []*element.Node {
	var nodes []*element.Node
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		nodes = append(nodes, m.mapNode(ch)...)
	}
	return nodes
}

func (m *mapper) mapNodes(hs []*html.Node) []*element.Node {
	var nodes []*element.Node
	for _, h := range hs {
		nodes = append(nodes, m.mapNode(h)...)
	}
	return nodes
}

// mapNode maps h to zero or more nodes.
func (m *mapper) mapNode(h *html.Node) []*element.Node {
	switch h.Type {
	case html.TextNode:
		if text := normText(h.Data); strings.TrimSpace(text) != "" {
			n := m.newNode(element.Text)
			n.Props.Set("content", strings.TrimSpace(text))
			return []*element.Node{n}
		}
		return nil
	case html.DocumentNode:
		return m.mapChildren(h)
	case html.ElementNode:
	default:
		return nil
	}
	if dropped[h.DataAtom] {
		return nil
	}
	if transparent[h.DataAtom] {
		return m.mapChildren(h)
	}
	typ, known := m.typeOf(h)
	if !known {
		// unknown tags: keep structure if there is any, else keep the text
		if hasBlockChildren(h) {
			typ = element.Container
		} else if dom.TextContent(h) != "" {
			typ = element.Text
		} else {
			m.dropped++
			tracer().Debugf("dropping <%s>", h.Data)
			return nil
		}
	}
	n := m.newNode(typ)
	if id, ok := dom.Attr(h, "data-id"); ok && id != "" {
		n.ID = id
	}
	consumed := m.fill(n, h)
	m.attributes(n, h, consumed)
	for k, v := range m.cascade.Apply(h) {
		n.Style.Set(k, v)
	}
	if textual[n.Type] {
		return append([]*element.Node{n}, m.embeddedImages(n, h)...)
	}
	return []*element.Node{n}
}

// types whose markup content is reduced to text
var textual = map[element.Type]bool{
	element.Heading: true, element.Button: true, element.Link: true, element.Text: true,
}

// embeddedImages maps the images inside a textual element to image nodes
// following n. Images inside a link keep the link target.
func (m *mapper) embeddedImages(n *element.Node, h *html.Node) []*element.Node {
	var nodes []*element.Node
	for _, img := range dom.FindAll(h, func(x *html.Node) bool { return dom.IsElement(x, atom.Img) }) {
		href := ""
		for x := img; x != nil && x != h.Parent; x = x.Parent {
			if dom.IsElement(x, atom.A) {
				href = dom.AttrOr(x, "href", "")
				break
			}
		}
		for _, in := range m.mapNode(img) {
			if href != "" && !in.Props.Has("href") {
				in.Props.Set("href", href)
			}
			nodes = append(nodes, in)
		}
	}
	if len(nodes) > 0 {
		tracer().Debugf("%d image(s) inside <%s> kept as siblings of %s", len(nodes), h.Data, n.ID)
	}
	return nodes
}

// typeOf determines the element type of h. known is false for elements
// without an entry in the tag table.
func (m *mapper) typeOf(h *html.Node) (element.Type, bool) {
	if b, ok := dom.Attr(h, BlockAttr); ok {
		if t := element.Type(b); t.IsKnown() {
			return t, true
		}
		m.col.add(Info, Incomplete, "unknown block type %q on <%s>", b, h.Data)
	}
	if h.Data == CustomTag {
		if name := dom.AttrOr(h, "data-component", ""); name != "" {
			return element.CustomType(name), true
		}
	}
	switch h.DataAtom {
	case atom.Input:
		switch strings.ToLower(dom.AttrOr(h, "type", "text")) {
		case "checkbox":
			return element.Checkbox, true
		case "radio":
			return element.Radio, true
		case "file":
			return element.File, true
		case "hidden":
			return "", false
		}
		return element.Input, true
	case atom.Label:
		if in := toggleInput(h); in != nil {
			if strings.EqualFold(dom.AttrOr(in, "type", ""), "radio") {
				return element.Radio, true
			}
			return element.Checkbox, true
		}
	case atom.I, atom.Span:
		if iconName(h) != "" {
			return element.Icon, true
		}
	case atom.A:
		if !hasText(h) && dom.FindElement(atom.Img, h) != nil {
			return element.Image, true
		}
	}
	t, ok := tagTypes[h.DataAtom]
	if ok && t == element.Text && hasBlockChildren(h) {
		return element.Container, true
	}
	return t, ok
}

// fill sets the type specific props of n from h and returns the attributes
// it consumed.
func (m *mapper) fill(n *element.Node, h *html.Node) map[string]bool {
	consumed := map[string]bool{}
	switch n.Type {
	case element.Heading:
		level := 2
		if len(h.Data) == 2 && h.Data[0] == 'h' && h.Data[1] >= '1' && h.Data[1] <= '6' {
			level = int(h.Data[1] - '0')
		}
		n.Props.Set("level", level)
		n.Props.Set("content", textOf(h))
	case element.Text, element.Button, element.Link:
		n.Props.Set("content", textOf(h))
	case element.Input:
		n.Props.Set("inputType", strings.ToLower(dom.AttrOr(h, "type", "text")))
		consumed["type"] = true
	case element.File:
		consumed["type"] = true
	case element.TextArea:
		n.Props.Set("content", dom.RawTextContent(h))
		if rows, err := strconv.Atoi(dom.AttrOr(h, "rows", "")); err == nil {
			n.Props.Set("rows", rows)
			consumed["rows"] = true
		}
	case element.Select:
		var opts []string
		for _, o := range dom.FindAll(h, func(x *html.Node) bool { return dom.IsElement(x, atom.Option) }) {
			opts = append(opts, dom.TextContent(o))
		}
		n.Props.Set("options", opts)
	case element.Checkbox, element.Radio:
		consumed["type"] = true
		if h.DataAtom == atom.Label {
			n.Props.Set("label", textOf(h))
			if in := toggleInput(h); in != nil {
				m.attributes(n, in, map[string]bool{"type": true})
			}
		} else if l := dom.AttrOr(h, "aria-label", ""); l != "" {
			n.Props.Set("label", l)
			consumed["aria-label"] = true
		}
	case element.Image:
		if h.DataAtom == atom.A { // linked image
			img := dom.FindElement(atom.Img, h)
			n.Props.Set("href", dom.AttrOr(h, "href", ""))
			consumed["href"] = true
			m.attributes(n, img, nil)
		}
	case element.Video, element.Audio:
		if _, ok := dom.Attr(h, "src"); !ok {
			if s := dom.FindElement(atom.Source, h); s != nil {
				n.Props.Set("src", dom.AttrOr(s, "src", ""))
			}
		}
	case element.Icon:
		n.Props.Set("icon", iconName(h))
		consumed["class"] = classIsIconOnly(h)
	default:
		if n.Type.IsContainer() || n.Type.IsCustom() {
			if n.Type.IsCustom() {
				n.Props.Set("component", n.Type.CustomName())
			}
			n.Children = m.mapChildren(h)
		}
	}
	return consumed
}

// attributes copies the remaining attributes of h into the props of n.
func (m *mapper) attributes(n *element.Node, h *html.Node, consumed map[string]bool) {
	for _, a := range h.Attr {
		key := a.Key
		switch {
		case consumed[key]:
		case key == "style", key == BlockAttr, key == "data-id":
		case key == "data-component" && n.Type.IsCustom():
		case eventAttrRx.MatchString(key), isDirective(key):
		case key == "class":
			n.Props.Set("class", a.Val)
		case key == "id":
			n.Props.Set("anchor", a.Val)
		case strings.HasPrefix(key, "data-"):
			if k, ok := dom.DatasetKey(key); ok {
				n.Props.Set(k, a.Val)
			}
		case dom.IsBooleanAttr(key):
			n.Props.Set(key, true)
		default:
			n.Props.Set(key, a.Val)
		}
	}
}

func (m *mapper) newNode(t element.Type) *element.Node {
	return element.NewWithID(m.gen(), t)
}

// isDirective recognizes framework template syntax on attributes:
// v-if, :value, @click, *ngIf, [value], (click), #ref.
func isDirective(key string) bool {
	if key == "" {
		return true
	}
	switch key[0] {
	case ':', '@', '*', '[', '(', '#':
		return true
	}
	return strings.HasPrefix(key, "v-") || strings.HasPrefix(key, "x-")
}

// normText collapses runs of white space in text with line breaks, which
// stems from source formatting. Other text is kept as it is.
func normText(s string) string {
	if !strings.ContainsAny(s, "\n\r") {
		return s
	}
	collapsed := dom.CollapseSpace(s)
	if collapsed == "" {
		return " "
	}
	if isSpace(s[0]) {
		collapsed = " " + collapsed
	}
	if isSpace(s[len(s)-1]) {
		collapsed += " "
	}
	return collapsed
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f'
}

// textOf collects the text of h. Text from source formatting is collapsed
// per text node, <br> becomes a line break. Spaces next to media which do
// not end up in the text are trimmed.
func textOf(h *html.Node) string {
	var b strings.Builder
	trim := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			trim = trim || strings.ContainsAny(n.Data, "\n\r")
			b.WriteString(normText(n.Data))
		case n.Type != html.ElementNode:
		case n.DataAtom == atom.Br:
			b.WriteByte('\n')
		case n.DataAtom == atom.Script, n.DataAtom == atom.Style, n.DataAtom == atom.Template:
			return
		case media[n.DataAtom]:
			trim = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(h)
	if trim {
		return strings.Trim(b.String(), " ")
	}
	return b.String()
}

var media = map[atom.Atom]bool{
	atom.Img: true, atom.Picture: true, atom.Svg: true, atom.Video: true,
	atom.Audio: true, atom.Iframe: true, atom.Canvas: true, atom.Object: true,
}

func hasText(h *html.Node) bool {
	return strings.TrimSpace(dom.RawTextContent(h)) != ""
}

// hasBlockChildren is true if h contains elements which are neither inline
// formatting nor dropped.
func hasBlockChildren(h *html.Node) bool {
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode || dropped[ch.DataAtom] {
			continue
		}
		if !inline[ch.DataAtom] || hasBlockChildren(ch) {
			return true
		}
	}
	return false
}

// toggleInput finds a checkbox or radio input within a label.
func toggleInput(h *html.Node) *html.Node {
	inputs := dom.FindAll(h, func(x *html.Node) bool {
		if !dom.IsElement(x, atom.Input) {
			return false
		}
		t := strings.ToLower(dom.AttrOr(x, "type", ""))
		return t == "checkbox" || t == "radio"
	})
	if len(inputs) == 0 {
		return nil
	}
	return inputs[0]
}

func iconName(h *html.Node) string {
	if v := dom.AttrOr(h, "data-icon", ""); v != "" {
		return v
	}
	for _, c := range dom.Classes(h) {
		if m := iconClassRx.FindStringSubmatch(c); m != nil {
			return m[1]
		}
	}
	return ""
}

// classIsIconOnly is true if all classes of h are icon classes, which makes
// them redundant next to the icon prop.
func classIsIconOnly(h *html.Node) bool {
	cls := dom.Classes(h)
	if len(cls) == 0 {
		return false
	}
	for _, c := range cls {
		if c != "fa" && c != "fas" && c != "far" && c != "bi" && c != "icon" && !iconClassRx.MatchString(c) {
			return false
		}
	}
	return true
}

// --- Style sheets ----------------------------------------------------------

// compileStyles builds the cascade for a document. It returns nil if the
// sheets exceed the rule limit. lossy reports that some styling could not be
// mapped.
func compileStyles(sheets []cssom.StyleSheet, failed int, opts Options, col *collector) (c *cssom.Cascade, lossy bool) {
	if failed > 0 {
		col.add(Warning, Incomplete, "%d style sheet(s) could not be parsed", failed)
		lossy = true
	}
	c = cssom.Compile(sheets...)
	st := c.Stats()
	if st.Rules > opts.MaxStyleRules {
		col.add(Warning, Incomplete, "%d style rules exceed the limit of %d, style sheets not applied",
			st.Rules, opts.MaxStyleRules)
		return nil, true
	}
	if st.Complexity() > 0 {
		col.add(Info, Incomplete, "skipped %d at-rule(s) and %d unsupported selector(s)",
			st.AtRules, st.Unmatchable)
		lossy = true
	}
	return c, lossy
}

// --- Markup extractor ------------------------------------------------------

type markupExtractor struct {
	opts Options
}

func (ex markupExtractor) Name() string { return "markup" }

func (ex markupExtractor) Accepts(f Format) bool {
	return f == Markup || f == Unknown
}

func (ex markupExtractor) TryParse(ctx context.Context, src Source) result.Result[*Extraction] {
	col := &collector{file: src.Name, format: Markup}
	x, _, err := mapDocument(ctx, src.Content, ex.opts, col)
	if err != nil {
		return result.Err[*Extraction](err)
	}
	return result.Ok(x)
}

// mapDocument parses a complete markup document and maps its body.
// lossy reports that styling could not be mapped completely.
func mapDocument(ctx context.Context, content []byte, opts Options, col *collector) (*Extraction, bool, error) {
	if !utf8.Valid(content) {
		return nil, false, parseFailure("content is not valid UTF-8 text")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	doc, err := dom.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, false, err
	}
	sheets, failed := douceuradapter.ExtractStyleElements(doc)
	cascade, lossy := compileStyles(douceuradapter.StyleSheets(sheets), failed, opts, col)
	m := &mapper{cascade: cascade, gen: opts.Generator, col: col}
	nodes := m.mapNode(dom.Body(doc))
	if len(nodes) == 0 {
		return nil, lossy, parseFailure("no mappable content")
	}
	if m.dropped > 0 {
		col.add(Info, Incomplete, "%d element(s) without counterpart dropped", m.dropped)
	}
	x := &Extraction{
		Tree:  tree.New(nodes...),
		Title: dom.Title(doc),
		Meta:  documentMeta(doc),
	}
	x.Diagnostics = col.diags
	return x, lossy, nil
}

func documentMeta(doc *html.Node) project.Meta {
	meta := project.Meta{
		Title:       dom.Title(doc),
		Description: dom.MetaContent(doc, "description"),
	}
	for _, k := range strings.Split(dom.MetaContent(doc, "keywords"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			meta.Keywords = append(meta.Keywords, k)
		}
	}
	return meta
}
