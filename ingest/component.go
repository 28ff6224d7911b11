package ingest

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/pagetree/dom"
	"github.com/npillmayer/pagetree/dom/style/cssom"
	"github.com/npillmayer/pagetree/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/result"
	"github.com/npillmayer/pagetree/tree"
)

// A component source is processed in three steps, each a chain of
// independent pattern rules: find the component's name, isolate its
// markup-like template (plus styles), and normalize the template into
// markup the tag-to-node mapper understands.

type nameRule struct {
	conventions []Format // nil for all
	rx          *regexp.Regexp
}

var nameRules = []nameRule{
	{[]Format{ComponentDecorator}, regexp.MustCompile(`@Component\s*\(\s*\{[\s\S]*?\}\s*\)\s*(?:export\s+)?(?:default\s+)?class\s+([A-Za-z_$][\w$]*)`)},
	{[]Format{ComponentDecorator}, regexp.MustCompile(`selector\s*:\s*['"]([\w-]+)['"]`)},
	{[]Format{ComponentSFC}, regexp.MustCompile(`(?:defineOptions|defineComponent)\s*\(\s*\{[^}]*?name\s*:\s*['"]([\w-]+)['"]`)},
	{[]Format{ComponentSFC}, regexp.MustCompile(`export\s+default\s*\{[\s\S]*?\bname\s*:\s*['"]([\w-]+)['"]`)},
	{[]Format{ComponentTag}, regexp.MustCompile(`export\s+default\s+(?:async\s+)?function\s+([A-Z][\w$]*)`)},
	{[]Format{ComponentTag}, regexp.MustCompile(`export\s+(?:const|function|class)\s+([A-Z][\w$]*)`)},
	{[]Format{ComponentTag}, regexp.MustCompile(`class\s+([A-Z][\w$]*)\s+extends\s+(?:React\.)?(?:Pure)?Component`)},
	{[]Format{ComponentTag}, regexp.MustCompile(`(?m)^\s*(?:function|const|let|var)\s+([A-Z][\w$]*)`)},
	{nil, regexp.MustCompile(`export\s+default\s+([A-Z][\w$]*)\s*;?\s*$`)},
}

var (
	backtickRx     = regexp.MustCompile("`([^`]*)`")
	quotedRx       = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
	decoTemplateRx = regexp.MustCompile("template\\s*:\\s*(`[^`]*`|'(?:[^'\\\\]|\\\\.)*'|\"(?:[^\"\\\\]|\\\\.)*\")")
	templateURLRx  = regexp.MustCompile(`templateUrl\s*:\s*['"]([^'"]+)['"]`)
	decoStylesRx   = regexp.MustCompile("styles\\s*:\\s*(\\[[\\s\\S]*?\\]|`[^`]*`)")
	styleURLsRx    = regexp.MustCompile(`styleUrls?\s*:\s*\[?([^\]\n]*)\]?`)
	sfcTemplateRx  = regexp.MustCompile(`<template(?:\s[^>]*)?>`)
	scriptBlockRx  = regexp.MustCompile(`(?s)<script\b[^>]*>.*?</script>`)
	styleBlockRx   = regexp.MustCompile(`(?s)<style\b[^>]*>(.*?)</style>`)
	returnParenRx  = regexp.MustCompile(`return\s*\(`)
	returnTagRx    = regexp.MustCompile(`return\s*<`)
	firstTagRx     = regexp.MustCompile(`<[A-Za-z]`)
	selfClosingRx  = regexp.MustCompile(`<([A-Za-z][\w.:-]*)((?:\s[^<>]*?)?)\s*/>`)
	pascalOpenRx   = regexp.MustCompile(`<([A-Z][\w.]*)`)
	pascalCloseRx  = regexp.MustCompile(`</([A-Z][\w.]*)\s*>`)
	kebabOpenRx    = regexp.MustCompile(`<([a-z][a-z0-9]*-[a-z0-9-]*)`)
	kebabCloseRx   = regexp.MustCompile(`</([a-z][a-z0-9]*-[a-z0-9-]*)\s*>`)
	fragmentRx     = regexp.MustCompile(`</?(?:React\.)?Fragment\s*>|<>|</>`)
	classNameRx    = regexp.MustCompile(`\bclassName=`)
	htmlForRx      = regexp.MustCompile(`\bhtmlFor=`)
)

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

var unitless = map[string]bool{
	"opacity": true, "z-index": true, "font-weight": true, "line-height": true,
	"flex": true, "flex-grow": true, "flex-shrink": true, "order": true, "zoom": true,
}

type componentExtractor struct {
	opts Options
}

func (ex componentExtractor) Name() string { return "component" }

func (ex componentExtractor) Accepts(f Format) bool {
	return f.IsComponent()
}

// template is the markup-like region of a component source.
type template struct {
	markup string
	styles []string
}

func (ex componentExtractor) TryParse(ctx context.Context, src Source) result.Result[*Extraction] {
	if !utf8.Valid(src.Content) {
		return failf("component source is not valid UTF-8 text")
	}
	text := string(src.Content)
	if strings.TrimSpace(text) == "" {
		return failf("empty component source")
	}
	conv := src.Format
	if !conv.IsComponent() {
		if conv = sniff(src.Content); !conv.IsComponent() {
			conv = ComponentTag
		}
	}
	col := &collector{file: src.Name, format: conv}
	x := &Extraction{Source: text}
	x.Title = componentName(text, conv)
	if x.Title == "" {
		x.Title = pascal(src.BaseName())
		col.add(Info, Incomplete, "no component name declared, using %q", x.Title)
	}
	tpl := extractTemplate(ctx, text, conv, src.Name, col)
	var nodes []*element.Node
	if strings.TrimSpace(tpl.markup) != "" {
		nodes = ex.mapTemplate(normalizeTemplate(tpl.markup, conv), tpl.styles, col)
	}
	if len(nodes) == 0 {
		col.add(Warning, Incomplete, "no markup found in component %s", x.Title)
		x.Tree = placeholder("Component "+x.Title, ex.opts.Generator)
	} else {
		x.Tree = tree.New(nodes...)
	}
	x.Meta.Title = x.Title
	x.Diagnostics = col.diags
	tracer().Debugf("component %s (%s): %d nodes", x.Title, conv, x.Tree.Count())
	return result.Ok(x)
}

func (ex componentExtractor) mapTemplate(markup string, styles []string, col *collector) []*element.Node {
	frags, err := dom.ParseFragment(markup)
	if err != nil {
		col.add(Warning, Incomplete, "template cannot be parsed: %v", err)
		return nil
	}
	var sheets []cssom.StyleSheet
	failed := 0
	for _, s := range styles {
		sheet, err := douceuradapter.Parse(s)
		if err != nil {
			failed++
			continue
		}
		sheets = append(sheets, sheet)
	}
	cascade, _ := compileStyles(sheets, failed, ex.opts, col)
	m := &mapper{cascade: cascade, gen: ex.opts.Generator, col: col}
	nodes := m.mapNodes(frags)
	if m.dropped > 0 {
		col.add(Info, Incomplete, "%d element(s) without counterpart dropped", m.dropped)
	}
	return nodes
}

// componentName runs the name rules applicable to a convention.
func componentName(text string, conv Format) string {
	for _, rule := range nameRules {
		if rule.conventions != nil && !contains(rule.conventions, conv) {
			continue
		}
		if m := rule.rx.FindStringSubmatch(text); m != nil {
			name := m[1]
			if strings.Contains(name, "-") || unicode.IsLower(rune(name[0])) {
				name = pascal(name)
			}
			return name
		}
	}
	return ""
}

func contains(fs []Format, f Format) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

// extractTemplate isolates the template of a component source.
func extractTemplate(ctx context.Context, text string, conv Format, file string, col *collector) template {
	switch conv {
	case ComponentDecorator:
		return decoratorTemplate(ctx, text, file, col)
	case ComponentSFC:
		return sfcTemplate(text)
	}
	return template{markup: tagTemplate(text)}
}

func decoratorTemplate(ctx context.Context, text, file string, col *collector) template {
	tpl := template{}
	if m := decoTemplateRx.FindStringSubmatch(text); m != nil {
		tpl.markup = unquote(m[1])
	} else if m := templateURLRx.FindStringSubmatch(text); m != nil {
		if src, ok := batchFrom(ctx).consume(m[1], file); ok {
			tpl.markup = string(src.Content)
		} else {
			col.add(Warning, Incomplete, "template file %s is not part of the import", m[1])
		}
	}
	if m := decoStylesRx.FindStringSubmatch(text); m != nil {
		for _, s := range backtickRx.FindAllStringSubmatch(m[1], -1) {
			tpl.styles = append(tpl.styles, s[1])
		}
		if len(tpl.styles) == 0 {
			for _, s := range quotedRx.FindAllStringSubmatch(m[1], -1) {
				tpl.styles = append(tpl.styles, s[1]+s[2])
			}
		}
	}
	if m := styleURLsRx.FindStringSubmatch(text); m != nil {
		for _, q := range quotedRx.FindAllStringSubmatch(m[1], -1) {
			name := q[1] + q[2]
			if src, ok := batchFrom(ctx).consume(name, file); ok {
				tpl.styles = append(tpl.styles, string(src.Content))
			}
		}
	}
	return tpl
}

func sfcTemplate(text string) template {
	tpl := template{}
	for _, m := range styleBlockRx.FindAllStringSubmatch(text, -1) {
		tpl.styles = append(tpl.styles, m[1])
	}
	if loc := sfcTemplateRx.FindStringIndex(text); loc != nil {
		if end := strings.LastIndex(text, "</template>"); end > loc[1] {
			tpl.markup = text[loc[1]:end]
			return tpl
		}
	}
	// no template block: everything except script and style blocks is markup
	rest := scriptBlockRx.ReplaceAllString(text, "")
	tpl.markup = styleBlockRx.ReplaceAllString(rest, "")
	return tpl
}

// tagTemplate finds markup embedded in code: the parenthesized expression
// after a return, a bare returned tag, or the first tag anywhere.
func tagTemplate(text string) string {
	if loc := returnParenRx.FindStringIndex(text); loc != nil {
		if end := matchBracket(text, loc[1]-1, '(', ')'); end > 0 {
			inner := text[loc[1]:end]
			if strings.Contains(inner, "<") {
				return inner
			}
		}
	}
	if loc := returnTagRx.FindStringIndex(text); loc != nil {
		return tagRegion(text, loc[1]-1)
	}
	if loc := firstTagRx.FindStringIndex(text); loc != nil {
		return tagRegion(text, loc[0])
	}
	return ""
}

// tagRegion returns the element starting at text[start] up to its closing
// tag, skipping over embedded expressions.
func tagRegion(text string, start int) string {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			if end := matchBracket(text, i, '{', '}'); end > 0 {
				i = end
			}
		case '<':
			if i+1 < len(text) && text[i+1] == '/' {
				depth--
			} else {
				depth++
			}
			end := strings.IndexByte(text[i:], '>')
			if end < 0 {
				return text[start:]
			}
			if text[i+end-1] == '/' { // self-closing
				depth--
			}
			i += end
			if depth <= 0 {
				return text[start : i+1]
			}
		}
	}
	return text[start:]
}

// matchBracket returns the index of the bracket closing the one at
// text[open], skipping string literals; -1 if there is none.
func matchBracket(text string, open int, lb, rb byte) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'', '`':
			if j := strings.IndexByte(text[i+1:], c); j >= 0 {
				i += j + 1
			}
		case lb:
			depth++
		case rb:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// --- Normalization ---------------------------------------------------------

// normalizeTemplate turns a template into plain markup: expressions in
// attributes become quoted values, self-closing tags are expanded, and
// component tags become <pb-component data-component="Name">.
func normalizeTemplate(markup string, conv Format) string {
	if conv == ComponentTag {
		markup = rewriteExpressions(markup)
		markup = fragmentRx.ReplaceAllString(markup, "")
		markup = classNameRx.ReplaceAllString(markup, "class=")
		markup = htmlForRx.ReplaceAllString(markup, "for=")
	}
	markup = selfClosingRx.ReplaceAllStringFunc(markup, func(s string) string {
		m := selfClosingRx.FindStringSubmatch(s)
		if voidTags[strings.ToLower(m[1])] {
			return "<" + m[1] + m[2] + ">"
		}
		return "<" + m[1] + m[2] + "></" + m[1] + ">"
	})
	markup = pascalOpenRx.ReplaceAllString(markup, `<`+CustomTag+` data-component="$1"`)
	markup = pascalCloseRx.ReplaceAllString(markup, `</`+CustomTag+`>`)
	if conv != ComponentTag {
		markup = kebabOpenRx.ReplaceAllStringFunc(markup, func(s string) string {
			name := s[1:]
			if name == CustomTag {
				return s
			}
			return `<` + CustomTag + ` data-component="` + pascal(name) + `"`
		})
		markup = kebabCloseRx.ReplaceAllStringFunc(markup, func(s string) string {
			if strings.Contains(s, CustomTag) {
				return s
			}
			return `</` + CustomTag + `>`
		})
	}
	return markup
}

// rewriteExpressions replaces {…} expressions of tag-template markup.
// Inside a tag, an expression after "=" becomes a quoted attribute value and
// a spread expression is removed. In content, comments are removed, nested
// markup is kept and other expressions stay as literal text.
func rewriteExpressions(s string) string {
	var b strings.Builder
	inTag := false
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '<' && i+1 < len(s) && (isASCIILetter(s[i+1]) || s[i+1] == '/'):
			inTag = true
		case c == '>' && inTag:
			inTag = false
		case (c == '"' || c == '\'') && inTag:
			if j := strings.IndexByte(s[i+1:], c); j >= 0 {
				b.WriteString(s[i : i+j+2])
				i += j + 2
				continue
			}
		case c == '{':
			end := matchBracket(s, i, '{', '}')
			if end < 0 {
				b.WriteString(s[i:])
				return b.String()
			}
			expr := strings.TrimSpace(s[i+1 : end])
			i = end + 1
			out := b.String()
			switch {
			case inTag && strings.HasSuffix(strings.TrimRight(out, " "), "="):
				b.WriteString(`"` + attrValue(lastAttrName(out), expr) + `"`)
			case inTag: // spread
				b.Reset()
				b.WriteString(strings.TrimRight(out, " "))
			case strings.HasPrefix(expr, "/*"):
			case strings.Contains(expr, "<"):
				if l, r := strings.Index(expr, "<"), strings.LastIndex(expr, ">"); r > l {
					b.WriteString(rewriteExpressions(expr[l : r+1]))
				}
			default:
				b.WriteString("{" + expr + "}")
			}
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func lastAttrName(out string) string {
	out = strings.TrimRight(out, " =")
	i := strings.LastIndexFunc(out, func(r rune) bool {
		return unicode.IsSpace(r) || r == '<'
	})
	return out[i+1:]
}

// attrValue converts an attribute expression to a plain value.
func attrValue(name, expr string) string {
	if len(expr) >= 2 {
		q, last := expr[0], expr[len(expr)-1]
		if (q == '\'' || q == '"' || q == '`') && q == last && !strings.Contains(expr, "${") {
			return escapeAttr(expr[1 : len(expr)-1])
		}
	}
	if name == "style" && strings.HasPrefix(expr, "{") && strings.HasSuffix(expr, "}") {
		return escapeAttr(styleObject(expr[1 : len(expr)-1]))
	}
	return escapeAttr(expr)
}

func escapeAttr(s string) string {
	return strings.NewReplacer(`"`, `'`, "<", "", ">", "").Replace(s)
}

// styleObject converts a style object literal, { color: 'red', fontSize: 12 },
// into declarations "color: red; font-size: 12px".
func styleObject(obj string) string {
	var decls []string
	for _, entry := range strings.Split(obj, ",") {
		k, v, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		k = kebab(strings.Trim(strings.TrimSpace(k), `'"`))
		v = strings.Trim(strings.TrimSpace(v), "'\"`")
		if k == "" || v == "" {
			continue
		}
		if isNumber(v) && v != "0" && !unitless[k] {
			v += "px"
		}
		decls = append(decls, k+": "+v)
	}
	return strings.Join(decls, "; ")
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// pascal converts "app-hero_card" to "AppHeroCard".
func pascal(s string) string {
	var b strings.Builder
	up := true
	for _, r := range s {
		if r == '-' || r == '_' || r == ' ' || r == '.' {
			up = true
			continue
		}
		if up {
			r = unicode.ToUpper(r)
			up = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// unquote strips the quotes of a string literal.
func unquote(lit string) string {
	if len(lit) >= 2 {
		return strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\n`, "\n").Replace(lit[1 : len(lit)-1])
	}
	return lit
}
