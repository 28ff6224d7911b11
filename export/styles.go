package export

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/npillmayer/pagetree/dom/style"
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/tree"
)

// StyleSheet collects style maps as class rules. The zero value is not
// usable, call NewStyleSheet.
type StyleSheet struct {
	prefix  string
	classes map[string]string // flattened style → class name
	sheet   *css.Stylesheet
}

// NewStyleSheet creates an empty style sheet. Generated class names start
// with prefix.
func NewStyleSheet(prefix string) *StyleSheet {
	if prefix == "" {
		prefix = "pb-s"
	}
	return &StyleSheet{
		prefix:  prefix,
		classes: make(map[string]string),
		sheet:   css.NewStylesheet(),
	}
}

// Len returns the number of rules.
func (s *StyleSheet) Len() int {
	return len(s.sheet.Rules)
}

// Class returns the class for a style map, adding a rule on first use.
func (s *StyleSheet) Class(st element.Style) string {
	key := style.Flatten(st)
	if key == "" {
		return ""
	}
	if c, ok := s.classes[key]; ok {
		return c
	}
	c := s.prefix + strconv.Itoa(len(s.classes)+1)
	s.classes[key] = c
	rule := css.NewRule(css.QualifiedRule)
	rule.Prelude = "." + c
	rule.Selectors = []string{"." + c}
	props := make([]string, 0, len(st))
	for p := range st {
		props = append(props, p)
	}
	sort.Strings(props)
	for _, p := range props {
		v, important := strings.CutSuffix(st[p], "!important")
		rule.Declarations = append(rule.Declarations, &css.Declaration{
			Property:  p,
			Value:     strings.TrimSpace(v),
			Important: important,
		})
	}
	s.sheet.Rules = append(s.sheet.Rules, rule)
	tracer().Debugf("style rule %s for %q", c, key)
	return c
}

func (s *StyleSheet) String() string {
	if s.Len() == 0 {
		return ""
	}
	return s.sheet.String() + "\n"
}

// ExtractStyles returns a copy of t with every inline style replaced by a
// class from sheet. t is left untouched.
func ExtractStyles(t *tree.Tree, sheet *StyleSheet) *tree.Tree {
	c := t.Clone()
	c.Walk(func(n *element.Node, _ tree.Path) bool {
		if len(n.Style) == 0 {
			return true
		}
		class := sheet.Class(n.Style)
		if have := n.Props.String("class"); have != "" {
			class = have + " " + class
		}
		n.Props.Set("class", class)
		n.Style = element.Style{}
		return true
	})
	return c
}
