package cssom

import "github.com/npillmayer/pagetree/dom/style"

// StyleSheet is what the cascade needs to know about a parsed style sheet.
// The markup importer feeds it every <style> block of a page, and component
// sources feed it their style declarations. Package douceuradapter provides
// the implementation.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
}

// Rule is a single rule of a StyleSheet. Values are kept as written, the
// importer never computes them.
type Rule interface {
	Selector() string            // the prelude / selectors of the rule
	SelectorList() []string      // the individual selectors of the prelude
	IsAtRule() bool              // @media, @font-face, @keyframes, …
	Properties() []string        // property keys, e.g. "margin-top"
	Value(string) style.Property // property value for key, e.g. "15px"
	IsImportant(string) bool     // is property key marked as important?
}
