package tree

import (
	"fmt"
	"strings"

	"github.com/npillmayer/pagetree/element"
	tp "github.com/xlab/treeprint"
)

// Dump renders t as an indented tree, for debugging and test logs.
func Dump(t *Tree) string {
	p := tp.New()
	p.SetValue(fmt.Sprintf("Tree(#roots=%d)", t.Len()))
	if t != nil {
		for _, r := range t.Roots {
			dumpNode(p, r)
		}
	}
	return p.String()
}

func dumpNode(p tp.Tree, n *element.Node) {
	if n == nil {
		return
	}
	label := nodeLabel(n)
	if len(n.Children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, ch := range n.Children {
		dumpNode(branch, ch)
	}
}

func nodeLabel(n *element.Node) string {
	var b strings.Builder
	b.WriteString(string(n.Type))
	b.WriteString(" ")
	b.WriteString(n.ID)
	if c := n.Content(); c != "" {
		if len(c) > 24 {
			c = c[:24] + "…"
		}
		fmt.Fprintf(&b, " %q", c)
	}
	return b.String()
}
