package element

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
)

// Node is an element node, the building block of a page tree.
//
// Children may be non-empty only for container-family types when the node
// was built by package edit. Imported data may carry children for other
// types; they are preserved.
type Node struct {
	ID       string  `json:"id"`
	Type     Type    `json:"type"`
	Props    Props   `json:"props,omitempty"`
	Style    Style   `json:"style,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// New creates a node of type t with a fresh id from the default generator.
func New(t Type) *Node {
	return NewWithID(NewID(), t)
}

// NewWithID creates a node with a given id. Clients are responsible for the
// id being unique within its tree.
func NewWithID(id string, t Type) *Node {
	return &Node{
		ID:    id,
		Type:  t,
		Props: Props{},
		Style: Style{},
	}
}

// NewDefault creates a node of type t pre-filled with palette defaults, as if
// dropped from the palette. gen may be nil.
func NewDefault(t Type, gen Generator) *Node {
	n := NewWithID(OrDefault(gen)(), t)
	for k, v := range paletteDefaults[t] {
		n.Props.Set(k, cloneValue(v))
	}
	if t.IsCustom() {
		n.Props.Set("component", t.CustomName())
	}
	tracer().Debugf("new %s node %s", t, n.ID)
	return n
}

func (n *Node) String() string {
	if n == nil {
		return "(nil)"
	}
	return fmt.Sprintf("(%s %s #ch=%d)", n.Type, n.ID, len(n.Children))
}

// AddChild appends ch to the children of n and returns n for chaining.
func (n *Node) AddChild(ch *Node) *Node {
	if ch != nil {
		n.Children = append(n.Children, ch)
	}
	return n
}

// InsertChildAt inserts ch at position i, shifting later children.
// Positions beyond the end append.
func (n *Node) InsertChildAt(i int, ch *Node) *Node {
	if ch == nil {
		return n
	}
	n.Children = insertAt(n.Children, i, ch)
	return n
}

// RemoveChildAt removes and returns the child at position i.
func (n *Node) RemoveChildAt(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	ch := n.Children[i]
	n.Children = append(n.Children[:i:i], n.Children[i+1:]...)
	return ch
}

// IndexOfChild returns the position of ch within the children of n, or -1.
func (n *Node) IndexOfChild(ch *Node) int {
	for i, c := range n.Children {
		if c == ch {
			return i
		}
	}
	return -1
}

// Content is a shortcut for the "content" prop.
func (n *Node) Content() string {
	return n.Props.String("content")
}

// Clone returns a deep copy of the subtree rooted at n, keeping all ids.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		ID:    n.ID,
		Type:  n.Type,
		Props: n.Props.Clone(),
		Style: n.Style.Clone(),
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// CloneFresh returns a deep copy of the subtree rooted at n where every node
// receives a fresh id from gen (or the default generator, if gen is nil).
func (n *Node) CloneFresh(gen Generator) *Node {
	c := n.Clone()
	gen = OrDefault(gen)
	c.Walk(func(x *Node) bool {
		x.ID = gen()
		return true
	})
	return c
}

// Walk visits the subtree rooted at n in preorder. If fn returns false, the
// children of the current node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, ch := range n.Children {
		ch.Walk(fn)
	}
}

// Normalize makes sure props and style maps are non-nil, for the subtree
// rooted at n.
func (n *Node) Normalize() {
	n.Walk(func(x *Node) bool {
		if x.Props == nil {
			x.Props = Props{}
		}
		if x.Style == nil {
			x.Style = Style{}
		}
		return true
	})
}

// InsertAt inserts x into s at position i (appending for i ≥ len(s)).
func InsertAt(s []*Node, i int, x *Node) []*Node {
	return insertAt(s, i, x)
}

func insertAt(s []*Node, i int, x *Node) []*Node {
	if i < 0 {
		i = 0
	}
	if i >= len(s) {
		return append(s, x)
	}
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = x
	return s
}

// Inserted returns a new sequence holding s with x inserted at position i.
// s is not modified.
func Inserted(s []*Node, i int, x *Node) []*Node {
	i = min(max(i, 0), len(s))
	c := make([]*Node, 0, len(s)+1)
	c = append(c, s[:i]...)
	c = append(c, x)
	return append(c, s[i:]...)
}

// Removed returns a new sequence holding s without the node at position i.
// s is not modified.
func Removed(s []*Node, i int) []*Node {
	if i < 0 || i >= len(s) {
		return append([]*Node(nil), s...)
	}
	c := make([]*Node, 0, len(s)-1)
	c = append(c, s[:i]...)
	return append(c, s[i+1:]...)
}
