package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/pagetree/element"
)

// Tree is an ordered forest of element nodes, representing one page.
type Tree struct {
	Roots []*element.Node `json:"elements"`
}

// New creates a tree from a sequence of root nodes. nil roots are skipped.
func New(roots ...*element.Node) *Tree {
	t := &Tree{}
	for _, r := range roots {
		if r != nil {
			t.Roots = append(t.Roots, r)
		}
	}
	return t
}

func (t *Tree) String() string {
	if t == nil {
		return "(Tree nil)"
	}
	return fmt.Sprintf("(Tree #roots=%d #nodes=%d)", len(t.Roots), t.Count())
}

// Len returns the number of root nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Roots)
}

// IsEmpty is true for a tree without any nodes.
func (t *Tree) IsEmpty() bool {
	return t.Len() == 0
}

// Count returns the total number of nodes in the tree.
func (t *Tree) Count() int {
	n := 0
	t.Walk(func(*element.Node, Path) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of t, keeping all ids.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return New()
	}
	c := &Tree{Roots: make([]*element.Node, len(t.Roots))}
	for i, r := range t.Roots {
		c.Roots[i] = r.Clone()
	}
	return c
}

// Walk visits all nodes in preorder, children in array order, together with
// their paths. If fn returns false, the children of the current node are skipped.
// Paths handed to fn must not be retained; clone them if needed.
func (t *Tree) Walk(fn func(n *element.Node, p Path) bool) {
	if t == nil {
		return
	}
	path := make(Path, 0, 8)
	var walk func(nodes []*element.Node)
	walk = func(nodes []*element.Node) {
		for i, n := range nodes {
			if n == nil {
				continue
			}
			path = append(path, i)
			if fn(n, path) {
				walk(n.Children)
			}
			path = path[:len(path)-1]
		}
	}
	walk(t.Roots)
}

// IDs returns the set of ids present in the tree.
func (t *Tree) IDs() map[string]bool {
	ids := make(map[string]bool)
	t.Walk(func(n *element.Node, _ Path) bool {
		ids[n.ID] = true
		return true
	})
	return ids
}

// Normalize makes sure every node has non-nil props and style maps.
func (t *Tree) Normalize() {
	for _, r := range t.Roots {
		r.Normalize()
	}
}

// --- Addressing ------------------------------------------------------------

// Resolve returns the node addressed by p. The empty path does not address a
// node. Not finding a node is a normal outcome.
func Resolve(t *Tree, p Path) (*element.Node, bool) {
	if t == nil || len(p) == 0 {
		return nil, false
	}
	siblings := t.Roots
	var n *element.Node
	for _, i := range p {
		if i < 0 || i >= len(siblings) {
			return nil, false
		}
		n = siblings[i]
		if n == nil {
			return nil, false
		}
		siblings = n.Children
	}
	return n, true
}

// Locate finds the path of the node with the given id by depth-first search
// (preorder, children in array order).
func Locate(t *Tree, id string) (Path, bool) {
	var found Path
	t.Walk(func(n *element.Node, p Path) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = p.Clone()
			return false
		}
		return true
	})
	if found == nil {
		tracer().Debugf("locate: id %s not found", id)
	}
	return found, found != nil
}

// Find returns the node with the given id.
func Find(t *Tree, id string) (*element.Node, bool) {
	p, ok := Locate(t, id)
	if !ok {
		return nil, false
	}
	return Resolve(t, p)
}

// Children returns the child sequence of the node at p. For the empty path
// this is the sequence of root nodes. ok is false if p does not resolve.
func Children(t *Tree, p Path) (children []*element.Node, ok bool) {
	if t == nil {
		return nil, false
	}
	if len(p) == 0 {
		return t.Roots, true
	}
	n, ok := Resolve(t, p)
	if !ok {
		return nil, false
	}
	return n.Children, true
}

// SetChildren replaces the child sequence of the node at p (or the roots
// for the empty path).
func SetChildren(t *Tree, p Path, children []*element.Node) bool {
	if len(p) == 0 {
		t.Roots = children
		return true
	}
	n, ok := Resolve(t, p)
	if !ok {
		return false
	}
	n.Children = children
	return true
}

// --- Identity --------------------------------------------------------------

// Duplicates returns the ids occuring more than once in t.
func Duplicates(t *Tree) []string {
	seen := make(map[string]int)
	var dups []string
	t.Walk(func(n *element.Node, _ Path) bool {
		seen[n.ID]++
		if seen[n.ID] == 2 {
			dups = append(dups, n.ID)
		}
		return true
	})
	return dups
}

// Validate checks the id uniqueness invariant.
func Validate(t *Tree) error {
	if dups := Duplicates(t); len(dups) > 0 {
		return fmt.Errorf("tree contains duplicate ids: %v", dups)
	}
	return nil
}

// Reidentify gives a fresh id to every node whose id is empty, contained
// in taken, or already used earlier in t (in preorder). It returns the number
// of regenerated ids. taken may be nil; gen may be nil.
func Reidentify(t *Tree, taken map[string]bool, gen element.Generator) int {
	gen = element.OrDefault(gen)
	used := make(map[string]bool)
	count := 0
	t.Walk(func(n *element.Node, _ Path) bool {
		if n.ID == "" || taken[n.ID] || used[n.ID] {
			old := n.ID
			n.ID = gen()
			for taken[n.ID] || used[n.ID] {
				n.ID = gen()
			}
			tracer().Debugf("re-identify %q → %s", old, n.ID)
			count++
		}
		used[n.ID] = true
		return true
	})
	return count
}
