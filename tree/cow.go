package tree

import "github.com/npillmayer/pagetree/element"

// Edits are copy-on-write: the nodes on the way from the forest root down
// to the changed node are copied, every other node is shared between the
// old and the new tree. Shared nodes must therefore never be changed in
// place.

// slot is a step of a path: a node together with the index of the child
// the path continues with.
type slot struct {
	node  *element.Node
	index int
}

type slotPath []slot

// spine collects the slots leading from the forest root to the node at p.
// The forest root is represented by a pseudo node holding the roots.
func spine(t *Tree, p Path) (slotPath, bool) {
	if t == nil {
		return nil, false
	}
	n := &element.Node{Children: t.Roots}
	path := make(slotPath, 0, len(p))
	for _, i := range p {
		if i < 0 || i >= len(n.Children) || n.Children[i] == nil {
			return nil, false
		}
		path = append(path, slot{node: n, index: i})
		n = n.Children[i]
	}
	return path, true
}

func (path slotPath) foldR(f func(slot, *element.Node) *element.Node, zero *element.Node) *element.Node {
	r := zero
	for i := len(path) - 1; i >= 0; i-- {
		r = f(path[i], r)
	}
	return r
}

// cloneSeam copies the parent of a slot and hooks child into the copy.
func cloneSeam(parent slot, child *element.Node) *element.Node {
	cow := *parent.node
	cow.Children = make([]*element.Node, len(parent.node.Children))
	copy(cow.Children, parent.node.Children)
	cow.Children[parent.index] = child
	return &cow
}

// WithNode returns a tree in which the node at p is replaced by n. t is
// left untouched; the result shares all nodes off the path with t.
func WithNode(t *Tree, p Path, n *element.Node) (*Tree, bool) {
	if len(p) == 0 || n == nil {
		return nil, false
	}
	path, ok := spine(t, p)
	if !ok {
		return nil, false
	}
	top := path.foldR(cloneSeam, n)
	tracer().Debugf("copied %d node(s) for an edit at %s", len(p), p)
	return &Tree{Roots: top.Children}, true
}

// WithChildren returns a tree in which the child sequence of the node at p
// (the roots for the empty path) is replaced by children. children must not
// share its backing array with a sequence of t.
func WithChildren(t *Tree, p Path, children []*element.Node) (*Tree, bool) {
	if len(p) == 0 {
		return &Tree{Roots: children}, t != nil
	}
	n, ok := Resolve(t, p)
	if !ok {
		return nil, false
	}
	cow := *n
	cow.Children = children
	return WithNode(t, p, &cow)
}
