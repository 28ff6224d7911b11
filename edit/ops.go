package edit

import (
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/tree"
)

// Position tells Insert where to put a new node relative to the target.
type Position int

// Insert positions.
const (
	Before      Position = iota // as previous sibling of the target
	After                       // as next sibling of the target
	AppendChild                 // as last child of the target
)

func (p Position) String() string {
	switch p {
	case Before:
		return "before"
	case After:
		return "after"
	}
	return "append-child"
}

// Outcome is the result of a successful operation.
type Outcome struct {
	Tree *tree.Tree // the new tree
	Path tree.Path  // path of the affected node within Tree (former path for Delete)
	ID   string     // id of the affected node
}

// Option configures an operation.
type Option func(*settings)

type settings struct {
	gen element.Generator
}

// WithGenerator sets the id generator used for new or duplicated nodes.
func WithGenerator(gen element.Generator) Option {
	return func(s *settings) {
		s.gen = gen
	}
}

func configure(opts []Option) settings {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	s.gen = element.OrDefault(s.gen)
	return s
}

// Insert places node n relative to the node at target.
//
// With AppendChild the target must be of a container-family type; the empty
// target path appends n as a new root. With Before/After the target must
// exist (the empty path denotes the start resp. end of the root sequence),
// and its parent must be the forest root or a container.
//
// Ids of n which collide with ids in t are replaced by fresh ones.
func Insert(t *tree.Tree, target tree.Path, n *element.Node, pos Position, opts ...Option) (Outcome, error) {
	const op = "insert"
	if n == nil {
		return Outcome{}, reject(op, InvalidArgument, target, "no node to insert")
	}
	s := configure(opts)
	parent, index := tree.Path(nil), 0
	switch pos {
	case AppendChild:
		children, ok := tree.Children(t, target)
		if !ok {
			return Outcome{}, reject(op, NotFound, target, "no node at target path")
		}
		if !target.IsRoot() {
			tnode, _ := tree.Resolve(t, target)
			if !tnode.Type.IsContainer() {
				return Outcome{}, reject(op, NotContainer, target, "%s cannot hold children", tnode.Type)
			}
		}
		parent, index = target, len(children)
	case Before, After:
		if target.IsRoot() {
			parent = tree.Root
			if pos == After {
				index = t.Len()
			}
			break
		}
		if _, ok := tree.Resolve(t, target); !ok {
			return Outcome{}, reject(op, NotFound, target, "no node at target path")
		}
		parent = target.Parent()
		if err := checkContainer(op, t, parent); err != nil {
			return Outcome{}, err
		}
		index = target.Last()
		if pos == After {
			index++
		}
	default:
		return Outcome{}, reject(op, InvalidArgument, target, "unknown position %d", pos)
	}
	ins := n.Clone()
	ins.Normalize()
	sub := tree.New(ins)
	if k := tree.Reidentify(sub, t.IDs(), s.gen); k > 0 {
		tracer().Debugf("insert: re-identified %d colliding ids", k)
	}
	children, _ := tree.Children(t, parent)
	c, _ := tree.WithChildren(t, parent, element.Inserted(children, index, ins))
	p := parent.Append(index)
	tracer().Debugf("insert %s %s at %s", ins, pos, p)
	return Outcome{Tree: c, Path: p, ID: ins.ID}, nil
}

// InsertNew creates a node of type typ with palette defaults and inserts it
// (see Insert). This is what dropping a block from the palette does.
func InsertNew(t *tree.Tree, target tree.Path, typ element.Type, pos Position, opts ...Option) (Outcome, error) {
	s := configure(opts)
	if !typ.IsKnown() {
		return Outcome{}, reject("insert", InvalidArgument, target, "unknown element type %q", typ)
	}
	return Insert(t, target, element.NewDefault(typ, s.gen), pos, opts...)
}

// Move removes the node at source and re-inserts it as child number index of
// the node at dest. dest is interpreted in t (before the removal); the empty
// dest path moves the node to root level. index counts positions after the
// removal and may equal the number of children (append).
//
// Move is rejected if dest is not a container, or if dest lies within the
// subtree being moved.
func Move(t *tree.Tree, source, dest tree.Path, index int, opts ...Option) (Outcome, error) {
	const op = "move"
	if source.IsRoot() {
		return Outcome{}, reject(op, InvalidArgument, source, "cannot move the forest root")
	}
	src, ok := tree.Resolve(t, source)
	if !ok {
		return Outcome{}, reject(op, NotFound, source, "no node at source path")
	}
	if source.IsPrefixOf(dest) {
		return Outcome{}, reject(op, Cycle, dest, "destination lies inside %s", src.ID)
	}
	if err := checkContainer(op, t, dest); err != nil {
		return Outcome{}, err
	}
	if index < 0 {
		return Outcome{}, reject(op, OutOfRange, dest, "negative index %d", index)
	}
	var destID string
	if !dest.IsRoot() {
		dnode, _ := tree.Resolve(t, dest)
		destID = dnode.ID
	}
	// detach
	from, _ := tree.Children(t, source.Parent())
	moved := from[source.Last()]
	c, _ := tree.WithChildren(t, source.Parent(), element.Removed(from, source.Last()))
	// re-locate destination, its path may have shifted
	destPath := tree.Root
	if destID != "" {
		destPath, _ = tree.Locate(c, destID)
	}
	to, _ := tree.Children(c, destPath)
	if index > len(to) {
		return Outcome{}, reject(op, OutOfRange, dest, "index %d exceeds %d children", index, len(to))
	}
	c, _ = tree.WithChildren(c, destPath, element.Inserted(to, index, moved))
	p := destPath.Append(index)
	tracer().Debugf("move %s from %s to %s", moved, source, p)
	return Outcome{Tree: c, Path: p, ID: moved.ID}, nil
}

// Duplicate deep-copies the subtree at p, giving every copied node a fresh id,
// and inserts the copy as the next sibling of the original.
func Duplicate(t *tree.Tree, p tree.Path, opts ...Option) (Outcome, error) {
	const op = "duplicate"
	s := configure(opts)
	orig, ok := tree.Resolve(t, p)
	if !ok {
		return Outcome{}, reject(op, NotFound, p, "no node at path")
	}
	cp := orig.CloneFresh(s.gen)
	tree.Reidentify(tree.New(cp), t.IDs(), s.gen)
	siblings, _ := tree.Children(t, p.Parent())
	index := p.Last() + 1
	c, _ := tree.WithChildren(t, p.Parent(), element.Inserted(siblings, index, cp))
	q := p.Sibling(index)
	tracer().Debugf("duplicate %s → %s at %s", orig.ID, cp.ID, q)
	return Outcome{Tree: c, Path: q, ID: cp.ID}, nil
}

// Delete removes the subtree at p. The outcome carries the former path and
// the id of the removed node.
func Delete(t *tree.Tree, p tree.Path) (Outcome, error) {
	const op = "delete"
	n, ok := tree.Resolve(t, p)
	if !ok {
		return Outcome{}, reject(op, NotFound, p, "no node at path")
	}
	siblings, _ := tree.Children(t, p.Parent())
	c, _ := tree.WithChildren(t, p.Parent(), element.Removed(siblings, p.Last()))
	tracer().Debugf("delete %s at %s", n, p)
	return Outcome{Tree: c, Path: p.Clone(), ID: n.ID}, nil
}

// UpdateProps sets a single prop of the node at p. An empty value (nil, "",
// empty list) removes the key.
func UpdateProps(t *tree.Tree, p tree.Path, key string, value any) (Outcome, error) {
	return update("update-props", t, p, key, func(n *element.Node) {
		n.Props.Set(key, value)
	})
}

// UpdateStyle sets a single style property of the node at p. An empty value
// removes the key.
func UpdateStyle(t *tree.Tree, p tree.Path, key string, value string) (Outcome, error) {
	return update("update-style", t, p, key, func(n *element.Node) {
		n.Style.Set(key, value)
	})
}

func update(op string, t *tree.Tree, p tree.Path, key string, fn func(*element.Node)) (Outcome, error) {
	if key == "" {
		return Outcome{}, reject(op, InvalidArgument, p, "empty key")
	}
	orig, ok := tree.Resolve(t, p)
	if !ok {
		return Outcome{}, reject(op, NotFound, p, "no node at path")
	}
	n := &element.Node{
		ID:       orig.ID,
		Type:     orig.Type,
		Props:    orig.Props.Clone(),
		Style:    orig.Style.Clone(),
		Children: orig.Children,
	}
	if n.Props == nil {
		n.Props = element.Props{}
	}
	if n.Style == nil {
		n.Style = element.Style{}
	}
	fn(n)
	c, _ := tree.WithNode(t, p, n)
	tracer().Debugf("%s %s key %q", op, n.ID, key)
	return Outcome{Tree: c, Path: p.Clone(), ID: n.ID}, nil
}

// checkContainer verifies that the node at p may hold children. The forest
// root always may.
func checkContainer(op string, t *tree.Tree, p tree.Path) error {
	if p.IsRoot() {
		return nil
	}
	n, ok := tree.Resolve(t, p)
	if !ok {
		return reject(op, NotFound, p, "no node at path")
	}
	if !n.Type.IsContainer() {
		return reject(op, NotContainer, p, "%s cannot hold children", n.Type)
	}
	return nil
}
