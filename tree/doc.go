/*
Package tree implements the canonical tree of a page: an ordered forest of
element nodes.

Nodes are addressed by paths. A path is a sequence of child indices, starting
at the forest root:

	[2, 0, 1]   // third root, its first child, that child's second child

Paths are positional, not persistent. Any insertion or removal earlier in a
sibling sequence changes the numeric path of later siblings. Clients must not
keep a path across a mutation; they keep the node's id instead and call
Locate to re-derive the path:

	p, ok := tree.Locate(t, id)   // depth-first, preorder
	n, ok := tree.Resolve(t, p)

A path or id not being found is a normal outcome and is reported with a
boolean, never with a panic.

The empty path addresses the forest root itself, i.e. the sequence of root
nodes. It is not a node, but it behaves like a container for insertions.

Invariant: every id appearing anywhere in a tree is unique within that tree.
Validate checks this, Reidentify repairs collisions.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagetree.tree'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.tree")
}
