/*
Package edit implements the mutation engine for page trees.

Operations are plain functions taking the target tree explicitly:

	out, err := edit.Insert(t, tree.Path{0}, btn, edit.AppendChild)
	if err != nil {
	    var rej *edit.Rejection
	    errors.As(err, &rej)   // why the operation was not applied
	}
	t = out.Tree              // the new tree
	p := out.Path             // where the affected node is now

Every operation is atomic: it either returns the complete new tree or a
*Rejection. The input tree is never modified, so a rejected operation leaves
it exactly as it was. The new tree copies only the nodes on the path from the
root to the change (see tree.WithNode) and shares all other nodes with the
input tree. Nodes reachable from a tree must therefore be treated as
immutable; build changed nodes through this package.

Paths returned by an operation are valid for the returned tree only. Callers
keep node ids across operations and re-derive paths with tree.Locate. A
Selection does exactly that: it remembers an id and resolves it lazily.

A Session bundles a tree handle with a selection and applies operations in
submission order. It is not safe for concurrent use; a page is edited by a
single user at a time.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package edit

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagetree.edit'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.edit")
}
