/*
Package element defines the atomic unit of a page: the element node.

An element node carries an identifier, a type tag drawn from a fixed catalog,
type-specific props, presentation style and an ordered list of children.
Nodes are plain data; containment rules (which types may hold children) are
expressed here as predicates, but enforced by package edit, not by the data
model itself.

	n := element.New(element.Button)
	n.Props.Set("content", "Click me")
	n.Style.Set("color", "red")

Identifiers are produced by a Generator. The default generator produces
prefixed UUIDv7 strings, which are unique for the lifetime of the process.
Tests usually install a SequenceGenerator to get predictable ids.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package element

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagetree.element'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.element")
}
