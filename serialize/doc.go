/*
Package serialize renders page trees as markup.

Every element type has a fixed tag shape. Container-family nodes become
block elements wrapping their children, leaf nodes their dedicated tag with
props mapped to attributes; a node's style is flattened into an inline style
attribute. Types without a tag of their own are marked with a data-block
attribute, custom composites use the <pb-component> element:

	<div data-block="card">…</div>
	<pb-component data-component="HeroBanner"></pb-component>

Output is deterministic: children in order, attributes sorted by name. Markup
produced from a tree built by package edit reads back through the markup
importer of package ingest into an equivalent tree, and serializes to the
same text again.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package serialize

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagetree.serialize'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.serialize")
}
