/*
Package project holds the pages of a site.

A Project is an ordered collection of pages, each owning one canonical
tree. Exactly one page is active at any time; its tree is loaded into the
live editing surface, accessible with Live and LiveHandle. Switching the
active page first stores the live tree into the previously active page
(save-on-switch), then loads the tree of the new page.

Routes are unique within a project. A page added with a route already in
use receives a numbered variant of it:

	/about     // taken
	/about-2   // assigned to the next page asking for /about

Trees are exchanged with long-term storage through the Store interface,
which knows nothing but "load tree of page X" and "save tree of page X".

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package project

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagetree.project'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.project")
}
