/*
Package dom provides small utilities on top of the HTML parse trees of
golang.org/x/net/html.

The ingestion pipeline reads external markup into an HTML DOM first and maps
it to element nodes afterwards. This package collects the DOM-level helpers
needed for that: parsing documents and fragments, finding elements, reading
attributes and collecting text content.

Sub-package style deals with inline style declarations, sub-package
style/cssom with style sheets and the cascade.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'pagetree.dom'
func tracer() tracing.Trace {
	return tracing.Select("pagetree.dom")
}
