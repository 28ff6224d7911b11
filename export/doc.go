/*
Package export packages a project for publishing.

Build turns a project into a Bundle: one markup document per page, the
style and script text blobs, and a manifest describing the project. The
bundle is plain text and data; archiving or uploading it is left to the
caller. WriteDir puts it into a directory:

	index.html           // document of the active page
	pages/<route>.html   // one document per route, "/" being pages/index.html
	styles.css
	script.js
	manifest.json

With ExtractStyles set, inline styles of all pages are collected into
class rules of the style blob. Identical style maps share one class.

Two derived renditions of the active page may be requested: a sanitized
fragment safe to embed into foreign sites, and a markdown preview.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package export

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagetree.export'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.export")
}
