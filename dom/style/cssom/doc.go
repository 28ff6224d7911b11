/*
Package cssom provides a simplified CSS object model for mapping style sheets
onto markup elements.

Imported pages often carry their styling in <style> elements instead of
inline style attributes. To preserve at least part of that styling, rules of
a sheet are compiled into a selector-to-declaration table, which is then
matched against each element. Declarations of all matching rules are applied
in order of specificity and, for equal specificity, source order.

This is not a browser styling engine. At-rules (@media, @font-face,
@keyframes, …) are skipped, as are selectors which cannot be matched against
a static DOM (pseudo-elements, dynamic pseudo-classes). Such omissions are
counted, and clients use the counts to decide wether the original styling
was too complex to be mapped faithfully.

Selector matching relies on https://godoc.org/github.com/andybalholm/cascadia.
CSS handling is de-coupled by introducing interfaces StyleSheet and Rule.
A concrete implementation based on github.com/aymerick/douceur may be found
in sub-package douceuradapter.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'pagetree.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.cssom")
}
