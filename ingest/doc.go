/*
Package ingest converts external input into canonical page trees.

Input arrives as a Source: a file name, a declared or detected Format and
the raw content. Detection works by file extension first, then by sniffing
the content. A guess which could as well have gone another way is reported
as a FormatAmbiguity diagnostic; it is never fatal.

For every format a chain of extractors is tried in order. An extractor
either returns an Extraction or an error, wrapped in a result.Result:

	r := ex.TryParse(ctx, src)
	r.Match().Ok(&x).Err(&err)

Extractors never panic past their caller; a panic is recovered and reported
as a ParseFailure. If every extractor fails, the input is represented by a
single placeholder text node, so there is always something to edit.

Static markup, archived single-file pages and the markup part of component
sources share one tag-to-node mapper. <style> contents are compiled into a
cascade and merged into each node's style, inline style attributes taking
precedence over sheet values.

Import parses into a scratch tree and swaps it into a page only after the
whole input has been read and mapped. ImportBatch imports several files,
one page per file (a manifest expands to several pages), and reports per
file; a failing file never aborts the batch.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ingest

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagetree.ingest'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.ingest")
}
