package ingest

import (
	"github.com/npillmayer/pagetree/element"
)

// Options control the ingestion pipeline.
type Options struct {
	ArchiveSizeThreshold int64             // inputs larger than this are treated as archived pages
	MaxStyleRules        int               // style sheets with more rules are not applied
	PlaceholderText      string            // content of the placeholder node for unmappable input
	DefaultFormat        Format            // format used if detection has no clue at all
	Generator            element.Generator // id generator, nil for the package default
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		ArchiveSizeThreshold: 512 * 1024,
		MaxStyleRules:        400,
		PlaceholderText:      "Imported content could not be displayed",
		DefaultFormat:        Markup,
	}
}

// normalized fills zero fields with defaults.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ArchiveSizeThreshold <= 0 {
		o.ArchiveSizeThreshold = d.ArchiveSizeThreshold
	}
	if o.MaxStyleRules <= 0 {
		o.MaxStyleRules = d.MaxStyleRules
	}
	if o.PlaceholderText == "" {
		o.PlaceholderText = d.PlaceholderText
	}
	if o.DefaultFormat == Unknown {
		o.DefaultFormat = d.DefaultFormat
	}
	o.Generator = element.OrDefault(o.Generator)
	return o
}
