package ingest

import (
	"bytes"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Format is the shape of an input.
type Format string

// Known input formats.
const (
	Unknown            Format = ""
	Structured         Format = "structured"          // JSON tree literal
	Markup             Format = "markup"              // static HTML
	Archive            Format = "archive"             // self-contained page with embedded assets
	ComponentTag       Format = "component-tag"       // markup embedded in code (JSX-like)
	ComponentSFC       Format = "component-sfc"       // template block plus script block
	ComponentDecorator Format = "component-decorator" // decorated class with a template
	Manifest           Format = "manifest"            // multi-page project description
)

// ParseFormat returns the format named s, or Unknown.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Structured, Markup, Archive, ComponentTag, ComponentSFC, ComponentDecorator, Manifest:
		return f
	}
	return Unknown
}

func (f Format) String() string {
	if f == Unknown {
		return "unknown"
	}
	return string(f)
}

// IsComponent is true for the three component source conventions.
func (f Format) IsComponent() bool {
	return f == ComponentTag || f == ComponentSFC || f == ComponentDecorator
}

var extensions = map[string]Format{
	".json":   Structured,
	".yaml":   Manifest,
	".yml":    Manifest,
	".html":   Markup,
	".htm":    Markup,
	".xhtml":  Markup,
	".mhtml":  Archive,
	".mht":    Archive,
	".jsx":    ComponentTag,
	".tsx":    ComponentTag,
	".js":     ComponentTag,
	".vue":    ComponentSFC,
	".svelte": ComponentSFC,
	".ts":     ComponentDecorator,
}

// archive markers written by common page-saving tools
var archiveMarkers = [][]byte{
	[]byte("saved from url="),
	[]byte("SingleFile"),
	[]byte("savepage"),
	[]byte("Snapshot-Content-Location:"),
	[]byte("MIME-Version:"),
}

var (
	dataImageRx  = regexp.MustCompile(`data:image/[a-zA-Z0-9.+-]+;base64,`)
	decoratorRx  = regexp.MustCompile(`@Component\s*\(`)
	tagReturnRx  = regexp.MustCompile(`return\s*\(?\s*<`)
	sfcBlockRx   = regexp.MustCompile(`(?m)^\s*<template[\s>]`)
	yamlStructRx = regexp.MustCompile(`(?m)^structure\s*:`)
)

// ArchiveEvidence tells why a markup input looks like an archived page.
type ArchiveEvidence struct {
	Markers    int  // archival tool markers found
	DataImages int  // embedded base64 images
	Oversized  bool // content larger than the archive threshold
}

// IsArchive is true if there is any evidence at all.
func (ev ArchiveEvidence) IsArchive() bool {
	return ev.Markers > 0 || ev.DataImages > 0 || ev.Oversized
}

// Weak is true if the only evidence is the size of the input.
func (ev ArchiveEvidence) Weak() bool {
	return ev.Markers == 0 && ev.DataImages == 0 && ev.Oversized
}

// Examine collects archive evidence for a markup input.
func Examine(content []byte, threshold int64) ArchiveEvidence {
	ev := ArchiveEvidence{}
	head := content
	if len(head) > 4096 {
		head = head[:4096]
	}
	for _, m := range archiveMarkers {
		if bytes.Contains(head, m) {
			ev.Markers++
		}
	}
	ev.DataImages = len(dataImageRx.FindAllIndex(content, -1))
	ev.Oversized = threshold > 0 && int64(len(content)) > threshold
	return ev
}

// Detect determines the format of src. A declared format is taken as is.
// Otherwise the file extension decides, corrected by sniffing the content.
// ambiguous is true when the decision was a guess: no evidence at all,
// extension and content disagreeing, or an archive recognized by size only.
func Detect(src Source, opts Options) (f Format, ambiguous bool) {
	if src.Format != Unknown {
		return src.Format, false
	}
	byExt := extensions[strings.ToLower(path.Ext(src.Name))]
	sniffed := sniff(src.Content)
	switch {
	case byExt == Unknown && sniffed == Unknown:
		f, ambiguous = opts.DefaultFormat, true
	case byExt == Unknown:
		f = sniffed
	case sniffed == Unknown || sniffed == byExt:
		f = byExt
	case byExt == Structured && sniffed == Manifest:
		f = Manifest // JSON manifest
	case byExt == ComponentDecorator && sniffed == ComponentTag:
		f = ComponentTag // plain .ts with markup
	case byExt == Markup && sniffed == Archive, byExt == Archive && sniffed == Markup:
		f = sniffed
	default:
		f, ambiguous = sniffed, true
	}
	if f == Markup {
		if ev := Examine(src.Content, opts.ArchiveSizeThreshold); ev.IsArchive() {
			f = Archive
			ambiguous = ambiguous || ev.Weak()
		}
	}
	tracer().Debugf("detect %s: extension=%s content=%s → %s (ambiguous=%v)",
		src.Name, byExt, sniffed, f, ambiguous)
	return f, ambiguous
}

// sniff guesses a format from content alone.
func sniff(content []byte) Format {
	if !utf8.Valid(content) && !bytes.HasPrefix(content, []byte("From:")) {
		return Unknown
	}
	s := bytes.TrimSpace(content)
	if len(s) == 0 {
		return Unknown
	}
	if len(s) > 4096 {
		s = s[:4096]
	}
	lower := bytes.ToLower(s)
	switch {
	case bytes.HasPrefix(s, []byte("MIME-Version:")) || bytes.HasPrefix(s, []byte("From:")):
		return Archive
	case s[0] == '{' || s[0] == '[':
		if bytes.Contains(s, []byte(`"structure"`)) {
			return Manifest
		}
		return Structured
	case yamlStructRx.Match(s):
		return Manifest
	case decoratorRx.Match(s):
		return ComponentDecorator
	case sfcBlockRx.Match(s):
		return ComponentSFC
	case tagReturnRx.Match(s):
		return ComponentTag
	case bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html")) ||
		bytes.HasPrefix(lower, []byte("<!--")) || s[0] == '<':
		return Markup
	}
	return Unknown
}
