package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParseFailure is wrapped by errors of inputs which could not be mapped
// to any node.
var ErrParseFailure = errors.New("input could not be mapped")

// Severity grades a diagnostic.
type Severity int

// Severities, in ascending order.
const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	}
	return "error"
}

// Kind classifies a diagnostic.
type Kind int

// Kinds of diagnostics.
const (
	ParseFailure        Kind = iota // input could not be mapped to any node
	FormatAmbiguity                 // format detection was a guess
	IdentifierCollision             // ids had to be regenerated
	Incomplete                      // input was mapped, but something got lost
)

func (k Kind) String() string {
	switch k {
	case ParseFailure:
		return "parse-failure"
	case FormatAmbiguity:
		return "format-ambiguity"
	case IdentifierCollision:
		return "id-collision"
	}
	return "incomplete"
}

// Diagnostic is a human readable message about an input file.
type Diagnostic struct {
	File     string
	Format   Format
	Severity Severity
	Kind     Kind
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s [%s/%s] %s", d.File, d.Severity, d.Kind, d.Format, d.Message)
}

// Diagnostics is a list of diagnostics.
type Diagnostics []Diagnostic

// Has is true if a diagnostic of kind k is present.
func (ds Diagnostics) Has(k Kind) bool {
	for _, d := range ds {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// Max returns the highest severity present, Info for an empty list.
func (ds Diagnostics) Max() Severity {
	sev := Info
	for _, d := range ds {
		if d.Severity > sev {
			sev = d.Severity
		}
	}
	return sev
}

func (ds Diagnostics) String() string {
	var b strings.Builder
	for _, d := range ds {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// collector accumulates diagnostics for one source.
type collector struct {
	file   string
	format Format
	diags  Diagnostics
}

func (c *collector) add(sev Severity, k Kind, msg string, args ...any) {
	d := Diagnostic{
		File:     c.file,
		Format:   c.format,
		Severity: sev,
		Kind:     k,
		Message:  fmt.Sprintf(msg, args...),
	}
	if sev >= Warning {
		tracer().Infof("%s", d.String())
	} else {
		tracer().Debugf("%s", d.String())
	}
	c.diags = append(c.diags, d)
}
