/*
Package config reads the settings of the page tools from TOML.

A configuration file overlays the defaults; keys not present keep their
default value:

	[ingest]
	archive_size_threshold = 524288   # bytes
	max_style_rules = 400
	placeholder_text = "Imported content could not be displayed"
	default_format = "markup"

	[export]
	site_name = "My Site"
	sanitize = true
	markdown = false
	extract_styles = true
	emit_ids = false

	[ids]
	prefix = "el_"
	sequence = false   # numbered ids instead of UUIDs

Unknown keys are an error.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/export"
	"github.com/npillmayer/pagetree/ingest"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagetree.config'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.config")
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all settings.
type Config struct {
	Ingest Ingest `toml:"ingest"`
	Export Export `toml:"export"`
	IDs    IDs    `toml:"ids"`
}

// Ingest configures the import pipeline.
type Ingest struct {
	ArchiveSizeThreshold int64  `toml:"archive_size_threshold"`
	MaxStyleRules        int    `toml:"max_style_rules"`
	PlaceholderText      string `toml:"placeholder_text"`
	DefaultFormat        string `toml:"default_format"`
}

// Export configures bundles.
type Export struct {
	SiteName      string `toml:"site_name"`
	Sanitize      bool   `toml:"sanitize"`
	Markdown      bool   `toml:"markdown"`
	ExtractStyles bool   `toml:"extract_styles"`
	EmitIDs       bool   `toml:"emit_ids"`
}

// IDs configures element id generation.
type IDs struct {
	Prefix   string `toml:"prefix"`
	Sequence bool   `toml:"sequence"`
}

// Default returns the built-in configuration.
func Default() Config {
	d := ingest.DefaultOptions()
	return Config{
		Ingest: Ingest{
			ArchiveSizeThreshold: d.ArchiveSizeThreshold,
			MaxStyleRules:        d.MaxStyleRules,
			PlaceholderText:      d.PlaceholderText,
			DefaultFormat:        d.DefaultFormat.String(),
		},
		Export: Export{
			Sanitize:      true,
			ExtractStyles: true,
		},
		IDs: IDs{Prefix: "el_"},
	}
}

// Load reads a configuration file over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return finish(cfg, meta, path)
}

// Read is Load for configuration text from r.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	meta, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return finish(cfg, meta, "<reader>")
}

func finish(cfg Config, meta toml.MetaData, source string) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, source, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	tracer().Debugf("configuration loaded from %s", source)
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Ingest.ArchiveSizeThreshold <= 0 {
		errs = append(errs, fmt.Errorf("%w: ingest.archive_size_threshold must be positive", ErrInvalid))
	}
	if c.Ingest.MaxStyleRules <= 0 {
		errs = append(errs, fmt.Errorf("%w: ingest.max_style_rules must be positive", ErrInvalid))
	}
	if f := c.Ingest.DefaultFormat; f != "" && ingest.ParseFormat(f) == ingest.Unknown {
		errs = append(errs, fmt.Errorf("%w: ingest.default_format %q is not a format", ErrInvalid, f))
	}
	if strings.ContainsAny(c.IDs.Prefix, " \t\n\"'<>") {
		errs = append(errs, fmt.Errorf("%w: ids.prefix %q contains characters unfit for ids", ErrInvalid, c.IDs.Prefix))
	}
	return errors.Join(errs...)
}

// Generator returns the element id generator.
func (c Config) Generator() element.Generator {
	if c.IDs.Sequence {
		return element.SequenceGenerator(c.IDs.Prefix)
	}
	return element.UUIDGenerator(c.IDs.Prefix)
}

// IngestOptions returns the options of the import pipeline, using gen for
// element ids.
func (c Config) IngestOptions(gen element.Generator) ingest.Options {
	return ingest.Options{
		ArchiveSizeThreshold: c.Ingest.ArchiveSizeThreshold,
		MaxStyleRules:        c.Ingest.MaxStyleRules,
		PlaceholderText:      c.Ingest.PlaceholderText,
		DefaultFormat:        ingest.ParseFormat(c.Ingest.DefaultFormat),
		Generator:            gen,
	}
}

// ExportOptions returns the options for bundles.
func (c Config) ExportOptions() export.Options {
	return export.Options{
		SiteName:      c.Export.SiteName,
		Sanitize:      c.Export.Sanitize,
		Markdown:      c.Export.Markdown,
		ExtractStyles: c.Export.ExtractStyles,
		EmitIDs:       c.Export.EmitIDs,
	}
}
