package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/pagetree/ingest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.config")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "pagectl.toml")
	content := `
[ingest]
max_style_rules = 50
default_format = "structured"

[export]
site_name = "Demo"
markdown = true
extract_styles = false

[ids]
prefix = "n"
sequence = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Ingest.MaxStyleRules != 50 {
		t.Errorf("unexpected max style rules: %d", cfg.Ingest.MaxStyleRules)
	}
	if cfg.Ingest.ArchiveSizeThreshold != 512*1024 {
		t.Errorf("expected default archive threshold, have %d", cfg.Ingest.ArchiveSizeThreshold)
	}
	opts := cfg.IngestOptions(cfg.Generator())
	if opts.DefaultFormat != ingest.Structured {
		t.Errorf("unexpected default format: %v", opts.DefaultFormat)
	}
	if id := opts.Generator(); id != "n1" {
		t.Errorf("expected sequence id n1, have %q", id)
	}
	x := cfg.ExportOptions()
	if x.SiteName != "Demo" || !x.Markdown || x.ExtractStyles || !x.Sanitize {
		t.Errorf("unexpected export options: %+v", x)
	}
}

func TestDefaultGeneratesUUIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.config")
	defer teardown()
	//
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	gen := cfg.Generator()
	a, b := gen(), gen()
	if !strings.HasPrefix(a, "el_") || len(a) != len("el_")+36 {
		t.Errorf("unexpected id %q", a)
	}
	if a == b {
		t.Errorf("expected distinct ids, have %q twice", a)
	}
}

func TestInvalidConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.config")
	defer teardown()
	//
	for i, input := range []string{
		"[ingest]\nmax_style_rules = 0\n",
		"[ingest]\ndefault_format = \"pdf\"\n",
		"[ids]\nprefix = \"a b\"\n",
		"[export]\ncolour = \"blue\"\n",
	} {
		_, err := Read(strings.NewReader(input))
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("test %d: expected invalid configuration, have %v", i, err)
		}
	}
	if _, err := Read(strings.NewReader("[ingest\n")); err == nil {
		t.Errorf("expected syntax error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
