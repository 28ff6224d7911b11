// Command pagectl imports files into a new project and exports it.
//
//	pagectl -config pagectl.toml -site "My Site" -out dist index.html about.json Hero.jsx
//
// Every file becomes a page (manifest files possibly several); files a
// manifest or component refers to are consumed by it. The per-file report
// goes to stdout. With -db the page trees are also stored in a SQLite file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/npillmayer/pagetree/config"
	"github.com/npillmayer/pagetree/export"
	"github.com/npillmayer/pagetree/ingest"
	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/project/sqlitestore"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

func main() {
	cfgPath := flag.String("config", "", "configuration file (TOML)")
	site := flag.String("site", "", "site name, overrides the configuration")
	out := flag.String("out", "", "output directory for the export bundle")
	db := flag.String("db", "", "SQLite file to store the page trees in")
	verbose := flag.Bool("v", false, "trace progress to stderr")
	flag.Parse()

	level := tracing.LevelError
	if *verbose {
		level = tracing.LevelInfo
	}
	tracing.SetTraceSelector(levelSelector{level: level})

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: pagectl [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, *cfgPath, *site, *out, *db, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "pagectl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, site, out, db string, files []string) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if site != "" {
		cfg.Export.SiteName = site
	}
	name := cfg.Export.SiteName
	if name == "" {
		name = "Site"
	}
	sources, err := readSources(ctx, files)
	if err != nil {
		return err
	}
	gen := cfg.Generator()
	proj := project.New(name)
	pipeline := ingest.New(cfg.IngestOptions(gen))
	report, err := pipeline.ImportBatch(ctx, proj, sources)
	if err != nil {
		return err
	}
	fmt.Print(report)
	dropEmptyHome(proj, report)
	if db != "" {
		store, err := sqlitestore.Open(db)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := project.Persist(ctx, proj, store); err != nil {
			return err
		}
		fmt.Printf("stored %d page(s) in %s\n", len(proj.Pages), db)
	}
	if out == "" {
		return nil
	}
	bundle, err := export.Build(proj, cfg.ExportOptions())
	if err != nil {
		return err
	}
	if err := export.WriteDir(bundle, out); err != nil {
		return err
	}
	fmt.Printf("wrote %d file(s) to %s\n", len(export.Files(bundle)), out)
	return nil
}

func readSources(ctx context.Context, files []string) ([]ingest.Source, error) {
	sources := make([]ingest.Source, 0, len(files))
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		src, err := ingest.SourceFromReader(ctx, filepath.ToSlash(name), f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// dropEmptyHome removes the untouched default page of a fresh project once
// the import has produced pages of its own.
func dropEmptyHome(proj *project.Project, report *ingest.Report) {
	if len(report.Pages) == 0 || len(proj.Pages) < 2 {
		return
	}
	home := proj.Pages[0]
	if t, _ := proj.Tree(home.ID); t != nil && !t.IsEmpty() {
		return
	}
	if err := proj.RemovePage(home.ID); err != nil {
		return
	}
	if report.Pages[0].Route != "/" {
		if _, err := proj.SetRoute(report.Pages[0].ID, "/"); err != nil {
			fmt.Fprintf(os.Stderr, "pagectl: %v\n", err)
		}
	}
}

// levelSelector hands out Go-logger tracers with a common trace level.
type levelSelector struct {
	level tracing.TraceLevel
}

func (s levelSelector) Select(key string) tracing.Trace {
	t := gologadapter.New()
	t.SetTraceLevel(s.level)
	return t
}
