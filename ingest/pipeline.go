package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/tree"
)

// Pipeline detects the format of sources and runs the chain of extractors
// for it. A pipeline holds no state between imports.
type Pipeline struct {
	opts     Options
	custom   []Extractor
	builtins []Extractor
}

// New creates a pipeline with the built-in extractors.
func New(opts Options) *Pipeline {
	opts = opts.normalized()
	return &Pipeline{
		opts: opts,
		builtins: []Extractor{
			structuredExtractor{opts: opts},
			manifestExtractor{opts: opts},
			archiveExtractor{opts: opts},
			componentExtractor{opts: opts},
			markupExtractor{opts: opts},
		},
	}
}

// Options returns the normalized options of the pipeline.
func (pl *Pipeline) Options() Options {
	return pl.opts
}

// Register adds an extractor. Registered extractors are tried before the
// built-in ones, most recently registered first.
func (pl *Pipeline) Register(ex Extractor) {
	if ex != nil {
		pl.custom = append([]Extractor{ex}, pl.custom...)
	}
}

func (pl *Pipeline) chain(f Format) []Extractor {
	var exs []Extractor
	for _, ex := range pl.custom {
		if ex.Accepts(f) {
			exs = append(exs, ex)
		}
	}
	for _, ex := range pl.builtins {
		if ex.Accepts(f) {
			exs = append(exs, ex)
		}
	}
	return exs
}

// Parse converts a source into an extraction without touching any project.
// If no extractor succeeds, the extraction holds a placeholder tree and the
// returned error wraps ErrParseFailure; the extraction is never nil.
func (pl *Pipeline) Parse(ctx context.Context, src Source) (*Extraction, error) {
	f, ambiguous := Detect(src, pl.opts)
	return pl.parse(ctx, src, f, ambiguous)
}

func (pl *Pipeline) parse(ctx context.Context, src Source, f Format, ambiguous bool) (*Extraction, error) {
	src.Format = f
	col := &collector{file: src.Name, format: f}
	if ambiguous {
		col.add(Info, FormatAmbiguity, "format guessed as %s", f)
	}
	var errs []error
	for _, ex := range pl.chain(f) {
		var x *Extraction
		var err error
		switch m := tryParse(ctx, ex, src).Match(); m {
		case m.Ok(&x):
			if x.Tree == nil {
				x.Tree = tree.New()
			}
			x.Diagnostics = append(col.diags, x.Diagnostics...)
			return x, nil
		case m.Err(&err):
			tracer().Debugf("extractor %s failed on %s: %v", ex.Name(), src.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", ex.Name(), err))
		}
		if ctx.Err() != nil {
			break
		}
	}
	err := errors.Join(errs...)
	if err == nil {
		err = parseFailure("no extractor for format %s", f)
	} else if !errors.Is(err, ErrParseFailure) && ctx.Err() == nil {
		err = fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	col.add(Error, ParseFailure, "%s", strings.ReplaceAll(err.Error(), "\n", "; "))
	tracer().Errorf("cannot import %s: %v", src.Name, err)
	x := &Extraction{
		Tree:        placeholder(pl.opts.PlaceholderText, pl.opts.Generator),
		Title:       src.BaseName(),
		Diagnostics: col.diags,
	}
	return x, err
}

// Import parses src and replaces the tree of a page with the result. The
// page's tree is swapped only after the source has been parsed completely.
// Ids colliding with ids anywhere in the project are regenerated.
//
// On failure the page is left untouched; the returned extraction holds a
// placeholder tree the caller may use instead.
func (pl *Pipeline) Import(ctx context.Context, proj *project.Project, pageID string, src Source) (*Extraction, error) {
	pg, ok := proj.Page(pageID)
	if !ok {
		return nil, fmt.Errorf("import %s into %s: %w", src.Name, pageID, project.ErrNoSuchPage)
	}
	x, err := pl.Parse(ctx, src)
	if err != nil {
		return x, err
	}
	if len(x.Pages) > 0 {
		x.Diagnostics = append(x.Diagnostics, Diagnostic{
			File: src.Name, Format: Manifest, Severity: Warning, Kind: Incomplete,
			Message: fmt.Sprintf("manifest describes %d pages, importing the first one only", len(x.Pages)),
		})
	}
	pl.adopt(proj, x, src.Name)
	if err := proj.ReplaceTree(pg.ID, x.Tree); err != nil {
		return x, err
	}
	if x.Source != "" {
		pg.Source = x.Source
	}
	mergeMeta(&pg.Meta, x.Meta)
	tracer().Infof("imported %s into %s", src.Name, pg)
	return x, nil
}

// adopt makes the ids of an extracted tree unique within the project.
func (pl *Pipeline) adopt(proj *project.Project, x *Extraction, file string) {
	if n := tree.Reidentify(x.Tree, proj.IDs(), pl.opts.Generator); n > 0 {
		x.Diagnostics = append(x.Diagnostics, Diagnostic{
			File: file, Severity: Info, Kind: IdentifierCollision,
			Message: fmt.Sprintf("%d id(s) regenerated", n),
		})
	}
}

// --- Batches ---------------------------------------------------------------

// FileReport is the outcome of one file of a batch.
type FileReport struct {
	File        string
	Format      Format
	OK          bool
	Pages       []string // ids of the pages created from the file
	ConsumedBy  string   // file which used this one as a part of its own
	Err         error
	Diagnostics Diagnostics
}

func (fr FileReport) String() string {
	switch {
	case !fr.OK:
		return fmt.Sprintf("%-30s %-20s FAILED  %v", fr.File, fr.Format, fr.Err)
	case fr.ConsumedBy != "":
		return fmt.Sprintf("%-30s %-20s ok      used by %s", fr.File, fr.Format, fr.ConsumedBy)
	}
	return fmt.Sprintf("%-30s %-20s ok      %d page(s)", fr.File, fr.Format, len(fr.Pages))
}

// Report is the outcome of a batch import.
type Report struct {
	Entries []FileReport
	Pages   []*project.Page // pages created, in input order
}

// Failed returns the reports of files which could not be imported.
func (r *Report) Failed() []FileReport {
	var failed []FileReport
	for _, e := range r.Entries {
		if !e.OK {
			failed = append(failed, e)
		}
	}
	return failed
}

// Succeeded counts the files imported successfully.
func (r *Report) Succeeded() int {
	return len(r.Entries) - len(r.Failed())
}

func (r *Report) String() string {
	var b strings.Builder
	for _, e := range r.Entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d file(s), %d failed, %d page(s) created\n",
		len(r.Entries), len(r.Failed()), len(r.Pages))
	return b.String()
}

// batchItem is the state of one file while a batch is imported.
type batchItem struct {
	src       Source
	format    Format
	ambiguous bool
	x         *Extraction
	err       error
	done      bool
}

// ImportBatch imports each source into new pages of proj. Every file is
// processed independently: a file which cannot be parsed is reported and
// creates no page, the other files are imported nevertheless. A manifest
// creates one page per entry. Files used by other files, templates of
// decorated components and entry files of a manifest, create no pages of
// their own.
//
// ImportBatch returns an error only if ctx is cancelled; the pages created
// until then remain in the project.
func (pl *Pipeline) ImportBatch(ctx context.Context, proj *project.Project, sources []Source) (*Report, error) {
	b := newBatch(sources)
	ctx = withBatch(ctx, b)
	items := make([]*batchItem, len(sources))
	for i, src := range sources {
		f, ambiguous := Detect(src, pl.opts)
		items[i] = &batchItem{src: src, format: f, ambiguous: ambiguous}
	}
	parsed := func(it *batchItem) *batchItem {
		if !it.done {
			it.x, it.err = pl.parse(ctx, it.src, it.format, it.ambiguous)
			it.done = true
		}
		return it
	}
	// files referring to other files go first
	for _, it := range items {
		switch it.format {
		case ComponentDecorator:
			parsed(it)
		case Manifest:
			if parsed(it).err == nil {
				pl.resolveEntries(it, items, b, parsed)
			}
		}
	}
	report := &Report{}
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fr := FileReport{File: it.src.Name, Format: it.format}
		by, consumed := b.used[i]
		parsed(it)
		fr.Err, fr.OK = it.err, it.err == nil
		fr.Diagnostics = it.x.Diagnostics
		switch {
		case consumed:
			fr.ConsumedBy = by
		case it.err != nil:
		case len(it.x.Pages) > 0:
			for _, ent := range it.x.Pages {
				pg := pl.addPage(proj, ent.Page, &fr)
				fr.Pages = append(fr.Pages, pg.ID)
				report.Pages = append(report.Pages, pg)
			}
		default:
			pg := project.NewPage(it.x.Title, "")
			if pg.Name == "" {
				pg.Name = it.src.BaseName()
			}
			pg.Elements = it.x.Tree
			pg.Source = it.x.Source
			mergeMeta(&pg.Meta, it.x.Meta)
			pg = pl.addPage(proj, pg, &fr)
			fr.Pages = append(fr.Pages, pg.ID)
			report.Pages = append(report.Pages, pg)
		}
		report.Entries = append(report.Entries, fr)
	}
	tracer().Infof("batch of %d file(s): %d failed, %d page(s) created",
		len(sources), len(report.Failed()), len(report.Pages))
	return report, nil
}

// resolveEntries fills the pages of a manifest with the trees of their entry
// files, if these are part of the batch.
func (pl *Pipeline) resolveEntries(it *batchItem, items []*batchItem, b *batch, parsed func(*batchItem) *batchItem) {
	for _, ent := range it.x.Pages {
		if ent.File == "" {
			continue
		}
		j, ok := b.lookup(ent.File)
		if !ok || items[j] == it {
			it.x.Diagnostics = append(it.x.Diagnostics, Diagnostic{
				File: it.src.Name, Format: Manifest, Severity: Info, Kind: Incomplete,
				Message: fmt.Sprintf("entry file %s is not part of the import, page %q gets default content",
					ent.File, ent.Page.Name),
			})
			continue
		}
		b.used[j] = it.src.Name
		entry := parsed(items[j])
		if entry.err != nil {
			continue // reported with the entry file
		}
		ent.Page.Elements = entry.x.Tree.Clone()
		if entry.x.Source != "" {
			ent.Page.Source = entry.x.Source
		}
		if ent.Page.Meta.Description == "" {
			ent.Page.Meta.Description = entry.x.Meta.Description
		}
	}
}

func (pl *Pipeline) addPage(proj *project.Project, pg *project.Page, fr *FileReport) *project.Page {
	if n := tree.Reidentify(pg.Elements, proj.IDs(), pl.opts.Generator); n > 0 {
		fr.Diagnostics = append(fr.Diagnostics, Diagnostic{
			File: fr.File, Format: fr.Format, Severity: Info, Kind: IdentifierCollision,
			Message: fmt.Sprintf("%d id(s) of page %q regenerated", n, pg.Name),
		})
	}
	return proj.AddPage(pg)
}
