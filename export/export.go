package export

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/serialize"
	"github.com/npillmayer/pagetree/tree"
)

// ErrNoProject is returned by Build for a nil project or one without pages.
var ErrNoProject = errors.New("nothing to export")

// ErrUnsafePath is returned by WriteDir for a file outside the bundle directory.
var ErrUnsafePath = errors.New("file outside of bundle directory")

// Options control the contents of a bundle.
type Options struct {
	SiteName      string // overrides the project's site name in the manifest
	Sanitize      bool   // render Bundle.Safe
	Markdown      bool   // render Bundle.Markdown
	ExtractStyles bool   // move inline styles into class rules of Bundle.Styles
	EmitIDs       bool   // keep node ids as data-id attributes
	Indent        bool
	Now           func() time.Time // clock for the manifest, nil for time.Now
}

// Bundle is the exported form of a project.
type Bundle struct {
	Document string            // document of the active page
	Pages    map[string]string // route → document
	Files    map[string]string // route → bundle-relative file of the document
	Styles   string
	Script   string
	Manifest Manifest
	Safe     string // sanitized fragment of the active page
	Markdown string // markdown rendition of the active page
}

// Manifest describes an exported project.
type Manifest struct {
	Name       string          `json:"name"`
	Elements   []*element.Node `json:"elements"` // tree of the active page
	Pages      []ManifestPage  `json:"pages"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// ManifestPage is the manifest entry of a page.
type ManifestPage struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Route  string       `json:"route"`
	File   string       `json:"file"`
	Meta   project.Meta `json:"meta"`
	Active bool         `json:"isActive,omitempty"`
}

// Build exports every page of proj. The project is not modified.
func Build(proj *project.Project, opts Options) (*Bundle, error) {
	if proj == nil || len(proj.Pages) == 0 {
		return nil, ErrNoProject
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	name := opts.SiteName
	if name == "" {
		name = proj.SiteName
	}
	b := &Bundle{
		Pages: make(map[string]string, len(proj.Pages)),
		Files: make(map[string]string, len(proj.Pages)),
		Manifest: Manifest{
			Name:       name,
			ExportedAt: now().UTC(),
		},
	}
	sopts := serialize.Options{EmitIDs: opts.EmitIDs, Indent: opts.Indent}
	sheet := NewStyleSheet("")
	if opts.ExtractStyles {
		sopts.Stylesheets = []string{stylesheetHref}
	}
	var script strings.Builder
	var active *project.Page
	used := make(map[string]bool, len(proj.Pages))
	for _, pg := range proj.Pages {
		t, _ := proj.Tree(pg.ID)
		if t == nil {
			t = tree.New()
		}
		if opts.ExtractStyles {
			t = ExtractStyles(t, sheet)
		}
		view := *pg
		view.Elements = t
		doc := serialize.Document(&view, sopts)
		b.Pages[pg.Route] = doc
		b.Files[pg.Route] = uniqueFile(RouteFile(pg.Route), used)
		if pg.Active {
			active = &view
			b.Document = doc
			b.Manifest.Elements = t.Clone().Roots
		}
		b.Manifest.Pages = append(b.Manifest.Pages, ManifestPage{
			ID:     pg.ID,
			Name:   pg.Name,
			Route:  pg.Route,
			File:   b.Files[pg.Route],
			Meta:   pg.Meta,
			Active: pg.Active,
		})
		if pg.Source != "" {
			fmt.Fprintf(&script, "/* %s (%s) */\n%s\n", pg.Name, pg.Route, strings.TrimRight(pg.Source, "\n"))
		}
		tracer().Debugf("exported %s", pg)
	}
	if active == nil {
		return nil, fmt.Errorf("%w: project has no active page", ErrNoProject)
	}
	if b.Manifest.Elements == nil {
		b.Manifest.Elements = []*element.Node{}
	}
	b.Styles = sheet.String()
	b.Script = script.String()
	if opts.Sanitize {
		b.Safe = Sanitize(serialize.Fragment(active.Elements, sopts))
	}
	if opts.Markdown {
		md, err := Markdown(b.Document)
		if err != nil {
			return nil, fmt.Errorf("markdown preview: %w", err)
		}
		b.Markdown = md
	}
	tracer().Infof("exported %d page(s) of %q", len(b.Pages), name)
	return b, nil
}

const stylesheetHref = "styles.css"

// publishPolicy admits user generated content plus embedded images, data
// attributes and the media elements of the palette.
func publishPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()
	p.AllowDataAttributes()
	p.AllowElements("video", "audio", "source")
	p.AllowAttrs("controls").OnElements("video", "audio")
	p.AllowAttrs("src").OnElements("video", "audio", "source")
	p.AllowAttrs("class").Globally()
	return p
}

// Sanitize strips scripting and anything else unsafe to embed from markup.
func Sanitize(markup string) string {
	return publishPolicy().Sanitize(markup)
}

// Markdown converts markup to markdown.
func Markdown(markup string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return conv.ConvertString(markup)
}

// RouteFile is the file of a route's document within the bundle directory:
// "/" → "pages/index.html", "/blog/news" → "pages/blog/news.html". Routes
// are normalized first, therefore the file never leaves "pages/". Different
// routes may share a file ("/" and "/index"); Build resolves such clashes.
func RouteFile(route string) string {
	r := strings.Trim(project.NormalizeRoute(route), "/")
	if r == "" {
		r = "index"
	}
	return path.Join("pages", r+".html")
}

// uniqueFile returns file or, if it is used already, the first free
// numbered variant: "pages/index.html" → "pages/index-2.html".
func uniqueFile(file string, used map[string]bool) string {
	name := file
	base := strings.TrimSuffix(file, ".html")
	for i := 2; used[name]; i++ {
		name = base + "-" + strconv.Itoa(i) + ".html"
	}
	if name != file {
		tracer().Infof("bundle file %s taken, using %s", file, name)
	}
	used[name] = true
	return name
}
