package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/ingest"
	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/result"
	"github.com/npillmayer/pagetree/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(prefix string) *ingest.Pipeline {
	opts := ingest.DefaultOptions()
	opts.Generator = element.SequenceGenerator(prefix)
	return ingest.New(opts)
}

func newProject() *project.Project {
	return project.New("Test", project.WithPageIDs(element.SequenceGenerator("page")))
}

func TestImportSwapsTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	p := newProject()
	home := p.Active()
	pl := newPipeline("i")
	x, err := pl.Import(context.Background(), p, home.ID, ingest.Source{
		Name:    "hello.html",
		Content: []byte("<html><head><title>Hello</title></head><body><h1>Hello</h1><p>World</p></body></html>"),
	})
	require.NoError(t, err)
	assert.Same(t, x.Tree, p.Live(), "imported tree is the live tree of the active page")
	assert.Equal(t, 2, p.Live().Len())
	assert.Equal(t, "Hello", home.Meta.Title)
}

func TestFailedImportLeavesPageUntouched(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	p := newProject()
	home := p.Active()
	before := tree.New(element.NewWithID("keep", element.Text))
	p.SetLive(before)
	pl := newPipeline("i")
	x, err := pl.Import(context.Background(), p, home.ID, ingest.Source{
		Name: "broken.json", Content: []byte(`{"type": `),
	})
	require.ErrorIs(t, err, ingest.ErrParseFailure)
	assert.Same(t, before, p.Live())
	require.NotNil(t, x)
	require.Equal(t, 1, x.Tree.Len())
	assert.Equal(t, "import-placeholder", x.Tree.Roots[0].Props.String("role"))
	assert.True(t, x.Diagnostics.Has(ingest.ParseFailure))
	//
	_, err = pl.Import(context.Background(), p, "no-such-page", ingest.Source{Name: "x.html"})
	assert.ErrorIs(t, err, project.ErrNoSuchPage)
}

func TestImportRegeneratesCollidingIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	p := newProject()
	p.SetLive(tree.New(element.NewWithID("x1", element.Text)))
	other := p.AddPage(project.NewPage("Other", "/other"))
	pl := newPipeline("i")
	x, err := pl.Import(context.Background(), p, other.ID, ingest.Source{
		Name: "t.json", Content: []byte(`[{"id":"x1","type":"text"},{"id":"x2","type":"text"}]`),
	})
	require.NoError(t, err)
	ot, _ := p.Tree(other.ID)
	assert.NotEqual(t, "x1", ot.Roots[0].ID)
	assert.Equal(t, "x2", ot.Roots[1].ID)
	assert.True(t, x.Diagnostics.Has(ingest.IdentifierCollision))
	_, found := tree.Find(p.Live(), "x1")
	assert.True(t, found)
}

func TestBatchResilience(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	p := newProject()
	sources := []ingest.Source{
		{Name: "a.html", Content: []byte("<h1>A</h1>")},
		{Name: "b.json", Content: []byte(`[{"type":"button","props":{"content":"B"}}]`)},
		{Name: "broken.json", Content: []byte(`[{"type": "text"`)},
		{Name: "Card.jsx", Content: []byte("export default function Card() {\n  return (<div className=\"card\">C</div>);\n}\n")},
	}
	report, err := newPipeline("b").ImportBatch(context.Background(), p, sources)
	require.NoError(t, err)
	t.Logf("\n%s", report)
	require.Len(t, report.Entries, 4)
	assert.Len(t, report.Pages, 3)
	assert.Equal(t, 3, report.Succeeded())
	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "broken.json", failed[0].File)
	assert.ErrorIs(t, failed[0].Err, ingest.ErrParseFailure)
	assert.Empty(t, failed[0].Pages)
	assert.Len(t, p.Pages, 4, "default page plus three imported pages")
	card := report.Pages[2]
	assert.Equal(t, "Card", card.Name)
	assert.Equal(t, string(sources[3].Content), card.Source)
	ids := map[string]bool{}
	for _, pg := range p.Pages {
		pt, _ := p.Tree(pg.ID)
		for id := range pt.IDs() {
			require.False(t, ids[id], "id %s is unique across the project", id)
			ids[id] = true
		}
	}
}

func TestBatchWithManifestAndTemplateFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	p := newProject()
	sources := []ingest.Source{
		{Name: "index.html", Content: []byte("<h1>Welcome</h1><p>Hi</p><p>there</p>")},
		{Name: "site.yaml", Content: []byte("structure:\n  pages:\n    - { name: Start, file: index.html, route: /start }\n    - { name: Team, route: /team }\n")},
		{Name: "app/detail.component.ts", Content: []byte(
			"@Component({\n  selector: 'app-detail',\n  templateUrl: './detail.component.html'\n})\nexport class DetailComponent {}\n")},
		{Name: "app/detail.component.html", Content: []byte("<h3>Detail</h3>")},
	}
	report, err := newPipeline("m").ImportBatch(context.Background(), p, sources)
	require.NoError(t, err)
	t.Logf("\n%s", report)
	require.Len(t, report.Entries, 4)
	assert.Empty(t, report.Failed())
	assert.Equal(t, "site.yaml", report.Entries[0].ConsumedBy)
	assert.Equal(t, "app/detail.component.ts", report.Entries[3].ConsumedBy)
	require.Len(t, report.Pages, 3)
	start, team, detail := report.Pages[0], report.Pages[1], report.Pages[2]
	assert.Equal(t, "/start", start.Route)
	assert.Equal(t, 3, start.Elements.Len(), "entry file supplies the tree")
	assert.Equal(t, 2, team.Elements.Len(), "default heading plus container")
	assert.Equal(t, "DetailComponent", detail.Name)
	require.Equal(t, 1, detail.Elements.Len())
	assert.Equal(t, "Detail", detail.Elements.Roots[0].Props.String("content"))
}

type failingExtractor struct{}

func (failingExtractor) Name() string { return "failing" }

func (failingExtractor) Accepts(f ingest.Format) bool { return f == ingest.Markup }

func (failingExtractor) TryParse(ctx context.Context, src ingest.Source) result.Result[*ingest.Extraction] {
	if len(src.Content) > 0 && src.Content[0] == '!' {
		panic("cannot cope")
	}
	return result.Err[*ingest.Extraction](errors.New("not my business"))
}

func TestRegisteredExtractorsComeFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	pl := newPipeline("r")
	pl.Register(failingExtractor{})
	x, err := pl.Parse(context.Background(), ingest.Source{Name: "x.html", Content: []byte("<p>ok</p>")})
	require.NoError(t, err, "built-in extractor takes over")
	assert.Equal(t, 1, x.Tree.Len())
	x, err = pl.Parse(context.Background(), ingest.Source{Name: "x.html", Content: []byte("!<p>ok</p>")})
	require.NoError(t, err, "a panicking extractor does not stop the chain")
	assert.Equal(t, 2, x.Tree.Len())
}
