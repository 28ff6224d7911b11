package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleProject() *project.Project {
	p := project.New("Demo", project.WithPageIDs(element.SequenceGenerator("page")))
	h := element.NewWithID("h", element.Heading)
	h.Props.Set("content", "Welcome")
	h.Props.Set("level", 1)
	txt := element.NewWithID("t", element.Text)
	txt.Props.Set("content", "Hello")
	txt.Style.Set("color", "red")
	frame := element.NewWithID("f", element.Frame)
	frame.Props.Set("src", "https://example.com/widget")
	p.SetLive(tree.New(h, txt, frame))
	about := project.NewPage("About", "/about")
	note := element.NewWithID("a", element.Text)
	note.Props.Set("content", "About us")
	note.Style.Set("color", "red")
	about.Elements = tree.New(note)
	about.Source = "export default function About() {\n  return <p>About us</p>;\n}\n"
	p.AddPage(about)
	return p
}

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.export")
	defer teardown()
	//
	p := sampleProject()
	b, err := Build(p, Options{
		Sanitize: true,
		Markdown: true,
		Now:      func() time.Time { return exportedAt },
	})
	require.NoError(t, err)
	require.Len(t, b.Pages, 2)
	assert.Equal(t, b.Pages["/"], b.Document, "active page is the main document")
	assert.Contains(t, b.Document, `<p style="color: red">Hello</p>`)
	assert.Contains(t, b.Pages["/about"], "<title>About</title>")
	assert.Empty(t, b.Styles)
	assert.Contains(t, b.Script, "/* About (/about) */\nexport default function About()")
	// manifest
	m := b.Manifest
	assert.Equal(t, "Demo", m.Name)
	assert.Equal(t, exportedAt, m.ExportedAt)
	assert.Len(t, m.Elements, 3)
	require.Len(t, m.Pages, 2)
	assert.Equal(t, "pages/index.html", m.Pages[0].File)
	assert.True(t, m.Pages[0].Active)
	assert.Equal(t, "pages/about.html", m.Pages[1].File)
	// derived renditions
	t.Logf("safe = %s", b.Safe)
	assert.Contains(t, b.Safe, "Hello")
	assert.NotContains(t, b.Safe, "<iframe")
	t.Logf("markdown =\n%s", b.Markdown)
	assert.Contains(t, b.Markdown, "# Welcome")
	assert.Contains(t, b.Markdown, "Hello")
}

func TestBuildExtractsStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.export")
	defer teardown()
	//
	p := sampleProject()
	b, err := Build(p, Options{ExtractStyles: true, SiteName: "Renamed"})
	require.NoError(t, err)
	t.Logf("styles =\n%s", b.Styles)
	assert.Equal(t, 1, strings.Count(b.Styles, "{"), "identical styles share a rule")
	assert.Contains(t, b.Styles, ".pb-s1 {")
	assert.Contains(t, b.Styles, "color: red;")
	assert.Contains(t, b.Document, `<link rel="stylesheet" href="styles.css"/>`)
	assert.Contains(t, b.Document, `<p class="pb-s1">Hello</p>`)
	assert.Contains(t, b.Pages["/about"], `<p class="pb-s1">About us</p>`)
	assert.Equal(t, "Renamed", b.Manifest.Name)
	// the project keeps its inline styles
	n, ok := tree.Find(p.Live(), "t")
	require.True(t, ok)
	assert.Equal(t, "red", n.Style["color"])
	assert.Empty(t, n.Props.String("class"))
}

func TestStyleSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.export")
	defer teardown()
	//
	s := NewStyleSheet("x")
	c1 := s.Class(element.Style{"margin": "0", "color": "blue !important"})
	c2 := s.Class(element.Style{"padding": "4px"})
	c3 := s.Class(element.Style{"color": "blue !important", "margin": "0"})
	assert.Equal(t, "", s.Class(element.Style{}))
	assert.Equal(t, "x1", c1)
	assert.Equal(t, "x2", c2)
	assert.Equal(t, c1, c3)
	assert.Equal(t, 2, s.Len())
	assert.Contains(t, s.String(), "color: blue !important;")
	//
	n := element.NewWithID("n", element.Button)
	n.Props.Set("class", "primary")
	n.Style.Set("padding", "4px")
	out := ExtractStyles(tree.New(n), s)
	assert.Equal(t, "primary x2", out.Roots[0].Props.String("class"))
	assert.Empty(t, out.Roots[0].Style)
	assert.Equal(t, "4px", n.Style["padding"], "input tree untouched")
}

func TestWriteDir(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.export")
	defer teardown()
	//
	b, err := Build(sampleProject(), Options{Now: func() time.Time { return exportedAt }})
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, WriteDir(b, dir))
	for _, name := range Files(b) {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		assert.NoError(t, err, "file %s", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "Demo", m["name"])
	assert.Equal(t, "2024-03-01T12:00:00Z", m["exportedAt"])
	assert.Len(t, m["pages"], 2)
	_, err = Build(nil, Options{})
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestRouteFilesStayDistinctAndInside(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.export")
	defer teardown()
	//
	p := sampleProject()
	index := p.AddPage(project.NewPage("Index", ""))
	evil := p.AddPage(project.NewPage("Evil", "/../../escaped"))
	require.Equal(t, "/index", index.Route)
	b, err := Build(p, Options{Now: func() time.Time { return exportedAt }})
	require.NoError(t, err)
	assert.Equal(t, "pages/index.html", b.Files["/"])
	assert.Equal(t, "pages/index-2.html", b.Files["/index"], "clashing file gets a suffix")
	assert.Equal(t, "pages/escaped.html", b.Files[evil.Route])
	for _, mp := range b.Manifest.Pages {
		assert.Equal(t, b.Files[mp.Route], mp.File, "manifest file of %s", mp.Name)
	}
	root := t.TempDir()
	dir := filepath.Join(root, "bundle")
	require.NoError(t, WriteDir(b, dir))
	home, err := os.ReadFile(filepath.Join(dir, "pages", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), "<title>Home</title>")
	other, err := os.ReadFile(filepath.Join(dir, "pages", "index-2.html"))
	require.NoError(t, err)
	assert.Contains(t, string(other), "<title>Index</title>")
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing written beside the bundle directory")
	// hand-made bundles are checked as well
	b.Files["/about"] = "../outside.html"
	assert.ErrorIs(t, WriteDir(b, dir), ErrUnsafePath)
	assert.Equal(t, "pages/x.html", RouteFile("/../x"))
}
