package ingest

import (
	"context"
	"testing"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteManifest = `name: Demo
structure:
  pages:
    - name: Home
      file: index.html
      route: /
    - name: About
      file: about.html
      route: /about
      title: About
  components:
    - name: Contact
      file: Contact.jsx
routes:
  - path: /about
    component: About
    meta:
      title: About Us
      description: Who we are
  - path: /contact
    component: Contact
  - path: /blog/latest-news
`

func TestManifestExpansion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := manifestExtractor{opts: testOptions()}
	x, err := ex.TryParse(context.Background(), Source{Name: "site.yaml", Content: []byte(siteManifest)}).Get()
	require.NoError(t, err)
	assert.Equal(t, "Demo", x.Title)
	require.Len(t, x.Pages, 4)
	for i, c := range []struct {
		name, route, title, file string
	}{
		{"Home", "/", "Home", "index.html"},
		{"About", "/about", "About Us", "about.html"},
		{"Contact", "/contact", "Contact", "Contact.jsx"},
		{"Latest News", "/blog/latest-news", "Latest News", ""},
	} {
		pg := x.Pages[i].Page
		assert.Equal(t, c.name, pg.Name, "page %d", i)
		assert.Equal(t, c.route, pg.Route, "page %d", i)
		assert.Equal(t, c.title, pg.Meta.Title, "page %d", i)
		assert.Equal(t, c.file, x.Pages[i].File, "page %d", i)
		require.Equal(t, 2, pg.Elements.Len(), "default content for page %d", i)
		assert.Equal(t, element.Heading, pg.Elements.Roots[0].Type)
		assert.Equal(t, c.name, pg.Elements.Roots[0].Props.String("content"))
		assert.Equal(t, element.Container, pg.Elements.Roots[1].Type)
	}
	assert.Equal(t, "Who we are", x.Pages[1].Page.Meta.Description)
}

func TestJSONManifest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	manifest := `{"structure": {"views": [{"file": "pricing-table.vue"}]}, ` +
		`"routes": [{"path": "/pricing", "component": "PricingTable", "meta": {"keywords": ["a", "b"]}}]}`
	ex := manifestExtractor{opts: testOptions()}
	x, err := ex.TryParse(context.Background(), Source{Name: "site.json", Content: []byte(manifest)}).Get()
	require.NoError(t, err)
	require.Len(t, x.Pages, 1)
	pg := x.Pages[0].Page
	assert.Equal(t, "PricingTable", pg.Name)
	assert.Equal(t, "/pricing", pg.Route)
	assert.Equal(t, []string{"a", "b"}, pg.Meta.Keywords)
}

func TestBrokenManifest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := manifestExtractor{opts: testOptions()}
	for _, input := range []string{
		"structure: [unclosed",
		"structure:\n  pages: 42\n",
		"name: nothing here\n",
	} {
		_, err := ex.TryParse(context.Background(), Source{Name: "m.yaml", Content: []byte(input)}).Get()
		assert.ErrorIs(t, err, ErrParseFailure, "input %q", input)
	}
}
