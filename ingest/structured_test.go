package ingest

import (
	"context"
	"testing"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structuredInput = `{"title": "Imported", "elements": [
  {"id": "a", "type": "heading", "props": {"content": "Hi", "level": 1}},
  {"id": "a", "type": "image", "props": {"alt": "x"}, "style": {"width": "50%"}},
  {"props": {"content": "no type"}},
  {"type": "fancy-widget", "children": [
    {"type": "select", "props": {"options": ["one", "two"]}}
  ]}
]}`

func TestStructuredInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	opts := DefaultOptions()
	opts.Generator = element.SequenceGenerator("s")
	ex := structuredExtractor{opts: opts.normalized()}
	x, err := ex.TryParse(context.Background(), Source{Name: "page.json", Content: []byte(structuredInput)}).Get()
	require.NoError(t, err)
	t.Logf("\n%s", tree.Dump(x.Tree))
	assert.Equal(t, "Imported", x.Title)
	require.Equal(t, 3, x.Tree.Len())
	r := x.Tree.Roots
	assert.Equal(t, "a", r[0].ID)
	assert.Equal(t, 1, r[0].Props["level"], "integral numbers become int")
	assert.Equal(t, "s1", r[1].ID, "duplicate id is regenerated")
	assert.Equal(t, "50%", r[1].Style["width"])
	assert.Equal(t, element.CustomType("fancy-widget"), r[2].Type)
	assert.Equal(t, "fancy-widget", r[2].Props.String("component"))
	assert.Equal(t, "s2", r[2].ID)
	require.Len(t, r[2].Children, 1)
	assert.Equal(t, []string{"one", "two"}, r[2].Children[0].Props["options"])
	assert.Equal(t, "s3", r[2].Children[0].ID)
	require.NoError(t, tree.Validate(x.Tree))
	// missing src on the image, missing type, unknown type
	assert.Len(t, x.Diagnostics, 3)
	assert.Equal(t, Warning, x.Diagnostics.Max())
}

func TestStructuredShapes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := structuredExtractor{opts: testOptions()}
	for i, c := range []struct {
		input string
		roots int
		ok    bool
	}{
		{`[{"type":"text"},{"type":"divider"}]`, 2, true},
		{`{"type":"container","children":[{"type":"button"}]}`, 1, true},
		{`{"elements":[]}`, 0, false},
		{`[{"type":"text"}`, 0, false},
		{`"just a string"`, 0, false},
		{`[{"props":{}}]`, 0, false},
	} {
		x, err := ex.TryParse(context.Background(), Source{Name: "x.json", Content: []byte(c.input)}).Get()
		if !c.ok {
			if !assert.ErrorIs(t, err, ErrParseFailure, "test %d", i) {
				t.Logf("have %v", x)
			}
			continue
		}
		if assert.NoError(t, err, "test %d", i) {
			assert.Equal(t, c.roots, x.Tree.Len(), "test %d", i)
		}
	}
}
