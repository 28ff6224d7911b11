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

func testOptions() Options {
	opts := DefaultOptions()
	opts.Generator = element.SequenceGenerator("n")
	return opts.normalized()
}

const startPage = `<!DOCTYPE html>
<html><head><title>Start</title>
<meta name="description" content="A page">
<meta name="keywords" content="alpha, beta">
<style>
p { color: red; margin: 0; }
.lead { color: blue; font-size: 18px; }
#intro { color: green !important; }
</style></head>
<body>
<h1>Welcome</h1>
<p class="lead" id="intro" style="color: black; font-size: 20px">Hello <strong>world</strong></p>
<div data-block="card"><img src="a.png" alt="A"></div>
<label><input type="checkbox" name="ok" checked>Agree</label>
<i class="fa fa-star"></i>
<pb-component data-component="Hero" data-image-size="large"></pb-component>
<script>alert(1)</script>
</body></html>`

func TestMarkupMapping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := markupExtractor{opts: testOptions()}
	x, err := ex.TryParse(context.Background(), Source{Name: "start.html", Content: []byte(startPage)}).Get()
	require.NoError(t, err)
	t.Logf("\n%s", tree.Dump(x.Tree))
	assert.Equal(t, "Start", x.Title)
	assert.Equal(t, "A page", x.Meta.Description)
	assert.Equal(t, []string{"alpha", "beta"}, x.Meta.Keywords)
	require.Equal(t, 6, x.Tree.Len())
	r := x.Tree.Roots
	assert.Equal(t, element.Heading, r[0].Type)
	assert.Equal(t, 1, r[0].Props.Int("level", 0))
	assert.Equal(t, "Welcome", r[0].Props.String("content"))
	//
	assert.Equal(t, element.Text, r[1].Type)
	assert.Equal(t, "Hello world", r[1].Props.String("content"))
	assert.Equal(t, "lead", r[1].Props.String("class"))
	assert.Equal(t, "intro", r[1].Props.String("anchor"))
	assert.Equal(t, "black", r[1].Style["color"], "inline style beats important sheet value")
	assert.Equal(t, "20px", r[1].Style["font-size"], "inline style beats sheet value")
	assert.Equal(t, "0", r[1].Style["margin"])
	//
	assert.Equal(t, element.Card, r[2].Type)
	require.Len(t, r[2].Children, 1)
	assert.Equal(t, element.Image, r[2].Children[0].Type)
	assert.Equal(t, "a.png", r[2].Children[0].Props.String("src"))
	//
	assert.Equal(t, element.Checkbox, r[3].Type)
	assert.Equal(t, "Agree", r[3].Props.String("label"))
	assert.Equal(t, "ok", r[3].Props.String("name"))
	assert.True(t, r[3].Props.Bool("checked"))
	//
	assert.Equal(t, element.Icon, r[4].Type)
	assert.Equal(t, "star", r[4].Props.String("icon"))
	assert.False(t, r[4].Props.Has("class"))
	//
	assert.Equal(t, element.CustomType("Hero"), r[5].Type)
	assert.Equal(t, "Hero", r[5].Props.String("component"))
	assert.Equal(t, "large", r[5].Props.String("imageSize"))
	require.NoError(t, tree.Validate(x.Tree))
}

func TestMarkupWithoutContentFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := markupExtractor{opts: testOptions()}
	_, err := ex.TryParse(context.Background(), Source{Name: "empty.html",
		Content: []byte("<html><head><script>x()</script></head><body>  </body></html>")}).Get()
	assert.ErrorIs(t, err, ErrParseFailure)
	_, err = ex.TryParse(context.Background(), Source{Name: "binary.html",
		Content: []byte{0xff, 0xfe, 0x00, 0x41}}).Get()
	assert.ErrorIs(t, err, ErrParseFailure)
}

func TestMarkupTextNormalization(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	ex := markupExtractor{opts: testOptions()}
	x, err := ex.TryParse(context.Background(), Source{Name: "t.html", Content: []byte(
		"<p>two  spaces kept</p><p>\n   source\n   formatted\n</p><ul><li>one</li><li>two</li></ul>")}).Get()
	require.NoError(t, err)
	require.Equal(t, 3, x.Tree.Len())
	assert.Equal(t, "two  spaces kept", x.Tree.Roots[0].Props.String("content"))
	assert.Equal(t, "source formatted", x.Tree.Roots[1].Props.String("content"))
	list := x.Tree.Roots[2]
	assert.Equal(t, element.Container, list.Type)
	require.Len(t, list.Children, 2)
	assert.Equal(t, "two", list.Children[1].Props.String("content"))
}

func TestTooManyStyleRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.ingest")
	defer teardown()
	//
	opts := testOptions()
	opts.MaxStyleRules = 1
	ex := markupExtractor{opts: opts}
	x, err := ex.TryParse(context.Background(), Source{Name: "s.html", Content: []byte(
		"<style>p { color: red } h1 { color: blue }</style><p>text</p>")}).Get()
	require.NoError(t, err)
	assert.Empty(t, x.Tree.Roots[0].Style)
	assert.Equal(t, Warning, x.Diagnostics.Max())
}
