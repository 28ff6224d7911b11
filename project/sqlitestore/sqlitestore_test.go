package sqlitestore

import (
	"context"
	"testing"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.project")
	defer teardown()
	//
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	//
	c := element.NewWithID("c1", element.Container)
	c.Style.Set("padding", "1rem")
	sel := element.NewWithID("s1", element.Select)
	sel.Props.Set("options", []string{"a", "b"})
	c.AddChild(sel)
	require.NoError(t, s.Save(ctx, "p1", tree.New(c)))
	//
	got, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	t.Logf("tree =\n%s", tree.Dump(got))
	n, ok := tree.Find(got, "s1")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, n.Props.Strings("options"))
	assert.Equal(t, "1rem", got.Roots[0].Style["padding"])
	//
	// saving again replaces the row
	require.NoError(t, s.Save(ctx, "p1", tree.New()))
	got, err = s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	//
	_, err = s.Load(ctx, "p2")
	assert.ErrorIs(t, err, project.ErrNotStored)
}

func TestPersistProject(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagetree.project")
	defer teardown()
	//
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	//
	p := project.New("Site", project.WithPageIDs(element.SequenceGenerator("pg")))
	p.SetLive(tree.New(element.NewWithID("b", element.Button)))
	p.AddPage(project.NewPage("Second", ""))
	require.NoError(t, project.Persist(ctx, p, s))
	ids, err := s.Pages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pg1", "pg2"}, ids)
	//
	p.SetLive(tree.New())
	n, err := project.Restore(ctx, p, s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, p.Live().Count())
	require.NoError(t, s.Delete(ctx, "pg2"))
	ids, _ = s.Pages(ctx)
	assert.Equal(t, []string{"pg1"}, ids)
}
