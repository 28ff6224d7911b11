package ingest

import (
	"context"
	"fmt"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/result"
	"github.com/npillmayer/pagetree/tree"
)

// Extraction is what an extractor makes of a source.
type Extraction struct {
	Tree        *tree.Tree
	Title       string
	Meta        project.Meta
	Source      string     // verbatim text of a component source
	Pages       []PageSpec // pages described by a manifest
	Diagnostics Diagnostics
}

// PageSpec is a page described by a manifest. File names the source file
// supplying the page's tree, if any.
type PageSpec struct {
	Page *project.Page
	File string
}

// Extractor is one step in the chain of parsers for a format.
type Extractor interface {
	Name() string
	Accepts(Format) bool
	TryParse(ctx context.Context, src Source) result.Result[*Extraction]
}

// tryParse runs an extractor, converting a panic into an error.
func tryParse(ctx context.Context, ex Extractor, src Source) (r result.Result[*Extraction]) {
	defer func() {
		if p := recover(); p != nil {
			tracer().Errorf("extractor %s panicked on %s: %v", ex.Name(), src.Name, p)
			r = result.Err[*Extraction](fmt.Errorf("%s: internal error: %v: %w", ex.Name(), p, ErrParseFailure))
		}
	}()
	tracer().Debugf("trying extractor %s on %s", ex.Name(), src.Name)
	r = ex.TryParse(ctx, src)
	if r == nil {
		r = result.Err[*Extraction](fmt.Errorf("%s: no result: %w", ex.Name(), ErrParseFailure))
	}
	return r
}

// parseFailure creates an error wrapping ErrParseFailure.
func parseFailure(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrParseFailure)
}

// failf creates an Err result wrapping ErrParseFailure.
func failf(format string, args ...any) result.Result[*Extraction] {
	return result.Err[*Extraction](parseFailure(format, args...))
}

// placeholder creates a tree with a single text node.
func placeholder(text string, gen element.Generator) *tree.Tree {
	n := element.NewWithID(gen(), element.Text)
	n.Props.Set("content", text)
	n.Props.Set("role", "import-placeholder")
	return tree.New(n)
}

// defaultContent is the tree of a page without explicit content: a heading
// with the page's name plus an empty container.
func defaultContent(name string, gen element.Generator) *tree.Tree {
	h := element.NewDefault(element.Heading, gen)
	h.Props.Set("content", name)
	h.Props.Set("level", 1)
	return tree.New(h, element.NewDefault(element.Container, gen))
}
