package ingest

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/result"
)

// manifestFile is the shape of a project manifest:
//
//	name: My Site
//	structure:
//	  pages:
//	    - { name: Home, file: index.html, route: / }
//	  components:
//	    - { name: Hero, file: Hero.jsx }
//	routes:
//	  - { path: /about, component: About, meta: { title: About us } }
//
// JSON manifests of the same shape are accepted as well.
type manifestFile struct {
	Name      string          `yaml:"name"`
	Structure yaml.Node       `yaml:"structure"`
	Routes    []manifestRoute `yaml:"routes"`
}

type manifestEntry struct {
	Name        string   `yaml:"name"`
	File        string   `yaml:"file"`
	Route       string   `yaml:"route"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

type manifestRoute struct {
	Path      string       `yaml:"path"`
	Component string       `yaml:"component"`
	Meta      project.Meta `yaml:"meta"`
}

type manifestExtractor struct {
	opts Options
}

func (ex manifestExtractor) Name() string { return "manifest" }

func (ex manifestExtractor) Accepts(f Format) bool {
	return f == Manifest
}

// TryParse expands a manifest into page specs. Every group of the structure
// section contributes its entries, in document order. Routes are merged by
// path, route metadata taking precedence over entry fields; routes without a
// matching entry add pages of their own. Each page starts with default
// content; the pipeline replaces it if the entry's file is part of the batch.
func (ex manifestExtractor) TryParse(ctx context.Context, src Source) result.Result[*Extraction] {
	col := &collector{file: src.Name, format: Manifest}
	var mf manifestFile
	if err := yaml.Unmarshal(src.Content, &mf); err != nil {
		return failf("invalid manifest: %v", err)
	}
	entries, err := structureEntries(&mf.Structure, col)
	if err != nil {
		return failf("invalid manifest structure: %v", err)
	}
	if len(entries) == 0 && len(mf.Routes) == 0 {
		return failf("manifest describes no pages")
	}
	specs := make([]PageSpec, 0, len(entries)+len(mf.Routes))
	byRoute := make(map[string]int)
	byName := make(map[string]int)
	for _, e := range entries {
		pg := project.NewPage(e.Name, "")
		if e.Route != "" {
			pg.Route = project.NormalizeRoute(e.Route)
			byRoute[pg.Route] = len(specs)
		}
		if e.Title != "" {
			pg.Meta.Title = e.Title
		}
		pg.Meta.Description = e.Description
		pg.Meta.Keywords = e.Keywords
		byName[strings.ToLower(e.Name)] = len(specs)
		specs = append(specs, PageSpec{Page: pg, File: e.File})
	}
	for _, r := range mf.Routes {
		if strings.TrimSpace(r.Path) == "" {
			col.add(Warning, Incomplete, "route without path ignored (component %q)", r.Component)
			continue
		}
		route := project.NormalizeRoute(r.Path)
		i, ok := byRoute[route]
		if !ok && r.Component != "" {
			if j, found := byName[strings.ToLower(r.Component)]; found && specs[j].Page.Route == "" {
				i, ok = j, true
			}
		}
		if !ok {
			name := r.Component
			if name == "" {
				name = routeName(route)
			}
			i = len(specs)
			specs = append(specs, PageSpec{Page: project.NewPage(name, "")})
		}
		pg := specs[i].Page
		pg.Route = route
		byRoute[route] = i
		mergeMeta(&pg.Meta, r.Meta)
	}
	for _, spec := range specs {
		spec.Page.Elements = defaultContent(spec.Page.Name, ex.opts.Generator)
	}
	x := &Extraction{
		Title: mf.Name,
		Pages: specs,
		Tree:  specs[0].Page.Elements,
	}
	x.Meta.Title = mf.Name
	x.Diagnostics = col.diags
	tracer().Debugf("manifest %s: %d page(s)", src.Name, len(specs))
	return result.Ok(x)
}

// structureEntries decodes the groups of the structure section in document
// order. A group is either a list of entries or a nested mapping of groups.
func structureEntries(node *yaml.Node, col *collector) ([]manifestEntry, error) {
	var entries []manifestEntry
	switch node.Kind {
	case 0: // absent
		return nil, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			group := node.Content[i].Value
			sub, err := structureEntries(node.Content[i+1], col)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", group, err)
			}
			tracer().Debugf("manifest group %s: %d entries", group, len(sub))
			entries = append(entries, sub...)
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			var e manifestEntry
			if err := item.Decode(&e); err != nil {
				return nil, err
			}
			if e.Name == "" && e.File != "" {
				e.Name = pascal(Source{Name: e.File}.BaseName())
			}
			if e.Name == "" {
				col.add(Warning, Incomplete, "manifest entry without name or file ignored (line %d)", item.Line)
				continue
			}
			entries = append(entries, e)
		}
	default:
		return nil, fmt.Errorf("unexpected %s at line %d", kindName(node.Kind), node.Line)
	}
	return entries, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "node"
}

// mergeMeta overwrites fields of m with the non-empty fields of from.
func mergeMeta(m *project.Meta, from project.Meta) {
	if from.Title != "" {
		m.Title = from.Title
	}
	if from.Description != "" {
		m.Description = from.Description
	}
	if len(from.Keywords) > 0 {
		m.Keywords = from.Keywords
	}
}

// routeName derives a page name from a route: "/about-us" → "About Us".
func routeName(route string) string {
	seg := route[strings.LastIndex(route, "/")+1:]
	if seg == "" {
		return "Home"
	}
	words := strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
