package project

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/pagetree/edit"
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/tree"
)

// Errors returned by page operations.
var (
	ErrNoSuchPage = errors.New("no such page")
	ErrLastPage   = errors.New("cannot remove the last page of a project")
)

// Meta is the document metadata of a page.
type Meta struct {
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Page is a named, routed page owning one canonical tree.
type Page struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Route    string     `json:"route"`
	Meta     Meta       `json:"meta"`
	Elements *tree.Tree `json:"tree"`
	Active   bool       `json:"isActive"`
	Source   string     `json:"source,omitempty"` // verbatim source text of an imported component
}

// NewPage creates a detached page with an empty tree. It receives an id
// when it is added to a project.
func NewPage(name, route string) *Page {
	return &Page{
		Name:     name,
		Route:    route,
		Meta:     Meta{Title: name},
		Elements: tree.New(),
	}
}

func (pg *Page) String() string {
	return fmt.Sprintf("(Page %s %q %s)", pg.ID, pg.Name, pg.Route)
}

// Project is an ordered collection of pages with exactly one active page.
// A project is edited by a single user; it is not safe for concurrent use.
type Project struct {
	SiteName string
	Pages    []*Page
	live     *tree.Tree
	pageIDs  element.Generator
}

// Option configures a project.
type Option func(*Project)

// WithPageIDs sets the generator for page ids.
func WithPageIDs(gen element.Generator) Option {
	return func(p *Project) {
		p.pageIDs = gen
	}
}

// New creates a project with one empty, active page "Home" at route "/".
func New(siteName string, opts ...Option) *Project {
	p := &Project{SiteName: siteName}
	for _, opt := range opts {
		opt(p)
	}
	if p.pageIDs == nil {
		p.pageIDs = element.UUIDGenerator("page_")
	}
	p.Reset()
	return p
}

// Reset discards every page and tree and starts over with a single default
// page.
func (p *Project) Reset() {
	home := NewPage("Home", "/")
	home.ID = p.pageIDs()
	home.Active = true
	p.Pages = []*Page{home}
	p.live = home.Elements
	tracer().Debugf("project %q reset", p.SiteName)
}

// --- Pages -----------------------------------------------------------------

// Page returns the page with the given id.
func (p *Project) Page(id string) (*Page, bool) {
	i := p.index(id)
	if i < 0 {
		return nil, false
	}
	return p.Pages[i], true
}

// PageByRoute returns the page serving route.
func (p *Project) PageByRoute(route string) (*Page, bool) {
	route = NormalizeRoute(route)
	for _, pg := range p.Pages {
		if pg.Route == route {
			return pg, true
		}
	}
	return nil, false
}

// Active returns the active page.
func (p *Project) Active() *Page {
	for _, pg := range p.Pages {
		if pg.Active {
			return pg
		}
	}
	return nil
}

func (p *Project) index(id string) int {
	for i, pg := range p.Pages {
		if pg.ID == id {
			return i
		}
	}
	return -1
}

// AddPage appends pg to the project and returns it. A missing id is
// generated, a missing name derived from the position, and the route is
// normalized and made unique (see UniqueRoute). A page without a tree gets
// an empty one. The added page is never activated.
func (p *Project) AddPage(pg *Page) *Page {
	if pg == nil {
		pg = NewPage("", "")
	}
	if pg.ID == "" || p.index(pg.ID) >= 0 {
		pg.ID = p.pageIDs()
	}
	if pg.Name == "" {
		pg.Name = "Page " + strconv.Itoa(len(p.Pages)+1)
	}
	if pg.Meta.Title == "" {
		pg.Meta.Title = pg.Name
	}
	if pg.Route == "" {
		pg.Route = Slug(pg.Name)
	}
	pg.Route = p.UniqueRoute(pg.Route, "")
	if pg.Elements == nil {
		pg.Elements = tree.New()
	}
	pg.Active = false
	p.Pages = append(p.Pages, pg)
	tracer().Debugf("added %s", pg)
	return pg
}

// RemovePage removes a page. If it was the active page, its neighbour (the
// next page, or the previous one for the last page) becomes active; the live
// tree of the removed page is discarded. A project never drops to zero pages.
func (p *Project) RemovePage(id string) error {
	i := p.index(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrNoSuchPage)
	}
	if len(p.Pages) == 1 {
		return ErrLastPage
	}
	removed := p.Pages[i]
	p.Pages = append(p.Pages[:i:i], p.Pages[i+1:]...)
	if removed.Active {
		removed.Active = false
		next := p.Pages[min(i, len(p.Pages)-1)]
		next.Active = true
		p.live = next.Elements
		tracer().Debugf("removed active page %s, %s is active now", removed.ID, next.ID)
	}
	return nil
}

// RenamePage changes the display name of a page.
func (p *Project) RenamePage(id, name string) error {
	pg, ok := p.Page(id)
	if !ok {
		return fmt.Errorf("rename %s: %w", id, ErrNoSuchPage)
	}
	pg.Name = name
	return nil
}

// SetRoute changes the route of a page and returns the route actually
// assigned, which may carry a numeric suffix.
func (p *Project) SetRoute(id, route string) (string, error) {
	pg, ok := p.Page(id)
	if !ok {
		return "", fmt.Errorf("set route %s: %w", id, ErrNoSuchPage)
	}
	pg.Route = p.UniqueRoute(route, id)
	return pg.Route, nil
}

// Activate makes the page with the given id the active page. The live tree
// is saved into the previously active page before the new page's tree is
// loaded.
func (p *Project) Activate(id string) error {
	next, ok := p.Page(id)
	if !ok {
		return fmt.Errorf("activate %s: %w", id, ErrNoSuchPage)
	}
	if next.Active {
		return nil
	}
	p.Save()
	if cur := p.Active(); cur != nil {
		cur.Active = false
	}
	next.Active = true
	if next.Elements == nil {
		next.Elements = tree.New()
	}
	p.live = next.Elements
	tracer().Debugf("activated %s", next)
	return nil
}

// Save stores the live tree into the active page.
func (p *Project) Save() {
	if cur := p.Active(); cur != nil {
		cur.Elements = p.live
	}
}

// --- Trees -----------------------------------------------------------------

// Live returns the tree of the live editing surface.
func (p *Project) Live() *tree.Tree {
	return p.live
}

// SetLive replaces the live tree. nil is replaced by an empty tree.
func (p *Project) SetLive(t *tree.Tree) {
	if t == nil {
		t = tree.New()
	}
	p.live = t
}

// Tree returns the current tree of a page. For the active page this is the
// live tree.
func (p *Project) Tree(id string) (*tree.Tree, bool) {
	pg, ok := p.Page(id)
	if !ok {
		return nil, false
	}
	if pg.Active {
		return p.live, true
	}
	return pg.Elements, true
}

// ReplaceTree swaps the tree of a page wholesale. Replacing the tree of the
// active page replaces the live tree as well.
func (p *Project) ReplaceTree(id string, t *tree.Tree) error {
	pg, ok := p.Page(id)
	if !ok {
		return fmt.Errorf("replace tree of %s: %w", id, ErrNoSuchPage)
	}
	if t == nil {
		t = tree.New()
	}
	pg.Elements = t
	if pg.Active {
		p.live = t
	}
	tracer().Debugf("replaced tree of %s with %s", pg, t)
	return nil
}

// IDs collects the element ids of every page, live tree included.
func (p *Project) IDs() map[string]bool {
	ids := make(map[string]bool)
	for _, pg := range p.Pages {
		t, _ := p.Tree(pg.ID)
		for id := range t.IDs() {
			ids[id] = true
		}
	}
	return ids
}

type liveHandle struct {
	p *Project
}

func (h liveHandle) Tree() *tree.Tree     { return h.p.live }
func (h liveHandle) Replace(t *tree.Tree) { h.p.SetLive(t) }

// LiveHandle returns a handle on the live tree, suitable for an edit.Session.
// The handle follows page switches.
func (p *Project) LiveHandle() edit.Handle {
	return liveHandle{p: p}
}

// --- Routes ----------------------------------------------------------------

// NormalizeRoute trims a route, makes it start with a single "/" and cleans
// it lexically: no trailing slashes, no empty, "." or ".." segments.
// "/../../admin/" → "/admin".
func NormalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	return path.Clean("/" + route)
}

// UniqueRoute normalizes route and, if another page than the one with id
// except already serves it, appends the first free numeric suffix:
// "/about" → "/about-2" → "/about-3".
func (p *Project) UniqueRoute(route, except string) string {
	route = NormalizeRoute(route)
	taken := func(r string) bool {
		for _, pg := range p.Pages {
			if pg.Route == r && pg.ID != except {
				return true
			}
		}
		return false
	}
	if !taken(route) {
		return route
	}
	base := route
	if base == "/" {
		base = "/index"
	}
	for i := 2; ; i++ {
		r := base + "-" + strconv.Itoa(i)
		if !taken(r) {
			tracer().Infof("route %s taken, using %s", route, r)
			return r
		}
	}
}

// Slug derives a route from a page name: "About Us!" → "/about-us".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return NormalizeRoute(strings.TrimSuffix(b.String(), "-"))
}
