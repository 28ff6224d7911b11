package edit

import (
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/maybe"
	"github.com/npillmayer/pagetree/tree"
)

// Handle gives a session access to the tree it edits. The project's live
// page implements Handle, as does a Scratch tree.
type Handle interface {
	Tree() *tree.Tree
	Replace(*tree.Tree)
}

type scratch struct {
	t *tree.Tree
}

// Scratch wraps a standalone tree as a Handle. A nil tree is replaced by an
// empty one.
func Scratch(t *tree.Tree) Handle {
	if t == nil {
		t = tree.New()
	}
	return &scratch{t: t}
}

func (s *scratch) Tree() *tree.Tree     { return s.t }
func (s *scratch) Replace(t *tree.Tree) { s.t = t }

// Session applies edit operations to a handle's tree in submission order and
// keeps a selection consistent with the tree.
type Session struct {
	h   Handle
	sel Selection
	gen element.Generator
}

// NewSession creates a session on h. gen may be nil, in which case the
// package default generator is used for new ids.
func NewSession(h Handle, gen element.Generator) *Session {
	return &Session{h: h, gen: gen}
}

// Tree returns the current tree.
func (s *Session) Tree() *tree.Tree {
	return s.h.Tree()
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	return s.sel
}

// Selected returns the selected node, if any.
func (s *Session) Selected() maybe.Maybe[*element.Node] {
	return s.sel.Node(s.h.Tree())
}

// Select selects the node with the given id. Selecting an id not present in
// the tree is rejected and leaves the selection unchanged.
func (s *Session) Select(id string) error {
	if _, ok := tree.Locate(s.h.Tree(), id); !ok {
		r := reject("select", NotFound, nil, "no node with id %q", id)
		r.ID = id
		return r
	}
	s.sel.Select(id)
	return nil
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.sel.Clear()
}

// apply commits a successful outcome and re-validates the selection.
func (s *Session) apply(out Outcome, err error) (Outcome, error) {
	if err != nil {
		return out, err
	}
	s.h.Replace(out.Tree)
	s.sel.Refresh(out.Tree)
	return out, nil
}

func (s *Session) opts() []Option {
	return []Option{WithGenerator(s.gen)}
}

// Insert see edit.Insert.
func (s *Session) Insert(target tree.Path, n *element.Node, pos Position) (Outcome, error) {
	return s.apply(Insert(s.h.Tree(), target, n, pos, s.opts()...))
}

// InsertNew see edit.InsertNew.
func (s *Session) InsertNew(target tree.Path, typ element.Type, pos Position) (Outcome, error) {
	return s.apply(InsertNew(s.h.Tree(), target, typ, pos, s.opts()...))
}

// Move see edit.Move.
func (s *Session) Move(source, dest tree.Path, index int) (Outcome, error) {
	return s.apply(Move(s.h.Tree(), source, dest, index, s.opts()...))
}

// Duplicate see edit.Duplicate.
func (s *Session) Duplicate(p tree.Path) (Outcome, error) {
	return s.apply(Duplicate(s.h.Tree(), p, s.opts()...))
}

// Delete see edit.Delete. Deleting the selected node, or one of its
// ancestors, clears the selection.
func (s *Session) Delete(p tree.Path) (Outcome, error) {
	return s.apply(Delete(s.h.Tree(), p))
}

// UpdateProps see edit.UpdateProps.
func (s *Session) UpdateProps(p tree.Path, key string, value any) (Outcome, error) {
	return s.apply(UpdateProps(s.h.Tree(), p, key, value))
}

// UpdateStyle see edit.UpdateStyle.
func (s *Session) UpdateStyle(p tree.Path, key, value string) (Outcome, error) {
	return s.apply(UpdateStyle(s.h.Tree(), p, key, value))
}

// selectedPath resolves the selection or returns a rejection for op.
func (s *Session) selectedPath(op string) (tree.Path, error) {
	if s.sel.IsEmpty() {
		return nil, reject(op, InvalidArgument, nil, "nothing selected")
	}
	p, ok := s.sel.Path(s.h.Tree())
	if !ok {
		r := reject(op, NotFound, nil, "selected node %q vanished", s.sel.ID())
		r.ID = s.sel.ID()
		s.sel.Clear()
		return nil, r
	}
	return p, nil
}

// UpdateSelectedProps sets a prop of the selected node.
func (s *Session) UpdateSelectedProps(key string, value any) (Outcome, error) {
	p, err := s.selectedPath("update-props")
	if err != nil {
		return Outcome{}, err
	}
	return s.UpdateProps(p, key, value)
}

// UpdateSelectedStyle sets a style property of the selected node.
func (s *Session) UpdateSelectedStyle(key, value string) (Outcome, error) {
	p, err := s.selectedPath("update-style")
	if err != nil {
		return Outcome{}, err
	}
	return s.UpdateStyle(p, key, value)
}

// DeleteSelected deletes the selected node. The selection is empty
// afterwards.
func (s *Session) DeleteSelected() (Outcome, error) {
	p, err := s.selectedPath("delete")
	if err != nil {
		return Outcome{}, err
	}
	return s.Delete(p)
}

// DuplicateSelected duplicates the selected node and selects the copy.
func (s *Session) DuplicateSelected() (Outcome, error) {
	p, err := s.selectedPath("duplicate")
	if err != nil {
		return Outcome{}, err
	}
	out, err := s.Duplicate(p)
	if err == nil {
		s.sel.Select(out.ID)
	}
	return out, err
}
