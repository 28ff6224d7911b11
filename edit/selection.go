package edit

import (
	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/maybe"
	"github.com/npillmayer/pagetree/tree"
)

// Selection tracks the node currently selected for property editing.
// It stores the node's id only; the path is re-resolved on demand, so a
// selection survives every mutation which does not remove the node.
type Selection struct {
	id string
}

// Select makes id the current selection.
func (s *Selection) Select(id string) {
	s.id = id
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.id = ""
}

// ID returns the selected id, or "" for an empty selection.
func (s Selection) ID() string {
	return s.id
}

// IsEmpty is true if nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.id == ""
}

// Path resolves the selection within t.
func (s Selection) Path(t *tree.Tree) (tree.Path, bool) {
	if s.id == "" {
		return nil, false
	}
	return tree.Locate(t, s.id)
}

// Node resolves the selected node within t. An empty selection, or a
// selection whose node is not part of t, yields Nothing.
func (s Selection) Node(t *tree.Tree) maybe.Maybe[*element.Node] {
	if s.id == "" {
		return maybe.Nothing[*element.Node]()
	}
	n, ok := tree.Find(t, s.id)
	return maybe.Of(n, ok)
}

// Refresh clears the selection if its node is no longer part of t. It
// returns true if the selection was cleared.
func (s *Selection) Refresh(t *tree.Tree) bool {
	if s.id == "" {
		return false
	}
	if _, ok := tree.Locate(t, s.id); !ok {
		tracer().Debugf("selection %s vanished, clearing", s.id)
		s.id = ""
		return true
	}
	return false
}
