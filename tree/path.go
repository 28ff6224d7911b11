package tree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPath is returned by ParsePath for syntactically invalid input.
var ErrMalformedPath = errors.New("malformed path")

// Path is a positional address of a node, as a sequence of child indices
// starting at the forest root. The empty path denotes the forest root.
type Path []int

// Root is the empty path.
var Root = Path{}

// ParsePath parses the output of Path.String, e.g. "[2 0 1]" or "2/0/1".
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, ",", " ")
	fields := strings.Fields(s)
	p := make(Path, 0, len(fields))
	for _, f := range fields {
		i, err := strconv.Atoi(f)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedPath, s)
		}
		p = append(p, i)
	}
	return p, nil
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, x := range p {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// IsRoot is true for the empty path.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the path of the parent. The parent of a root node is the
// empty path; the parent of the empty path is the empty path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p.Clone()[:len(p)-1]
}

// Last returns the index of the addressed node within its siblings, or -1
// for the empty path.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Append returns a new path extended by index i. p is not modified.
func (p Path) Append(i int) Path {
	q := make(Path, len(p), len(p)+1)
	copy(q, p)
	return append(q, i)
}

// Sibling returns the path of the sibling at index i.
func (p Path) Sibling(i int) Path {
	return p.Parent().Append(i)
}

// Clone returns a copy of p.
func (p Path) Clone() Path {
	q := make(Path, len(p))
	copy(q, p)
	return q
}

// Equal compares two paths element-wise.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// IsPrefixOf is true if p addresses q or an ancestor of q.
func (p Path) IsPrefixOf(q Path) bool {
	if len(p) > len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}
