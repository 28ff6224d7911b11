package edit

import (
	"errors"
	"fmt"

	"github.com/npillmayer/pagetree/tree"
)

// Sentinel errors, one per rejection kind. Use errors.Is on a rejection.
var (
	ErrNotFound        = errors.New("node not found")
	ErrNotContainer    = errors.New("target cannot hold children")
	ErrCycle           = errors.New("cannot move a node into its own subtree")
	ErrOutOfRange      = errors.New("index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
)

// RejectionKind classifies why an operation was not applied.
type RejectionKind int

// Kinds of structural rejections.
const (
	NotFound RejectionKind = iota
	NotContainer
	Cycle
	OutOfRange
	InvalidArgument
)

func (k RejectionKind) String() string {
	switch k {
	case NotFound:
		return "not-found"
	case NotContainer:
		return "not-container"
	case Cycle:
		return "cycle"
	case OutOfRange:
		return "out-of-range"
	}
	return "invalid-argument"
}

func (k RejectionKind) sentinel() error {
	switch k {
	case NotFound:
		return ErrNotFound
	case NotContainer:
		return ErrNotContainer
	case Cycle:
		return ErrCycle
	case OutOfRange:
		return ErrOutOfRange
	}
	return ErrInvalidArgument
}

// Rejection is returned by operations which would violate containment rules
// or address a node which does not exist. The tree is left unchanged.
type Rejection struct {
	Op     string        // operation name, e.g. "insert"
	Kind   RejectionKind // classification
	Path   tree.Path     // path the operation addressed
	ID     string        // id of the addressed node, if known
	Reason string        // human readable detail
}

func (r *Rejection) Error() string {
	s := fmt.Sprintf("%s rejected at %s: %s", r.Op, r.Path, r.Kind.sentinel())
	if r.Reason != "" {
		s += " (" + r.Reason + ")"
	}
	return s
}

// Unwrap makes errors.Is(err, ErrNotContainer) etc. work.
func (r *Rejection) Unwrap() error {
	return r.Kind.sentinel()
}

func reject(op string, kind RejectionKind, p tree.Path, reason string, args ...any) *Rejection {
	r := &Rejection{Op: op, Kind: kind, Path: p.Clone(), Reason: fmt.Sprintf(reason, args...)}
	tracer().Errorf("%s", r.Error())
	return r
}

// IsRejection reports wether err is a structural rejection, and returns it.
func IsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
