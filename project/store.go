package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/npillmayer/pagetree/element"
	"github.com/npillmayer/pagetree/tree"
)

// ErrNotStored is returned by a Store for a page it holds no tree for.
var ErrNotStored = errors.New("no tree stored for page")

// Store is the persistence boundary of a project: it loads and saves the
// tree of a single page. How and where trees are kept is up to the
// implementation.
type Store interface {
	Load(ctx context.Context, pageID string) (*tree.Tree, error)
	Save(ctx context.Context, pageID string, t *tree.Tree) error
}

// EncodeTree serializes a tree to its storage form, a JSON object
// { "elements": [...] }.
func EncodeTree(t *tree.Tree) ([]byte, error) {
	if t == nil {
		t = tree.New()
	}
	if t.Roots == nil {
		t = &tree.Tree{Roots: []*element.Node{}}
	}
	return json.Marshal(t)
}

// DecodeTree is the inverse of EncodeTree.
func DecodeTree(data []byte) (*tree.Tree, error) {
	t := tree.New()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	t.Normalize()
	return t, nil
}

// MemoryStore keeps encoded trees in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	trees map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trees: make(map[string][]byte)}
}

// Load decodes the tree stored for pageID.
func (s *MemoryStore) Load(ctx context.Context, pageID string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	data, ok := s.trees[pageID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("load %s: %w", pageID, ErrNotStored)
	}
	return DecodeTree(data)
}

// Save encodes and stores t for pageID, replacing a previous version.
func (s *MemoryStore) Save(ctx context.Context, pageID string, t *tree.Tree) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeTree(t)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.trees[pageID] = data
	s.mu.Unlock()
	return nil
}

// Persist saves the live tree into the active page, then writes the tree of
// every page to store.
func Persist(ctx context.Context, p *Project, store Store) error {
	p.Save()
	for _, pg := range p.Pages {
		if err := store.Save(ctx, pg.ID, pg.Elements); err != nil {
			return fmt.Errorf("persist page %s: %w", pg.ID, err)
		}
	}
	tracer().Debugf("persisted %d pages", len(p.Pages))
	return nil
}

// Restore loads the tree of every page from store. Pages the store holds no
// tree for keep their current tree. It returns the number of restored pages.
func Restore(ctx context.Context, p *Project, store Store) (int, error) {
	n := 0
	for _, pg := range p.Pages {
		t, err := store.Load(ctx, pg.ID)
		if errors.Is(err, ErrNotStored) {
			continue
		} else if err != nil {
			return n, fmt.Errorf("restore page %s: %w", pg.ID, err)
		}
		if err := p.ReplaceTree(pg.ID, t); err != nil {
			return n, err
		}
		n++
	}
	tracer().Debugf("restored %d of %d pages", n, len(p.Pages))
	return n, nil
}
