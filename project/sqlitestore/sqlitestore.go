/*
Package sqlitestore implements project.Store on top of SQLite.

Each page tree is kept as one row, encoded the same way as
project.EncodeTree does:

	db, err := sqlitestore.Open("site.db")
	...
	err = project.Persist(ctx, proj, db)

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/npillmayer/pagetree/project"
	"github.com/npillmayer/pagetree/tree"
	"github.com/npillmayer/schuko/tracing"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// tracer traces with key 'pagetree.project'.
func tracer() tracing.Trace {
	return tracing.Select("pagetree.project")
}

const schema = `
CREATE TABLE IF NOT EXISTS page_trees (
    page_id     TEXT PRIMARY KEY,
    body        TEXT NOT NULL,
    node_count  INTEGER NOT NULL,
    updated_at  TEXT NOT NULL
);`

// Store is a project.Store persisting trees in an SQLite database.
type Store struct {
	db *sql.DB
}

var _ project.Store = (*Store)(nil)

// Open opens (or creates) the database at path and creates the schema.
// Use ":memory:" for a transient store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	if path == ":memory:" {
		// every connection to :memory: is a database of its own
		db.SetMaxOpenConns(1)
	}
	for _, stmt := range []string{"PRAGMA busy_timeout = 5000", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitestore: init: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads and decodes the tree of a page. If no row exists for pageID,
// the error wraps project.ErrNotStored.
func (s *Store) Load(ctx context.Context, pageID string) (*tree.Tree, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM page_trees WHERE page_id = ?`, pageID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", pageID, project.ErrNotStored)
	} else if err != nil {
		return nil, fmt.Errorf("sqlitestore: load %s: %w", pageID, err)
	}
	return project.DecodeTree([]byte(body))
}

// Save stores the tree of a page, replacing a previous version.
func (s *Store) Save(ctx context.Context, pageID string, t *tree.Tree) error {
	body, err := project.EncodeTree(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO page_trees (page_id, body, node_count, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(page_id) DO UPDATE SET
    body = excluded.body,
    node_count = excluded.node_count,
    updated_at = excluded.updated_at`,
		pageID, string(body), t.Count(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlitestore: save %s: %w", pageID, err)
	}
	tracer().Debugf("stored tree of page %s (%d bytes)", pageID, len(body))
	return nil
}

// Delete removes the tree of a page. Deleting a page without a stored tree
// is not an error.
func (s *Store) Delete(ctx context.Context, pageID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM page_trees WHERE page_id = ?`, pageID); err != nil {
		return fmt.Errorf("sqlitestore: delete %s: %w", pageID, err)
	}
	return nil
}

// Pages lists the ids of all pages with a stored tree, in id order.
func (s *Store) Pages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT page_id FROM page_trees ORDER BY page_id`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
