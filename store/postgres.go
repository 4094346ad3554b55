package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PostgresStore persists the JSON tree in a single documents table. The
// table never holds overlapping rows: no stored path is an ancestor of
// another, so every piece of data lives in exactly one row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the documents table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			body JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Read(ctx context.Context, path string, dst interface{}) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	p := joinPath(segs)

	var raw []byte
	err = s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE path = $1`, p).Scan(&raw)
	switch {
	case err == nil:
		return json.Unmarshal(raw, dst)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("read %s: %w", p, err)
	}

	// The path may address a field inside a stored ancestor document.
	ancestorPath, body, err := s.findAncestor(ctx, s.db, p)
	if err == nil {
		node, ok := getNested(body, subSegments(ancestorPath, p))
		if !ok {
			return ErrNotFound
		}
		raw, mErr := json.Marshal(node)
		if mErr != nil {
			return fmt.Errorf("read %s: %w", p, mErr)
		}
		return json.Unmarshal(raw, dst)
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	// Or a subtree assembled from descendant rows.
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, body FROM documents WHERE path LIKE $1 ORDER BY path`, p+"/%")
	if err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}
	defer rows.Close()

	assembled := make(map[string]interface{})
	found := false
	for rows.Next() {
		var childPath string
		var childRaw []byte
		if err := rows.Scan(&childPath, &childRaw); err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		var childBody interface{}
		if err := json.Unmarshal(childRaw, &childBody); err != nil {
			return fmt.Errorf("read %s: decode %s: %w", p, childPath, err)
		}
		setNested(assembled, subSegments(p, childPath), childBody)
		found = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}
	if !found {
		return ErrNotFound
	}
	raw, err = json.Marshal(assembled)
	if err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}
	return json.Unmarshal(raw, dst)
}

func (s *PostgresStore) Write(ctx context.Context, path string, doc interface{}) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document for %s: %w", path, err)
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.writeTx(ctx, tx, joinPath(segs), raw)
	})
}

func (s *PostgresStore) Patch(ctx context.Context, path string, fields map[string]interface{}) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	p := joinPath(segs)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		// Shallow merge: each field replaces the subtree at path/field.
		for k, v := range fields {
			raw, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode field %s for %s: %w", k, p, err)
			}
			if err := s.writeTx(ctx, tx, p+"/"+k, raw); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) Append(ctx context.Context, path string, doc interface{}) (string, error) {
	segs, err := splitPath(path)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document for %s: %w", path, err)
	}
	key := uuid.NewString()
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		return s.writeTx(ctx, tx, joinPath(segs)+"/"+key, raw)
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *PostgresStore) Delete(ctx context.Context, path string) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	p := joinPath(segs)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM documents WHERE path = $1 OR path LIKE $2`, p, p+"/%"); err != nil {
			return fmt.Errorf("delete %s: %w", p, err)
		}
		ancestorPath, body, err := s.findAncestor(ctx, tx, p)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !deleteNested(body, subSegments(ancestorPath, p)) {
			return nil
		}
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("delete %s: %w", p, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET body = $2, updated_at = now() WHERE path = $1`, ancestorPath, raw); err != nil {
			return fmt.Errorf("delete %s: %w", p, err)
		}
		return nil
	})
}

// writeTx replaces the subtree at path inside an open transaction.
func (s *PostgresStore) writeTx(ctx context.Context, tx *sql.Tx, p string, raw []byte) error {
	// Replacing a subtree discards everything previously stored below it.
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE path LIKE $1`, p+"/%"); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}

	ancestorPath, body, err := s.findAncestor(ctx, tx, p)
	switch {
	case err == nil:
		setNested(body, subSegments(ancestorPath, p), jsonValue(raw))
		merged, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("write %s: %w", p, mErr)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET body = $2, updated_at = now() WHERE path = $1`, ancestorPath, merged); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		return nil
	case errors.Is(err, ErrNotFound):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (path, body) VALUES ($1, $2)
			ON CONFLICT (path) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
			p, raw); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		return nil
	default:
		return err
	}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// findAncestor returns the longest stored strict ancestor of p and its
// decoded body.
func (s *PostgresStore) findAncestor(ctx context.Context, q queryer, p string) (string, map[string]interface{}, error) {
	var ancestorPath string
	var raw []byte
	err := q.QueryRowContext(ctx, `
		SELECT path, body FROM documents
		WHERE $1 LIKE path || '/%'
		ORDER BY length(path) DESC
		LIMIT 1`, p).Scan(&ancestorPath, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("resolve ancestor of %s: %w", p, err)
	}
	body := make(map[string]interface{})
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", nil, fmt.Errorf("decode ancestor %s: %w", ancestorPath, err)
	}
	return ancestorPath, body, nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func jsonValue(raw []byte) interface{} {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func subSegments(ancestor, descendant string) []string {
	return strings.Split(strings.TrimPrefix(descendant, ancestor+"/"), "/")
}

func getNested(m map[string]interface{}, segs []string) (interface{}, bool) {
	node := interface{}(m)
	for _, seg := range segs {
		obj, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func setNested(m map[string]interface{}, segs []string, value interface{}) {
	parent := m
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			parent[seg] = child
		}
		parent = child
	}
	parent[segs[len(segs)-1]] = value
}

func deleteNested(m map[string]interface{}, segs []string) bool {
	parent := m
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]interface{})
		if !ok {
			return false
		}
		parent = child
	}
	if _, ok := parent[segs[len(segs)-1]]; !ok {
		return false
	}
	delete(parent, segs[len(segs)-1])
	return true
}
