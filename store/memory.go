package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps the whole JSON tree in memory. It backs the tests and
// mirrors the merge/replace semantics of the Postgres implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]interface{}
	seq  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: make(map[string]interface{})}
}

func (s *MemoryStore) Read(ctx context.Context, path string, dst interface{}) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	node := interface{}(s.root)
	for _, seg := range segs {
		m, ok := node.(map[string]interface{})
		if !ok {
			return ErrNotFound
		}
		node, ok = m[seg]
		if !ok {
			return ErrNotFound
		}
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("encode document at %s: %w", path, err)
	}
	return json.Unmarshal(raw, dst)
}

func (s *MemoryStore) Write(ctx context.Context, path string, doc interface{}) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	value, err := toGeneric(doc)
	if err != nil {
		return fmt.Errorf("encode document for %s: %w", path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(segs, value)
	return nil
}

func (s *MemoryStore) Patch(ctx context.Context, path string, fields map[string]interface{}) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range fields {
		value, err := toGeneric(v)
		if err != nil {
			return fmt.Errorf("encode field %s for %s: %w", k, path, err)
		}
		s.setLocked(append(append([]string{}, segs...), k), value)
	}
	return nil
}

func (s *MemoryStore) Append(ctx context.Context, path string, doc interface{}) (string, error) {
	segs, err := splitPath(path)
	if err != nil {
		return "", err
	}
	value, err := toGeneric(doc)
	if err != nil {
		return "", fmt.Errorf("encode document for %s: %w", path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := fmt.Sprintf("-K%08d", s.seq)
	s.setLocked(append(append([]string{}, segs...), key), value)
	return key, nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]interface{})
		if !ok {
			return nil
		}
		parent = child
	}
	delete(parent, segs[len(segs)-1])
	return nil
}

// setLocked replaces the subtree at segs, creating intermediate objects.
// Callers hold the write lock.
func (s *MemoryStore) setLocked(segs []string, value interface{}) {
	parent := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			parent[seg] = child
		}
		parent = child
	}
	if value == nil {
		delete(parent, segs[len(segs)-1])
		return
	}
	parent[segs[len(segs)-1]] = value
}

// toGeneric deep-copies doc through its JSON form so the stored tree never
// aliases caller memory.
func toGeneric(doc interface{}) (interface{}, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
