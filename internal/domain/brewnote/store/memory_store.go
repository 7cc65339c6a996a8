// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"sync"
)

// MemoryStore keeps notes in process. Rows are copied on the way in and out.
type MemoryStore struct {
	mu    sync.RWMutex
	notes map[string]StoredNote
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notes: make(map[string]StoredNote)}
}

func (s *MemoryStore) Put(_ context.Context, n StoredNote) error {
	if err := validateColumns(n.Row); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n.Row = cloneRow(n.Row)
	s.notes[n.ID] = n
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (StoredNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return StoredNote{}, ErrNotFound
	}
	n.Row = cloneRow(n.Row)
	return n, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]StoredNote, error) {
	return s.list(func(StoredNote) bool { return true }), nil
}

func (s *MemoryStore) ListByRecipe(_ context.Context, recipeID string) ([]StoredNote, error) {
	return s.list(func(n StoredNote) bool { return n.RecipeID == recipeID }), nil
}

func (s *MemoryStore) list(keep func(StoredNote) bool) []StoredNote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredNote, 0, len(s.notes))
	for _, n := range s.notes {
		if keep(n) {
			n.Row = cloneRow(n.Row)
			out = append(out, n)
		}
	}
	sortNotes(out)
	return out
}

func (s *MemoryStore) UpdateColumns(_ context.Context, id string, cols map[string]any) error {
	if err := validateColumns(cols); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range cols {
		n.Row[col] = v
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
