// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store persists brew notes as flat rows keyed by storage column.
// Rows are what note.Load consumes, so every backend round-trips through
// the same loading path.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
)

var (
	// ErrNotFound is returned when no note has the requested id.
	ErrNotFound = errors.New("brew note not found")
	// ErrUnknownColumn is returned when a row names a column that is not a
	// brew note field.
	ErrUnknownColumn = errors.New("unknown column")
)

// StoredNote is one persisted note.
type StoredNote struct {
	ID       string
	RecipeID string
	Row      map[string]any
}

// NoteStore is implemented by every backend.
type NoteStore interface {
	// Put inserts or replaces a whole note.
	Put(ctx context.Context, n StoredNote) error
	// Get returns the note with id or ErrNotFound.
	Get(ctx context.Context, id string) (StoredNote, error)
	// List returns every note ordered by id.
	List(ctx context.Context) ([]StoredNote, error)
	// ListByRecipe returns the notes of one recipe ordered by id.
	ListByRecipe(ctx context.Context, recipeID string) ([]StoredNote, error)
	// UpdateColumns overwrites the given columns of an existing note.
	UpdateColumns(ctx context.Context, id string, cols map[string]any) error
	// Delete removes a note or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}

func validateColumns(cols map[string]any) error {
	for col := range cols {
		if _, ok := model.FieldByColumn(col); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
	}
	return nil
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func sortNotes(notes []StoredNote) {
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
}

// columns lists every field column in declaration order.
func columns() []string {
	out := make([]string, 0, len(model.Fields))
	for _, spec := range model.Fields {
		out = append(out, spec.Column)
	}
	return out
}
