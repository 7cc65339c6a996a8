// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/ManuGH/brewlog/internal/metrics"
)

// Instrumented records operation counts and latency for s under backend.
// ErrNotFound counts as success; it is an answer, not a failure.
func Instrumented(s NoteStore, backend string) NoteStore {
	return &instrumented{s: s, backend: backend}
}

type instrumented struct {
	s       NoteStore
	backend string
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.ObserveStoreOp(i.backend, op, start, err)
}

func (i *instrumented) Put(ctx context.Context, n StoredNote) error {
	start := time.Now()
	err := i.s.Put(ctx, n)
	i.observe("put", start, err)
	return err
}

func (i *instrumented) Get(ctx context.Context, id string) (StoredNote, error) {
	start := time.Now()
	n, err := i.s.Get(ctx, id)
	i.observe("get", start, err)
	return n, err
}

func (i *instrumented) List(ctx context.Context) ([]StoredNote, error) {
	start := time.Now()
	notes, err := i.s.List(ctx)
	i.observe("list", start, err)
	return notes, err
}

func (i *instrumented) ListByRecipe(ctx context.Context, recipeID string) ([]StoredNote, error) {
	start := time.Now()
	notes, err := i.s.ListByRecipe(ctx, recipeID)
	i.observe("list_by_recipe", start, err)
	return notes, err
}

func (i *instrumented) UpdateColumns(ctx context.Context, id string, cols map[string]any) error {
	start := time.Now()
	err := i.s.UpdateColumns(ctx, id, cols)
	i.observe("update", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := i.s.Delete(ctx, id)
	i.observe("delete", start, err)
	return err
}

func (i *instrumented) Close() error { return i.s.Close() }
