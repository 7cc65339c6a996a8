// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"sync"
)

// ColumnSink collects the persisted changes of one note and writes them in
// a single UpdateColumns call on Flush. It satisfies note.Sink.
type ColumnSink struct {
	store NoteStore
	id    string

	mu      sync.Mutex
	pending map[string]any
}

func NewColumnSink(s NoteStore, id string) *ColumnSink {
	return &ColumnSink{store: s, id: id, pending: make(map[string]any)}
}

// Persist records the latest value of column.
func (c *ColumnSink) Persist(_, column string, value any) {
	c.mu.Lock()
	c.pending[column] = value
	c.mu.Unlock()
}

// Pending returns how many columns wait to be flushed.
func (c *ColumnSink) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush writes the pending columns. On error they stay pending so a later
// Flush can retry.
func (c *ColumnSink) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil
	}
	if err := c.store.UpdateColumns(ctx, c.id, c.pending); err != nil {
		return err
	}
	c.pending = make(map[string]any)
	return nil
}
