// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys used on brewlog spans.
const (
	NoteIDKey      = "brewnote.id"
	RecipeIDKey    = "brewnote.recipe_id"
	FieldKey       = "brewnote.field"
	ChangesKey     = "brewnote.changes"
	BackendKey     = "store.backend"
	ConcurrencyKey = "batch.concurrency"
	ErrorKey       = "error"
)

// NoteAttributes returns the identifying attributes of a note, skipping
// empty ids.
func NoteAttributes(noteID, recipeID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if noteID != "" {
		attrs = append(attrs, attribute.String(NoteIDKey, noteID))
	}
	if recipeID != "" {
		attrs = append(attrs, attribute.String(RecipeIDKey, recipeID))
	}
	return attrs
}

// MutationAttributes describes a field mutation and the size of its cascade.
func MutationAttributes(field string, changes int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(FieldKey, field),
		attribute.Int(ChangesKey, changes),
	}
}
