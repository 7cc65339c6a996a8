// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldNoteID    = "note_id"
	FieldRecipeID  = "recipe_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOperation = "op"

	// Record fields
	FieldField   = "field"
	FieldFormula = "formula"
	FieldValue   = "value"
	FieldChanges = "changes"

	// Storage fields
	FieldBackend = "backend"
	FieldPath    = "path"
)
