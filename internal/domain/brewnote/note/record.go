// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package note implements the brew session record: field storage, the
// recalculation cascade and population from a recipe snapshot.
//
// A Record has two mutation paths. ApplyRaw stores a value and nothing else;
// it is what reconstruction from storage uses. Apply stores a value and then
// evaluates the formulas the field triggers, in the static order given by the
// calc graph. Both return the stored (field, value) pairs. The typed setters
// (SetSg, SetOg, ...) pick one of the two paths depending on SetLoading.
package note

import (
	"fmt"
	"sync"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/calc"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
	"github.com/ManuGH/brewlog/internal/units"
)

// Sink receives every persisted change. Failures are the sink's concern.
type Sink interface {
	Persist(property, column string, value any)
}

// Observer is told about every formula evaluation. stored is false when a
// guard rejected the inputs.
type Observer interface {
	Recomputed(formula string, value float64, stored bool)
}

type nopSink struct{}

func (nopSink) Persist(string, string, any) {}

type nopObserver struct{}

func (nopObserver) Recomputed(string, float64, bool) {}

// Option configures a Record.
type Option func(*Record)

// WithSink routes persisted changes to s.
func WithSink(s Sink) Option {
	return func(r *Record) {
		if s != nil {
			r.sink = s
		}
	}
}

// WithGraph replaces calc.Default.
func WithGraph(g *calc.Graph) Option {
	return func(r *Record) {
		if g != nil {
			r.graph = g
		}
	}
}

// WithObserver reports formula evaluations to o.
func WithObserver(o Observer) Option {
	return func(r *Record) {
		if o != nil {
			r.observer = o
		}
	}
}

// Record is one brew session. All methods are safe for concurrent use; an
// external mutation and its full cascade run under one lock.
type Record struct {
	mu       sync.Mutex
	n        model.BrewNote
	loading  bool
	graph    *calc.Graph
	sink     Sink
	observer Observer
}

// New returns an empty record.
func New(id, recipeID string, opts ...Option) *Record {
	r := &Record{
		n:        model.BrewNote{ID: id, RecipeID: recipeID},
		graph:    calc.Default,
		sink:     nopSink{},
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetSink replaces the persistence sink. A nil sink discards changes.
func (r *Record) SetSink(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil {
		s = nopSink{}
	}
	r.sink = s
}

// ID returns the note id.
func (r *Record) ID() string { return r.n.ID }

// RecipeID returns the id of the recipe the note belongs to.
func (r *Record) RecipeID() string { return r.n.RecipeID }

// SetLoading switches the typed setters between the raw path (true) and the
// recomputing path (false). While loading nothing reaches the sink, whatever
// cacheOnly says.
func (r *Record) SetLoading(loading bool) {
	r.mu.Lock()
	r.loading = loading
	r.mu.Unlock()
}

// Loading reports the current mode.
func (r *Record) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Snapshot returns a copy of the stored fields.
func (r *Record) Snapshot() model.BrewNote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Value returns the current value of f.
func (r *Record) Value(f model.Field) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n.Value(f)
}

// Row returns every field keyed by storage column.
func (r *Record) Row() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := make(map[string]any, len(model.Fields))
	for _, spec := range model.Fields {
		row[spec.Column] = r.n.Value(spec.Field)
	}
	return row
}

// ApplyRaw stores v in f without conversion, cascade or persistence.
func (r *Record) ApplyRaw(f model.Field, v any) (model.Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.n.SetValue(f, v); err != nil {
		return model.Change{}, err
	}
	return model.Change{Field: f, Value: v}, nil
}

// Apply stores v in f, persists it and runs the cascade of f. Projected
// points are given as extract mass in kg and converted before storing.
func (r *Record) Apply(f model.Field, v any) ([]model.Change, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("unknown field %d", int(f))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apply(f, v, false)
}

// set is the shared body of the typed setters.
func (r *Record) set(f model.Field, v any, cacheOnly bool) []model.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	changes, _ := r.setLocked(f, v, cacheOnly)
	return changes
}

func (r *Record) setLocked(f model.Field, v any, cacheOnly bool) ([]model.Change, error) {
	if r.loading {
		if err := r.n.SetValue(f, v); err != nil {
			return nil, err
		}
		return []model.Change{{Field: f, Value: v}}, nil
	}
	return r.apply(f, v, cacheOnly)
}

func (r *Record) apply(f model.Field, v any, cacheOnly bool) ([]model.Change, error) {
	if x, ok := v.(float64); ok {
		switch f {
		case model.FieldProjPoints:
			v = units.ExtractToPoints(x, r.n.ProjVolIntoBK)
		case model.FieldProjFermPoints:
			v = units.ExtractToPoints(x, r.n.ProjVolIntoFerm)
		}
	}
	if err := r.n.SetValue(f, v); err != nil {
		return nil, err
	}
	if !cacheOnly {
		r.persist(f, v)
	}
	changes := []model.Change{{Field: f, Value: v}}
	for _, fm := range r.graph.Plan(f) {
		if c, ok := r.recompute(fm); ok {
			changes = append(changes, c)
		}
	}
	return changes, nil
}

// recompute evaluates one formula and stores its result. Derived values are
// always persisted.
func (r *Record) recompute(fm calc.Formula) (model.Change, bool) {
	v, ok := fm.Compute(&r.n)
	r.observer.Recomputed(fm.Name, v, ok)
	if !ok {
		return model.Change{}, false
	}
	r.n.SetNum(fm.Target, v)
	r.persist(fm.Target, v)
	return model.Change{Field: fm.Target, Value: v}, true
}

func (r *Record) persist(f model.Field, v any) {
	spec := f.Spec()
	r.sink.Persist(spec.Property, spec.Column, v)
}
