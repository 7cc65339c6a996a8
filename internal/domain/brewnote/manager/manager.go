// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package manager is the service layer over brew notes: it loads records
// from a store, applies mutations and flushes the resulting changes back.
package manager

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/ManuGH/brewlog/internal/cache"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/note"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/store"
	xglog "github.com/ManuGH/brewlog/internal/log"
	"github.com/ManuGH/brewlog/internal/metrics"
	"github.com/ManuGH/brewlog/internal/telemetry"
)

var (
	// ErrUnknownField is returned by Set for a property that names no field.
	ErrUnknownField = errors.New("unknown brew note field")
	// ErrInvalidValue is returned by Set when the value does not parse.
	ErrInvalidValue = errors.New("invalid field value")
	// ErrRecipeUnknown is returned when no recipe snapshot is given or cached.
	ErrRecipeUnknown = errors.New("recipe snapshot not available")
	// ErrNotFound aliases store.ErrNotFound.
	ErrNotFound = store.ErrNotFound
)

// Manager coordinates notes, their store and the recipe snapshot cache.
type Manager struct {
	store   store.NoteStore
	recipes *cache.Recipes
	logger  zerolog.Logger
	tracer  trace.Tracer
	now     func() time.Time

	sfg   singleflight.Group
	locks sync.Map // note id -> *sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecipes sets the recipe snapshot cache.
func WithRecipes(r *cache.Recipes) Option {
	return func(m *Manager) {
		if r != nil {
			m.recipes = r
		}
	}
}

// WithClock replaces time.Now for brew dates of new notes.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New returns a Manager over s.
func New(s store.NoteStore, opts ...Option) *Manager {
	if s == nil {
		panic("invariant violation: store is nil in manager.New")
	}
	m := &Manager{
		store:   s,
		recipes: cache.NewRecipes(nil, 0),
		logger:  xglog.WithComponent("brewnote"),
		tracer:  telemetry.Tracer(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) lock(id string) func() {
	mu, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	l := mu.(*sync.Mutex)
	l.Lock()
	return l.Unlock
}

func (m *Manager) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create seeds a new note from rec, stamps today's brew date and stores it.
func (m *Manager) Create(ctx context.Context, rec *model.Recipe) (r *note.Record, err error) {
	if rec == nil {
		return nil, ErrRecipeUnknown
	}
	id := uuid.NewString()
	ctx, span := m.startSpan(ctx, "brewnote.create", telemetry.NoteAttributes(id, rec.ID)...)
	defer func() { endSpan(span, err) }()

	r = note.New(id, rec.ID, note.WithObserver(metrics.FormulaObserver{}))
	changes := r.Populate(rec)
	r.SetBrewDate(m.now().UTC().Truncate(time.Second), false)

	if err := m.store.Put(ctx, store.StoredNote{ID: id, RecipeID: rec.ID, Row: r.Row()}); err != nil {
		return nil, fmt.Errorf("store note %s: %w", id, err)
	}
	m.recipes.Put(ctx, rec)

	xglog.WithContext(xglog.ContextWithNoteID(ctx, id), m.logger).Info().
		Str(xglog.FieldEvent, "brewnote.created").
		Str(xglog.FieldRecipeID, rec.ID).
		Int(xglog.FieldChanges, len(changes)).
		Msg("brew note created")
	return r, nil
}

// Get loads note id. Concurrent loads of the same id share one store read,
// which outlives the cancellation of whichever caller started it.
func (m *Manager) Get(ctx context.Context, id string) (*note.Record, error) {
	ctx, span := m.startSpan(ctx, "brewnote.get", telemetry.NoteAttributes(id, "")...)
	defer span.End()

	shared := context.WithoutCancel(ctx)
	v, err, _ := m.sfg.Do(id, func() (any, error) {
		sn, err := m.store.Get(shared, id)
		if err != nil {
			return nil, err
		}
		return sn, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	// each caller gets its own record; the shared result is the row
	sn := v.(store.StoredNote)
	return note.Load(sn.ID, sn.RecipeID, sn.Row, note.WithObserver(metrics.FormulaObserver{}))
}

// load reads note id directly. Mutations use it instead of the shared read
// in Get so they never start from a row fetched before the previous
// mutation was flushed.
func (m *Manager) load(ctx context.Context, id string) (*note.Record, error) {
	sn, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return note.Load(sn.ID, sn.RecipeID, sn.Row, note.WithObserver(metrics.FormulaObserver{}))
}

// List returns every note, oldest brew first.
func (m *Manager) List(ctx context.Context) ([]*note.Record, error) {
	stored, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return loadSorted(stored)
}

// ListByRecipe returns the notes of one recipe, oldest brew first.
func (m *Manager) ListByRecipe(ctx context.Context, recipeID string) ([]*note.Record, error) {
	stored, err := m.store.ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list notes of recipe %s: %w", recipeID, err)
	}
	return loadSorted(stored)
}

func loadSorted(stored []store.StoredNote) ([]*note.Record, error) {
	byID := make(map[string]*note.Record, len(stored))
	snaps := make([]*model.BrewNote, 0, len(stored))
	for _, sn := range stored {
		r, err := note.Load(sn.ID, sn.RecipeID, sn.Row)
		if err != nil {
			return nil, err
		}
		byID[sn.ID] = r
		snap := r.Snapshot()
		snaps = append(snaps, &snap)
	}
	model.ByBrewDate(snaps)
	out := make([]*note.Record, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, byID[s.ID])
	}
	return out, nil
}

// ResolveField maps a property name, storage column or XML tag to a field.
func ResolveField(name string) (model.Field, error) {
	if f, ok := model.FieldByProperty(name); ok {
		return f, nil
	}
	if f, ok := model.FieldByColumn(name); ok {
		return f, nil
	}
	if f, ok := model.FieldByTag(name); ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Set applies value to one field of note id, runs the cascade and flushes
// every stored change. Projected points are taken as extract mass in kg.
func (m *Manager) Set(ctx context.Context, id, property string, value any) (changes []model.Change, err error) {
	f, err := ResolveField(property)
	if err != nil {
		return nil, err
	}
	v, err := note.ParseValue(f, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, property, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s: empty value", ErrInvalidValue, property)
	}
	if s, ok := v.(string); ok {
		v = norm.NFC.String(s)
	}

	ctx, span := m.startSpan(ctx, "brewnote.set", telemetry.NoteAttributes(id, "")...)
	defer func() {
		span.SetAttributes(telemetry.MutationAttributes(f.String(), len(changes))...)
		endSpan(span, err)
	}()

	unlock := m.lock(id)
	defer unlock()

	r, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sink := store.NewColumnSink(m.store, id)
	r.SetSink(sink)

	changes, err = r.Apply(f, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, property, err)
	}
	if err := m.flush(ctx, sink); err != nil {
		return nil, err
	}
	metrics.RecordMutation(f.String(), len(changes))

	xglog.WithContext(xglog.ContextWithNoteID(ctx, id), m.logger).Debug().
		Str(xglog.FieldEvent, "brewnote.set").
		Str(xglog.FieldField, f.String()).
		Int(xglog.FieldChanges, len(changes)).
		Msg("field updated")
	return changes, nil
}

func (m *Manager) flush(ctx context.Context, sink *store.ColumnSink) error {
	err := sink.Flush(ctx)
	metrics.IncSinkWrite(err)
	if err != nil {
		return fmt.Errorf("persist changes: %w", err)
	}
	return nil
}

// recipeFor returns rec, or the cached snapshot of recipeID when rec is nil.
func (m *Manager) recipeFor(ctx context.Context, rec *model.Recipe, recipeID string) (*model.Recipe, error) {
	if rec != nil {
		m.recipes.Put(ctx, rec)
		return rec, nil
	}
	cached, ok := m.recipes.Get(ctx, recipeID)
	metrics.IncRecipeCache(ok)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeUnknown, recipeID)
	}
	return cached, nil
}

// RecalculateEff recomputes the projected points of note id from rec (or
// the cached snapshot of its recipe when rec is nil) and re-runs both
// efficiency formulas.
func (m *Manager) RecalculateEff(ctx context.Context, id string, rec *model.Recipe) (changes []model.Change, err error) {
	ctx, span := m.startSpan(ctx, "brewnote.recalculate_eff", telemetry.NoteAttributes(id, "")...)
	defer func() {
		metrics.IncRecalculation(err)
		endSpan(span, err)
	}()
	changes, _, err = m.recalculate(ctx, id, rec, false)
	return changes, err
}

// recalculate reports whether any stored value differs afterwards.
func (m *Manager) recalculate(ctx context.Context, id string, rec *model.Recipe, dryRun bool) ([]model.Change, bool, error) {
	unlock := m.lock(id)
	defer unlock()

	r, err := m.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	rec, err = m.recipeFor(ctx, rec, r.RecipeID())
	if err != nil {
		return nil, false, err
	}
	before := r.Snapshot()
	sink := store.NewColumnSink(m.store, id)
	r.SetSink(sink)
	changes := r.RecalculateEff(rec)
	changed := differs(before, r.Snapshot(), changes)
	if dryRun {
		return changes, changed, nil
	}
	if err := m.flush(ctx, sink); err != nil {
		return nil, false, err
	}
	return changes, changed, nil
}

// differs compares the changed fields; NaN equals NaN here.
func differs(before, after model.BrewNote, changes []model.Change) bool {
	for _, c := range changes {
		a, b := before.Num(c.Field), after.Num(c.Field)
		if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
			return true
		}
	}
	return false
}

// Delete removes note id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	ctx, span := m.startSpan(ctx, "brewnote.delete", telemetry.NoteAttributes(id, "")...)
	unlock := m.lock(id)
	err := m.store.Delete(ctx, id)
	unlock()
	m.locks.Delete(id)
	endSpan(span, err)
	if err != nil {
		return err
	}
	xglog.WithContext(xglog.ContextWithNoteID(ctx, id), m.logger).Info().
		Str(xglog.FieldEvent, "brewnote.deleted").
		Msg("brew note deleted")
	return nil
}
