// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/model"
	xglog "github.com/ManuGH/brewlog/internal/log"
	"github.com/ManuGH/brewlog/internal/metrics"
	"github.com/ManuGH/brewlog/internal/telemetry"
)

// BatchOptions tunes RecalculateAll.
type BatchOptions struct {
	// Concurrency bounds parallel notes; values below 1 mean 1.
	Concurrency int
	// NotesPerSecond throttles store writes; 0 means unlimited.
	NotesPerSecond float64
	// DryRun computes the changes without writing them.
	DryRun bool
}

// BatchResult summarises a RecalculateAll run. Changes holds the change
// lists of the notes whose stored values moved.
type BatchResult struct {
	Notes   int
	Changed int
	Changes map[string][]model.Change
}

// RecalculateAll runs RecalculateEff for every note of rec. The first
// failure cancels the remaining notes.
func (m *Manager) RecalculateAll(ctx context.Context, rec *model.Recipe, opts BatchOptions) (res BatchResult, err error) {
	if rec == nil {
		return res, ErrRecipeUnknown
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	ctx, span := m.startSpan(ctx, "brewnote.recalculate_all",
		append(telemetry.NoteAttributes("", rec.ID), attribute.Int(telemetry.ConcurrencyKey, opts.Concurrency))...)
	defer func() { endSpan(span, err) }()

	notes, err := m.store.ListByRecipe(ctx, rec.ID)
	if err != nil {
		return res, fmt.Errorf("list notes of recipe %s: %w", rec.ID, err)
	}
	m.recipes.Put(ctx, rec)

	var limiter *rate.Limiter
	if opts.NotesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.NotesPerSecond), 1)
	}

	var mu sync.Mutex
	res.Changes = make(map[string][]model.Change, len(notes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, sn := range notes {
		id := sn.ID
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}
			changes, changed, err := m.recalculate(gctx, id, rec, opts.DryRun)
			if !opts.DryRun {
				metrics.IncRecalculation(err)
			}
			if err != nil {
				return fmt.Errorf("note %s: %w", id, err)
			}
			mu.Lock()
			res.Notes++
			if changed {
				res.Changed++
				res.Changes[id] = changes
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	m.logger.Info().
		Str(xglog.FieldEvent, "brewnote.batch_recalculated").
		Str(xglog.FieldRecipeID, rec.ID).
		Int("notes", res.Notes).
		Int("changed", res.Changed).
		Bool("dry_run", opts.DryRun).
		Msg("efficiency recalculation finished")
	return res, nil
}
