// Copyright (c) 2025 ManuGH

package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/brewlog/internal/domain/brewnote/note"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/store"
	"github.com/ManuGH/brewlog/internal/units"
)

func TestRecalculateAll(t *testing.T) {
	ctx := context.Background()
	m, s := newManager(t)

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		r, err := m.Create(ctx, recipe())
		require.NoError(t, err)
		ids = append(ids, r.ID())
	}
	other := recipe()
	other.ID = "stout"
	stout, err := m.Create(ctx, other)
	require.NoError(t, err)

	updated := recipe()
	updated.Points.SugarKg = 5.2

	dry, err := m.RecalculateAll(ctx, updated, BatchOptions{Concurrency: 2, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 5, dry.Notes)
	assert.Equal(t, 5, dry.Changed)
	sn, err := s.Get(ctx, ids[0])
	require.NoError(t, err)
	before, err := note.Load(sn.ID, sn.RecipeID, sn.Row)
	require.NoError(t, err)
	assert.InDelta(t, units.ExtractToPoints(4.5, 25), before.ProjPoints(), 1e-12, "dry run writes nothing")

	res, err := m.RecalculateAll(ctx, updated, BatchOptions{Concurrency: 3, NotesPerSecond: 1000})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Notes)
	assert.Equal(t, 5, res.Changed)
	assert.Len(t, res.Changes, 5)

	for _, id := range ids {
		got, err := m.Get(ctx, id)
		require.NoError(t, err)
		assert.InDelta(t, units.ExtractToPoints(5.2, 25), got.ProjPoints(), 1e-12)
	}
	untouched, err := m.Get(ctx, stout.ID())
	require.NoError(t, err)
	assert.InDelta(t, units.ExtractToPoints(4.5, 25), untouched.ProjPoints(), 1e-12)

	again, err := m.RecalculateAll(ctx, updated, BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 5, again.Notes)
	assert.Zero(t, again.Changed, "recalculation is idempotent")
}

func TestRecalculateAll_StopsOnFailure(t *testing.T) {
	ctx := context.Background()
	fs := failingStore{store.NewMemoryStore()}
	m := New(fs)
	_, err := m.Create(ctx, recipe())
	require.NoError(t, err)

	_, err = m.RecalculateAll(ctx, recipe(), BatchOptions{Concurrency: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, err = m.RecalculateAll(ctx, nil, BatchOptions{})
	assert.ErrorIs(t, err, ErrRecipeUnknown)
}
